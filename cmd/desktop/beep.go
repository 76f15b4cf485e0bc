package main

import "github.com/hajimehoshi/ebiten/v2/audio"

const (
	sampleRate = 48000
	toneHz     = 440
	amplitude  = 6000
)

// squareWave is an endless 16-bit LE stereo square wave at toneHz. The
// audio player pulls from it while the sound timer is non-zero.
type squareWave struct {
	pos int64
}

func (s *squareWave) Read(buf []byte) (int, error) {
	const halfPeriod = sampleRate / toneHz / 2

	n := len(buf) / 4 * 4
	for i := 0; i < n/4; i++ {
		v := int16(amplitude)
		if (s.pos/halfPeriod)%2 == 1 {
			v = -amplitude
		}
		buf[4*i+0] = byte(v)
		buf[4*i+1] = byte(v >> 8)
		buf[4*i+2] = byte(v)
		buf[4*i+3] = byte(v >> 8)
		s.pos++
	}
	return n, nil
}

type beeper struct {
	player *audio.Player
}

func newBeeper() (*beeper, error) {
	ctx := audio.NewContext(sampleRate)
	player, err := ctx.NewPlayer(&squareWave{})
	if err != nil {
		return nil, err
	}
	return &beeper{player: player}, nil
}

// SetPlaying starts or stops the tone. Pausing rather than closing keeps
// the stream position, so the tone resumes without a click.
func (b *beeper) SetPlaying(on bool) {
	switch {
	case on && !b.player.IsPlaying():
		b.player.Play()
	case !on && b.player.IsPlaying():
		b.player.Pause()
	}
}
