package main

import (
	"flag"
	"image/color"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"github.com/aaj2005/chip8-emulator/pkg/chip8"
)

// keyMap maps each CHIP-8 keypad key 0x0-0xF to its physical key. The
// hexadecimal keypad layout
//
//	1 2 3 C
//	4 5 6 D
//	7 8 9 E
//	A 0 B F
//
// sits on the 1234/QWER/ASDF/ZXCV block.
var keyMap = [chip8.NumKeys]ebiten.Key{
	0x0: ebiten.KeyX,
	0x1: ebiten.Key1,
	0x2: ebiten.Key2,
	0x3: ebiten.Key3,
	0x4: ebiten.KeyQ,
	0x5: ebiten.KeyW,
	0x6: ebiten.KeyE,
	0x7: ebiten.KeyA,
	0x8: ebiten.KeyS,
	0x9: ebiten.KeyD,
	0xA: ebiten.KeyZ,
	0xB: ebiten.KeyC,
	0xC: ebiten.Key4,
	0xD: ebiten.KeyR,
	0xE: ebiten.KeyF,
	0xF: ebiten.KeyV,
}

type Game struct {
	vm            *chip8.Machine
	displayImg    *ebiten.Image // reused 64×32 canvas
	beep          *beeper
	scale         int
	stepsPerFrame int
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.vm.TogglePause()
	}

	for i, key := range keyMap {
		g.vm.Keypad[i] = ebiten.IsKeyPressed(key)
	}

	// Run one frame's worth of instructions at the configured clock rate.
	for i := 0; i < g.stepsPerFrame; i++ {
		if g.vm.State != chip8.Running {
			break
		}
		if err := g.vm.Step(); err != nil {
			// The machine is halted; keep the window open so the last
			// frame stays visible.
			log.Printf("execution stopped: %v", err)
			break
		}
	}

	// Timers run at 60 Hz regardless of the instruction clock.
	if g.vm.State == chip8.Running {
		g.vm.TickTimers()
	}

	if g.beep != nil {
		g.beep.SetPlaying(g.vm.SoundTimer > 0)
	}

	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	if g.displayImg == nil {
		g.displayImg = ebiten.NewImage(chip8.DisplayWidth, chip8.DisplayHeight)
	}

	g.displayImg.WritePixels(g.vm.FramebufferRGBA())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(g.scale), float64(g.scale))
	screen.DrawImage(g.displayImg, op)

	if g.vm.State == chip8.Paused {
		text.Draw(screen, "PAUSED", basicfont.Face7x13, 8, 16, color.White)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return chip8.DisplayWidth * g.scale, chip8.DisplayHeight * g.scale
}

func main() {
	scale := flag.Int("scale", 20, "window scale factor per CHIP-8 pixel")
	clock := flag.Int("clock", 700, "instructions per second")
	mute := flag.Bool("mute", false, "disable the beeper")
	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("usage: desktop [flags] <rom>")
	}

	image, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("Failed to read ROM file: %v", err)
	}

	vm, err := chip8.NewMachine(image)
	if err != nil {
		log.Fatalf("Failed to initialize machine: %v", err)
	}

	game := &Game{
		vm:            vm,
		scale:         *scale,
		stepsPerFrame: *clock / 60,
	}
	if game.stepsPerFrame < 1 {
		game.stepsPerFrame = 1
	}

	if !*mute {
		beep, err := newBeeper()
		if err != nil {
			log.Printf("audio unavailable: %v", err)
		} else {
			game.beep = beep
		}
	}

	ebiten.SetWindowSize(chip8.DisplayWidth*(*scale), chip8.DisplayHeight*(*scale))
	ebiten.SetWindowTitle("CHIP-8")
	ebiten.SetTPS(60)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
