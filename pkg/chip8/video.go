package chip8

import (
	"image"
	"image/png"
	"os"
)

// FramebufferRGBA decodes the display into a 64×32 RGBA8888 byte slice
// (length 64*32*4), white pixels on black.
func (m *Machine) FramebufferRGBA() []byte {
	pixels := make([]byte, DisplayWidth*DisplayHeight*4)
	for i, on := range m.Display {
		var v byte
		if on {
			v = 0xFF
		}
		pixels[i*4+0] = v
		pixels[i*4+1] = v
		pixels[i*4+2] = v
		pixels[i*4+3] = 0xFF
	}
	return pixels
}

// DisplayImage returns the display as an *image.RGBA.
func (m *Machine) DisplayImage() *image.RGBA {
	return &image.RGBA{
		Pix:    m.FramebufferRGBA(),
		Stride: DisplayWidth * 4,
		Rect:   image.Rect(0, 0, DisplayWidth, DisplayHeight),
	}
}

// SaveScreenshot encodes the current display as a PNG and writes it to
// filename.
func (m *Machine) SaveScreenshot(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, m.DisplayImage())
}
