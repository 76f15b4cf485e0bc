package chip8

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestFramebufferRGBA(t *testing.T) {
	m := newTestMachine(t)
	m.Display[0] = true
	m.Display[DisplayWidth+1] = true

	pixels := m.FramebufferRGBA()

	if len(pixels) != DisplayWidth*DisplayHeight*4 {
		t.Fatalf("length: expected %d, got %d", DisplayWidth*DisplayHeight*4, len(pixels))
	}

	// Lit pixels decode to opaque white.
	for _, idx := range []int{0, DisplayWidth + 1} {
		base := idx * 4
		if pixels[base] != 0xFF || pixels[base+1] != 0xFF || pixels[base+2] != 0xFF || pixels[base+3] != 0xFF {
			t.Errorf("pixel %d: expected RGBA(0xFF,0xFF,0xFF,0xFF), got (%d,%d,%d,%d)",
				idx, pixels[base], pixels[base+1], pixels[base+2], pixels[base+3])
		}
	}

	// Unlit pixels decode to opaque black.
	if pixels[4] != 0 || pixels[5] != 0 || pixels[6] != 0 || pixels[7] != 0xFF {
		t.Errorf("pixel 1: expected RGBA(0,0,0,0xFF), got (%d,%d,%d,%d)",
			pixels[4], pixels[5], pixels[6], pixels[7])
	}
}

func TestDisplayImage(t *testing.T) {
	m := newTestMachine(t)
	img := m.DisplayImage()

	if img.Rect.Dx() != DisplayWidth || img.Rect.Dy() != DisplayHeight {
		t.Errorf("image size: expected %dx%d, got %dx%d",
			DisplayWidth, DisplayHeight, img.Rect.Dx(), img.Rect.Dy())
	}
	if img.Stride != DisplayWidth*4 {
		t.Errorf("image stride: expected %d, got %d", DisplayWidth*4, img.Stride)
	}
}

func TestSaveScreenshot(t *testing.T) {
	m := newTestMachine(t)
	m.Display[5] = true

	path := filepath.Join(t.TempDir(), "display.png")
	if err := m.SaveScreenshot(path); err != nil {
		t.Fatalf("SaveScreenshot: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open screenshot: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode screenshot: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != DisplayWidth || bounds.Dy() != DisplayHeight {
		t.Errorf("screenshot size: expected %dx%d, got %dx%d",
			DisplayWidth, DisplayHeight, bounds.Dx(), bounds.Dy())
	}
}
