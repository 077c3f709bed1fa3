package imaging

import (
	"image/color"
	"testing"

	"github.com/ironsheep/face-anon/internal/detection"
)

func TestDrawOverlay(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	img := createInMemoryImage(100, 100, white)
	regions := []detection.Region{{X: 20, Y: 20, W: 40, H: 40}}

	out := DrawOverlay(img, regions, 0.6, 0.7)

	if c := out.NRGBAAt(20, 40); c == white {
		t.Error("rectangle edge was not drawn")
	}
	// Ellipse center (40,40) radius 24 horizontally.
	if c := out.NRGBAAt(16, 40); c == white {
		t.Error("ellipse outline was not drawn")
	}
	if c := out.NRGBAAt(40, 40); c != white {
		t.Errorf("region interior changed to %v", c)
	}
	if c := img.NRGBAAt(20, 40); c != white {
		t.Error("DrawOverlay modified its input")
	}
}

func TestDrawOverlay_NoRegions(t *testing.T) {
	img := createInMemoryImage(10, 10, color.Black)
	out := DrawOverlay(img, nil, 0.6, 0.7)
	if b := out.Bounds(); b.Dx() != 10 || b.Dy() != 10 {
		t.Errorf("overlay is %dx%d", b.Dx(), b.Dy())
	}
}

func TestDrawOverlay_RegionAtBorder(t *testing.T) {
	img := createInMemoryImage(30, 30, color.White)
	// Outlines extend past the image edge and must be clipped.
	_ = DrawOverlay(img, []detection.Region{{X: 0, Y: 0, W: 30, H: 30}}, 0.6, 0.7)
}
