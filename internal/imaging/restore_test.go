package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/face-anon/internal/faults"
)

func TestRestore_RoundTripDimensions(t *testing.T) {
	sizes := []struct{ w, h int }{
		{300, 200},
		{200, 300},
		{640, 480},
		{1, 1},
		{1500, 1500},
	}
	for _, s := range sizes {
		img := createInMemoryImage(s.w, s.h, color.NRGBA{40, 80, 120, 255})
		canvas, ft, err := Fit(img, 1024, color.White)
		if err != nil {
			t.Fatalf("%dx%d: Fit failed: %v", s.w, s.h, err)
		}
		out, err := Restore(canvas, ft)
		if err != nil {
			t.Fatalf("%dx%d: Restore failed: %v", s.w, s.h, err)
		}
		if b := out.Bounds(); b.Dx() != s.w || b.Dy() != s.h {
			t.Errorf("%dx%d: restored to %dx%d", s.w, s.h, b.Dx(), b.Dy())
		}
	}
}

func TestRestore_ExcludesPadding(t *testing.T) {
	blue := color.NRGBA{0, 0, 255, 255}
	img := createInMemoryImage(300, 200, blue)
	canvas, ft, err := Fit(img, 1024, color.White)
	if err != nil {
		t.Fatal(err)
	}
	out, err := Restore(canvas, ft)
	if err != nil {
		t.Fatal(err)
	}
	// The row nearest the padding must not pick up the white background.
	for _, p := range []image.Point{{150, 0}, {150, 199}, {150, 100}} {
		c := out.NRGBAAt(p.X, p.Y)
		if c.R > 8 || c.G > 8 || c.B < 247 {
			t.Errorf("pixel %v = %v, want about %v", p, c, blue)
		}
	}
}

func TestRestore_WrongCanvasSize(t *testing.T) {
	ft, err := NewFitTransform(300, 200, 1024)
	if err != nil {
		t.Fatal(err)
	}
	for _, size := range []Size{{512, 512}, {1024, 1536}} {
		_, err := Restore(createInMemoryImage(size.W, size.H, color.White), ft)
		if !errors.Is(err, faults.ErrGeometryMismatch) {
			t.Errorf("%dx%d canvas: expected ErrGeometryMismatch, got %v", size.W, size.H, err)
		}
	}
}

func TestRestore_NonZeroOrigin(t *testing.T) {
	ft, err := NewFitTransform(300, 200, 1024)
	if err != nil {
		t.Fatal(err)
	}
	shifted := image.NewNRGBA(image.Rect(5, 5, 1029, 1029))
	out, err := Restore(shifted, ft)
	if err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 300 || b.Dy() != 200 {
		t.Errorf("restored to %dx%d", b.Dx(), b.Dy())
	}
}
