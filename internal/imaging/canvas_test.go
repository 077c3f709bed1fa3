package imaging

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/face-anon/internal/detection"
	"github.com/ironsheep/face-anon/internal/faults"
)

func TestNewFitTransform(t *testing.T) {
	tests := []struct {
		name       string
		w, h, size int
		wantScaled Size
		wantOffset Offset
	}{
		{"landscape", 300, 200, 1024, Size{1024, 683}, Offset{0, 170}},
		{"portrait", 200, 300, 1024, Size{683, 1024}, Offset{170, 0}},
		{"square", 500, 500, 1024, Size{1024, 1024}, Offset{0, 0}},
		{"already canvas sized", 1024, 1024, 1024, Size{1024, 1024}, Offset{0, 0}},
		{"small canvas", 40, 20, 10, Size{10, 5}, Offset{0, 2}},
		{"extreme aspect", 5000, 1, 1024, Size{1024, 1}, Offset{0, 511}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ft, err := NewFitTransform(tt.w, tt.h, tt.size)
			if err != nil {
				t.Fatalf("NewFitTransform failed: %v", err)
			}
			if ft.ScaledSize != tt.wantScaled {
				t.Errorf("scaled = %+v, want %+v", ft.ScaledSize, tt.wantScaled)
			}
			if ft.Offset != tt.wantOffset {
				t.Errorf("offset = %+v, want %+v", ft.Offset, tt.wantOffset)
			}
			if ft.OriginalSize != (Size{tt.w, tt.h}) {
				t.Errorf("original = %+v", ft.OriginalSize)
			}
			if err := ft.Validate(); err != nil {
				t.Errorf("Validate failed: %v", err)
			}
		})
	}
}

func TestNewFitTransform_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		w, h, size int
	}{
		{"zero width", 0, 10, 1024},
		{"negative height", 10, -1, 1024},
		{"zero canvas", 10, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFitTransform(tt.w, tt.h, tt.size)
			if !errors.Is(err, faults.ErrInvalidImage) {
				t.Errorf("expected ErrInvalidImage, got %v", err)
			}
		})
	}
}

func TestFitTransform_Validate(t *testing.T) {
	good, err := NewFitTransform(300, 200, 1024)
	if err != nil {
		t.Fatal(err)
	}

	overflow := good
	overflow.Offset.Y = 400
	if err := overflow.Validate(); !errors.Is(err, faults.ErrGeometryMismatch) {
		t.Errorf("overflowing placement: expected ErrGeometryMismatch, got %v", err)
	}

	skewed := good
	skewed.ScaledSize.H = 600
	if err := skewed.Validate(); !errors.Is(err, faults.ErrGeometryMismatch) {
		t.Errorf("distorted aspect: expected ErrGeometryMismatch, got %v", err)
	}
}

func TestFit(t *testing.T) {
	red := color.NRGBA{255, 0, 0, 255}
	img := createInMemoryImage(300, 200, red)

	canvas, ft, err := Fit(img, 1024, color.White)
	if err != nil {
		t.Fatalf("Fit failed: %v", err)
	}
	if b := canvas.Bounds(); b.Dx() != 1024 || b.Dy() != 1024 {
		t.Fatalf("canvas is %dx%d", b.Dx(), b.Dy())
	}

	// Padding above and below keeps the background color.
	if c := canvas.NRGBAAt(512, 10); c != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("top padding = %v, want white", c)
	}
	if c := canvas.NRGBAAt(512, 1015); c != (color.NRGBA{255, 255, 255, 255}) {
		t.Errorf("bottom padding = %v, want white", c)
	}
	// The middle of the placement is the source color.
	p := ft.Placement()
	mid := image.Pt((p.Min.X+p.Max.X)/2, (p.Min.Y+p.Max.Y)/2)
	if c := canvas.NRGBAAt(mid.X, mid.Y); !closeTo(c, red, 2) {
		t.Errorf("placement center = %v, want %v", c, red)
	}
}

func TestFit_TransparentSourceIsOpaque(t *testing.T) {
	img := createInMemoryImage(50, 50, color.NRGBA{0, 0, 0, 0})
	canvas, _, err := Fit(img, 64, color.NRGBA{10, 20, 30, 255})
	if err != nil {
		t.Fatal(err)
	}
	if c := canvas.NRGBAAt(32, 32); c.A != 255 {
		t.Errorf("canvas alpha = %d, want 255", c.A)
	}
}

func TestFit_NilImage(t *testing.T) {
	if _, _, err := Fit(nil, 1024, color.White); !errors.Is(err, faults.ErrInvalidImage) {
		t.Errorf("expected ErrInvalidImage, got %v", err)
	}
}

func TestComposeMask_PaddingPreserved(t *testing.T) {
	ft, err := NewFitTransform(300, 200, 1024)
	if err != nil {
		t.Fatal(err)
	}
	mask := BuildMask(nil, 300, 200, 0.6, 0.7)
	fitted, err := ft.ComposeMask(mask)
	if err != nil {
		t.Fatalf("ComposeMask failed: %v", err)
	}
	if got := EditableFraction(fitted); got != 0 {
		t.Errorf("mask without regions has editable fraction %v", got)
	}
	if c := fitted.NRGBAAt(0, 0); c != MaskPreserve {
		t.Errorf("padding = %v, want %v", c, MaskPreserve)
	}
}

func TestComposeMask_StaysBinary(t *testing.T) {
	ft, err := NewFitTransform(300, 200, 1024)
	if err != nil {
		t.Fatal(err)
	}
	mask := BuildMask([]detection.Region{{X: 50, Y: 50, W: 50, H: 50}}, 300, 200, 0.6, 0.7)
	fitted, err := ft.ComposeMask(mask)
	if err != nil {
		t.Fatalf("ComposeMask failed: %v", err)
	}

	var editable, partial int
	for i := 3; i < len(fitted.Pix); i += 4 {
		switch fitted.Pix[i] {
		case 0:
			editable++
		case 255:
		default:
			partial++
		}
	}
	if editable == 0 {
		t.Error("fitted mask lost the face target")
	}
	if partial != 0 {
		t.Errorf("fitted mask has %d partially transparent pixels", partial)
	}
}

func TestComposeMask_WrongSize(t *testing.T) {
	ft, err := NewFitTransform(300, 200, 1024)
	if err != nil {
		t.Fatal(err)
	}
	_, err = ft.ComposeMask(BuildMask(nil, 200, 200, 0.6, 0.7))
	if !errors.Is(err, faults.ErrGeometryMismatch) {
		t.Errorf("expected ErrGeometryMismatch, got %v", err)
	}
}

func closeTo(a, b color.NRGBA, tol int) bool {
	d := func(x, y uint8) bool {
		diff := int(x) - int(y)
		return diff <= tol && diff >= -tol
	}
	return d(a.R, b.R) && d(a.G, b.G) && d(a.B, b.B) && d(a.A, b.A)
}
