package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/face-anon/internal/faults"
)

// Restore inverts a canvas embedding: it crops the scaled image back out of
// an edited canvas and resizes it to the original dimensions with the
// Lanczos filter.
//
// The canvas must be exactly CanvasSize×CanvasSize. Any other size means the
// edit service changed the geometry, which is reported as
// faults.ErrGeometryMismatch rather than silently rescaled.
//
// For the 300×200 example (scaled 1024×683 at offset (0,170)) Restore crops
// the canvas rectangle (0,170)-(1024,853) and resizes it to 300×200.
func Restore(canvas image.Image, t FitTransform) (*image.NRGBA, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if canvas == nil {
		return nil, faults.Wrap(faults.ErrInvalidImage, "restore", "nil canvas", nil)
	}

	b := canvas.Bounds()
	if b.Dx() != t.CanvasSize || b.Dy() != t.CanvasSize {
		return nil, faults.Wrap(faults.ErrGeometryMismatch, "restore",
			fmt.Sprintf("edited canvas is %dx%d, expected %dx%d",
				b.Dx(), b.Dy(), t.CanvasSize, t.CanvasSize), nil)
	}

	crop := imaging.Crop(canvas, t.Placement().Add(b.Min))
	return imaging.Resize(crop, t.OriginalSize.W, t.OriginalSize.H, imaging.Lanczos), nil
}
