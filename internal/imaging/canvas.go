package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/face-anon/internal/faults"
)

// DefaultCanvasSize is the side of the square canvas expected by the edit service.
const DefaultCanvasSize = 1024

// Size is a width/height pair in pixels.
type Size struct {
	W int `json:"w" yaml:"w"`
	H int `json:"h" yaml:"h"`
}

// Offset is the top-left position of the scaled image on the canvas.
type Offset struct {
	X int `json:"x" yaml:"x"`
	Y int `json:"y" yaml:"y"`
}

// FitTransform records how an image was embedded in a square canvas so the
// embedding can be inverted after editing.
//
// Invariants (checked by Validate):
//   - Offset.X + ScaledSize.W <= CanvasSize and Offset.Y + ScaledSize.H <= CanvasSize
//   - ScaledSize keeps the OriginalSize aspect ratio to within one pixel
//
// A FitTransform is produced once per run and treated as immutable.
type FitTransform struct {
	OriginalSize Size   `json:"original_size" yaml:"original_size"`
	ScaledSize   Size   `json:"scaled_size" yaml:"scaled_size"`
	Offset       Offset `json:"offset" yaml:"offset"`
	CanvasSize   int    `json:"canvas_size" yaml:"canvas_size"`
}

// NewFitTransform computes the aspect-preserving embedding of a w×h image in
// a size×size canvas.
//
// With aspect = w/h: when aspect > 1 the scaled width is size and the scaled
// height is round(size/aspect); otherwise the scaled height is size and the
// scaled width is round(size*aspect). The scaled image is centered using
// floor division for the offset. For a 300×200 image and size 1024 this
// gives a 1024×683 image at offset (0, 170).
//
// Zero or negative dimensions are a faults.ErrInvalidImage.
func NewFitTransform(w, h, size int) (FitTransform, error) {
	if w <= 0 || h <= 0 {
		return FitTransform{}, faults.Wrap(faults.ErrInvalidImage, "fit", fmt.Sprintf("invalid image dimensions %dx%d", w, h), nil)
	}
	if size <= 0 {
		return FitTransform{}, faults.Wrap(faults.ErrInvalidImage, "fit", fmt.Sprintf("invalid canvas size %d", size), nil)
	}

	aspect := float64(w) / float64(h)
	var sw, sh int
	if aspect > 1 {
		sw = size
		sh = int(math.Round(float64(size) / aspect))
	} else {
		sh = size
		sw = int(math.Round(float64(size) * aspect))
	}
	// Extreme aspect ratios would otherwise round a side to zero.
	sw = max(sw, 1)
	sh = max(sh, 1)

	return FitTransform{
		OriginalSize: Size{W: w, H: h},
		ScaledSize:   Size{W: sw, H: sh},
		Offset:       Offset{X: (size - sw) / 2, Y: (size - sh) / 2},
		CanvasSize:   size,
	}, nil
}

// Validate checks the FitTransform invariants.
func (t FitTransform) Validate() error {
	switch {
	case t.CanvasSize <= 0:
		return faults.Wrap(faults.ErrInvalidImage, "transform", fmt.Sprintf("canvas size %d", t.CanvasSize), nil)
	case t.OriginalSize.W <= 0 || t.OriginalSize.H <= 0:
		return faults.Wrap(faults.ErrInvalidImage, "transform", fmt.Sprintf("original size %dx%d", t.OriginalSize.W, t.OriginalSize.H), nil)
	case t.ScaledSize.W <= 0 || t.ScaledSize.H <= 0:
		return faults.Wrap(faults.ErrInvalidImage, "transform", fmt.Sprintf("scaled size %dx%d", t.ScaledSize.W, t.ScaledSize.H), nil)
	case t.Offset.X < 0 || t.Offset.Y < 0 ||
		t.Offset.X+t.ScaledSize.W > t.CanvasSize ||
		t.Offset.Y+t.ScaledSize.H > t.CanvasSize:
		return faults.Wrap(faults.ErrGeometryMismatch, "transform",
			fmt.Sprintf("scaled %dx%d at (%d,%d) exceeds canvas %d",
				t.ScaledSize.W, t.ScaledSize.H, t.Offset.X, t.Offset.Y, t.CanvasSize), nil)
	}

	// Compare the shorter scaled side against its exact proportional length.
	var exact float64
	var actual int
	if t.ScaledSize.W >= t.ScaledSize.H {
		exact = float64(t.ScaledSize.W) * float64(t.OriginalSize.H) / float64(t.OriginalSize.W)
		actual = t.ScaledSize.H
	} else {
		exact = float64(t.ScaledSize.H) * float64(t.OriginalSize.W) / float64(t.OriginalSize.H)
		actual = t.ScaledSize.W
	}
	if math.Abs(float64(actual)-exact) > 1 {
		return faults.Wrap(faults.ErrGeometryMismatch, "transform",
			fmt.Sprintf("scaled %dx%d does not preserve aspect of %dx%d",
				t.ScaledSize.W, t.ScaledSize.H, t.OriginalSize.W, t.OriginalSize.H), nil)
	}
	return nil
}

// Placement returns the canvas rectangle occupied by the scaled image.
func (t FitTransform) Placement() image.Rectangle {
	return image.Rect(t.Offset.X, t.Offset.Y, t.Offset.X+t.ScaledSize.W, t.Offset.Y+t.ScaledSize.H)
}

// Fit embeds img in an opaque size×size canvas filled with bg, preserving
// aspect ratio, and returns the canvas with the transform that produced it.
// Resampling uses the Lanczos filter.
func Fit(img image.Image, size int, bg color.Color) (*image.NRGBA, FitTransform, error) {
	if img == nil {
		return nil, FitTransform{}, faults.Wrap(faults.ErrInvalidImage, "fit", "nil image", nil)
	}
	b := img.Bounds()
	t, err := NewFitTransform(b.Dx(), b.Dy(), size)
	if err != nil {
		return nil, FitTransform{}, err
	}
	canvas, err := t.Compose(img, bg)
	if err != nil {
		return nil, FitTransform{}, err
	}
	return canvas, t, nil
}

// Compose applies the transform to img: it resizes img to ScaledSize and
// alpha-composites it over an opaque canvas of color bg at Offset. img must
// have the transform's original size.
func (t FitTransform) Compose(img image.Image, bg color.Color) (*image.NRGBA, error) {
	resized, err := t.resize(img, imaging.Lanczos)
	if err != nil {
		return nil, err
	}
	canvas := imaging.New(t.CanvasSize, t.CanvasSize, opaque(bg))
	return imaging.Overlay(canvas, resized, image.Pt(t.Offset.X, t.Offset.Y), 1.0), nil
}

// ComposeMask applies the transform to a mask so it stays aligned with the
// composed image. The mask is scaled with nearest-neighbor sampling so every
// pixel stays either fully opaque or fully transparent. The padding around
// the scaled mask is opaque white, so only the face targets are editable.
func (t FitTransform) ComposeMask(mask image.Image) (*image.NRGBA, error) {
	resized, err := t.resize(mask, imaging.NearestNeighbor)
	if err != nil {
		return nil, err
	}
	canvas := imaging.New(t.CanvasSize, t.CanvasSize, color.NRGBA{255, 255, 255, 255})
	return imaging.Paste(canvas, resized, image.Pt(t.Offset.X, t.Offset.Y)), nil
}

func (t FitTransform) resize(img image.Image, filter imaging.ResampleFilter) (*image.NRGBA, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if img == nil {
		return nil, faults.Wrap(faults.ErrInvalidImage, "fit", "nil image", nil)
	}
	b := img.Bounds()
	if b.Dx() != t.OriginalSize.W || b.Dy() != t.OriginalSize.H {
		return nil, faults.Wrap(faults.ErrGeometryMismatch, "fit",
			fmt.Sprintf("image is %dx%d, transform expects %dx%d",
				b.Dx(), b.Dy(), t.OriginalSize.W, t.OriginalSize.H), nil)
	}
	return imaging.Resize(img, t.ScaledSize.W, t.ScaledSize.H, filter), nil
}

func opaque(c color.Color) color.NRGBA {
	if c == nil {
		return color.NRGBA{255, 255, 255, 255}
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = 255
	return n
}
