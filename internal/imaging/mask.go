package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/face-anon/internal/detection"
)

var (
	// MaskPreserve marks pixels the edit service must leave unchanged.
	MaskPreserve = color.NRGBA{255, 255, 255, 255}
	// MaskEditable marks pixels the edit service may repaint.
	MaskEditable = color.NRGBA{0, 0, 0, 0}
)

// BuildMask returns a w×h mask that is opaque white everywhere except inside
// each region's ellipse target, which is fully transparent. The ellipse for
// a region uses radii fx*W and fy*H (see detection.Region.Ellipse).
// Overlapping ellipses stay transparent. With no regions the mask is fully
// opaque.
func BuildMask(regions []detection.Region, w, h int, fx, fy float64) *image.NRGBA {
	mask := imaging.New(max(w, 0), max(h, 0), MaskPreserve)
	bounds := mask.Bounds()

	for _, r := range regions {
		e := r.Ellipse(fx, fy)
		area := e.Bounds().Intersect(bounds)
		for y := area.Min.Y; y < area.Max.Y; y++ {
			for x := area.Min.X; x < area.Max.X; x++ {
				if e.Contains(x, y) {
					mask.SetNRGBA(x, y, MaskEditable)
				}
			}
		}
	}

	return mask
}

// EditableFraction reports the share of mask pixels with zero alpha.
func EditableFraction(mask *image.NRGBA) float64 {
	b := mask.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}
	editable := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if mask.NRGBAAt(x, y).A == 0 {
				editable++
			}
		}
	}
	return float64(editable) / float64(total)
}
