package imaging

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/face-anon/internal/detection"
)

const (
	overlayRectThickness    = 3
	overlayEllipseThickness = 2
)

// DrawOverlay returns a copy of img with each region's bounding box and
// ellipse target outlined, one color per region. It is an inspection
// artifact only; nothing downstream reads it.
func DrawOverlay(img image.Image, regions []detection.Region, fx, fy float64) *image.NRGBA {
	out := imaging.Clone(img)
	palette := regionPalette(len(regions))

	for i, r := range regions {
		drawRectOutline(out, r.Rect(), overlayRectThickness, palette[i])
		drawEllipseOutline(out, r.Ellipse(fx, fy), overlayEllipseThickness, palette[i])
	}
	return out
}

func drawRectOutline(img *image.NRGBA, rect image.Rectangle, thickness int, c color.NRGBA) {
	b := img.Bounds()
	for t := 0; t < thickness; t++ {
		for x := rect.Min.X - t; x < rect.Max.X+t; x++ {
			setIfInside(img, b, x, rect.Min.Y-t, c)
			setIfInside(img, b, x, rect.Max.Y-1+t, c)
		}
		for y := rect.Min.Y - t; y < rect.Max.Y+t; y++ {
			setIfInside(img, b, rect.Min.X-t, y, c)
			setIfInside(img, b, rect.Max.X-1+t, y, c)
		}
	}
}

// drawEllipseOutline marks pixels between an inner and outer ellipse whose
// radii differ by thickness.
func drawEllipseOutline(img *image.NRGBA, e detection.Ellipse, thickness int, c color.NRGBA) {
	half := float64(thickness) / 2
	orx, ory := float64(e.RX)+half, float64(e.RY)+half
	irx, iry := float64(e.RX)-half, float64(e.RY)-half

	b := img.Bounds()
	area := image.Rect(e.CX-e.RX-thickness, e.CY-e.RY-thickness, e.CX+e.RX+thickness+1, e.CY+e.RY+thickness+1).Intersect(b)
	for y := area.Min.Y; y < area.Max.Y; y++ {
		for x := area.Min.X; x < area.Max.X; x++ {
			dx, dy := float64(x-e.CX), float64(y-e.CY)
			outer := (dx*dx)/(orx*orx) + (dy*dy)/(ory*ory)
			if outer > 1 {
				continue
			}
			if irx > 0 && iry > 0 {
				inner := (dx*dx)/(irx*irx) + (dy*dy)/(iry*iry)
				if inner < 1 {
					continue
				}
			}
			img.SetNRGBA(x, y, c)
		}
	}
}

func setIfInside(img *image.NRGBA, b image.Rectangle, x, y int, c color.NRGBA) {
	if image.Pt(x, y).In(b) {
		img.SetNRGBA(x, y, c)
	}
}
