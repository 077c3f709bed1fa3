package detection

import (
	"fmt"
	"image"
)

// Region is an axis-aligned candidate face rectangle in pixel units with the
// origin at the top-left corner of the source image.
//
// A valid Region has W > 0, H > 0, X >= 0 and Y >= 0. Regions are values;
// the merger builds new slices and never edits its input.
type Region struct {
	X int `json:"x" yaml:"x"` // Left edge
	Y int `json:"y" yaml:"y"` // Top edge
	W int `json:"w" yaml:"w"` // Width in pixels
	H int `json:"h" yaml:"h"` // Height in pixels
}

// FromRect converts an image.Rectangle to a Region.
func FromRect(r image.Rectangle) Region {
	r = r.Canon()
	return Region{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Rect returns the Region as an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// Area returns W*H.
func (r Region) Area() int {
	return r.W * r.H
}

// Valid reports whether the Region satisfies the positive-size, non-negative
// origin invariant.
func (r Region) Valid() bool {
	return r.W > 0 && r.H > 0 && r.X >= 0 && r.Y >= 0
}

func (r Region) String() string {
	return fmt.Sprintf("(%d,%d %dx%d)", r.X, r.Y, r.W, r.H)
}

// Ellipse is the editable elliptical target derived from a Region.
type Ellipse struct {
	CX int `json:"cx" yaml:"cx"`
	CY int `json:"cy" yaml:"cy"`
	RX int `json:"rx" yaml:"rx"`
	RY int `json:"ry" yaml:"ry"`
}

// Ellipse derives the ellipse target for the Region. The center is
// (X + W/2, Y + H/2) with integer division and the radii are fx*W and fy*H
// truncated toward zero. Radii never drop below one pixel.
//
// With the default factors (0.6, 0.7), Region{10, 10, 40, 40} yields
// center (30, 30) and radii (24, 28).
func (r Region) Ellipse(fx, fy float64) Ellipse {
	rx := int(fx * float64(r.W))
	ry := int(fy * float64(r.H))
	if rx < 1 {
		rx = 1
	}
	if ry < 1 {
		ry = 1
	}
	return Ellipse{
		CX: r.X + r.W/2,
		CY: r.Y + r.H/2,
		RX: rx,
		RY: ry,
	}
}

// Contains reports whether pixel (x, y) lies inside or on the ellipse.
func (e Ellipse) Contains(x, y int) bool {
	dx := float64(x-e.CX) / float64(e.RX)
	dy := float64(y-e.CY) / float64(e.RY)
	return dx*dx+dy*dy <= 1.0
}

// Bounds returns the bounding rectangle of the ellipse (inclusive edge pixels).
func (e Ellipse) Bounds() image.Rectangle {
	return image.Rect(e.CX-e.RX, e.CY-e.RY, e.CX+e.RX+1, e.CY+e.RY+1)
}

// IoU returns the intersection-over-union of two regions. It is 0 when the
// union is empty.
func IoU(a, b Region) float64 {
	xOverlap := max(0, min(a.X+a.W, b.X+b.W)-max(a.X, b.X))
	yOverlap := max(0, min(a.Y+a.H, b.Y+b.H)-max(a.Y, b.Y))
	intersection := xOverlap * yOverlap
	union := a.Area() + b.Area() - intersection
	if union <= 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// Clip clamps the Region to a w×h image. The second result is false when
// nothing of the Region remains inside.
func (r Region) Clip(w, h int) (Region, bool) {
	clipped := r.Rect().Intersect(image.Rect(0, 0, w, h))
	if clipped.Empty() {
		return Region{}, false
	}
	out := FromRect(clipped)
	return out, out.Valid()
}
