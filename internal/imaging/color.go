package imaging

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ParseHexColor parses "#RGB", "#RRGGBB" or "#RRGGBBAA" (leading '#'
// optional) into a non-premultiplied color.
func ParseHexColor(hex string) (color.NRGBA, error) {
	hex = strings.TrimSpace(hex)
	if hex == "" {
		return color.NRGBA{}, fmt.Errorf("empty color string")
	}
	if hex[0] != '#' {
		hex = "#" + hex
	}

	alpha := uint8(255)
	if len(hex) == 9 {
		a, err := strconv.ParseUint(hex[7:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in color %q: %w", hex, err)
		}
		alpha = uint8(a)
		hex = hex[:7]
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: alpha}, nil
}

// MustParseHexColor is ParseHexColor that falls back to opaque white.
func MustParseHexColor(hex string) color.NRGBA {
	c, err := ParseHexColor(hex)
	if err != nil {
		return color.NRGBA{255, 255, 255, 255}
	}
	return c
}

// regionPalette returns n visually distinct opaque colors by stepping the
// hue around the wheel by the golden angle.
func regionPalette(n int) []color.NRGBA {
	out := make([]color.NRGBA, n)
	for i := range out {
		hue := math.Mod(120+float64(i)*137.508, 360)
		r, g, b := colorful.Hsv(hue, 0.85, 0.95).Clamped().RGB255()
		out[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
	}
	return out
}
