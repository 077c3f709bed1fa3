package detection

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/histogram"
)

// NormalizeLuminance converts img to an 8-bit grayscale image with its
// origin at (0, 0). When equalize is true the gray levels are spread with
// histogram equalization so detectors behave consistently on dark or washed
// out photos.
func NormalizeLuminance(img image.Image, equalize bool) *image.Gray {
	rgba := effect.Grayscale(img)
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()

	// Grayscale writes R == G == B, so the red channel is the luminance.
	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := rgba.Pix[y*rgba.Stride:]
		dst := gray.Pix[y*gray.Stride:]
		for x := 0; x < w; x++ {
			dst[x] = src[x*4]
		}
	}
	if equalize {
		equalizeHist(gray)
	}
	return gray
}

// equalizeHist remaps gray levels in place through the normalized
// cumulative histogram. A single-level image is left unchanged.
func equalizeHist(gray *image.Gray) {
	w, h := gray.Rect.Dx(), gray.Rect.Dy()
	total := w * h
	if total == 0 {
		return
	}

	// Gray pixels have R == G == B, so the red channel is the luminance histogram.
	bins := histogram.NewRGBAHistogram(gray).R.Bins

	cdfMin := 0
	for _, count := range bins {
		if count > 0 {
			cdfMin = count
			break
		}
	}
	if cdfMin == total {
		return
	}

	var lut [256]uint8
	cum := 0
	scale := 255.0 / float64(total-cdfMin)
	for level := 0; level < 256 && level < len(bins); level++ {
		cum += bins[level]
		v := float64(cum-cdfMin) * scale
		if v < 0 {
			v = 0
		}
		lut[level] = uint8(v + 0.5)
	}

	for y := 0; y < h; y++ {
		row := gray.Pix[y*gray.Stride : y*gray.Stride+w]
		for i, p := range row {
			row[i] = lut[p]
		}
	}
}
