package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"strings"

	"github.com/disintegration/imaging"
)

// DefaultJPEGQuality is used when a caller passes a quality outside 1..100.
const DefaultJPEGQuality = 95

// Format identifies an output encoding.
type Format = imaging.Format

// Supported output formats.
const (
	PNG  = imaging.PNG
	JPEG = imaging.JPEG
	TIFF = imaging.TIFF
	BMP  = imaging.BMP
	GIF  = imaging.GIF
)

// FormatForPath picks an output encoding from the file extension. Unknown
// extensions fall back to JPEG.
func FormatForPath(path string) Format {
	f, err := imaging.FormatFromFilename(path)
	if err != nil {
		return JPEG
	}
	return f
}

// SupportsAlpha reports whether the format keeps an alpha channel.
func SupportsAlpha(f Format) bool {
	return f == PNG || f == TIFF
}

// MimeType returns the MIME type for the format.
func MimeType(f Format) string {
	switch f {
	case PNG:
		return "image/png"
	case TIFF:
		return "image/tiff"
	case BMP:
		return "image/bmp"
	case GIF:
		return "image/gif"
	default:
		return "image/jpeg"
	}
}

// Encode writes img to w in format f. Formats without alpha get the image
// flattened onto bg first; quality applies to JPEG only.
func Encode(w io.Writer, img image.Image, f Format, quality int, bg color.Color) error {
	if !SupportsAlpha(f) {
		img = Flatten(img, bg)
	}
	if quality < 1 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	if err := imaging.Encode(w, img, f, imaging.JPEGQuality(quality), imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return fmt.Errorf("failed to encode %s image: %w", strings.ToLower(f.String()), err)
	}
	return nil
}

// EncodePNG returns img as PNG bytes.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, PNG, 0, nil); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save encodes img to path using the format implied by its extension
// (JPEG for unknown extensions).
func Save(path string, img image.Image, quality int, bg color.Color) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return Encode(f, img, FormatForPath(path), quality, bg)
}

// Flatten composites img over an opaque bg, removing transparency.
func Flatten(img image.Image, bg color.Color) *image.NRGBA {
	b := img.Bounds()
	base := imaging.New(b.Dx(), b.Dy(), opaque(bg))
	return imaging.Overlay(base, img, image.Pt(0, 0), 1.0)
}

// ImageResult is an encoded image ready to embed in a JSON response.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeResult encodes img as base64 in the given format.
func EncodeResult(img image.Image, f Format, quality int, bg color.Color) (*ImageResult, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, img, f, quality, bg); err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &ImageResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    MimeType(f),
	}, nil
}
