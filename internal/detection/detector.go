package detection

import (
	"errors"
	"image"
	"log/slog"

	"github.com/ironsheep/face-anon/internal/faults"
	"github.com/ironsheep/face-anon/internal/logging"
)

// Detector returns raw candidate regions for a decoded image. An empty
// result is valid and means nothing was found.
type Detector interface {
	Detect(img image.Image) ([]Region, error)
}

// Pass is one detector configuration (model plus sensitivity and scale
// parameters) run over a luminance-normalized image. Returned rectangles use
// the gray image's coordinates.
type Pass interface {
	Name() string
	Detect(gray *image.Gray) ([]image.Rectangle, error)
	Close() error
}

// Ensemble runs a fixed set of passes over one image and concatenates their
// detections. It holds no per-image state and is safe for concurrent use as
// long as its passes are.
type Ensemble struct {
	passes   []Pass
	equalize bool
	logger   *slog.Logger
}

// EnsembleOption customizes an Ensemble.
type EnsembleOption func(*Ensemble)

// WithEqualize toggles histogram equalization of the normalized image
// (enabled by default).
func WithEqualize(enabled bool) EnsembleOption {
	return func(e *Ensemble) {
		e.equalize = enabled
	}
}

// WithLogger sets the logger used for per-pass debug output.
func WithLogger(logger *slog.Logger) EnsembleOption {
	return func(e *Ensemble) {
		e.logger = logger
	}
}

// NewEnsemble constructs an Ensemble over passes. At least one pass is
// required; an empty ensemble is a configuration error.
func NewEnsemble(passes []Pass, opts ...EnsembleOption) (*Ensemble, error) {
	if len(passes) == 0 {
		return nil, faults.Wrap(faults.ErrConfig, "detector", "no detector passes configured", nil)
	}
	e := &Ensemble{
		passes:   append([]Pass(nil), passes...),
		equalize: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.OrDiscard(e.logger).With("component", "detector")
	return e, nil
}

// Detect normalizes luminance once, runs every pass, and returns all
// detections clipped to the image. Rectangles that fall entirely outside the
// image are dropped.
func (e *Ensemble) Detect(img image.Image) ([]Region, error) {
	if img == nil {
		return nil, faults.Wrap(faults.ErrIO, "detect", "nil image", nil)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, faults.Wrap(faults.ErrInvalidImage, "detect", "image has no pixels", nil)
	}

	gray := NormalizeLuminance(img, e.equalize)
	w, h := gray.Rect.Dx(), gray.Rect.Dy()

	regions := make([]Region, 0)
	for _, pass := range e.passes {
		rects, err := pass.Detect(gray)
		if err != nil {
			return nil, err
		}
		kept := 0
		for _, rect := range rects {
			r, ok := FromRect(rect).Clip(w, h)
			if !ok {
				continue
			}
			regions = append(regions, r)
			kept++
		}
		e.logger.Debug("detector pass complete", "pass", pass.Name(), "detections", kept)
	}

	return regions, nil
}

// Close releases every pass.
func (e *Ensemble) Close() error {
	var errs []error
	for _, pass := range e.passes {
		if err := pass.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
