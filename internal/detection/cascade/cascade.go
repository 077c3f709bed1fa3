//go:build gocv

package cascade

import (
	"fmt"
	"image"
	"os"
	"sync"

	"gocv.io/x/gocv"

	"github.com/ironsheep/face-anon/internal/config"
	"github.com/ironsheep/face-anon/internal/detection"
	"github.com/ironsheep/face-anon/internal/faults"
)

// scaleImageFlag is OpenCV's CASCADE_SCALE_IMAGE.
const scaleImageFlag = 2

// Pass is a detection.Pass backed by a Haar cascade classifier.
type Pass struct {
	mu         sync.Mutex
	name       string
	classifier gocv.CascadeClassifier
	scale      float64
	neighbors  int
	minSize    image.Point
}

// NewPass loads the cascade model at path and binds the profile parameters.
// A missing or unreadable model is a faults.ErrConfig.
func NewPass(profile config.Profile, path string) (*Pass, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, faults.Wrap(faults.ErrConfig, "cascade", fmt.Sprintf("profile %s: model %s", profile.Name, path), err)
	}

	classifier := gocv.NewCascadeClassifier()
	if !classifier.Load(path) {
		classifier.Close()
		return nil, faults.Wrap(faults.ErrConfig, "cascade", fmt.Sprintf("profile %s: failed to load model %s", profile.Name, path), nil)
	}

	return &Pass{
		name:       profile.Name,
		classifier: classifier,
		scale:      profile.ScaleFactor,
		neighbors:  profile.MinNeighbors,
		minSize:    image.Pt(profile.MinSize, profile.MinSize),
	}, nil
}

// Name returns the profile name.
func (p *Pass) Name() string {
	return p.name
}

// Detect runs the classifier over a grayscale image.
func (p *Pass) Detect(gray *image.Gray) ([]image.Rectangle, error) {
	mat, err := gocv.ImageGrayToMatGray(gray)
	if err != nil {
		return nil, faults.Wrap(faults.ErrIO, "cascade", "convert image", err)
	}
	defer mat.Close()

	p.mu.Lock()
	defer p.mu.Unlock()

	rects := p.classifier.DetectMultiScaleWithParams(
		mat,
		p.scale,
		p.neighbors,
		scaleImageFlag,
		p.minSize,
		image.Point{},
	)
	return rects, nil
}

// Close releases the native classifier.
func (p *Pass) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.classifier.Close()
}

// NewEnsemble builds one Pass per configured profile and wraps them in a
// detection.Ensemble. Passes already created are closed if a later one
// fails to load.
func NewEnsemble(cfg *config.Config, opts ...detection.EnsembleOption) (*detection.Ensemble, error) {
	passes := make([]detection.Pass, 0, len(cfg.Detector.Profiles))
	for _, profile := range cfg.Detector.Profiles {
		pass, err := NewPass(profile, cfg.CascadePath(profile))
		if err != nil {
			for _, p := range passes {
				_ = p.Close()
			}
			return nil, err
		}
		passes = append(passes, pass)
	}

	opts = append([]detection.EnsembleOption{detection.WithEqualize(cfg.Detector.Equalize)}, opts...)
	return detection.NewEnsemble(passes, opts...)
}
