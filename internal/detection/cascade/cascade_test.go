//go:build gocv

package cascade

import (
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/face-anon/internal/config"
	"github.com/ironsheep/face-anon/internal/faults"
)

func TestNewPassMissingModel(t *testing.T) {
	profile := config.DefaultProfiles()[0]
	_, err := NewPass(profile, filepath.Join(t.TempDir(), "missing.xml"))
	if !errors.Is(err, faults.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestNewPassInvalidModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage.xml")
	if err := os.WriteFile(path, []byte("<opencv_storage></opencv_storage>"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := NewPass(config.DefaultProfiles()[0], path)
	if !errors.Is(err, faults.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

func TestNewEnsembleMissingDir(t *testing.T) {
	cfg := config.Default()
	cfg.Detector.CascadeDir = filepath.Join(t.TempDir(), "nowhere")
	if _, err := NewEnsemble(&cfg); !errors.Is(err, faults.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

// Runs only where OpenCV's cascade data is installed.
func TestEnsembleBlankImage(t *testing.T) {
	cfg := config.Default()
	if _, err := os.Stat(cfg.CascadePath(cfg.Detector.Profiles[0])); err != nil {
		t.Skipf("cascade data not installed: %v", err)
	}

	e, err := NewEnsemble(&cfg)
	if err != nil {
		t.Fatalf("NewEnsemble failed: %v", err)
	}
	defer e.Close()

	img := image.NewRGBA(image.Rect(0, 0, 120, 90))
	for y := 0; y < 90; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.RGBA{200, 200, 200, 255})
		}
	}

	regions, err := e.Detect(img)
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(regions) != 0 {
		t.Errorf("blank image produced detections: %v", regions)
	}
}
