//go:build !gocv

package cascade

import (
	"github.com/ironsheep/face-anon/internal/config"
	"github.com/ironsheep/face-anon/internal/detection"
	"github.com/ironsheep/face-anon/internal/faults"
)

// NewEnsemble reports a configuration error when the binary was built
// without the gocv tag, so commands that need detection fail cleanly.
func NewEnsemble(cfg *config.Config, opts ...detection.EnsembleOption) (*detection.Ensemble, error) {
	return nil, faults.Wrap(faults.ErrConfig, "cascade", "built without OpenCV support (rebuild with -tags gocv)", nil)
}
