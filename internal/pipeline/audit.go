package pipeline

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ironsheep/face-anon/internal/detection"
	"github.com/ironsheep/face-anon/internal/faults"
	"github.com/ironsheep/face-anon/internal/imaging"
)

// AuditRecord is the YAML sidecar describing one run. Together with the
// saved mask it is enough to reproduce the canvas geometry offline.
type AuditRecord struct {
	RunID         string               `yaml:"run_id"`
	CreatedAt     time.Time            `yaml:"created_at"`
	Input         string               `yaml:"input"`
	Output        string               `yaml:"output"`
	Prompt        string               `yaml:"prompt"`
	MergeStrategy string               `yaml:"merge_strategy"`
	IoUThreshold  float64              `yaml:"iou_threshold"`
	RawCandidates int                  `yaml:"raw_candidates"`
	Regions       []detection.Region   `yaml:"regions"`
	Ellipses      []detection.Ellipse  `yaml:"ellipses"`
	Transform     imaging.FitTransform `yaml:"transform"`
	Delivery      string               `yaml:"delivery"`
	Mask          string               `yaml:"mask,omitempty"`
}

// WriteAudit writes record to path as YAML.
func WriteAudit(record *AuditRecord, path string) error {
	data, err := yaml.Marshal(record)
	if err != nil {
		return faults.Wrap(faults.ErrIO, "audit", "encode record", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return faults.Wrap(faults.ErrIO, "audit", path, err)
	}
	return nil
}

// ReadAudit reads an audit record written by WriteAudit.
func ReadAudit(path string) (*AuditRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, faults.Wrap(faults.ErrIO, "audit", path, err)
	}

	var record AuditRecord
	if err := yaml.Unmarshal(data, &record); err != nil {
		return nil, faults.Wrap(faults.ErrIO, "audit", "decode "+path, err)
	}
	return &record, nil
}
