package pipeline

import (
	"path/filepath"
	"strings"
)

// Artifacts holds the paths written by a run. Empty fields were not written.
type Artifacts struct {
	Mask  string `json:"mask,omitempty" yaml:"mask,omitempty"`
	Debug string `json:"debug,omitempty" yaml:"debug,omitempty"`
	Audit string `json:"audit,omitempty" yaml:"audit,omitempty"`
}

// siblingPath returns <dir>/<stem><suffix> for the input path.
func siblingPath(input, suffix string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+suffix)
}

// DefaultOutputPath returns <stem>-anon.png next to input.
func DefaultOutputPath(input string) string {
	return siblingPath(input, "-anon.png")
}

// MaskPath returns <stem>-mask.png next to input.
func MaskPath(input string) string {
	return siblingPath(input, "-mask.png")
}

// DebugPath returns <stem>-debug.png next to input.
func DebugPath(input string) string {
	return siblingPath(input, "-debug.png")
}

// AuditPath returns <stem>-audit.yaml next to input.
func AuditPath(input string) string {
	return siblingPath(input, "-audit.yaml")
}
