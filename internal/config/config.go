package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ironsheep/face-anon/internal/faults"
)

//go:embed sample_config.toml
var sampleConfig string

// Profile is one detector pass over the luminance-normalized image.
type Profile struct {
	Name         string  `toml:"name"`
	Cascade      string  `toml:"cascade"`
	ScaleFactor  float64 `toml:"scale_factor"`
	MinNeighbors int     `toml:"min_neighbors"`
	MinSize      int     `toml:"min_size"`
}

// Detector contains the region detector ensemble configuration.
type Detector struct {
	CascadeDir    string    `toml:"cascade_dir"`
	Equalize      bool      `toml:"equalize"`
	MergeStrategy string    `toml:"merge_strategy"`
	IoUThreshold  float64   `toml:"iou_threshold"`
	Profiles      []Profile `toml:"profiles"`
}

// Canvas contains the square working canvas settings.
type Canvas struct {
	Size       int    `toml:"size"`
	Background string `toml:"background"`
}

// Mask contains the ellipse target scale factors relative to region size.
type Mask struct {
	RadiusX float64 `toml:"radius_x"`
	RadiusY float64 `toml:"radius_y"`
}

// Editor contains the external image editing service settings.
type Editor struct {
	APIKey         string   `toml:"api_key"`
	BaseURL        string   `toml:"base_url"`
	Model          string   `toml:"model"`
	Prompts        []string `toml:"prompts"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Output controls the artifacts written next to the input image.
type Output struct {
	JPEGQuality int  `toml:"jpeg_quality"`
	WriteMask   bool `toml:"write_mask"`
	WriteDebug  bool `toml:"write_debug"`
	WriteAudit  bool `toml:"write_audit"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for face-anon.
//
// Sections by subsystem:
//   - Detector: cascade model location, detector passes, merge policy
//   - Canvas: square working canvas size and padding color
//   - Mask: ellipse target radii factors
//   - Editor: external editing service credentials and prompts
//   - Output: side artifacts and JPEG quality
//   - Logging: log format and level
type Config struct {
	Detector Detector `toml:"detector"`
	Canvas   Canvas   `toml:"canvas"`
	Mask     Mask     `toml:"mask"`
	Editor   Editor   `toml:"editor"`
	Output   Output   `toml:"output"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/face-anon/config.toml")
}

// Load locates, parses, and validates a configuration file. It returns the
// config, the resolved path, and whether that file existed.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, faults.Wrap(faults.ErrConfig, "config", "resolve path", err)
	}

	if exists {
		// List values come from the file alone; normalize restores defaults
		// when the file leaves them empty.
		cfg.Detector.Profiles = nil
		cfg.Editor.Prompts = nil

		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, faults.Wrap(faults.ErrConfig, "config", "open", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, faults.Wrap(faults.ErrConfig, "config", "parse", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, faults.Wrap(faults.ErrConfig, "config", "normalize", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("face-anon.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// CascadePath returns the absolute path of a profile's cascade model file.
func (c *Config) CascadePath(p Profile) string {
	if filepath.IsAbs(p.Cascade) {
		return p.Cascade
	}
	return filepath.Join(c.Detector.CascadeDir, p.Cascade)
}

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
