package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/face-anon/internal/faults"
)

// Validate ensures the configuration is usable. Failures are tagged
// faults.ErrConfig.
func (c *Config) Validate() error {
	for _, check := range []func() error{
		c.validateDetector,
		c.validateCanvas,
		c.validateMask,
		c.validateOutput,
		c.validateLogging,
	} {
		if err := check(); err != nil {
			return faults.Wrap(faults.ErrConfig, "config", "validate", err)
		}
	}
	return nil
}

func (c *Config) validateDetector() error {
	switch c.Detector.MergeStrategy {
	case "components", "greedy":
	default:
		return fmt.Errorf("detector.merge_strategy: unsupported value %q", c.Detector.MergeStrategy)
	}
	if c.Detector.IoUThreshold <= 0 || c.Detector.IoUThreshold >= 1 {
		return errors.New("detector.iou_threshold must be between 0 and 1 (exclusive)")
	}
	for _, p := range c.Detector.Profiles {
		if p.Cascade == "" {
			return fmt.Errorf("detector.profiles[%s]: cascade must be set", p.Name)
		}
		if p.ScaleFactor <= 1 {
			return fmt.Errorf("detector.profiles[%s]: scale_factor must be greater than 1", p.Name)
		}
		if p.MinNeighbors < 0 {
			return fmt.Errorf("detector.profiles[%s]: min_neighbors must be non-negative", p.Name)
		}
		if p.MinSize <= 0 {
			return fmt.Errorf("detector.profiles[%s]: min_size must be positive", p.Name)
		}
	}
	return nil
}

func (c *Config) validateCanvas() error {
	if c.Canvas.Size <= 0 {
		return errors.New("canvas.size must be positive")
	}
	if !isHexColor(c.Canvas.Background) {
		return fmt.Errorf("canvas.background: %q is not a #RGB, #RRGGBB or #RRGGBBAA color", c.Canvas.Background)
	}
	return nil
}

func (c *Config) validateMask() error {
	if c.Mask.RadiusX <= 0 || c.Mask.RadiusY <= 0 {
		return errors.New("mask.radius_x and mask.radius_y must be positive")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return errors.New("output.jpeg_quality must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func isHexColor(s string) bool {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	switch len(s) {
	case 3, 6, 8:
	default:
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return false
		}
	}
	return true
}
