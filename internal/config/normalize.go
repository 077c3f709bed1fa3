package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeDetector(); err != nil {
		return err
	}
	c.normalizeCanvas()
	c.normalizeEditor()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeDetector() error {
	var err error
	if c.Detector.CascadeDir, err = ExpandPath(strings.TrimSpace(c.Detector.CascadeDir)); err != nil {
		return fmt.Errorf("detector.cascade_dir: %w", err)
	}
	c.Detector.MergeStrategy = strings.ToLower(strings.TrimSpace(c.Detector.MergeStrategy))
	if c.Detector.MergeStrategy == "" {
		c.Detector.MergeStrategy = defaultMergeStrategy
	}
	if len(c.Detector.Profiles) == 0 {
		c.Detector.Profiles = DefaultProfiles()
	}
	for i := range c.Detector.Profiles {
		p := &c.Detector.Profiles[i]
		p.Name = strings.TrimSpace(p.Name)
		p.Cascade = strings.TrimSpace(p.Cascade)
		if p.Name == "" {
			p.Name = fmt.Sprintf("profile-%d", i+1)
		}
	}
	return nil
}

func (c *Config) normalizeCanvas() {
	c.Canvas.Background = strings.TrimSpace(c.Canvas.Background)
	if c.Canvas.Background == "" {
		c.Canvas.Background = defaultCanvasBG
	}
}

func (c *Config) normalizeEditor() {
	c.Editor.APIKey = strings.TrimSpace(c.Editor.APIKey)
	if c.Editor.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.Editor.APIKey = strings.TrimSpace(value)
		}
	}
	c.Editor.BaseURL = strings.TrimSpace(c.Editor.BaseURL)
	if c.Editor.BaseURL == "" {
		c.Editor.BaseURL = defaultEditorBaseURL
	}
	c.Editor.Model = strings.TrimSpace(c.Editor.Model)
	if c.Editor.Model == "" {
		c.Editor.Model = defaultEditorModel
	}
	prompts := c.Editor.Prompts[:0]
	for _, p := range c.Editor.Prompts {
		if p = strings.TrimSpace(p); p != "" {
			prompts = append(prompts, p)
		}
	}
	c.Editor.Prompts = prompts
	if len(c.Editor.Prompts) == 0 {
		c.Editor.Prompts = append([]string(nil), defaultPrompts...)
	}
	if c.Editor.TimeoutSeconds <= 0 {
		c.Editor.TimeoutSeconds = defaultEditorTimeout
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
