package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/ironsheep/face-anon/internal/config"
	"github.com/ironsheep/face-anon/internal/detection"
	"github.com/ironsheep/face-anon/internal/detection/cascade"
	"github.com/ironsheep/face-anon/internal/editor"
	"github.com/ironsheep/face-anon/internal/logging"
	"github.com/ironsheep/face-anon/internal/pipeline"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, _, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := flagValue(c.logLevelFlag); level != "" {
			cfg.Logging.Level = level
		}
		if format := flagValue(c.logFormatFlag); format != "" {
			cfg.Logging.Format = format
		}
		c.config = cfg
		c.configPath = path
	})
	return c.config, c.configErr
}

// logger builds a logger writing to w. Stdout is reserved for command
// output, so callers pass stderr.
func (c *commandContext) logger(w io.Writer) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, w)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// detector loads the configured cascade ensemble. The caller closes it.
func (c *commandContext) detector(logger *slog.Logger) (*detection.Ensemble, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return cascade.NewEnsemble(cfg, detection.WithLogger(logger))
}

// withPipeline wires the detector, the edit client, and the pipeline for
// one command invocation.
func (c *commandContext) withPipeline(cmd *cobra.Command, fn func(*pipeline.Pipeline, *slog.Logger) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.logger(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ensemble, err := c.detector(logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ensemble.Close(); cerr != nil {
			logger.Warn("close detector", "error", cerr)
		}
	}()

	client := editor.NewClient(editor.Config{
		APIKey:         cfg.Editor.APIKey,
		BaseURL:        cfg.Editor.BaseURL,
		Model:          cfg.Editor.Model,
		TimeoutSeconds: cfg.Editor.TimeoutSeconds,
	}, editor.WithLogger(logger))

	p, err := pipeline.New(cfg, ensemble, client, pipeline.WithLogger(logger))
	if err != nil {
		return err
	}
	return fn(p, logger)
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
