package pipeline

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/face-anon/internal/config"
	"github.com/ironsheep/face-anon/internal/detection"
	"github.com/ironsheep/face-anon/internal/editor"
	"github.com/ironsheep/face-anon/internal/faults"
	"github.com/ironsheep/face-anon/internal/imaging"
	"github.com/ironsheep/face-anon/internal/logging"
)

// Editor is the external editing collaborator as seen by the pipeline.
// *editor.Client satisfies it.
type Editor interface {
	Edit(ctx context.Context, req editor.Request) (editor.Result, error)
	Resolve(ctx context.Context, result editor.Result) (image.Image, error)
}

// Job names one input image. Output defaults to <stem>-anon.png next to the
// input; Prompt defaults to a random configured prompt.
type Job struct {
	Input  string
	Output string
	Prompt string
}

// Outcome summarizes a successful run.
type Outcome struct {
	RunID         string               `json:"run_id"`
	Input         string               `json:"input"`
	Output        string               `json:"output"`
	Prompt        string               `json:"prompt"`
	RawCandidates int                  `json:"raw_candidates"`
	Regions       []detection.Region   `json:"regions"`
	Transform     imaging.FitTransform `json:"transform"`
	Delivery      string               `json:"delivery"`
	Artifacts     Artifacts            `json:"artifacts"`
	Elapsed       time.Duration        `json:"elapsed_ns"`
}

// Pipeline wires a detector and an editor together under one Config.
type Pipeline struct {
	cfg        *config.Config
	detector   detection.Detector
	editor     Editor
	logger     *slog.Logger
	strategy   detection.Strategy
	background color.NRGBA
	tempDir    string
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the pipeline logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithTempDir sets the parent directory for per-run staging directories.
// The default is os.TempDir().
func WithTempDir(dir string) Option {
	return func(p *Pipeline) {
		p.tempDir = dir
	}
}

// New constructs a Pipeline. The config must already be validated; the
// detector and editor are required.
func New(cfg *config.Config, det detection.Detector, ed Editor, opts ...Option) (*Pipeline, error) {
	if cfg == nil {
		return nil, faults.Wrap(faults.ErrConfig, "pipeline", "config required", nil)
	}
	if det == nil {
		return nil, faults.Wrap(faults.ErrConfig, "pipeline", "detector required", nil)
	}
	if ed == nil {
		return nil, faults.Wrap(faults.ErrConfig, "pipeline", "editor required", nil)
	}
	strategy, err := detection.ParseStrategy(cfg.Detector.MergeStrategy)
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfig, "pipeline", "merge strategy", err)
	}
	bg, err := imaging.ParseHexColor(cfg.Canvas.Background)
	if err != nil {
		return nil, faults.Wrap(faults.ErrConfig, "pipeline", "canvas background", err)
	}

	p := &Pipeline{
		cfg:        cfg,
		detector:   det,
		editor:     ed,
		strategy:   strategy,
		background: bg,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrDiscard(p.logger).With("component", "pipeline")
	return p, nil
}

// DetectRegions runs the detector over img and consolidates the candidates
// with the configured merge strategy. It returns the raw candidates and the
// consolidated regions; an empty consolidated list is not an error here.
func (p *Pipeline) DetectRegions(img image.Image) (raw, merged []detection.Region, err error) {
	raw, err = p.detector.Detect(img)
	if err != nil {
		return nil, nil, err
	}
	merged = detection.Merge(p.strategy, raw, p.cfg.Detector.IoUThreshold)
	return raw, merged, nil
}

// Run executes one job. Errors carry the faults markers of the failing
// stage and are returned unmodified; nothing is retried.
func (p *Pipeline) Run(ctx context.Context, job Job) (*Outcome, error) {
	start := time.Now()
	if job.Input == "" {
		return nil, faults.Wrap(faults.ErrIO, "run", "input path required", nil)
	}
	output := job.Output
	if output == "" {
		output = DefaultOutputPath(job.Input)
	}

	runID := uuid.NewString()
	logger := p.logger.With("run_id", runID, "input", filepath.Base(job.Input))

	img, err := imaging.LoadFile(job.Input)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()

	raw, regions, err := p.DetectRegions(img)
	if err != nil {
		return nil, err
	}
	logger.Debug("detection complete", "raw", len(raw), "consolidated", len(regions))
	if len(regions) == 0 {
		logger.Info("no face detected", "raw", len(raw))
		return nil, faults.Wrap(faults.ErrNoFaceDetected, "detect", fmt.Sprintf("%s: %d raw candidates", job.Input, len(raw)), nil)
	}

	outcome := &Outcome{
		RunID:         runID,
		Input:         job.Input,
		Output:        output,
		Prompt:        editor.PickPrompt(job.Prompt, p.cfg.Editor.Prompts),
		RawCandidates: len(raw),
		Regions:       regions,
	}

	if p.cfg.Output.WriteDebug {
		path := DebugPath(job.Input)
		overlay := imaging.DrawOverlay(img, regions, p.cfg.Mask.RadiusX, p.cfg.Mask.RadiusY)
		if err := imaging.Save(path, overlay, p.cfg.Output.JPEGQuality, p.background); err != nil {
			return nil, faults.Wrap(faults.ErrIO, "debug", path, err)
		}
		outcome.Artifacts.Debug = path
	}

	transform, err := imaging.NewFitTransform(b.Dx(), b.Dy(), p.cfg.Canvas.Size)
	if err != nil {
		return nil, err
	}
	outcome.Transform = transform

	canvas, fittedMask, err := p.prepare(img, regions, transform)
	if err != nil {
		return nil, err
	}

	workDir, err := os.MkdirTemp(p.tempDir, "face-anon-"+runID+"-")
	if err != nil {
		return nil, faults.Wrap(faults.ErrIO, "stage", "create working directory", err)
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Warn("failed to remove working directory", "path", workDir, "error", err)
		}
	}()

	req := editor.Request{Prompt: outcome.Prompt, Size: transform.CanvasSize}
	if req.Image, err = stage(workDir, "canvas.png", canvas); err != nil {
		return nil, err
	}
	if req.Mask, err = stage(workDir, "mask.png", fittedMask); err != nil {
		return nil, err
	}

	if p.cfg.Output.WriteMask {
		path := MaskPath(job.Input)
		if err := os.WriteFile(path, req.Mask, 0o644); err != nil {
			return nil, faults.Wrap(faults.ErrIO, "mask", path, err)
		}
		outcome.Artifacts.Mask = path
	}

	if err := ctx.Err(); err != nil {
		return nil, faults.Wrap(faults.ErrEditService, "edit", "canceled before submit", err)
	}
	logger.Info("submitting edit",
		"regions", len(regions),
		"canvas", transform.CanvasSize,
		"editable", fmt.Sprintf("%.1f%%", imaging.EditableFraction(fittedMask)*100),
	)

	result, err := p.editor.Edit(ctx, req)
	if err != nil {
		return nil, err
	}
	outcome.Delivery = result.Kind.String()

	edited, err := p.editor.Resolve(ctx, result)
	if err != nil {
		return nil, err
	}

	restored, err := imaging.Restore(edited, transform)
	if err != nil {
		return nil, err
	}
	if err := imaging.Save(output, restored, p.cfg.Output.JPEGQuality, p.background); err != nil {
		return nil, faults.Wrap(faults.ErrIO, "save", output, err)
	}

	if p.cfg.Output.WriteAudit {
		path := AuditPath(job.Input)
		record := &AuditRecord{
			RunID:         runID,
			CreatedAt:     start.UTC(),
			Input:         job.Input,
			Output:        output,
			Prompt:        outcome.Prompt,
			MergeStrategy: string(p.strategy),
			IoUThreshold:  p.cfg.Detector.IoUThreshold,
			RawCandidates: len(raw),
			Regions:       regions,
			Ellipses:      ellipses(regions, p.cfg.Mask.RadiusX, p.cfg.Mask.RadiusY),
			Transform:     transform,
			Delivery:      outcome.Delivery,
			Mask:          outcome.Artifacts.Mask,
		}
		if err := WriteAudit(record, path); err != nil {
			return nil, err
		}
		outcome.Artifacts.Audit = path
	}

	outcome.Elapsed = time.Since(start)
	logger.Info("anonymized",
		"output", output,
		"regions", len(regions),
		"delivery", outcome.Delivery,
		"elapsed", outcome.Elapsed.Round(time.Millisecond),
	)
	return outcome, nil
}

// prepare builds the fitted canvas and the fitted mask concurrently.
func (p *Pipeline) prepare(img image.Image, regions []detection.Region, t imaging.FitTransform) (canvas, mask *image.NRGBA, err error) {
	var g errgroup.Group
	g.Go(func() error {
		var err error
		canvas, err = t.Compose(img, p.background)
		return err
	})
	g.Go(func() error {
		b := img.Bounds()
		raw := imaging.BuildMask(regions, b.Dx(), b.Dy(), p.cfg.Mask.RadiusX, p.cfg.Mask.RadiusY)
		var err error
		mask, err = t.ComposeMask(raw)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return canvas, mask, nil
}

// stage writes img as PNG into dir and returns the encoded bytes.
func stage(dir, name string, img image.Image) ([]byte, error) {
	path := filepath.Join(dir, name)
	if err := imaging.Save(path, img, 0, nil); err != nil {
		return nil, faults.Wrap(faults.ErrIO, "stage", path, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, faults.Wrap(faults.ErrIO, "stage", path, err)
	}
	return data, nil
}

func ellipses(regions []detection.Region, fx, fy float64) []detection.Ellipse {
	out := make([]detection.Ellipse, len(regions))
	for i, r := range regions {
		out[i] = r.Ellipse(fx, fy)
	}
	return out
}
