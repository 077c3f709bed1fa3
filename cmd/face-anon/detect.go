package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/face-anon/internal/config"
	"github.com/ironsheep/face-anon/internal/detection"
	"github.com/ironsheep/face-anon/internal/imaging"
	"github.com/ironsheep/face-anon/internal/pipeline"
)

// detectReport is the per-image result of the detect command.
type detectReport struct {
	Input         string              `json:"input"`
	Width         int                 `json:"width"`
	Height        int                 `json:"height"`
	RawCandidates int                 `json:"raw_candidates"`
	Regions       []detection.Region  `json:"regions"`
	Ellipses      []detection.Ellipse `json:"ellipses"`
	Overlay       string              `json:"overlay,omitempty"`
}

func newDetectCommand(ctx *commandContext) *cobra.Command {
	var overlay bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "detect <image>...",
		Short: "List the face regions found in each image without editing it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return ctx.withPipeline(cmd, func(p *pipeline.Pipeline, logger *slog.Logger) error {
				reports := make([]detectReport, 0, len(args))
				for _, path := range args {
					report, err := detectOne(cfg, p, path, overlay)
					if err != nil {
						return err
					}
					logger.Debug("detected",
						"input", path,
						"raw", report.RawCandidates,
						"regions", len(report.Regions),
					)
					reports = append(reports, report)
				}
				out := cmd.OutOrStdout()
				if jsonOutput {
					encoder := json.NewEncoder(out)
					encoder.SetIndent("", "  ")
					return encoder.Encode(reports)
				}
				for _, report := range reports {
					writeDetectReport(out, report)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&overlay, "overlay", false, "Write <name>-debug.png with the regions and ellipse targets drawn")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	return cmd
}

func detectOne(cfg *config.Config, p *pipeline.Pipeline, path string, overlay bool) (detectReport, error) {
	img, err := imaging.LoadFile(path)
	if err != nil {
		return detectReport{}, err
	}
	raw, regions, err := p.DetectRegions(img)
	if err != nil {
		return detectReport{}, err
	}

	bounds := img.Bounds()
	report := detectReport{
		Input:         path,
		Width:         bounds.Dx(),
		Height:        bounds.Dy(),
		RawCandidates: len(raw),
		Regions:       regions,
		Ellipses:      make([]detection.Ellipse, len(regions)),
	}
	for i, r := range regions {
		report.Ellipses[i] = r.Ellipse(cfg.Mask.RadiusX, cfg.Mask.RadiusY)
	}

	if overlay {
		target := pipeline.DebugPath(path)
		drawn := imaging.DrawOverlay(img, regions, cfg.Mask.RadiusX, cfg.Mask.RadiusY)
		if err := imaging.Save(target, drawn, cfg.Output.JPEGQuality, imaging.MustParseHexColor(cfg.Canvas.Background)); err != nil {
			return detectReport{}, err
		}
		report.Overlay = target
	}
	return report, nil
}

func writeDetectReport(w io.Writer, report detectReport) {
	fmt.Fprintf(w, "%s (%dx%d): %d raw candidates, %d faces\n",
		report.Input, report.Width, report.Height, report.RawCandidates, len(report.Regions))
	if report.Overlay != "" {
		fmt.Fprintf(w, "Overlay: %s\n", report.Overlay)
	}
	if len(report.Regions) == 0 {
		return
	}
	fmt.Fprintln(w, renderTable(
		[]string{"#", "Region", "Size", "Ellipse"},
		regionRows(report.Regions, report.Ellipses),
		[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
	))
}

func regionRows(regions []detection.Region, ellipses []detection.Ellipse) [][]string {
	rows := make([][]string, 0, len(regions))
	for i, r := range regions {
		e := ellipses[i]
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			fmt.Sprintf("x=%d y=%d", r.X, r.Y),
			fmt.Sprintf("%dx%d", r.W, r.H),
			strings.Join([]string{
				fmt.Sprintf("c=(%d,%d)", e.CX, e.CY),
				fmt.Sprintf("r=(%d,%d)", e.RX, e.RY),
			}, " "),
		})
	}
	return rows
}
