package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/face-anon/internal/pipeline"
)

func newAnonymizeCommand(ctx *commandContext) *cobra.Command {
	var output string
	var prompt string
	var jobs int
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "anonymize <image>...",
		Short: "Replace every detected face with a generated one",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(output) != "" && len(args) > 1 {
				return errors.New("--output applies to a single input image")
			}
			if jobs < 1 {
				return fmt.Errorf("--jobs must be at least 1 (got %d)", jobs)
			}

			batch := make([]pipeline.Job, 0, len(args))
			for _, arg := range args {
				batch = append(batch, pipeline.Job{
					Input:  arg,
					Output: strings.TrimSpace(output),
					Prompt: prompt,
				})
			}

			return ctx.withPipeline(cmd, func(p *pipeline.Pipeline, logger *slog.Logger) error {
				results := p.RunBatch(cmd.Context(), batch, jobs)
				out := cmd.OutOrStdout()
				if jsonOutput {
					if err := writeBatchJSON(out, results); err != nil {
						return err
					}
				} else {
					writeBatchSummary(out, results)
				}
				return pipeline.BatchError(results)
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (single input only; default <name>-anon.png)")
	cmd.Flags().StringVar(&prompt, "prompt", "", "Edit prompt (default: random configured prompt)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", 1, "Number of images processed concurrently")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")
	return cmd
}

type batchLine struct {
	Input   string            `json:"input"`
	Outcome *pipeline.Outcome `json:"outcome,omitempty"`
	Error   string            `json:"error,omitempty"`
}

func writeBatchJSON(w io.Writer, results []pipeline.BatchResult) error {
	lines := make([]batchLine, 0, len(results))
	for _, r := range results {
		line := batchLine{Input: r.Job.Input, Outcome: r.Outcome}
		if r.Err != nil {
			line.Error = r.Err.Error()
		}
		lines = append(lines, line)
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(lines); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}

func writeBatchSummary(w io.Writer, results []pipeline.BatchResult) {
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		if r.Err != nil {
			rows = append(rows, []string{r.Job.Input, "-", "-", "failed: " + r.Err.Error()})
			continue
		}
		rows = append(rows, []string{
			r.Job.Input,
			strconv.Itoa(len(r.Outcome.Regions)),
			r.Outcome.Delivery,
			r.Outcome.Output,
		})
	}
	fmt.Fprintln(w, renderTable(
		[]string{"Input", "Faces", "Delivery", "Result"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft},
	))
}
