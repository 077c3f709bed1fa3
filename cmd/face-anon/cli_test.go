package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/ironsheep/face-anon/internal/detection"
	"github.com/ironsheep/face-anon/internal/faults"
	"github.com/ironsheep/face-anon/internal/pipeline"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n--- output ---\n%s", needle, haystack)
	}
}

func isolateHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("OPENAI_API_KEY", "")
	return home
}

func TestVersionCommand(t *testing.T) {
	out, _, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	requireContains(t, out, "face-anon "+Version)
	requireContains(t, out, "Git commit")
}

func TestConfigInitAndValidate(t *testing.T) {
	isolateHome(t)
	target := filepath.Join(t.TempDir(), "nested", "config.toml")

	out, _, err := runCLI(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	out, _, err = runCLI(t, "--config", target, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+target)
	requireContains(t, out, "Merge strategy")
	requireContains(t, out, "Configuration valid")
	if strings.Contains(out, "did not exist") {
		t.Errorf("file exists, defaults note should be absent:\n%s", out)
	}
}

func TestConfigInitRefusesOverwrite(t *testing.T) {
	isolateHome(t)
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("# keep\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, "config", "init", "--path", target)
	if err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected already exists error, got %v", err)
	}
	data, _ := os.ReadFile(target)
	if string(data) != "# keep\n" {
		t.Errorf("file was modified: %q", data)
	}

	if _, _, err := runCLI(t, "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
	data, _ = os.ReadFile(target)
	if !strings.Contains(string(data), "[detector]") {
		t.Errorf("expected sample config, got %q", data)
	}
}

func TestConfigValidateMissingFile(t *testing.T) {
	isolateHome(t)
	target := filepath.Join(t.TempDir(), "absent.toml")

	out, _, err := runCLI(t, "--config", target, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "defaults were used")
	requireContains(t, out, "API key set")
}

func TestConfigValidateRejectsBadFile(t *testing.T) {
	isolateHome(t)
	target := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(target, []byte("[canvas]\nsize = -1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, "--config", target, "config", "validate")
	if err == nil {
		t.Fatal("expected validation error")
	}
	requireContains(t, err.Error(), "canvas.size")
}

func TestConfigShowRedactsKey(t *testing.T) {
	isolateHome(t)
	target := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(target, []byte("[editor]\napi_key = \"sk-secret\"\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, _, err := runCLI(t, "--config", target, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if strings.Contains(out, "sk-secret") {
		t.Errorf("api key leaked:\n%s", out)
	}
	requireContains(t, out, "<redacted>")
	requireContains(t, out, "merge_strategy")
}

func TestAnonymizeArgumentErrors(t *testing.T) {
	isolateHome(t)
	cfgPath := filepath.Join(t.TempDir(), "absent.toml")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no inputs", []string{"anonymize"}, "requires at least 1 arg"},
		{"output with batch", []string{"anonymize", "-o", "out.png", "a.png", "b.png"}, "--output applies to a single input"},
		{"zero jobs", []string{"anonymize", "--jobs", "0", "a.png"}, "--jobs must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", cfgPath}, tt.args...)
			_, _, err := runCLI(t, args...)
			if err == nil {
				t.Fatal("expected error")
			}
			requireContains(t, err.Error(), tt.want)
		})
	}
}

func TestDetectWithoutDetectorIsConfigError(t *testing.T) {
	isolateHome(t)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := "[detector]\ncascade_dir = \"" + filepath.ToSlash(filepath.Join(dir, "no-models")) + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, "--config", cfgPath, "detect", filepath.Join(dir, "photo.png"))
	if !errors.Is(err, faults.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
	if code := faults.ExitCode(err); code != 3 {
		t.Errorf("exit code: got %d, want 3", code)
	}
}

func TestLogFlagsOverrideConfig(t *testing.T) {
	isolateHome(t)
	level, format := "debug", "json"
	configPath := filepath.Join(t.TempDir(), "absent.toml")
	ctx := newCommandContext(&configPath, &level, &format)

	cfg, err := ctx.ensureConfig()
	if err != nil {
		t.Fatalf("ensureConfig: %v", err)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging: got %+v", cfg.Logging)
	}

	var buf bytes.Buffer
	logger, err := ctx.logger(&buf)
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	logger.Debug("probe")
	requireContains(t, buf.String(), `"msg":"probe"`)
}

func TestWriteBatchSummary(t *testing.T) {
	results := []pipeline.BatchResult{
		{
			Job: pipeline.Job{Input: "group.jpg"},
			Outcome: &pipeline.Outcome{
				Output:   "group-anon.png",
				Delivery: "inline",
				Regions:  []detection.Region{{X: 1, Y: 1, W: 5, H: 5}, {X: 20, Y: 1, W: 5, H: 5}},
			},
		},
		{Job: pipeline.Job{Input: "empty.jpg"}, Err: errors.New("no face detected")},
	}

	var buf bytes.Buffer
	writeBatchSummary(&buf, results)
	out := buf.String()
	requireContains(t, out, "group-anon.png")
	requireContains(t, out, "inline")
	requireContains(t, out, "failed: no face detected")
}

func TestWriteBatchJSON(t *testing.T) {
	results := []pipeline.BatchResult{
		{Job: pipeline.Job{Input: "a.png"}, Outcome: &pipeline.Outcome{Output: "a-anon.png"}},
		{Job: pipeline.Job{Input: "b.png"}, Err: errors.New("boom")},
	}
	var buf bytes.Buffer
	if err := writeBatchJSON(&buf, results); err != nil {
		t.Fatalf("writeBatchJSON: %v", err)
	}
	requireContains(t, buf.String(), `"output": "a-anon.png"`)
	requireContains(t, buf.String(), `"error": "boom"`)
}

func TestRegionRows(t *testing.T) {
	regions := []detection.Region{{X: 10, Y: 10, W: 40, H: 40}}
	ellipses := []detection.Ellipse{regions[0].Ellipse(0.6, 0.7)}

	rows := regionRows(regions, ellipses)
	if len(rows) != 1 {
		t.Fatalf("rows: got %d", len(rows))
	}
	want := []string{"1", "x=10 y=10", "40x40", "c=(30,30) r=(24,28)"}
	for i, cell := range want {
		if rows[0][i] != cell {
			t.Errorf("cell %d: got %q, want %q", i, rows[0][i], cell)
		}
	}
}

func TestRenderTable(t *testing.T) {
	if got := renderTable(nil, nil, nil); got != "" {
		t.Errorf("empty headers: got %q", got)
	}
	out := renderTable([]string{"Input", "Faces"}, [][]string{{"x.png"}}, []columnAlignment{alignLeft, alignRight})
	requireContains(t, out, "Input")
	requireContains(t, out, "x.png")
	requireContains(t, out, "╭")
	if strings.Contains(out, "INPUT") {
		t.Errorf("headers should keep their case:\n%s", out)
	}

	row := toRow([]string{"a", ""}, 3)
	want := table.Row{"a", emptyCell, emptyCell}
	for i := range want {
		if row[i] != want[i] {
			t.Errorf("cell %d: got %v, want %v", i, row[i], want[i])
		}
	}
}
