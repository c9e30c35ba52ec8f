package engine

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/ssconv/internal/config"
	"github.com/ivlev/ssconv/internal/errkind"
)

func newTestProject(t *testing.T, input, format string) (*Project, *bytes.Buffer) {
	t.Helper()
	cfg := config.Default()
	cfg.InputPath = input
	cfg.Format = format
	cfg.Workers = 2

	var out bytes.Buffer
	p := NewProject(cfg)
	p.Out = &out
	p.BenchmarkLog = filepath.Join(filepath.Dir(input), "benchmark.log")
	return p, &out
}

func TestRunAllFormats(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "hero.yaml")
	if err := WriteTemplate(input); err != nil {
		t.Fatal(err)
	}

	for _, format := range []string{"ssba", "json", "js", "yaml"} {
		t.Run(format, func(t *testing.T) {
			p, out := newTestProject(t, input, format)
			if err := p.Run(context.Background()); err != nil {
				t.Fatalf("Run failed: %v", err)
			}

			data, err := os.ReadFile(p.OutputPath())
			if err != nil {
				t.Fatalf("Expected the output file: %v", err)
			}
			if len(data) == 0 {
				t.Error("Output file is empty")
			}
			if !strings.Contains(out.String(), "Кадров: 31") {
				t.Errorf("Expected 31 frames in the console output:\n%s", out.String())
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "hero.frames.yaml")); err != nil {
		t.Errorf("Expected the yaml dump next to the document: %v", err)
	}
}

func TestRunStats(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "hero.yaml")
	if err := WriteTemplate(input); err != nil {
		t.Fatal(err)
	}

	p, out := newTestProject(t, input, "ssba")
	p.Config.ShowStats = true
	p.Config.BuildVersion = "test"
	if err := p.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "--- [PERFORMANCE REPORT] ---") {
		t.Errorf("Expected a performance report:\n%s", out.String())
	}

	log, err := os.ReadFile(p.BenchmarkLog)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(log), "Build: test | Input: hero.yaml | Format: ssba | Frames: 31") {
		t.Errorf("Unexpected benchmark entry %q", log)
	}
}

func TestRunFailureLeavesNoOutput(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "broken.yaml")
	doc := "fps: 30\nparts:\n  - {id: 0, parent: -1, name: root, type: root, attributes: [{tag: POSX, keys: [{frame: 0, value: 1, curve: wobble}]}]}\n"
	if err := os.WriteFile(input, []byte(doc), 0644); err != nil {
		t.Fatal(err)
	}

	p, _ := newTestProject(t, input, "ssba")
	err := p.Run(context.Background())
	if !errkind.Has(err, errkind.UnresolvedCurve) {
		t.Fatalf("Expected %s, got %v", errkind.UnresolvedCurve, err)
	}
	if _, err := os.Stat(p.OutputPath()); !os.IsNotExist(err) {
		t.Errorf("Expected no output file, stat returned %v", err)
	}
}

func TestRunUnknownFormat(t *testing.T) {
	p, _ := newTestProject(t, filepath.Join(t.TempDir(), "missing.yaml"), "swf")
	if err := p.Run(context.Background()); !errkind.Has(err, errkind.UnknownFormat) {
		t.Errorf("Expected %s, got %v", errkind.UnknownFormat, err)
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.yaml")
	if err := WriteTemplate(path); err != nil {
		t.Fatal(err)
	}
	if err := WriteTemplate(path); err == nil {
		t.Error("Expected an error for an existing file")
	}
}
