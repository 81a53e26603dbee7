package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/venviro/chartkit/pkg/config"
)

const sampleUpload = `{
	"title": "Umfrage",
	"category_names": ["Ja", "Nein"],
	"results": {"stimmen": [3, 1]},
	"filename": "umfrage.png"
}`

func testContext(cfg config.Config) context.Context {
	ctx := withLogger(context.Background(), log.NewWithOptions(io.Discard, log.Options{}))
	return withConfig(ctx, cfg)
}

func TestRunRender(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "upload.json")
	if err := os.WriteFile(input, []byte(sampleUpload), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	cfg := config.Default()
	cfg.Cache.Backend = config.BackendNone
	outDir := filepath.Join(dir, "out")

	opts := renderOpts{
		kind:      "pie",
		formats:   "png",
		output:    outDir,
		timestamp: false,
	}
	if err := runRender(testContext(cfg), input, &opts); err != nil {
		t.Fatalf("runRender() error: %v", err)
	}

	out := filepath.Join(outDir, "umfrage.png")
	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("Stat(%q) error: %v", out, err)
	}
	if info.Size() == 0 {
		t.Error("exported file is empty")
	}
}

func TestRunRenderInvalidKind(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "upload.json")
	if err := os.WriteFile(input, []byte(sampleUpload), 0o644); err != nil {
		t.Fatalf("WriteFile error: %v", err)
	}

	cfg := config.Default()
	cfg.Cache.Backend = config.BackendNone

	opts := renderOpts{kind: "scatter", output: dir}
	if err := runRender(testContext(cfg), input, &opts); err == nil {
		t.Error("runRender(bad kind) = nil error")
	}
}

func TestRunRenderMissingFile(t *testing.T) {
	cfg := config.Default()
	opts := renderOpts{kind: "pie"}
	if err := runRender(testContext(cfg), filepath.Join(t.TempDir(), "nope.json"), &opts); err == nil {
		t.Error("runRender(missing file) = nil error")
	}
}

func TestOutputDir(t *testing.T) {
	cfg := config.Default()

	if got := outputDir("/tmp/x", cfg); got != "/tmp/x" {
		t.Errorf("outputDir(flag) = %q", got)
	}

	cfg.Export.Dir = "/srv/charts"
	if got := outputDir("", cfg); got != "/srv/charts" {
		t.Errorf("outputDir(config) = %q", got)
	}

	cfg.Export.Dir = ""
	if got := outputDir("", cfg); got != "." {
		t.Errorf("outputDir(default) = %q", got)
	}
}

func TestConfigFromContextDefault(t *testing.T) {
	cfg := configFromContext(context.Background())
	if cfg.Export.DPI != config.Default().Export.DPI {
		t.Error("configFromContext without value should return defaults")
	}
}
