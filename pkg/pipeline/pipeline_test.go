package pipeline

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/venviro/chartkit/pkg/cache"
	"github.com/venviro/chartkit/pkg/errors"
	"github.com/venviro/chartkit/pkg/export"
)

const sampleUpload = `{
	"title": "Umfrage",
	"category_names": ["Ja", "Nein"],
	"results": {"stimmen": [3, 1]},
	"filename": "umfrage.png"
}`

func quietRunner(c cache.Cache) *Runner {
	return NewRunner(c, nil, log.NewWithOptions(io.Discard, log.Options{}))
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{Kind: "pie"}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}

	if opts.DPI != DefaultDPI {
		t.Errorf("DPI = %d, want %d", opts.DPI, DefaultDPI)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != "png" {
		t.Errorf("Formats = %v, want [png]", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
	if got := opts.StyleConfig(); got.Scheme != "default" {
		t.Errorf("StyleConfig().Scheme = %q, want default", got.Scheme)
	}

	// Idempotent
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Errorf("second ValidateAndSetDefaults() error: %v", err)
	}
}

func TestOptionsValidationFailures(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{name: "missing kind", opts: Options{}, code: errors.ErrCodeUnsupportedKind},
		{name: "bad kind", opts: Options{Kind: "scatter"}, code: errors.ErrCodeUnsupportedKind},
		{name: "bad scheme", opts: Options{Kind: "pie", Scheme: "neon"}, code: errors.ErrCodeInvalidScheme},
		{name: "bad format", opts: Options{Kind: "pie", Formats: []string{"gif"}}, code: errors.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Fatalf("ValidateAndSetDefaults() = %v, want %v", err, tt.code)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	r := quietRunner(nil)
	defer r.Close()

	result, err := r.Execute(context.Background(), []byte(sampleUpload), Options{
		Kind:    "pie",
		Formats: []string{"png", "svg"},
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Dataset == nil || result.Dataset.Title != "Umfrage" {
		t.Error("Result.Dataset missing or wrong")
	}
	if result.DatasetHash == "" {
		t.Error("Result.DatasetHash is empty")
	}
	if result.Stats.CategoryCount != 2 || result.Stats.GroupCount != 1 {
		t.Errorf("Stats = %+v", result.Stats)
	}

	artifacts := result.Artifacts()
	if len(artifacts) != 2 {
		t.Fatalf("Artifacts() has %d entries, want 2", len(artifacts))
	}
	for _, f := range []string{"png", "svg"} {
		if len(artifacts[f]) == 0 {
			t.Errorf("artifact %q is empty", f)
		}
	}

	wantNames := []string{"umfrage.png", "umfrage.svg"}
	for i, o := range result.Outcomes {
		if o.Filename != wantNames[i] {
			t.Errorf("Outcomes[%d].Filename = %q, want %q", i, o.Filename, wantNames[i])
		}
	}
	if result.CacheInfo.ArtifactHit {
		t.Error("first run should not hit the artifact cache")
	}
}

func TestExecuteValidationErrors(t *testing.T) {
	r := quietRunner(nil)
	defer r.Close()
	ctx := context.Background()

	// Malformed upload
	_, err := r.Execute(ctx, []byte(`{`), Options{Kind: "pie"})
	if err == nil {
		t.Error("Execute(malformed upload) = nil error")
	}

	// Filter removing everything
	_, err = r.Execute(ctx, []byte(sampleUpload), Options{
		Kind:       "pie",
		Categories: []string{"unknown"},
	})
	if !errors.Is(err, errors.ErrCodeEmptyDataset) {
		t.Errorf("Execute(bad filter) = %v, want EMPTY_DATASET", err)
	}

	// Render failure surfaces
	_, err = r.Execute(ctx, []byte(sampleUpload), Options{
		Kind:       "pie",
		Categories: []string{"Ja"},
	})
	if !errors.Is(err, errors.ErrCodeInsufficientData) {
		t.Errorf("Execute(1-slice pie) = %v, want INSUFFICIENT_DATA", err)
	}
}

func TestExecuteArtifactCache(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	r := quietRunner(c)
	defer r.Close()
	ctx := context.Background()

	opts := Options{Kind: "pie", Formats: []string{"svg"}}

	first, err := r.Execute(ctx, []byte(sampleUpload), opts)
	if err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}
	if first.CacheInfo.ArtifactHit {
		t.Error("first run should miss the cache")
	}

	second, err := r.Execute(ctx, []byte(sampleUpload), opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !second.CacheInfo.ArtifactHit {
		t.Error("second run should hit the cache")
	}
	if string(second.Artifacts()["svg"]) != string(first.Artifacts()["svg"]) {
		t.Error("cached artifact differs from rendered artifact")
	}

	// Refresh bypasses the cache
	third, err := r.Execute(ctx, []byte(sampleUpload), Options{Kind: "pie", Formats: []string{"svg"}, Refresh: true})
	if err != nil {
		t.Fatalf("third Execute() error: %v", err)
	}
	if third.CacheInfo.ArtifactHit {
		t.Error("refresh run should not hit the cache")
	}

	// A different DPI must not reuse the cached bytes
	fourth, err := r.Execute(ctx, []byte(sampleUpload), Options{Kind: "pie", Formats: []string{"svg"}, DPI: 300})
	if err != nil {
		t.Fatalf("fourth Execute() error: %v", err)
	}
	if fourth.CacheInfo.ArtifactHit {
		t.Error("different DPI should be a cache miss")
	}
}

func TestCachedOutcomesShareTimestamp(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	r := quietRunner(c)
	defer r.Close()
	ctx := context.Background()

	opts := Options{Kind: "pie", Formats: []string{"png", "svg"}, AppendTimestamp: true}
	if _, err := r.Execute(ctx, []byte(sampleUpload), opts); err != nil {
		t.Fatalf("first Execute() error: %v", err)
	}

	second, err := r.Execute(ctx, []byte(sampleUpload), opts)
	if err != nil {
		t.Fatalf("second Execute() error: %v", err)
	}
	if !second.CacheInfo.ArtifactHit {
		t.Fatal("second run should hit the cache")
	}

	// Cache-served formats carry one stamp per batch, like a fresh export.
	pngBase := strings.TrimSuffix(second.Outcomes[0].Filename, ".png")
	svgBase := strings.TrimSuffix(second.Outcomes[1].Filename, ".svg")
	if pngBase != svgBase {
		t.Errorf("filename bases diverge: %q vs %q", pngBase, svgBase)
	}

	stamp := strings.TrimPrefix(pngBase, "umfrage_")
	if _, err := time.Parse(export.TimestampLayout, stamp); err != nil {
		t.Errorf("filename stamp %q does not match the export layout: %v", stamp, err)
	}
}

func TestExecuteLocalDestination(t *testing.T) {
	r := quietRunner(nil)
	defer r.Close()

	dir := t.TempDir()
	result, err := r.Execute(context.Background(), []byte(sampleUpload), Options{
		Kind:      "pie",
		Formats:   []string{"png"},
		LocalPath: dir,
	})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	o := result.Outcomes[0]
	if o.Err != nil {
		t.Fatalf("Outcome.Err = %v", o.Err)
	}
	if o.Path == "" {
		t.Error("Outcome.Path empty for local export")
	}
	if len(result.Artifacts()) != 0 {
		t.Error("local export should not carry in-memory artifacts")
	}
}
