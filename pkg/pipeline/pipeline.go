// Package pipeline provides the core chart pipeline for chartkit.
//
// This package implements the complete parse → render → export pipeline that
// can be used by CLI and API components. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Decode and validate the JSON upload into a dataset
//  2. Render: Build a figure for the requested chart kind
//  3. Export: Encode the figure into one or more output formats
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Kind:    "pie",
//	    Formats: []string{"png", "svg"},
//	}
//	result, err := runner.Execute(ctx, upload, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	png := result.Artifacts["png"]
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/venviro/chartkit/pkg/cache"
	"github.com/venviro/chartkit/pkg/export"
	"github.com/venviro/chartkit/pkg/palette"
	"github.com/venviro/chartkit/pkg/render"
)

// Defaults shared by CLI and API so both entry points behave identically.
const (
	// DefaultDPI is the default output resolution.
	DefaultDPI = 100

	// TTLArtifact is how long exported artifacts stay cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// DefaultFormats are the formats produced when none are requested.
var DefaultFormats = []string{"png"}

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Render options
	Kind       string   `json:"kind"`
	Scheme     string   `json:"scheme,omitempty"`
	Categories []string `json:"categories,omitempty"` // Active category filter, empty means all
	Title      string   `json:"title,omitempty"`
	XLabel     string   `json:"x_label,omitempty"`
	YLabel     string   `json:"y_label,omitempty"`
	PieGroup   string   `json:"pie_group,omitempty"`

	// Export options
	Formats         []string `json:"formats,omitempty"`
	DPI             int      `json:"dpi,omitempty"`
	Filename        string   `json:"filename,omitempty"` // Overrides the dataset filename base
	AppendTimestamp bool     `json:"append_timestamp,omitempty"`
	LocalPath       string   `json:"local_path,omitempty"` // Non-empty means write files instead of returning bytes
	Refresh         bool     `json:"refresh,omitempty"`    // Bypass the artifact cache

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// Parsed forms, populated by ValidateAndSetDefaults.
	kind    render.Kind
	scheme  palette.Scheme
	formats []export.Format

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect
// as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	kind, err := render.ParseKind(o.Kind)
	if err != nil {
		return err
	}
	o.kind = kind

	scheme, err := palette.Parse(o.Scheme)
	if err != nil {
		return err
	}
	o.scheme = scheme

	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	formats, err := export.ParseFormats(o.Formats)
	if err != nil {
		return err
	}
	o.formats = formats

	if o.DPI == 0 {
		o.DPI = DefaultDPI
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// StyleConfig returns the render configuration for these options.
// ValidateAndSetDefaults must have been called.
func (o *Options) StyleConfig() render.StyleConfig {
	return render.StyleConfig{
		Kind:     o.kind,
		Scheme:   o.scheme,
		Title:    o.Title,
		XLabel:   o.XLabel,
		YLabel:   o.YLabel,
		PieGroup: o.PieGroup,
	}
}

// ExportConfig returns the export configuration for these options with the
// given filename base. ValidateAndSetDefaults must have been called.
func (o *Options) ExportConfig(filenameBase string) export.Config {
	dest := export.DestDownload
	if o.LocalPath != "" {
		dest = export.DestLocal
	}
	return export.Config{
		Formats:         o.formats,
		DPI:             o.DPI,
		Filename:        filenameBase,
		AppendTimestamp: o.AppendTimestamp,
		Destination:     dest,
		LocalPath:       o.LocalPath,
	}
}

// ArtifactKeyOpts returns cache key options for one exported format. Every
// field that changes output bytes participates, so stale artifacts are
// never served.
func (o *Options) ArtifactKeyOpts(format export.Format) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Kind:       o.Kind,
		Scheme:     string(o.scheme),
		Title:      o.Title,
		XLabel:     o.XLabel,
		YLabel:     o.YLabel,
		PieGroup:   o.PieGroup,
		Categories: o.Categories,
		Format:     string(format),
		DPI:        o.DPI,
	}
}

// ParsedFormats returns the parsed output formats.
// ValidateAndSetDefaults must have been called.
func (o *Options) ParsedFormats() []export.Format {
	return o.formats
}
