package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/venviro/chartkit/pkg/cache"
	"github.com/venviro/chartkit/pkg/dataset"
	"github.com/venviro/chartkit/pkg/export"
	"github.com/venviro/chartkit/pkg/observability"
	"github.com/venviro/chartkit/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the artifact cache lifetime, TTLArtifact by default.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    TTLArtifact,
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Dataset is the parsed and filtered dataset.
	Dataset *dataset.Dataset

	// DatasetHash is the content hash of the raw upload.
	DatasetHash string

	// Outcomes are the per-format export results, in request order.
	Outcomes []export.Outcome

	// Warnings are render-time warnings, e.g. zero-sum categories.
	// Empty when every artifact came from cache.
	Warnings []string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the artifact cache was hit.
	CacheInfo CacheInfo
}

// Artifacts returns the successful outcomes keyed by format name.
func (r *Result) Artifacts() map[string][]byte {
	m := make(map[string][]byte)
	for _, o := range r.Outcomes {
		if o.Err == nil && o.Data != nil {
			m[string(o.Format)] = o.Data
		}
	}
	return m
}

// Failed returns the outcomes that errored.
func (r *Result) Failed() []export.Outcome {
	var bad []export.Outcome
	for _, o := range r.Outcomes {
		if o.Err != nil {
			bad = append(bad, o)
		}
	}
	return bad
}

// Stats contains pipeline execution statistics.
type Stats struct {
	CategoryCount int
	GroupCount    int
	ParseTime     time.Duration
	RenderTime    time.Duration
	ExportTime    time.Duration
}

// CacheInfo tracks cache usage for a pipeline run.
type CacheInfo struct {
	// ArtifactHit is true when every requested format came from cache and
	// no rendering happened.
	ArtifactHit bool
}

// Execute runs the complete parse → render → export pipeline with caching.
func (r *Runner) Execute(ctx context.Context, upload []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{DatasetHash: cache.Hash(upload)}

	// Stage 1: Parse
	parseStart := time.Now()
	observability.Pipeline().OnParseStart(ctx, len(upload))
	ds, err := r.parse(upload, opts)
	result.Stats.ParseTime = time.Since(parseStart)
	if ds != nil {
		result.Stats.CategoryCount = ds.CategoryCount()
		result.Stats.GroupCount = ds.GroupCount()
	}
	observability.Pipeline().OnParseComplete(ctx, result.Stats.CategoryCount, result.Stats.GroupCount, result.Stats.ParseTime, err)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Dataset = ds

	r.Logger.Info("parsed dataset",
		"categories", ds.CategoryCount(),
		"groups", ds.GroupCount(),
		"duration", result.Stats.ParseTime)

	base := opts.Filename
	if base == "" {
		base = ds.FilenameBase
	}

	// Artifact cache: when every requested format is cached, the render
	// stage is skipped entirely.
	if !opts.Refresh {
		if outcomes, ok := r.cachedOutcomes(ctx, result.DatasetHash, base, opts); ok {
			result.Outcomes = outcomes
			result.CacheInfo.ArtifactHit = true
			r.Logger.Info("served from artifact cache", "formats", opts.Formats)
			return result, nil
		}
	}

	// Stage 2: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Kind)
	fig, err := render.Render(ds, opts.StyleConfig())
	result.Stats.RenderTime = time.Since(renderStart)
	if err != nil {
		observability.Pipeline().OnRenderComplete(ctx, opts.Kind, 0, result.Stats.RenderTime, err)
		return nil, fmt.Errorf("render: %w", err)
	}
	defer fig.Close()
	result.Warnings = fig.Warnings()
	observability.Pipeline().OnRenderComplete(ctx, opts.Kind, len(result.Warnings), result.Stats.RenderTime, nil)

	r.Logger.Info("rendered figure",
		"kind", opts.Kind,
		"size", fmt.Sprintf("%dx%d", fig.Width(), fig.Height()),
		"duration", result.Stats.RenderTime)

	// Stage 3: Export
	exportStart := time.Now()
	observability.Pipeline().OnExportStart(ctx, opts.Formats)
	exported, err := export.Export(fig, opts.ExportConfig(base))
	result.Stats.ExportTime = time.Since(exportStart)
	if err != nil {
		observability.Pipeline().OnExportComplete(ctx, opts.Formats, 0, result.Stats.ExportTime, err)
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Outcomes = exported.Outcomes
	observability.Pipeline().OnExportComplete(ctx, opts.Formats, len(exported.Failed()), result.Stats.ExportTime, nil)

	r.cacheOutcomes(ctx, result.DatasetHash, opts, exported.Outcomes)

	r.Logger.Info("exported artifacts",
		"formats", opts.Formats,
		"failed", len(exported.Failed()),
		"duration", result.Stats.ExportTime)

	return result, nil
}

// parse decodes the upload and applies the category filter.
func (r *Runner) parse(upload []byte, opts Options) (*dataset.Dataset, error) {
	ds, err := dataset.Parse(upload)
	if err != nil {
		return nil, err
	}
	if len(opts.Categories) > 0 {
		if err := ds.SetActiveCategories(opts.Categories); err != nil {
			return ds, err
		}
	}
	return ds, nil
}

// cachedOutcomes tries to serve every requested format from cache. It
// returns ok=false as soon as one format misses, since a render is then
// unavoidable anyway.
func (r *Runner) cachedOutcomes(ctx context.Context, datasetHash, base string, opts Options) ([]export.Outcome, bool) {
	// Stamped once so cache-served formats share a name, as Export does.
	stamped := export.BaseName(base, opts.AppendTimestamp)

	var outcomes []export.Outcome
	for _, f := range opts.ParsedFormats() {
		key := r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(f))
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		observability.Cache().OnCacheHit(ctx, "artifact")

		o := export.Outcome{Format: f, Filename: fmt.Sprintf("%s.%s", stamped, f.Ext())}
		if opts.LocalPath != "" {
			path, err := export.WriteLocal(opts.LocalPath, o.Filename, data)
			if err != nil {
				o.Err = err
			} else {
				o.Path = path
			}
		} else {
			o.Data = data
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, true
}

// cacheOutcomes stores the encoded bytes of successful download outcomes.
// Local exports carry no bytes in memory and are not cached.
func (r *Runner) cacheOutcomes(ctx context.Context, datasetHash string, opts Options, outcomes []export.Outcome) {
	for _, o := range outcomes {
		if o.Err != nil || o.Data == nil {
			continue
		}
		key := r.Keyer.ArtifactKey(datasetHash, opts.ArtifactKeyOpts(o.Format))
		if err := r.Cache.Set(ctx, key, o.Data, r.TTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(o.Data))
		}
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
