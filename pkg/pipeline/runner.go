package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/diag"
	"github.com/matzehuels/lineage/pkg/genealogy"
	"github.com/matzehuels/lineage/pkg/graph"
	pkgio "github.com/matzehuels/lineage/pkg/io"
	"github.com/matzehuels/lineage/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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
	}
}

// Execute runs the complete load → gate → graph → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, result, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Load reads and parses the input (or takes its record views from the
// cache), applies the version gate and builds the relationship graph.
func (r *Runner) Load(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	data, err := ReadSource(opts)
	if err != nil {
		return nil, err
	}
	result := &Result{FileHash: cache.Hash(data)}

	// Stage 1: Load
	parseStart := time.Now()
	exp, hit, err := r.loadExport(ctx, data, result.FileHash, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Export = exp
	result.Stats.ParseTime = time.Since(parseStart)
	result.CacheInfo.LoadHit = hit

	// Stage 2: Gate
	warning, err := CheckVersion(exp, opts)
	if err != nil {
		return nil, err
	}
	result.Diagnostics = append(result.Diagnostics, exp.Diagnostics...)
	if warning != nil {
		opts.Logger.Warn(warning.Message, "kind", warning.Kind)
		result.Diagnostics = append(result.Diagnostics, *warning)
	}

	// Stage 3: Graph
	buildStart := time.Now()
	observability.Pipeline().OnBuildStart(ctx, len(exp.Individuals))
	collector := diag.NewCollector()
	result.Graph = genealogy.Build(exp.Individuals, exp.Families, genealogy.BuildOptions{
		Logger:      opts.Logger,
		Diagnostics: diag.Multi(collector, diag.NewLogSink(opts.Logger)),
	})
	result.Stats.BuildTime = time.Since(buildStart)
	observability.Pipeline().OnBuildComplete(ctx, result.Graph.Len(),
		len(collector.OfKind(diag.KindDanglingReference)), result.Stats.BuildTime)
	result.Diagnostics = append(result.Diagnostics, collector.All()...)

	result.Stats.Individuals = result.Graph.Len()
	result.Stats.Families = len(exp.Families)

	// Hash the serialized graph for artifact cache keys and API responses
	gj := graph.FromGenealogy(result.Graph)
	gj.Version = result.HeaderVersion().OrElse("")
	if graphData, err := json.Marshal(gj); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("loaded family tree",
		"source", opts.SourceName(),
		"individuals", result.Stats.Individuals,
		"families", result.Stats.Families,
		"diagnostics", len(result.Diagnostics),
		"cached", hit,
		"duration", result.Stats.ParseTime+result.Stats.BuildTime)

	return result, nil
}

// loadExport returns the record views of data, from the cache unless
// opts.Refresh is set. A fresh parse is written back to the cache.
func (r *Runner) loadExport(ctx context.Context, data []byte, fileHash string, opts Options) (pkgio.Export, bool, error) {
	key := r.Keyer.GraphKey(fileHash, opts.GraphKeyOpts())

	if !opts.Refresh {
		var exp pkgio.Export
		if err := cache.GetJSON(ctx, r.Cache, key, &exp); err == nil {
			observability.Cache().OnCacheHit(ctx, "graph")
			return exp, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	source := opts.SourceName()
	observability.Pipeline().OnParseStart(ctx, source)
	start := time.Now()
	exp, err := Parse(data, opts)
	observability.Pipeline().OnParseComplete(ctx, source, len(exp.Individuals)+len(exp.Families), time.Since(start), err)
	if err != nil {
		return pkgio.Export{}, false, err
	}

	if encoded, err := json.Marshal(exp); err == nil {
		if err := r.Cache.Set(ctx, key, encoded, opts.CacheTTL); err != nil {
			r.Logger.Debug("cache write failed", "key", key, "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "graph", len(encoded))
		}
	}
	return exp, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, res *Result, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(res.GraphHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil // All artifacts from cache
	}

	renderOpts := opts
	renderOpts.Formats = missing
	observability.Pipeline().OnRenderStart(ctx, missing)
	start := time.Now()
	rendered, err := Render(ctx, res, renderOpts)
	observability.Pipeline().OnRenderComplete(ctx, missing, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(res.GraphHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, opts.CacheTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
		artifacts[format] = data
	}
	return artifacts, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, res *Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, res, opts)
	return artifacts, err
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
