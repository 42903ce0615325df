package pipeline

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/matzehuels/arrange/pkg/cache"
	arrerrors "github.com/matzehuels/arrange/pkg/errors"
	"github.com/matzehuels/arrange/pkg/graph"
	"github.com/matzehuels/arrange/pkg/layout"
	"github.com/matzehuels/arrange/pkg/observability"
	"github.com/matzehuels/arrange/pkg/offload"
	"github.com/matzehuels/arrange/pkg/render"
)

// Cache key types reported to observability hooks.
const (
	keyTypeLayout = "layout"
	keyTypeRender = "render"
)

// Runner encapsulates layout execution with caching and offloading.
// Both CLI and API use this to avoid duplicating that logic.
//
// The Runner stores no request results. Multiple goroutines can safely
// use the same Runner; identical concurrent requests share one
// computation.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Executor offload.Executor
	Logger   *log.Logger

	group singleflight.Group
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// If exec is nil, layouts run in-process.
func NewRunner(c cache.Cache, keyer cache.Keyer, exec offload.Executor, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if exec == nil {
		exec = offload.InProcess{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Executor: exec,
		Logger:   logger,
	}
}

// computed is the value shared between single-flight callers.
type computed struct {
	positions graph.Result
	jobID     string
}

// Compute runs a layout request: validate, cache lookup, single-flight
// execution, cache store.
//
// If ctx is cancelled while waiting, Compute returns ctx.Err(). The
// computation itself keeps running for the other callers sharing it and
// still populates the cache.
func (r *Runner) Compute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)
	start := time.Now()

	g := graph.Build(opts.Nodes, opts.Edges)
	result := &Result{
		Stats: Stats{NodeCount: g.Order(), EdgeCount: g.EdgeCount()},
	}
	if len(opts.Nodes) == 0 {
		result.Positions = graph.Result{}
		return result, nil
	}

	docData, err := graph.MarshalDocument(opts.Document())
	if err != nil {
		return nil, arrerrors.Wrap(arrerrors.ErrCodeInvalidInput, err, "encode request")
	}
	result.RequestHash = cache.Hash(docData)
	cacheKey := r.Keyer.LayoutKey(result.RequestHash, opts.LayoutKeyOpts())

	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, opts.Algorithm, result.Stats.NodeCount)

	if !opts.Refresh {
		if pos, ok := r.lookup(ctx, cacheKey); ok {
			result.Positions = pos
			result.CacheHit = true
			result.Stats.Duration = time.Since(start)
			hooks.OnLayoutComplete(ctx, opts.Algorithm, "cache", result.Stats.Duration, nil)
			opts.Logger.Debug("layout cache hit", "algorithm", opts.Algorithm, "nodes", result.Stats.NodeCount)
			return result, nil
		}
	}

	ch := r.group.DoChan(cacheKey, func() (any, error) {
		return r.execute(context.WithoutCancel(ctx), opts, cacheKey)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}

	result.Stats.Duration = time.Since(start)
	path := offload.Name(r.Executor)
	hooks.OnLayoutComplete(ctx, opts.Algorithm, path, result.Stats.Duration, res.Err)
	if res.Err != nil {
		return nil, wrapLayoutErr(res.Err)
	}

	c := res.Val.(computed)
	result.Positions = maps.Clone(c.positions)
	result.JobID = c.jobID
	result.Shared = res.Shared

	opts.Logger.Info("computed layout",
		"algorithm", opts.Algorithm,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"executor", path,
		"shared", result.Shared,
		"duration", result.Stats.Duration)

	return result, nil
}

// execute runs one job and stores its positions. It is the body shared by
// single-flight callers, so it must not depend on any one caller's ctx.
func (r *Runner) execute(ctx context.Context, opts Options, cacheKey string) (any, error) {
	job := opts.Job()
	opts.Logger.Debug("dispatching layout job",
		"job", job.ID,
		"algorithm", opts.Algorithm,
		"executor", offload.Name(r.Executor))

	pos, err := r.Executor.Execute(ctx, job)
	if err != nil {
		return nil, err
	}

	if data, err := graph.MarshalResult(pos); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, keyTypeLayout, len(data))
		}
	}
	return computed{positions: pos, jobID: job.ID}, nil
}

// lookup returns cached positions for key. Undecodable entries count as a miss.
func (r *Runner) lookup(ctx context.Context, key string) (graph.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err == nil && hit {
		if pos, err := graph.UnmarshalResult(data); err == nil {
			observability.Cache().OnCacheHit(ctx, keyTypeLayout)
			return pos, true
		}
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeLayout)
	return nil, false
}

// wrapLayoutErr gives executor errors a code unless they already carry one.
func wrapLayoutErr(err error) error {
	var coded *arrerrors.Error
	switch {
	case errors.As(err, &coded):
		return err
	case errors.Is(err, layout.ErrUnknownAlgorithm):
		return arrerrors.Wrap(arrerrors.ErrCodeUnknownAlgorithm, err, "layout")
	case errors.Is(err, context.DeadlineExceeded):
		return arrerrors.Wrap(arrerrors.ErrCodeTimeout, err, "layout")
	}
	return arrerrors.Wrap(arrerrors.ErrCodeInternal, err, "layout")
}

// =============================================================================
// Render
// =============================================================================

// RenderWithCacheInfo draws positions as a preview in opts.Format and
// reports whether the artifact came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, opts Options, positions graph.Result) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	layoutData, err := graph.MarshalResult(positions)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	docData, err := graph.MarshalDocument(opts.Document())
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	cacheKey := r.Keyer.RenderKey(cache.Hash(append(docData, layoutData...)), opts.RenderKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, keyTypeRender)
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, keyTypeRender)

	start := time.Now()
	dot := render.ToDOT(opts.Nodes, opts.Edges, positions, opts.RenderOptions())
	data, err := render.Render(ctx, dot, opts.RenderFormat())
	if err != nil {
		return nil, false, arrerrors.Wrap(arrerrors.ErrCodeInternal, err, "render %s", opts.Format)
	}

	if err := r.Cache.Set(ctx, cacheKey, data, cache.TTLRender); err == nil {
		observability.Cache().OnCacheSet(ctx, keyTypeRender, len(data))
	}

	opts.Logger.Info("rendered preview",
		"format", opts.Format,
		"bytes", len(data),
		"duration", time.Since(start))

	return data, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, opts Options, positions graph.Result) ([]byte, error) {
	data, _, err := r.RenderWithCacheInfo(ctx, opts, positions)
	return data, err
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
