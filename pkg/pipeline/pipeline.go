// Package pipeline runs layout requests for the CLI, the API server and
// the worker.
//
// By centralizing this logic every entry point validates, caches and
// offloads layouts the same way.
//
// # Architecture
//
// A request passes through these steps:
//
//  1. Validate: resolve the algorithm and fill defaults ([Options.ValidateAndSetDefaults])
//  2. Cache: look up the positions by a content hash of the request
//  3. Single-flight: identical concurrent requests share one computation
//  4. Execute: hand the job to an [offload.Executor], which falls back to
//     in-process computation when the isolated context fails
//  5. Store: write the positions back to the cache
//
// A computed layout can then be drawn with [Runner.Render], which caches
// rendered previews the same way.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, executor, logger)
//	res, err := runner.Compute(ctx, pipeline.Options{
//	    Algorithm: "force",
//	    Nodes:     doc.Nodes,
//	    Edges:     doc.Edges,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Positions["a"])
//
// # Ordering
//
// The runner does not sequence distinct requests. A caller that issues a
// second layout for the same diagram before the first returns is
// responsible for discarding the stale result.
//
// [offload.Executor]: github.com/matzehuels/arrange/pkg/offload.Executor
package pipeline

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/arrange/pkg/cache"
	arrerrors "github.com/matzehuels/arrange/pkg/errors"
	"github.com/matzehuels/arrange/pkg/graph"
	"github.com/matzehuels/arrange/pkg/layout"
	"github.com/matzehuels/arrange/pkg/offload"
	"github.com/matzehuels/arrange/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultAlgorithm is used when a request names none.
	DefaultAlgorithm = layout.Force

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = layout.DefaultSeed

	// DefaultFormat is the default preview format.
	DefaultFormat = render.FormatSVG
)

// =============================================================================
// Options - Request Configuration
// =============================================================================

// Options contains everything a layout request carries.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Algorithm string                `json:"algorithm,omitempty"`
	Nodes     []graph.Node          `json:"nodes"`
	Edges     []graph.Edge          `json:"edges"`
	Center    *graph.Position       `json:"center,omitempty"`
	Scale     float64               `json:"scale,omitempty"`
	Seed      uint64                `json:"seed,omitempty"`
	Force     *layout.ForceSettings `json:"force,omitempty"`
	Refresh   bool                  `json:"refresh,omitempty"` // Skip cache lookup

	// Render options
	Format   string  `json:"format,omitempty"`
	Unit     float64 `json:"unit,omitempty"`
	Directed bool    `json:"directed,omitempty"`
	Labels   bool    `json:"labels,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	algorithm layout.Algorithm
	format    render.Format

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a layout request.
type Result struct {
	// Positions maps every distinct input node id to its position.
	Positions graph.Result

	// JobID identifies the computation. Empty on a cache hit.
	JobID string

	// RequestHash is the content hash of nodes and edges.
	RequestHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether the positions came from the cache.
	CacheHit bool

	// Shared reports whether the positions came from a concurrent
	// identical request's computation.
	Shared bool
}

// Stats contains request statistics.
type Stats struct {
	NodeCount int
	EdgeCount int
	Duration  time.Duration
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults resolves the algorithm and format and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
//
// An unknown algorithm is reported with code UNKNOWN_ALGORITHM and wraps
// layout.ErrUnknownAlgorithm.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	o.algorithm = DefaultAlgorithm
	if o.Algorithm != "" {
		a, err := layout.Parse(o.Algorithm)
		if err != nil {
			return arrerrors.Wrap(arrerrors.ErrCodeUnknownAlgorithm, err, "unknown layout algorithm %q", o.Algorithm)
		}
		o.algorithm = a
	}
	o.Algorithm = string(o.algorithm)

	if o.Scale < 0 {
		return arrerrors.New(arrerrors.ErrCodeInvalidInput, "scale must not be negative")
	}
	if o.Force != nil {
		if err := o.Force.Validate(); err != nil {
			return arrerrors.Wrap(arrerrors.ErrCodeInvalidInput, err, "invalid force settings")
		}
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}

	o.format = DefaultFormat
	if o.Format != "" {
		f, err := render.ParseFormat(o.Format)
		if err != nil {
			return arrerrors.Wrap(arrerrors.ErrCodeInvalidInput, err, "invalid format")
		}
		o.format = f
	}
	o.Format = string(o.format)

	o.validated = true
	return nil
}

// LayoutAlgorithm returns the resolved algorithm. Valid after ValidateAndSetDefaults.
func (o *Options) LayoutAlgorithm() layout.Algorithm { return o.algorithm }

// RenderFormat returns the resolved preview format. Valid after ValidateAndSetDefaults.
func (o *Options) RenderFormat() render.Format { return o.format }

// Document returns the request's graph input.
func (o *Options) Document() graph.Document {
	return graph.Document{Nodes: o.Nodes, Edges: o.Edges}
}

// Job converts the request into an offload job with a fresh id.
func (o *Options) Job() offload.Job {
	return offload.NewJob(o.algorithm, o.Nodes, o.Edges, offload.JobOptions{
		Center: o.Center,
		Scale:  o.Scale,
		Seed:   o.Seed,
		Force:  o.Force,
	})
}

// LayoutKeyOpts returns the options that identify a layout in the cache.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	opts := cache.LayoutKeyOpts{
		Algorithm: o.Algorithm,
		Seed:      o.Seed,
		Scale:     o.Scale,
	}
	if o.Center != nil {
		opts.Center = []float64{o.Center.X, o.Center.Y}
	}
	if o.Force != nil && o.algorithm == layout.Force {
		opts.Settings = fmt.Sprintf("%+v", *o.Force)
	}
	return opts
}

// RenderKeyOpts returns the options that identify a rendered preview in the cache.
func (o *Options) RenderKeyOpts() cache.RenderKeyOpts {
	return cache.RenderKeyOpts{
		Format:   o.Format,
		Unit:     o.Unit,
		Directed: o.Directed,
		Labels:   o.Labels,
	}
}

// RenderOptions converts the request's preview settings.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		Unit:     o.Unit,
		Directed: o.Directed,
		Labels:   o.Labels,
	}
}
