package api

import (
	"time"

	"github.com/matzehuels/arrange/pkg/buildinfo"
	"github.com/matzehuels/arrange/pkg/graph"
	"github.com/matzehuels/arrange/pkg/layout"
	"github.com/matzehuels/arrange/pkg/pipeline"
)

// MaxBodyBytes bounds a request body. Node and edge counts are bounded
// by the validate tags below.
const MaxBodyBytes = 32 << 20

// =============================================================================
// Requests
// =============================================================================

// NodeRequest is one node of a layout request.
type NodeRequest struct {
	ID       string          `json:"id" validate:"max=512"`
	Position *graph.Position `json:"position,omitempty"`
}

// EdgeRequest is one edge of a layout request.
type EdgeRequest struct {
	From string `json:"from" validate:"max=512"`
	To   string `json:"to" validate:"max=512"`
}

// LayoutRequest is the body of POST /v1/layout.
type LayoutRequest struct {
	Algorithm string                `json:"algorithm,omitempty" validate:"max=32"`
	Nodes     []NodeRequest         `json:"nodes" validate:"max=10000,dive"`
	Edges     []EdgeRequest         `json:"edges" validate:"max=50000,dive"`
	Center    *graph.Position       `json:"center,omitempty"`
	Scale     float64               `json:"scale,omitempty" validate:"gte=0"`
	Seed      uint64                `json:"seed,omitempty"`
	Force     *ForceRequest         `json:"force,omitempty"`
	Refresh   bool                  `json:"refresh,omitempty"`
}

// ForceRequest tunes the force layout of a request. The bounds match
// layout.ForceSettings.Validate.
type ForceRequest struct {
	Iterations         int     `json:"iterations,omitempty" validate:"gte=0,max=5000"`
	BarnesHutThreshold int     `json:"barnes_hut_threshold,omitempty" validate:"gte=0,max=2000"`
	BarnesHutTheta     float64 `json:"barnes_hut_theta,omitempty" validate:"gte=0,max=2"`
	Gravity            float64 `json:"gravity,omitempty" validate:"gte=0,max=10000"`
	ScalingRatio       float64 `json:"scaling_ratio,omitempty" validate:"gte=0,max=10000"`
	SlowDown           float64 `json:"slow_down,omitempty" validate:"gte=0,max=10000"`
	LinearAttraction   bool    `json:"linear_attraction,omitempty"`
	MinDistance        float64 `json:"min_distance,omitempty" validate:"gte=0,max=100000"`
	OverlapPasses      int     `json:"overlap_passes,omitempty" validate:"gte=0,max=50"`
	InitialSpread      float64 `json:"initial_spread,omitempty" validate:"gte=0,max=10000000"`
}

func (f *ForceRequest) settings() *layout.ForceSettings {
	if f == nil {
		return nil
	}
	return &layout.ForceSettings{
		Iterations:         f.Iterations,
		BarnesHutThreshold: f.BarnesHutThreshold,
		BarnesHutTheta:     f.BarnesHutTheta,
		Gravity:            f.Gravity,
		ScalingRatio:       f.ScalingRatio,
		SlowDown:           f.SlowDown,
		LinearAttraction:   f.LinearAttraction,
		MinDistance:        f.MinDistance,
		OverlapPasses:      f.OverlapPasses,
		InitialSpread:      f.InitialSpread,
	}
}

// RenderRequest is the body of POST /v1/render. When Positions is empty
// the layout is computed first.
type RenderRequest struct {
	LayoutRequest
	Positions graph.Result `json:"positions,omitempty"`
	Format    string       `json:"format,omitempty" validate:"omitempty,oneof=svg png pdf dot"`
	Unit      float64      `json:"unit,omitempty" validate:"gte=0"`
	Directed  bool         `json:"directed,omitempty"`
	Labels    bool         `json:"labels,omitempty"`
}

// options converts the request to pipeline options.
func (r LayoutRequest) options() pipeline.Options {
	nodes := make([]graph.Node, len(r.Nodes))
	for i, n := range r.Nodes {
		nodes[i] = graph.Node{ID: n.ID, Position: n.Position}
	}
	edges := make([]graph.Edge, len(r.Edges))
	for i, e := range r.Edges {
		edges[i] = graph.Edge{From: e.From, To: e.To}
	}
	return pipeline.Options{
		Algorithm: r.Algorithm,
		Nodes:     nodes,
		Edges:     edges,
		Center:    r.Center,
		Scale:     r.Scale,
		Seed:      r.Seed,
		Force:     r.Force.settings(),
		Refresh:   r.Refresh,
	}
}

func (r RenderRequest) options() pipeline.Options {
	opts := r.LayoutRequest.options()
	opts.Format = r.Format
	opts.Unit = r.Unit
	opts.Directed = r.Directed
	opts.Labels = r.Labels
	return opts
}

// =============================================================================
// Responses
// =============================================================================

// AlgorithmInfo describes one layout algorithm.
type AlgorithmInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LayoutResponse is the body returned by POST /v1/layout.
type LayoutResponse struct {
	Algorithm string       `json:"algorithm"`
	Positions graph.Result `json:"positions"`
	JobID     string       `json:"job_id,omitempty"`
	CacheHit  bool         `json:"cache_hit"`
	Shared    bool         `json:"shared"`
	Stats     StatsInfo    `json:"stats"`
}

// StatsInfo reports request statistics.
type StatsInfo struct {
	Nodes      int   `json:"nodes"`
	Edges      int   `json:"edges"`
	DurationMS int64 `json:"duration_ms"`
}

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func newLayoutResponse(algorithm string, res *pipeline.Result) LayoutResponse {
	return LayoutResponse{
		Algorithm: algorithm,
		Positions: res.Positions,
		JobID:     res.JobID,
		CacheHit:  res.CacheHit,
		Shared:    res.Shared,
		Stats: StatsInfo{
			Nodes:      res.Stats.NodeCount,
			Edges:      res.Stats.EdgeCount,
			DurationMS: res.Stats.Duration.Round(time.Millisecond).Milliseconds(),
		},
	}
}
