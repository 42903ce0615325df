package offload

import (
	"github.com/google/uuid"

	"github.com/matzehuels/arrange/pkg/graph"
	"github.com/matzehuels/arrange/pkg/layout"
)

// JobOptions is the serializable subset of layout.Options. An injected
// random source cannot cross a process boundary; jobs carry the seed.
type JobOptions struct {
	Center *graph.Position       `json:"center,omitempty"`
	Scale  float64               `json:"scale,omitempty"`
	Seed   uint64                `json:"seed,omitempty"`
	Force  *layout.ForceSettings `json:"force,omitempty"`
}

// Job is one layout request.
type Job struct {
	ID        string           `json:"id"`
	Algorithm layout.Algorithm `json:"algorithm"`
	Nodes     []graph.Node     `json:"nodes"`
	Edges     []graph.Edge     `json:"edges"`
	Options   JobOptions       `json:"options"`
}

// NewJob creates a job with a fresh random id.
func NewJob(a layout.Algorithm, nodes []graph.Node, edges []graph.Edge, opts JobOptions) Job {
	return Job{
		ID:        uuid.NewString(),
		Algorithm: a,
		Nodes:     nodes,
		Edges:     edges,
		Options:   opts,
	}
}

// LayoutOptions converts the job options for layout.Compute.
func (j Job) LayoutOptions() layout.Options {
	opts := layout.Options{
		Center: j.Options.Center,
		Scale:  j.Options.Scale,
		Seed:   j.Options.Seed,
	}
	if j.Options.Force != nil {
		opts.Force = *j.Options.Force
	}
	return opts
}

// Run computes the job on the calling goroutine.
func (j Job) Run() (graph.Result, error) {
	return layout.Compute(j.Algorithm, j.Nodes, j.Edges, j.LayoutOptions())
}

// Response is the worker's answer to a Job.
type Response struct {
	JobID     string       `json:"job_id"`
	Positions graph.Result `json:"positions,omitempty"`
	Error     string       `json:"error,omitempty"`
	Code      string       `json:"code,omitempty"`
}
