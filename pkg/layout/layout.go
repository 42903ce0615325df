package layout

import (
	"fmt"

	"github.com/matzehuels/arrange/pkg/graph"
)

// Compute runs algorithm a over the given nodes and edges and returns one
// position per distinct node id.
//
// Input anomalies never fail the call: duplicate ids, dangling edges and
// self-loops are dropped while building the graph. The only error is
// ErrUnknownAlgorithm, which is reported even for empty input.
//
// When opts.Center is nil the result is centered on the centroid of the
// kept nodes that already carry a finite position, or on the origin if
// none do. When
// opts.Scale is zero the algorithm's DefaultScale is used. Compute keeps
// no state between calls and is safe for concurrent use as long as callers
// do not share an injected Rand.
func Compute(a Algorithm, nodes []graph.Node, edges []graph.Edge, opts Options) (graph.Result, error) {
	e, ok := lookup(a)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, a)
	}
	if len(nodes) == 0 {
		return graph.Result{}, nil
	}

	g := graph.Build(nodes, edges)
	if opts.Center == nil {
		c, _ := graph.Centroid(g.Nodes())
		opts.Center = &c
	}
	if opts.Scale <= 0 {
		opts.Scale = DefaultScale(a, g.Order())
	}
	return e.run(g, opts), nil
}
