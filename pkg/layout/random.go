package layout

import "github.com/matzehuels/arrange/pkg/graph"

// RandomLayout scatters nodes uniformly in a square centered on the center.
// Nodes may overlap.
func RandomLayout(g *graph.Graph, opts Options) graph.Result {
	n := g.Order()
	out := make(graph.Result, n)
	if n == 0 {
		return out
	}
	side := opts.scale(Random, n)
	c := opts.center()
	rng := opts.rng()
	for _, node := range g.Nodes() {
		out[node.ID] = graph.Position{
			X: c.X - side/2 + rng.Float64()*side,
			Y: c.Y - side/2 + rng.Float64()*side,
		}
	}
	return out
}
