package layout

import (
	"math"

	"github.com/matzehuels/arrange/pkg/graph"
)

// CircularLayout places nodes in input order at equal angles on a circle
// around the center, starting at angle zero.
func CircularLayout(g *graph.Graph, opts Options) graph.Result {
	n := g.Order()
	out := make(graph.Result, n)
	if n == 0 {
		return out
	}
	radius := opts.scale(Circular, n)
	c := opts.center()
	for i, node := range g.Nodes() {
		angle := 2 * math.Pi * float64(i) / float64(n)
		out[node.ID] = graph.Position{
			X: c.X + radius*math.Cos(angle),
			Y: c.Y + radius*math.Sin(angle),
		}
	}
	return out
}
