package layout

import (
	"math"

	"github.com/matzehuels/arrange/pkg/graph"
)

// GridDims returns the column and row count of the grid for n nodes.
func GridDims(n int) (cols, rows int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = (n + cols - 1) / cols
	return cols, rows
}

// GridLayout fills a near-square grid row by row in input order. The full
// grid, including empty trailing cells, is centered on the center.
func GridLayout(g *graph.Graph, opts Options) graph.Result {
	n := g.Order()
	out := make(graph.Result, n)
	if n == 0 {
		return out
	}
	cell := opts.scale(Grid, n)
	c := opts.center()
	cols, rows := GridDims(n)
	x0 := c.X - float64(cols-1)*cell/2
	y0 := c.Y - float64(rows-1)*cell/2
	for i, node := range g.Nodes() {
		out[node.ID] = graph.Position{
			X: x0 + float64(i%cols)*cell,
			Y: y0 + float64(i/cols)*cell,
		}
	}
	return out
}
