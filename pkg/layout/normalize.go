package layout

import (
	"math"

	"github.com/matzehuels/arrange/pkg/graph"
)

// NormalizedSize returns the footprint Normalize scales n nodes to.
func NormalizedSize(n int) float64 {
	return max(1500, math.Sqrt(float64(n))*250)
}

// Normalize rescales pos in place so that the larger side of its bounding
// box equals NormalizedSize(n) and the box is centered on center. Scaling is
// uniform, so the shape is preserved. A zero extent counts as 1.
func Normalize(pos []graph.Position, center graph.Position, n int) {
	normalizeTo(pos, center, NormalizedSize(n))
}

func normalizeTo(pos []graph.Position, center graph.Position, target float64) {
	if len(pos) == 0 {
		return
	}
	box := graph.Bounds(pos)
	half := box.HalfExtent()
	if half <= 0 {
		half = 0.5
	}
	factor := target / 2 / half
	mid := box.Center()
	for i, p := range pos {
		pos[i] = center.Add(p.Sub(mid).Scale(factor))
	}
}
