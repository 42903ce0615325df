package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/arrange/pkg/graph"
)

// ResolveOverlaps pushes apart pairs of positions closer than minDist, in
// place. Each pass visits every unordered pair once and moves both members
// away from each other by half the deficit. Pairs at exactly the same spot
// have no direction, so the second one is moved by a random offset instead.
//
// A pass never leaves more too-close pairs than it started with. The
// sequential sweep is tried first; if its later moves created more
// overlaps than they removed, the pass is redone with every push computed
// from the positions at the start of the pass, and if that is no better
// either the positions are left as they were. The result is not guaranteed
// overlap free.
//
// The returned slice has passes+1 entries: the number of too-close pairs
// before each pass and after the last one.
func ResolveOverlaps(pos []graph.Position, minDist float64, passes int, rng *rand.Rand) []int {
	counts := make([]int, 0, passes+1)
	cur := CountOverlaps(pos, minDist)
	counts = append(counts, cur)

	start := make([]graph.Position, len(pos))
	for range passes {
		copy(start, pos)
		resolvePass(pos, minDist, rng)
		next := CountOverlaps(pos, minDist)
		if next > cur {
			copy(pos, start)
			resolvePassSimultaneous(pos, start, minDist, rng)
			next = CountOverlaps(pos, minDist)
		}
		if next > cur {
			copy(pos, start)
			next = cur
		}
		counts = append(counts, next)
		cur = next
	}
	return counts
}

// resolvePass moves pairs apart one after the other, so later pairs see
// the moves made for earlier ones.
func resolvePass(pos []graph.Position, minDist float64, rng *rand.Rand) {
	for i := range pos {
		for j := i + 1; j < len(pos); j++ {
			xd, yd := pos[j].X-pos[i].X, pos[j].Y-pos[i].Y
			d := math.Hypot(xd, yd)
			if d >= minDist {
				continue
			}
			if d == 0 {
				pos[j].X += (rng.Float64() - 0.5) * minDist
				pos[j].Y += (rng.Float64() - 0.5) * minDist
				continue
			}
			push := (minDist - d) / 2 / d
			pos[i].X -= xd * push
			pos[i].Y -= yd * push
			pos[j].X += xd * push
			pos[j].Y += yd * push
		}
	}
}

// resolvePassSimultaneous computes every push from start and applies them
// together to pos.
func resolvePassSimultaneous(pos, start []graph.Position, minDist float64, rng *rand.Rand) {
	for i := range start {
		for j := i + 1; j < len(start); j++ {
			xd, yd := start[j].X-start[i].X, start[j].Y-start[i].Y
			d := math.Hypot(xd, yd)
			if d >= minDist {
				continue
			}
			if d == 0 {
				pos[j].X += (rng.Float64() - 0.5) * minDist
				pos[j].Y += (rng.Float64() - 0.5) * minDist
				continue
			}
			push := (minDist - d) / 2 / d
			pos[i].X -= xd * push
			pos[i].Y -= yd * push
			pos[j].X += xd * push
			pos[j].Y += yd * push
		}
	}
}

// CountOverlaps returns the number of unordered pairs closer than minDist.
func CountOverlaps(pos []graph.Position, minDist float64) int {
	var n int
	for i := range pos {
		for j := i + 1; j < len(pos); j++ {
			if pos[i].Distance(pos[j]) < minDist {
				n++
			}
		}
	}
	return n
}
