package layout

import (
	"math"
	"math/rand/v2"

	"github.com/matzehuels/arrange/pkg/graph"
)

// coincident is the squared distance below which two points are treated as
// sitting on top of each other and exert no force.
const coincident = 1e-12

// body is the simulation state of one node.
type body struct {
	x, y         float64
	dx, dy       float64
	oldDx, oldDy float64
	mass         float64
	convergence  float64
}

// ForceLayout places nodes so that connected ones cluster and unconnected
// ones spread apart. It runs a fixed number of relaxation steps, pushes
// overlapping nodes apart and finally normalizes the result around the
// options' center.
func ForceLayout(g *graph.Graph, opts Options) graph.Result {
	n := g.Order()
	if n == 0 {
		return graph.Result{}
	}
	s := opts.Force.withDefaults()
	rng := opts.rng()

	pos := simulate(g, s, rng)
	ResolveOverlaps(pos, s.MinDistance, s.OverlapPasses, rng)
	normalizeTo(pos, opts.center(), opts.scale(Force, n))

	return toResult(g, pos)
}

// simulate runs the relaxation loop and returns raw positions in node order.
func simulate(g *graph.Graph, s ForceSettings, rng *rand.Rand) []graph.Position {
	bodies := initialBodies(g, s.InitialSpread, rng)
	edges := g.EdgeIndices()
	start := make([]graph.Position, len(bodies))
	for i, b := range bodies {
		start[i] = graph.Position{X: b.x, Y: b.y}
	}

	for range s.Iterations {
		for i := range bodies {
			b := &bodies[i]
			b.oldDx, b.oldDy = b.dx, b.dy
			b.dx, b.dy = 0, 0
		}
		if len(bodies) > s.BarnesHutThreshold {
			repelApprox(bodies, s.ScalingRatio, s.BarnesHutTheta)
		} else {
			repelExact(bodies, s.ScalingRatio)
		}
		applyGravity(bodies, s.Gravity)
		attract(bodies, edges, s.LinearAttraction)
		step(bodies, s.SlowDown)
	}

	pos := make([]graph.Position, len(bodies))
	for i, b := range bodies {
		p := graph.Position{X: b.x, Y: b.y}
		if !p.IsFinite() {
			p = start[i]
		}
		pos[i] = p
	}
	return pos
}

// maxInitialHalfExtent bounds how far apart placed nodes may start. Larger
// layouts are shrunk into the initial spread so that distances between
// bodies stay finite.
const maxInitialHalfExtent = 1e9

func initialBodies(g *graph.Graph, spread float64, rng *rand.Rand) []body {
	bodies := make([]body, g.Order())
	placed := make([]graph.Position, 0, len(bodies))
	for i, node := range g.Nodes() {
		b := &bodies[i]
		if node.Position != nil && node.Position.IsFinite() {
			b.x, b.y = node.Position.X, node.Position.Y
			placed = append(placed, *node.Position)
		} else {
			b.x = (rng.Float64() - 0.5) * spread
			b.y = (rng.Float64() - 0.5) * spread
		}
		b.mass = 1 + float64(len(g.Neighbors(i)))
		b.convergence = 1
	}

	box := graph.Bounds(placed)
	if half := box.HalfExtent(); half > maxInitialHalfExtent {
		mid := box.Center()
		f := spread / 2 / half
		for i, node := range g.Nodes() {
			if node.Position == nil || !node.Position.IsFinite() {
				continue
			}
			b := &bodies[i]
			b.x = (b.x - mid.X) * f
			b.y = (b.y - mid.Y) * f
		}
	}
	return bodies
}

// =============================================================================
// Forces
// =============================================================================

// repelExact applies pairwise repulsion of magnitude k·m1·m2/d.
func repelExact(bodies []body, k float64) {
	for i := range bodies {
		a := &bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			b := &bodies[j]
			xd, yd := a.x-b.x, a.y-b.y
			d2 := xd*xd + yd*yd
			if d2 < coincident {
				continue
			}
			f := k * a.mass * b.mass / d2
			a.dx += xd * f
			a.dy += yd * f
			b.dx -= xd * f
			b.dy -= yd * f
		}
	}
}

// repelApprox applies repulsion using a Barnes-Hut quad-tree.
func repelApprox(bodies []body, k, theta float64) {
	tree := newQuadTree(bodies)
	for i := range bodies {
		tree.repel(bodies, i, k, theta)
	}
}

// applyGravity pulls every body toward the origin with magnitude mass·g.
func applyGravity(bodies []body, g float64) {
	for i := range bodies {
		b := &bodies[i]
		d := math.Hypot(b.x, b.y)
		if d*d < coincident {
			continue
		}
		f := b.mass * g / d
		b.dx -= b.x * f
		b.dy -= b.y * f
	}
}

// attract pulls the endpoints of every edge together, with magnitude
// log(1+d) or d when linear.
func attract(bodies []body, edges [][2]int, linear bool) {
	for _, e := range edges {
		a, b := &bodies[e[0]], &bodies[e[1]]
		xd, yd := a.x-b.x, a.y-b.y
		d := math.Hypot(xd, yd)
		if d*d < coincident {
			continue
		}
		f := -1.0
		if !linear {
			f = -math.Log1p(d) / d
		}
		a.dx += xd * f
		a.dy += yd * f
		b.dx -= xd * f
		b.dy -= yd * f
	}
}

// step moves every body along its accumulated force. Each body gets its own
// speed: high when the force keeps its direction between steps (traction),
// low when it flips back and forth (swinging).
func step(bodies []body, slowDown float64) {
	for i := range bodies {
		b := &bodies[i]
		swinging := b.mass * math.Hypot(b.oldDx-b.dx, b.oldDy-b.dy)
		traction := math.Hypot(b.oldDx+b.dx, b.oldDy+b.dy) / 2
		damp := 1 + math.Sqrt(swinging)

		speed := b.convergence * math.Log1p(traction) / damp
		if math.IsNaN(speed) || math.IsInf(speed, 0) {
			speed = 0
		}
		b.convergence = min(1, math.Sqrt(speed*(b.dx*b.dx+b.dy*b.dy)/damp))
		if math.IsNaN(b.convergence) {
			b.convergence = 1
		}

		mx := b.dx * speed / slowDown
		my := b.dy * speed / slowDown
		if math.IsNaN(mx) || math.IsInf(mx, 0) || math.IsNaN(my) || math.IsInf(my, 0) {
			continue
		}
		b.x += mx
		b.y += my
	}
}

func toResult(g *graph.Graph, pos []graph.Position) graph.Result {
	out := make(graph.Result, len(pos))
	for i, node := range g.Nodes() {
		out[node.ID] = pos[i]
	}
	return out
}
