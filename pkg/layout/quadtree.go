package layout

import "math"

// maxQuadDepth bounds subdivision so that coincident bodies share a leaf
// instead of splitting forever.
const maxQuadDepth = 32

// quad is one region of a Barnes-Hut tree. A leaf holds body indices; an
// inner region holds four children and the aggregate mass of its subtree.
type quad struct {
	cx, cy   float64 // region center
	half     float64 // half the side length
	mass     float64
	mx, my   float64 // center of mass
	depth    int
	members  []int
	children *[4]quad
}

func newQuadTree(bodies []body) *quad {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, b := range bodies {
		minX, maxX = min(minX, b.x), max(maxX, b.x)
		minY, maxY = min(minY, b.y), max(maxY, b.y)
	}
	side := max(maxX-minX, maxY-minY, 1)
	root := &quad{
		cx:   (minX + maxX) / 2,
		cy:   (minY + maxY) / 2,
		half: side/2 + 1e-9*side,
	}
	for i := range bodies {
		root.insert(bodies, i)
	}
	return root
}

func (q *quad) insert(bodies []body, i int) {
	b := &bodies[i]
	total := q.mass + b.mass
	q.mx = (q.mx*q.mass + b.x*b.mass) / total
	q.my = (q.my*q.mass + b.y*b.mass) / total
	q.mass = total

	if q.children != nil {
		q.child(b.x, b.y).insert(bodies, i)
		return
	}
	if len(q.members) == 0 || q.depth >= maxQuadDepth {
		q.members = append(q.members, i)
		return
	}

	q.split()
	for _, j := range q.members {
		q.child(bodies[j].x, bodies[j].y).insert(bodies, j)
	}
	q.members = nil
	q.child(b.x, b.y).insert(bodies, i)
}

func (q *quad) split() {
	h := q.half / 2
	q.children = &[4]quad{
		{cx: q.cx - h, cy: q.cy - h, half: h, depth: q.depth + 1},
		{cx: q.cx + h, cy: q.cy - h, half: h, depth: q.depth + 1},
		{cx: q.cx - h, cy: q.cy + h, half: h, depth: q.depth + 1},
		{cx: q.cx + h, cy: q.cy + h, half: h, depth: q.depth + 1},
	}
}

// contains reports whether (x, y) lies in the region. A region holding the
// body itself is always opened, whatever theta is.
func (q *quad) contains(x, y float64) bool {
	return math.Abs(x-q.cx) <= q.half && math.Abs(y-q.cy) <= q.half
}

func (q *quad) child(x, y float64) *quad {
	k := 0
	if x >= q.cx {
		k |= 1
	}
	if y >= q.cy {
		k |= 2
	}
	return &q.children[k]
}

// repel adds to body i the repulsion of every body in the region. A region
// far enough away relative to its size (side/d < theta) acts as a single
// body at its center of mass.
func (q *quad) repel(bodies []body, i int, k, theta float64) {
	if q.mass == 0 {
		return
	}
	b := &bodies[i]

	if q.children == nil {
		for _, j := range q.members {
			if j == i {
				continue
			}
			o := &bodies[j]
			xd, yd := b.x-o.x, b.y-o.y
			d2 := xd*xd + yd*yd
			if d2 < coincident {
				continue
			}
			f := k * b.mass * o.mass / d2
			b.dx += xd * f
			b.dy += yd * f
		}
		return
	}

	xd, yd := b.x-q.mx, b.y-q.my
	d2 := xd*xd + yd*yd
	if d2 >= coincident && !q.contains(b.x, b.y) && 2*q.half < theta*math.Sqrt(d2) {
		f := k * b.mass * q.mass / d2
		b.dx += xd * f
		b.dy += yd * f
		return
	}
	for c := range q.children {
		q.children[c].repel(bodies, i, k, theta)
	}
}
