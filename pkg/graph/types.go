package graph

import "math"

// =============================================================================
// Position - Planar Coordinates
// =============================================================================

// Position is a point on the layout plane.
type Position struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns p translated by q.
func (p Position) Add(q Position) Position { return Position{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns the vector from q to p.
func (p Position) Sub(q Position) Position { return Position{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p multiplied by f on both axes.
func (p Position) Scale(f float64) Position { return Position{X: p.X * f, Y: p.Y * f} }

// Distance returns the Euclidean distance between p and q.
func (p Position) Distance(q Position) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// IsFinite reports whether both coordinates are neither NaN nor infinite.
func (p Position) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsNaN(p.Y) && !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0)
}

// =============================================================================
// Node and Edge - Caller Input
// =============================================================================

// Node is one diagram element as supplied by the caller.
// Position is nil when the element has never been placed.
type Node struct {
	ID       string    `json:"id" bson:"id"`
	Position *Position `json:"position,omitempty" bson:"position,omitempty"`
}

// At returns a node with the given id placed at (x, y).
func At(id string, x, y float64) Node {
	return Node{ID: id, Position: &Position{X: x, Y: y}}
}

// Edge is a relationship between two nodes. It is stored directed but
// layouts treat it as undirected.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// Document is the on-disk and over-the-wire form of a layout input.
type Document struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// =============================================================================
// Result - Layout Output
// =============================================================================

// Result maps every input node id to its final position.
type Result map[string]Position

// AllFinite reports whether every position in r has finite coordinates.
func (r Result) AllFinite() bool {
	for _, p := range r {
		if !p.IsFinite() {
			return false
		}
	}
	return true
}

// =============================================================================
// Box - Axis-Aligned Bounds
// =============================================================================

// Box is an axis-aligned bounding box.
type Box struct {
	MinX, MinY, MaxX, MaxY float64
}

// Width returns the horizontal extent of the box.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent of the box.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// Center returns the midpoint of the box. It stays finite for boxes whose
// width overflows.
func (b Box) Center() Position {
	return Position{X: b.MinX/2 + b.MaxX/2, Y: b.MinY/2 + b.MaxY/2}
}

// HalfExtent returns half the larger side of the box. It stays finite for
// boxes whose width overflows.
func (b Box) HalfExtent() float64 {
	return max(b.MaxX/2-b.MinX/2, b.MaxY/2-b.MinY/2)
}

// Bounds returns the bounding box of pts. The zero Box is returned for no points.
func Bounds(pts []Position) Box {
	if len(pts) == 0 {
		return Box{}
	}
	b := Box{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		b.MinX = min(b.MinX, p.X)
		b.MinY = min(b.MinY, p.Y)
		b.MaxX = max(b.MaxX, p.X)
		b.MaxY = max(b.MaxY, p.Y)
	}
	return b
}

// Centroid returns the mean position of the nodes that carry a finite
// position. ok is false when none of them do. The mean is accumulated
// incrementally so that coordinates near the float64 limits do not
// overflow.
func Centroid(nodes []Node) (c Position, ok bool) {
	var k float64
	for _, node := range nodes {
		if node.Position == nil || !node.Position.IsFinite() {
			continue
		}
		k++
		p := *node.Position
		c.X += p.X/k - c.X/k
		c.Y += p.Y/k - c.Y/k
	}
	return c, k > 0
}
