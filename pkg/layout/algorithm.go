package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/matzehuels/arrange/pkg/graph"
)

// Algorithm identifies a layout strategy.
type Algorithm string

// Supported algorithms, in the order List returns them.
const (
	Force    Algorithm = "force"
	Circular Algorithm = "circular"
	Grid     Algorithm = "grid"
	Random   Algorithm = "random"
)

// ErrUnknownAlgorithm is returned when an algorithm id is not one of List().
var ErrUnknownAlgorithm = errors.New("unknown layout algorithm")

// Func computes positions for every node of g.
type Func func(g *graph.Graph, opts Options) graph.Result

type entry struct {
	id          Algorithm
	name        string
	description string
	run         Func
}

// catalog is the static algorithm table. It is never modified after init.
var catalog = []entry{
	{Force, "Force-directed", "Connected elements cluster together while unrelated elements drift apart.", ForceLayout},
	{Circular, "Circular", "Places elements evenly around a circle sized to the element count.", CircularLayout},
	{Grid, "Grid", "Arranges elements row by row in a near-square grid.", GridLayout},
	{Random, "Random", "Scatters elements uniformly inside a square; overlaps are possible.", RandomLayout},
}

// List returns every supported algorithm in display order.
func List() []Algorithm {
	out := make([]Algorithm, len(catalog))
	for i, e := range catalog {
		out[i] = e.id
	}
	return out
}

// Describe returns the display name and a one-line description of a.
// Unknown ids are returned as their own name with an empty description.
func Describe(a Algorithm) (name, description string) {
	if e, ok := lookup(a); ok {
		return e.name, e.description
	}
	return string(a), ""
}

// Parse converts s to an Algorithm, ignoring case and surrounding space.
func Parse(s string) (Algorithm, error) {
	a := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := lookup(a); !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
	return a, nil
}

// Valid reports whether a is a supported algorithm.
func (a Algorithm) Valid() bool {
	_, ok := lookup(a)
	return ok
}

func lookup(a Algorithm) (entry, bool) {
	for _, e := range catalog {
		if e.id == a {
			return e, true
		}
	}
	return entry{}, false
}
