package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/matzehuels/arrange/pkg/graph"
)

// DefaultUnit is the number of Graphviz points drawn per layout unit.
// A force layout of a few dozen nodes spans about 1500 units, which at
// this factor fits a typical browser window.
const DefaultUnit = 0.5

// Options configures preview rendering.
type Options struct {
	// Unit is the number of points per layout unit. Zero means DefaultUnit.
	Unit float64

	// Directed draws edges as arrows from From to To. Layouts ignore edge
	// direction, so the default draws plain lines.
	Directed bool

	// Labels shows the node id inside each node. When false nodes are
	// drawn as small filled circles.
	Labels bool
}

func (o Options) unit() float64 {
	if o.Unit <= 0 {
		return DefaultUnit
	}
	return o.Unit
}

// ToDOT converts a computed layout to Graphviz DOT with every node pinned
// at its position, so rendering draws the layout rather than computing a
// new one.
//
// Nodes missing from positions are skipped along with their edges.
// The y axis is flipped: layouts grow downward, Graphviz grows upward.
func ToDOT(nodes []graph.Node, edges []graph.Edge, positions graph.Result, opts Options) string {
	g := graph.Build(nodes, edges)
	u := opts.unit()

	kind, arrow := "graph", "--"
	if opts.Directed {
		kind, arrow = "digraph", "->"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s G {\n", kind)
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=false;\n")
	if opts.Labels {
		buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	} else {
		buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#4c6ef5\", color=\"#364fc7\", label=\"\", width=0.3, fixedsize=true];\n")
	}
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		p, ok := positions[n.ID]
		if !ok || !p.IsFinite() {
			continue
		}
		fmt.Fprintf(&buf, "  %q [pos=\"%s,%s!\"];\n", n.ID, fmtCoord(p.X*u), fmtCoord(-p.Y*u))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges() {
		if _, ok := positions[e.From]; !ok {
			continue
		}
		if _, ok := positions[e.To]; !ok {
			continue
		}
		fmt.Fprintf(&buf, "  %q %s %q;\n", e.From, arrow, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtCoord(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}
