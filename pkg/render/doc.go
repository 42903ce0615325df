// Package render draws a computed layout as a preview image.
//
// Layouts are produced by [layout.Compute]; this package only draws them.
// [ToDOT] emits Graphviz DOT with every node pinned (pos="x,y!") and the
// neato engine selected, so Graphviz keeps the positions it is given and
// only routes edges and paints nodes.
//
//	res, _ := layout.Compute(layout.Force, nodes, edges, layout.Options{})
//	dot := render.ToDOT(nodes, edges, res, render.Options{Labels: true})
//	svg, err := render.RenderSVG(ctx, dot)
//
// # Formats
//
//   - SVG and PNG come from the embedded Graphviz (go-graphviz, no system install)
//   - PDF converts the SVG with the external rsvg-convert tool (librsvg)
//   - DOT returns the generated source
//
// [layout.Compute]: github.com/matzehuels/arrange/pkg/layout.Compute
package render
