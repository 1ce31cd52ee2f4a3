// Package nodelink renders a computed component layout as a node-link
// diagram: boxes for components, arrows from parent to child.
//
// # Usage
//
// Convert a layout to DOT, then render to SVG:
//
//	l := layout.Build(g)
//	dot := nodelink.ToDOT(l, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// or in one step with [Render].
//
// # DOT Format
//
// [ToDOT] emits one node per laid-out component, one `rank=same` group per
// layout rank and one edge per parent → child relation, carrying the edge
// identity ("parent-child") as the Graphviz id. The output can be saved and
// processed with external Graphviz tools.
//
// # Dependencies
//
// Rendering uses [github.com/goccy/go-graphviz], which runs Graphviz
// in-process through WebAssembly, so no system installation is needed.
package nodelink
