// Package nodelink renders Hasse diagrams as Graphviz node-link drawings.
//
// # Usage
//
// Convert a lattice to DOT, then render it:
//
//	dot := nodelink.ToDOT(l, nodelink.Options{Faces: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot)
//
// Nodes of equal rank share a Graphviz rank (rank=same subgraphs), so the
// drawing reads as the usual layered Hasse diagram with the top node at the
// top of the page regardless of construction direction. Artificial nodes are
// drawn dashed.
//
// # Dependencies
//
// Rendering happens in-process through [github.com/goccy/go-graphviz]; no
// external Graphviz installation is needed.
package nodelink
