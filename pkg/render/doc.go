// Package render draws lattices.
//
// The [nodelink] subpackage turns a lattice into Graphviz DOT and renders
// it to SVG or PNG in-process.
//
// [nodelink]: github.com/matzehuels/hasse/pkg/render/nodelink
package render
