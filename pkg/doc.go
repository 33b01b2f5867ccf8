// Package pkg holds the libraries behind the hasse command.
//
// # Overview
//
// Hasse computes the Hasse diagram of the lattice of closed sets of a closure
// operator: the face lattice of a polytope from its vertex-facet incidences,
// the face lattice of a simplicial or polyhedral complex from its maximal
// cells, or the lattice of flats of a graphic matroid. The packages are layered:
//
//  1. [lattice] - Graded graph, faces, rank index, queries and node deletion
//  2. [closure] - Concrete closure operators
//  3. [builder] - Rank-by-rank construction from a closure operator
//  4. [io] and [migration] - Input documents, lattice documents, DIMS layout
//  5. [pipeline] - Cached builds, batches and rendering
//  6. [morse] - Discrete Morse vectors by elementary collapses
//  7. [cache], [store], [server] - Infrastructure for the CLI and HTTP API
//
// # Data Flow
//
//	input document (JSON/YAML/TOML)
//	         ↓
//	    [pipeline] Plan (closure operator + builder options)
//	         ↓
//	    [builder] Build → [lattice] Lattice
//	         ↓
//	    [io] lattice document / [render] DOT, SVG, PNG
//
// # Quick Start
//
//	op, _ := closure.NewFacets(8, cubeFacets)
//	l, err := builder.Build(ctx, op, builder.DefaultOptions())
//	if err != nil {
//	    return err
//	}
//	atoms := l.NodesOfRank(1)          // the 8 vertices
//	v, _ := l.FindVertexNode(3)        // node labelled {3}
//	err = io.ExportJSON(l, "cube.json")
//
// [lattice]: github.com/matzehuels/hasse/pkg/lattice
// [closure]: github.com/matzehuels/hasse/pkg/closure
// [builder]: github.com/matzehuels/hasse/pkg/builder
// [morse]: github.com/matzehuels/hasse/pkg/morse
// [io]: github.com/matzehuels/hasse/pkg/io
// [migration]: github.com/matzehuels/hasse/pkg/migration
// [pipeline]: github.com/matzehuels/hasse/pkg/pipeline
// [cache]: github.com/matzehuels/hasse/pkg/cache
// [store]: github.com/matzehuels/hasse/pkg/store
// [server]: github.com/matzehuels/hasse/pkg/server
// [render]: github.com/matzehuels/hasse/pkg/render
package pkg
