// Package closure provides concrete closure operators for lattice construction.
//
//   - [Facets]: face lattice of a polytope from its vertex-facet incidences.
//     [Facets.Dual] gives the operator on facet indices for top-down builds.
//   - [Simplicial]: face lattice of a simplicial complex from its maximal faces.
//   - [Complex]: face lattice of a polyhedral complex from its maximal cells
//     and the facets of each cell.
//   - [GraphicMatroid]: lattice of flats of the cycle matroid of a graph.
//   - [Func]: adapter for an arbitrary function.
//
// All operators satisfy the builder.ClosureOperator contract.
package closure
