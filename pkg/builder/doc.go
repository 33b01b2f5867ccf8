// Package builder constructs lattices of closed sets from a closure operator.
//
// [Build] walks the lattice breadth-first, one rank at a time. For every node
// of the current rank it computes the upper covers with Lindig's
// neighbourhood algorithm, deduplicates them against every face seen so far,
// and appends the new nodes as the next rank. Construction stops when a rank
// comes up empty or a [RankRestriction] boundary is reached; the closing node
// (top for primal builds, bottom for dual ones) is inserted last.
//
// Dual construction runs the same walk over a dual ground set (for polytopes,
// the facet indices). A [Decorator] translates the dual faces back into primal
// vertex sets so both directions store comparable faces.
//
//	op, _ := closure.NewFacets(8, cubeFacets)
//	l, err := builder.Build(ctx, op, builder.DefaultOptions())
package builder
