// Package morse computes discrete Morse vectors of cell complexes by
// elementary collapses on their face lattices.
//
// A free face is a cell with exactly one upper cover lying one rank above
// it. Collapsing it deletes the face and its cover from the lattice. When the
// current dimension has no free face left, one of its cells is declared
// critical and deleted instead, which may free further faces. Once every cell
// of the current dimension is gone the process moves one dimension down. The
// vertices left at the end are critical as well.
//
// Candidates are compared lexicographically by their vertex sets, optionally
// after a seeded permutation of the vertex labels. [LexFirst] always takes
// the smallest candidate and [LexLast] the largest.
//
// The lattice must be built primally with the empty face at the bottom, so
// that vertices sit one rank above it. Its top counts as a cell unless it is
// artificial.
//
//	res, err := morse.Collapse(ctx, l, morse.Options{Strategy: morse.LexFirst})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Vector) // [1 0 0] for a triangle
package morse
