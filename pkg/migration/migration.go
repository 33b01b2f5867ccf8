// Package migration converts the legacy flat DIMS rank layout to and from
// the rank index used by package lattice.
//
// A legacy lattice with n nodes stores its ranks implicitly: node 0 is the
// starting node at rank 0, DIMS[k] is the first id of rank k+1, and the last
// entry equals n-1, the closing node. A lattice with a single node has an
// empty DIMS array. Primal and dual lattices use the same layout.
package migration

import (
	errs "github.com/matzehuels/hasse/pkg/errors"
	"github.com/matzehuels/hasse/pkg/lattice"
)

// Ranks expands a DIMS array into the rank of every node id.
func Ranks(dims []int, n int) ([]int, error) {
	if n <= 0 {
		return nil, errs.New(errs.ErrCodeDimensionMismatch, "lattice must have at least one node, got %d", n)
	}
	if len(dims) == 0 {
		if n != 1 {
			return nil, errs.New(errs.ErrCodeDimensionMismatch, "empty DIMS for %d nodes", n)
		}
		return []int{0}, nil
	}
	if dims[0] != 1 {
		return nil, errs.New(errs.ErrCodeDimensionMismatch, "DIMS must start at node 1, got %d", dims[0])
	}
	for k := 1; k < len(dims); k++ {
		if dims[k] <= dims[k-1] {
			return nil, errs.New(errs.ErrCodeDimensionMismatch, "DIMS not strictly increasing at %d", k)
		}
	}
	if last := dims[len(dims)-1]; last != n-1 {
		return nil, errs.New(errs.ErrCodeDimensionMismatch,
			"DIMS closes at node %d but the lattice has %d nodes", last, n)
	}

	ranks := make([]int, n)
	for k := 0; k+1 < len(dims); k++ {
		for id := dims[k]; id < dims[k+1]; id++ {
			ranks[id] = k + 1
		}
	}
	ranks[n-1] = len(dims)
	return ranks, nil
}

// FromDims builds a rank index of the given kind from a DIMS array.
func FromDims(dims []int, n int, kind lattice.SeqType) (lattice.RankIndex, error) {
	ranks, err := Ranks(dims, n)
	if err != nil {
		return nil, err
	}
	idx := lattice.NewRankIndex(kind)
	for id, r := range ranks {
		idx.SetRank(id, r)
	}
	return idx, nil
}

// ToDims converts a rank index over the ids 0..n-1 back to a DIMS array. The
// index must describe the legacy layout: ranks 0..R without gaps, each a
// contiguous block of ids in rank order, with node 0 alone at rank 0 and
// node n-1 alone at rank R.
func ToDims(idx lattice.RankIndex, n int) ([]int, error) {
	ranks := idx.Ranks()
	if len(ranks) == 0 || ranks[0] != 0 {
		return nil, errs.New(errs.ErrCodeDimensionMismatch, "rank index must start at rank 0")
	}
	if n == 1 {
		if len(ranks) != 1 || idx.Len(0) != 1 {
			return nil, errs.New(errs.ErrCodeDimensionMismatch, "single-node lattice with %d ranks", len(ranks))
		}
		return []int{}, nil
	}

	dims := make([]int, 0, len(ranks)-1)
	next := 0
	for i, r := range ranks {
		if r != i {
			return nil, errs.New(errs.ErrCodeDimensionMismatch, "rank %d missing", i)
		}
		ids := idx.NodesOfRank(r)
		lo, hi := ids[0], ids[0]
		for _, id := range ids {
			lo, hi = min(lo, id), max(hi, id)
		}
		if lo != next || hi-lo+1 != len(ids) {
			return nil, errs.New(errs.ErrCodeDimensionMismatch, "rank %d is not a contiguous block starting at %d", r, next)
		}
		if (i == 0 || i == len(ranks)-1) && len(ids) != 1 {
			return nil, errs.New(errs.ErrCodeDimensionMismatch, "extremal rank %d holds %d nodes", r, len(ids))
		}
		if i > 0 {
			dims = append(dims, lo)
		}
		next = hi + 1
	}
	if next != n {
		return nil, errs.New(errs.ErrCodeDimensionMismatch, "rank index covers %d ids, lattice has %d", next, n)
	}
	return dims, nil
}
