package lattice

import (
	"maps"
	"slices"
	"sort"
)

type span struct{ lo, hi int }

func (s span) ids() []int {
	if s.hi < s.lo {
		return nil
	}
	out := make([]int, 0, s.hi-s.lo+1)
	for id := s.lo; id <= s.hi; id++ {
		out = append(out, id)
	}
	return out
}

// intervalIndex is the Sequential representation.
type intervalIndex struct {
	ranks []int // ascending
	spans map[int]span
}

func newIntervalIndex() *intervalIndex {
	return &intervalIndex{spans: make(map[int]span)}
}

func (x *intervalIndex) sealed() {}

func (x *intervalIndex) Kind() SeqType { return Sequential }

func (x *intervalIndex) SetRank(node, rank int) {
	s, ok := x.spans[rank]
	if !ok {
		i, _ := slices.BinarySearch(x.ranks, rank)
		x.ranks = slices.Insert(x.ranks, i, rank)
		x.spans[rank] = span{node, node}
		return
	}
	s.lo = min(s.lo, node)
	s.hi = max(s.hi, node)
	x.spans[rank] = s
}

func (x *intervalIndex) NodesOfRank(rank int) []int {
	s, ok := x.spans[rank]
	if !ok {
		return nil
	}
	return s.ids()
}

// NodesOfRankRange locates the nearest present rank >= the lower bound and
// the nearest present rank <= the upper bound, then returns the id interval
// spanned by both.
func (x *intervalIndex) NodesOfRankRange(r1, r2 int) []int {
	lo, hi := orderedRange(r1, r2)
	a := sort.SearchInts(x.ranks, lo)
	b := sort.Search(len(x.ranks), func(i int) bool { return x.ranks[i] > hi }) - 1
	if a >= len(x.ranks) || b < 0 || a > b {
		return nil
	}
	first, last := x.spans[x.ranks[a]], x.spans[x.ranks[b]]
	return span{min(first.lo, last.lo), max(first.hi, last.hi)}.ids()
}

func (x *intervalIndex) DeleteNodeAndSqueeze(node, rank int) {
	for _, r := range slices.Clone(x.ranks) {
		s := x.spans[r]
		switch {
		case s.lo > node:
			s.lo--
			s.hi--
		case s.hi >= node:
			s.hi--
		}
		if s.hi < s.lo {
			x.EraseRank(r)
			continue
		}
		x.spans[r] = s
	}
}

func (x *intervalIndex) EraseRank(rank int) {
	if _, ok := x.spans[rank]; !ok {
		return
	}
	delete(x.spans, rank)
	if i, ok := slices.BinarySearch(x.ranks, rank); ok {
		x.ranks = slices.Delete(x.ranks, i, i+1)
	}
}

func (x *intervalIndex) Ranks() []int { return slices.Clone(x.ranks) }

func (x *intervalIndex) Len(rank int) int {
	s, ok := x.spans[rank]
	if !ok {
		return 0
	}
	return s.hi - s.lo + 1
}

// RankOf binary-searches the rank boundaries.
func (x *intervalIndex) RankOf(node int) (int, bool) {
	i := sort.Search(len(x.ranks), func(i int) bool { return x.spans[x.ranks[i]].hi >= node })
	if i == len(x.ranks) {
		return 0, false
	}
	r := x.ranks[i]
	if x.spans[r].lo > node {
		return 0, false
	}
	return r, true
}

func (x *intervalIndex) Clone() RankIndex {
	return &intervalIndex{ranks: slices.Clone(x.ranks), spans: maps.Clone(x.spans)}
}
