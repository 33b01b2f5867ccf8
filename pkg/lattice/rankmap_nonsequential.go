package lattice

import (
	"maps"
	"slices"
)

// listIndex is the Nonsequential representation.
type listIndex struct {
	lists map[int][]int
}

func newListIndex() *listIndex {
	return &listIndex{lists: make(map[int][]int)}
}

func (x *listIndex) sealed() {}

func (x *listIndex) Kind() SeqType { return Nonsequential }

func (x *listIndex) SetRank(node, rank int) {
	x.lists[rank] = append(x.lists[rank], node)
}

func (x *listIndex) NodesOfRank(rank int) []int {
	ids, ok := x.lists[rank]
	if !ok {
		return nil
	}
	return slices.Clone(ids)
}

func (x *listIndex) NodesOfRankRange(r1, r2 int) []int {
	lo, hi := orderedRange(r1, r2)
	var out []int
	for _, r := range x.Ranks() {
		if r >= lo && r <= hi {
			out = append(out, x.lists[r]...)
		}
	}
	return out
}

// DeleteNodeAndSqueeze touches every stored id.
func (x *listIndex) DeleteNodeAndSqueeze(node, rank int) {
	if ids, ok := x.lists[rank]; ok {
		x.lists[rank] = slices.DeleteFunc(ids, func(id int) bool { return id == node })
	}
	for r, ids := range x.lists {
		for i, id := range ids {
			if id > node {
				ids[i] = id - 1
			}
		}
		if len(ids) == 0 {
			delete(x.lists, r)
		}
	}
}

func (x *listIndex) EraseRank(rank int) { delete(x.lists, rank) }

func (x *listIndex) Ranks() []int { return slices.Sorted(maps.Keys(x.lists)) }

func (x *listIndex) Len(rank int) int { return len(x.lists[rank]) }

func (x *listIndex) RankOf(node int) (int, bool) {
	for r, ids := range x.lists {
		if slices.Contains(ids, node) {
			return r, true
		}
	}
	return 0, false
}

func (x *listIndex) Clone() RankIndex {
	c := newListIndex()
	for r, ids := range x.lists {
		c.lists[r] = slices.Clone(ids)
	}
	return c
}
