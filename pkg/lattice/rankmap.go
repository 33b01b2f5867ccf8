package lattice

import (
	"fmt"
	"strings"
)

// SeqType selects the representation of a lattice's rank index.
type SeqType int

const (
	// Sequential stores each rank as a contiguous id interval. Node ids must
	// be inserted in rank order; this is not checked.
	Sequential SeqType = iota
	// Nonsequential stores each rank as an explicit id list.
	Nonsequential
)

// String returns the persisted name of the representation.
func (s SeqType) String() string {
	switch s {
	case Sequential:
		return "Sequential"
	case Nonsequential:
		return "Nonsequential"
	default:
		return fmt.Sprintf("SeqType(%d)", int(s))
	}
}

// ParseSeqType parses a representation name, case-insensitively.
func ParseSeqType(s string) (SeqType, error) {
	switch strings.ToLower(s) {
	case "", "sequential":
		return Sequential, nil
	case "nonsequential":
		return Nonsequential, nil
	default:
		return 0, fmt.Errorf("unknown sequence type %q", s)
	}
}

// RankIndex maps each rank to the node ids carrying it. The two
// implementations share one contract and differ only in cost; callers pick one
// with [NewRankIndex] and keep it for the lifetime of the lattice.
//
// The index itself knows nothing about deleted nodes: ids stay in their rank
// until [RankIndex.DeleteNodeAndSqueeze] removes them and renumbers the rest.
type RankIndex interface {
	// Kind reports the representation.
	Kind() SeqType
	// SetRank records node under rank.
	SetRank(node, rank int)
	// NodesOfRank returns the ids of rank, or nil if the rank is absent.
	NodesOfRank(rank int) []int
	// NodesOfRankRange returns the ids of every rank in the closed interval
	// spanned by r1 and r2, in no particular order.
	NodesOfRankRange(r1, r2 int) []int
	// DeleteNodeAndSqueeze drops node from rank and shifts every larger id
	// down by one. A rank left without ids is erased. A missing rank key is
	// tolerated: only the renumbering happens.
	DeleteNodeAndSqueeze(node, rank int)
	// EraseRank removes the rank key entirely.
	EraseRank(rank int)
	// Ranks returns the present ranks in ascending order.
	Ranks() []int
	// Len returns the number of ids recorded for rank.
	Len(rank int) int
	// RankOf looks up the rank holding node.
	RankOf(node int) (int, bool)
	// Clone returns an independent copy.
	Clone() RankIndex

	sealed()
}

// NewRankIndex returns an empty index of the given representation.
func NewRankIndex(kind SeqType) RankIndex {
	if kind == Nonsequential {
		return newListIndex()
	}
	return newIntervalIndex()
}

func orderedRange(r1, r2 int) (int, int) {
	if r1 > r2 {
		return r2, r1
	}
	return r1, r2
}
