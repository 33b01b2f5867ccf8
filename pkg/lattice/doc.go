// Package lattice provides the ranked Hasse diagram at the heart of hasse:
// a graded poset whose nodes carry a face and a rank, whose edges are the
// covering pairs, and whose ranks are indexed for fast layer queries.
//
// # Overview
//
// A [Lattice] combines four pieces of information: the covering graph, the
// per-node [Decoration] (face and rank), a [RankIndex] from rank to node ids,
// and the designated top and bottom nodes. Together with the "built dually"
// flag these map losslessly onto the persisted ADJACENCY, FACES,
// INVERSE_RANK_MAP, TOP_NODE and BOTTOM_NODE properties.
//
// Edges always follow containment: u→v means face(u) is covered by face(v).
// A primally built lattice has the bottom at rank 0 and ranks increase upward.
// A dually built one has the top at rank 0 and ranks increase downward, so an
// edge u→v satisfies rank(v) = rank(u) - 1.
//
// # Rank Index
//
// Two representations implement [RankIndex]:
//
//   - [Sequential]: each rank is a contiguous id interval. Queries are O(1) or
//     O(log #ranks) and squeezing a deleted id costs O(#ranks). Requires ids
//     to be assigned rank by rank, which is what the builder does.
//   - [Nonsequential]: each rank is an explicit list. Works for any id order
//     at O(#nodes) per squeeze.
//
// Both satisfy the same contract, so the choice only affects cost.
//
// # Deletion
//
// [Lattice.DeleteNode] leaves a gap in the id space; surviving nodes keep
// their ids and ranks. Empty ranks next to the top or bottom are trimmed from
// the index, interior empty ranks stay. [Lattice.Squeeze] later renumbers the
// live nodes densely.
//
// # Lookup Misses
//
// Lookups that can legitimately fail ([Lattice.FindVertexNode],
// [Lattice.FindNode]) return errors carrying the LOOKUP_MISS code, so callers
// can fall back to another strategy. Structural problems carry
// INVARIANT_VIOLATION and are hard failures.
package lattice
