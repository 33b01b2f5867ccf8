package lattice

import (
	"fmt"
	"maps"
	"slices"
)

// Lattice is a graded poset stored as its Hasse diagram. Nodes are dense
// integer ids assigned by [Lattice.AddNode]; each carries a [Decoration].
// Edges follow containment: an edge u→v means the face of u is covered by the
// face of v, whichever direction the lattice was built in.
//
// Deleting a node leaves a gap in the id space. Surviving nodes keep their ids
// and ranks until [Lattice.Squeeze] renumbers them densely.
//
// The zero value is not usable; use [New]. A Lattice is not safe for
// concurrent use without external synchronization.
type Lattice struct {
	decor      []Decoration
	out        [][]int // node -> upper covers
	in         [][]int // node -> lower covers
	alive      []bool
	dead       int
	edges      int
	index      RankIndex
	counts     map[int]int // live nodes per rank, snapshotted on first deletion
	top        int
	bottom     int
	dual       bool
	artificial map[int]bool
	meta       Metadata
}

// New creates an empty lattice with the given rank index representation.
// dual records whether the lattice is assembled from the top downward.
func New(kind SeqType, dual bool) *Lattice {
	return &Lattice{
		index:      NewRankIndex(kind),
		top:        -1,
		bottom:     -1,
		dual:       dual,
		artificial: make(map[int]bool),
		meta:       Metadata{},
	}
}

// Meta returns the lattice-level metadata map. It is never nil.
func (l *Lattice) Meta() Metadata { return l.meta }

// SeqType reports the rank index representation.
func (l *Lattice) SeqType() SeqType { return l.index.Kind() }

// BuiltDually reports whether rank 0 is the combinatorial top and ranks grow
// toward the bottom.
func (l *Lattice) BuiltDually() bool { return l.dual }

// InferBuiltDually derives the construction direction from adjacency alone,
// for data persisted without the flag: node 0 is the top of a dually built
// lattice, so it has incoming covers but no outgoing ones.
func (l *Lattice) InferBuiltDually() bool {
	if len(l.decor) == 0 || !l.alive[0] {
		return false
	}
	return len(l.out[0]) == 0 && len(l.in[0]) > 0
}

// AddNode appends a node and records it in the rank index. The returned id is
// one past the largest id allocated so far.
func (l *Lattice) AddNode(d Decoration) int {
	id := len(l.decor)
	if d.Face == nil {
		d.Face = Face{}
	}
	l.decor = append(l.decor, d)
	l.out = append(l.out, nil)
	l.in = append(l.in, nil)
	l.alive = append(l.alive, true)
	l.index.SetRank(id, d.Rank)
	if l.counts != nil {
		l.counts[d.Rank]++
	}
	return id
}

// AddEdge records that the face of from is covered by the face of to.
// Adding an existing edge again is a no-op.
func (l *Lattice) AddEdge(from, to int) error {
	if !l.Has(from) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, from)
	}
	if !l.Has(to) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, to)
	}
	if slices.Contains(l.out[from], to) {
		return nil
	}
	l.out[from] = append(l.out[from], to)
	l.in[to] = append(l.in[to], from)
	l.edges++
	return nil
}

// RemoveEdge removes the edge from→to if it exists.
func (l *Lattice) RemoveEdge(from, to int) {
	if !l.Has(from) || !l.Has(to) || !slices.Contains(l.out[from], to) {
		return
	}
	l.out[from] = slices.DeleteFunc(l.out[from], func(v int) bool { return v == to })
	l.in[to] = slices.DeleteFunc(l.in[to], func(u int) bool { return u == from })
	l.edges--
}

// SetTopNode designates the top node.
func (l *Lattice) SetTopNode(id int) error {
	if !l.Has(id) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	l.top = id
	return nil
}

// SetBottomNode designates the bottom node.
func (l *Lattice) SetBottomNode(id int) error {
	if !l.Has(id) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	l.bottom = id
	return nil
}

// TopNode returns the top node id, or -1 while the lattice is under construction.
func (l *Lattice) TopNode() int { return l.top }

// BottomNode returns the bottom node id, or -1 while the lattice is under construction.
func (l *Lattice) BottomNode() int { return l.bottom }

// Complete reports whether both extremal nodes have been designated.
func (l *Lattice) Complete() bool { return l.top >= 0 && l.bottom >= 0 }

// MarkArtificial flags a node as synthesized rather than derived from a
// closure. Edges touching artificial nodes may span several ranks.
func (l *Lattice) MarkArtificial(id int) { l.artificial[id] = true }

// IsArtificial reports whether the node was synthesized.
func (l *Lattice) IsArtificial(id int) bool { return l.artificial[id] }

// ArtificialNodes returns the synthesized node ids in ascending order.
func (l *Lattice) ArtificialNodes() []int { return slices.Sorted(maps.Keys(l.artificial)) }

// Has reports whether id names a live node.
func (l *Lattice) Has(id int) bool { return id >= 0 && id < len(l.alive) && l.alive[id] }

// NodeCount returns the number of live nodes.
func (l *Lattice) NodeCount() int { return len(l.decor) - l.dead }

// IDBound returns one past the largest id ever allocated.
// It exceeds NodeCount exactly when deletions have left gaps.
func (l *Lattice) IDBound() int { return len(l.decor) }

// HasGaps reports whether deleted ids are still pending [Lattice.Squeeze].
func (l *Lattice) HasGaps() bool { return l.dead > 0 }

// EdgeCount returns the number of covering edges.
func (l *Lattice) EdgeCount() int { return l.edges }

// Nodes returns the live node ids in ascending order.
func (l *Lattice) Nodes() []int {
	ids := make([]int, 0, l.NodeCount())
	for id, ok := range l.alive {
		if ok {
			ids = append(ids, id)
		}
	}
	return ids
}

// Edges returns every covering edge, ordered by source then insertion.
func (l *Lattice) Edges() []Edge {
	edges := make([]Edge, 0, l.edges)
	for u, ok := range l.alive {
		if !ok {
			continue
		}
		for _, v := range l.out[u] {
			edges = append(edges, Edge{From: u, To: v})
		}
	}
	return edges
}

// Decoration returns the decoration of a live node.
func (l *Lattice) Decoration(id int) (Decoration, bool) {
	if !l.Has(id) {
		return Decoration{}, false
	}
	return l.decor[id], true
}

// Face returns the face of a live node, or nil if id is not live.
func (l *Lattice) Face(id int) Face {
	if !l.Has(id) {
		return nil
	}
	return l.decor[id].Face
}

// RankOf returns the rank of a live node.
func (l *Lattice) RankOf(id int) (int, bool) {
	if !l.Has(id) {
		return 0, false
	}
	return l.decor[id].Rank, true
}

// OutAdjacent returns the upper covers of a node. The slice is a read-only view.
func (l *Lattice) OutAdjacent(id int) []int {
	if !l.Has(id) {
		return nil
	}
	return l.out[id]
}

// InAdjacent returns the lower covers of a node. The slice is a read-only view.
func (l *Lattice) InAdjacent(id int) []int {
	if !l.Has(id) {
		return nil
	}
	return l.in[id]
}

// OutDegree returns the number of upper covers.
func (l *Lattice) OutDegree(id int) int { return len(l.OutAdjacent(id)) }

// InDegree returns the number of lower covers.
func (l *Lattice) InDegree(id int) int { return len(l.InAdjacent(id)) }

// NodesOfRank returns the live nodes of rank r, or nil if the rank is absent.
func (l *Lattice) NodesOfRank(r int) []int { return l.liveOnly(l.index.NodesOfRank(r)) }

// NodesOfRankRange returns the live nodes whose rank lies in the closed
// interval spanned by r1 and r2. Callers must not rely on the order.
func (l *Lattice) NodesOfRankRange(r1, r2 int) []int {
	return l.liveOnly(l.index.NodesOfRankRange(r1, r2))
}

func (l *Lattice) liveOnly(ids []int) []int {
	if l.dead == 0 {
		return ids
	}
	return slices.DeleteFunc(ids, func(id int) bool { return !l.Has(id) })
}

// Ranks returns the ranks present in the rank index, ascending.
func (l *Lattice) Ranks() []int { return l.index.Ranks() }

// Rank returns the number of distinct rank values, i.e. the height plus one.
func (l *Lattice) Rank() int { return len(l.index.Ranks()) }

// RankSize returns the number of live nodes at rank r.
func (l *Lattice) RankSize(r int) int {
	if l.counts != nil {
		return l.counts[r]
	}
	return l.index.Len(r)
}

// RankIndex exposes the underlying index for persistence. Callers must not
// mutate it.
func (l *Lattice) RankIndex() RankIndex { return l.index }

// step is the rank delta along an edge.
func (l *Lattice) step() int {
	if l.dual {
		return -1
	}
	return 1
}

// AtomRank returns the rank of the layer directly above the bottom.
func (l *Lattice) AtomRank() (int, error) {
	if !l.Has(l.bottom) {
		return 0, ErrMissingExtremal
	}
	return l.decor[l.bottom].Rank + l.step(), nil
}

// FindNode returns the node carrying face f.
func (l *Lattice) FindNode(f Face) (int, error) {
	for id, ok := range l.alive {
		if ok && l.decor[id].Face.Equal(f) {
			return id, nil
		}
	}
	return -1, fmt.Errorf("%w: %s", ErrFaceNotFound, f)
}

// FindVertexNode returns the atom labelled with the single vertex v.
//
// For a primally built lattice with a Sequential index the atoms occupy one
// contiguous id block, so the candidate is the first live atom id plus v.
// The candidate is verified, and on any mismatch (or for dual and
// Nonsequential lattices) the atoms are scanned for the label {v}.
func (l *Lattice) FindVertexNode(v int) (int, error) {
	if v < 0 {
		return -1, fmt.Errorf("%w: %d", ErrVertexNotFound, v)
	}
	atom, err := l.AtomRank()
	if err != nil {
		return -1, err
	}
	atoms := l.NodesOfRank(atom)
	if !l.dual && l.index.Kind() == Sequential && len(atoms) > 0 {
		if c := atoms[0] + v; l.isVertexNode(c, atom, v) {
			return c, nil
		}
	}
	for _, id := range atoms {
		if l.isVertexNode(id, atom, v) {
			return id, nil
		}
	}
	return -1, fmt.Errorf("%w: %d", ErrVertexNotFound, v)
}

func (l *Lattice) isVertexNode(id, atom, v int) bool {
	if !l.Has(id) || l.decor[id].Rank != atom {
		return false
	}
	f := l.decor[id].Face
	return len(f) == 1 && f[0] == v
}

// DualFaces labels every node with the set of facets above it. Facets (the
// lower covers of the top) are numbered by ascending id; every other node
// collects the labels of its upper covers, visiting ranks from the top down.
// The top gets the empty set and deleted ids get nil.
func (l *Lattice) DualFaces() ([]Face, error) {
	if !l.Complete() {
		return nil, ErrMissingExtremal
	}
	res := make([]Face, len(l.decor))
	res[l.top] = Face{}
	facets := slices.Sorted(slices.Values(l.in[l.top]))
	for i, id := range facets {
		res[id] = Face{i}
	}

	ranks := l.index.Ranks()
	if !l.dual {
		slices.Reverse(ranks)
	}
	for _, r := range ranks {
		for _, id := range l.NodesOfRank(r) {
			if res[id] != nil {
				continue
			}
			acc := Face{}
			for _, up := range l.out[id] {
				acc = acc.Union(res[up])
			}
			res[id] = acc
		}
	}
	return res, nil
}

// DeleteNode removes a node and its edges. The rank bookkeeping is updated:
// on the first deletion the per-rank live counts are snapshotted, the
// node's rank count is decremented, and ranks whose count reaches zero are
// erased from the index when they sit next to the bottom or top rank.
// Interior empty ranks are kept so that surviving ranks never change.
func (l *Lattice) DeleteNode(id int) error {
	if !l.Has(id) {
		return fmt.Errorf("%w: %d", ErrUnknownNode, id)
	}
	if id == l.top || id == l.bottom {
		return fmt.Errorf("%w: %d", ErrExtremalNode, id)
	}
	if l.counts == nil {
		l.snapshotCounts()
	}

	for _, v := range l.out[id] {
		l.in[v] = slices.DeleteFunc(l.in[v], func(u int) bool { return u == id })
		l.edges--
	}
	for _, u := range l.in[id] {
		l.out[u] = slices.DeleteFunc(l.out[u], func(v int) bool { return v == id })
		l.edges--
	}
	l.out[id], l.in[id] = nil, nil
	l.alive[id] = false
	l.dead++
	delete(l.artificial, id)

	r, ok := l.index.RankOf(id)
	if !ok {
		r = l.decor[id].Rank
	}
	l.counts[r]--
	if l.counts[r] <= 0 {
		l.counts[r] = 0
		l.trimExtremalRanks()
	}
	return nil
}

func (l *Lattice) snapshotCounts() {
	l.counts = make(map[int]int)
	for _, r := range l.index.Ranks() {
		l.counts[r] = l.index.Len(r)
	}
}

// trimExtremalRanks erases empty ranks adjacent to the extremal ranks,
// repeating while the newly exposed neighbour is empty too.
func (l *Lattice) trimExtremalRanks() {
	for {
		ranks := l.index.Ranks()
		n := len(ranks)
		if n < 3 {
			return
		}
		switch {
		case l.counts[ranks[1]] == 0:
			l.eraseRank(ranks[1])
		case l.counts[ranks[n-2]] == 0:
			l.eraseRank(ranks[n-2])
		default:
			return
		}
	}
}

func (l *Lattice) eraseRank(r int) {
	l.index.EraseRank(r)
	delete(l.counts, r)
}

// Squeeze renumbers the live nodes densely, preserving their relative order,
// and returns the old-to-new id mapping (-1 for deleted ids). Rank keys left
// without nodes are erased.
func (l *Lattice) Squeeze() []int {
	mapping := make([]int, len(l.decor))
	next := 0
	for id, ok := range l.alive {
		if ok {
			mapping[id] = next
			next++
		} else {
			mapping[id] = -1
		}
	}
	if l.dead == 0 {
		return mapping
	}

	for id := len(l.decor) - 1; id >= 0; id-- {
		if !l.alive[id] {
			l.index.DeleteNodeAndSqueeze(id, l.decor[id].Rank)
		}
	}

	remap := func(ids []int) []int {
		out := make([]int, len(ids))
		for i, v := range ids {
			out[i] = mapping[v]
		}
		return out
	}
	decor := make([]Decoration, 0, next)
	out := make([][]int, 0, next)
	in := make([][]int, 0, next)
	for id, ok := range l.alive {
		if !ok {
			continue
		}
		decor = append(decor, l.decor[id])
		out = append(out, remap(l.out[id]))
		in = append(in, remap(l.in[id]))
	}
	artificial := make(map[int]bool, len(l.artificial))
	for id := range l.artificial {
		artificial[mapping[id]] = true
	}

	l.decor, l.out, l.in = decor, out, in
	l.alive = make([]bool, next)
	for i := range l.alive {
		l.alive[i] = true
	}
	l.artificial = artificial
	l.dead = 0
	l.counts = nil
	if l.top >= 0 {
		l.top = mapping[l.top]
	}
	if l.bottom >= 0 {
		l.bottom = mapping[l.bottom]
	}
	return mapping
}

// Clone returns a deep copy.
func (l *Lattice) Clone() *Lattice {
	c := &Lattice{
		decor:      slices.Clone(l.decor),
		out:        make([][]int, len(l.out)),
		in:         make([][]int, len(l.in)),
		alive:      slices.Clone(l.alive),
		dead:       l.dead,
		edges:      l.edges,
		index:      l.index.Clone(),
		top:        l.top,
		bottom:     l.bottom,
		dual:       l.dual,
		artificial: maps.Clone(l.artificial),
		meta:       maps.Clone(l.meta),
	}
	if l.counts != nil {
		c.counts = maps.Clone(l.counts)
	}
	for i := range l.out {
		c.out[i] = slices.Clone(l.out[i])
		c.in[i] = slices.Clone(l.in[i])
	}
	return c
}
