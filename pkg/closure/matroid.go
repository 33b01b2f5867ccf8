package closure

import (
	"fmt"

	"github.com/matzehuels/hasse/pkg/lattice"
)

// GraphicMatroid is the cycle matroid of a multigraph: the ground set is the
// edge list, and an edge lies in the closure of a set S iff its endpoints
// are connected by edges of S.
type GraphicMatroid struct {
	vertices int
	edges    [][2]int
}

// NewGraphicMatroid returns the matroid of the graph with the given edges.
func NewGraphicMatroid(vertices int, edges [][2]int) (*GraphicMatroid, error) {
	for i, e := range edges {
		if e[0] < 0 || e[1] < 0 || e[0] >= vertices || e[1] >= vertices {
			return nil, fmt.Errorf("edge %d: endpoint out of range [0, %d)", i, vertices)
		}
	}
	return &GraphicMatroid{vertices: vertices, edges: edges}, nil
}

// GroundSize returns the number of edges.
func (m *GraphicMatroid) GroundSize() int { return len(m.edges) }

// Closure implements builder.ClosureOperator.
func (m *GraphicMatroid) Closure(s lattice.Face) lattice.Face {
	uf := newUnionFind(m.vertices)
	for _, e := range s {
		uf.union(m.edges[e][0], m.edges[e][1])
	}
	out := lattice.Face{}
	for i, e := range m.edges {
		if uf.find(e[0]) == uf.find(e[1]) {
			out = append(out, i)
		}
	}
	return out
}

// Rank returns the matroid rank of s: vertices minus components of (V, s).
func (m *GraphicMatroid) Rank(s lattice.Face) int {
	uf := newUnionFind(m.vertices)
	r := 0
	for _, e := range s {
		if uf.union(m.edges[e][0], m.edges[e][1]) {
			r++
		}
	}
	return r
}

// unionFind is a disjoint-set forest with path compression and union by rank.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (uf *unionFind) find(x int) int {
	if uf.parent[x] != x {
		uf.parent[x] = uf.find(uf.parent[x])
	}
	return uf.parent[x]
}

// union merges the sets of x and y and reports whether they were distinct.
func (uf *unionFind) union(x, y int) bool {
	rx, ry := uf.find(x), uf.find(y)
	if rx == ry {
		return false
	}
	switch {
	case uf.rank[rx] < uf.rank[ry]:
		uf.parent[rx] = ry
	case uf.rank[rx] > uf.rank[ry]:
		uf.parent[ry] = rx
	default:
		uf.parent[ry] = rx
		uf.rank[rx]++
	}
	return true
}
