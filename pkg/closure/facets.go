package closure

import (
	"fmt"

	"github.com/matzehuels/hasse/pkg/lattice"
)

// Facets closes a vertex set to the intersection of the facets containing it,
// or to the whole ground set when no facet does.
type Facets struct {
	n      int
	facets []lattice.Face
}

// NewFacets returns the operator over n vertices with the given facets.
func NewFacets(n int, facets []lattice.Face) (*Facets, error) {
	for i, f := range facets {
		if f.Max() >= n {
			return nil, fmt.Errorf("facet %d: vertex %d out of range [0, %d)", i, f.Max(), n)
		}
	}
	return &Facets{n: n, facets: facets}, nil
}

// GroundSize returns the number of vertices.
func (f *Facets) GroundSize() int { return f.n }

// FacetCount returns the number of facets.
func (f *Facets) FacetCount() int { return len(f.facets) }

// Closure implements builder.ClosureOperator.
func (f *Facets) Closure(s lattice.Face) lattice.Face {
	var acc lattice.Face
	found := false
	for _, facet := range f.facets {
		if !s.Subset(facet) {
			continue
		}
		if !found {
			acc, found = facet, true
			continue
		}
		acc = acc.Intersect(facet)
	}
	if !found {
		return lattice.FullFace(f.n)
	}
	return acc
}

// Dual returns the closure operator on facet indices together with the
// translation of a closed facet set back to its vertex set. A set of facets
// closes to every facet containing their common vertices.
func (f *Facets) Dual() (*DualFacets, func(lattice.Face) lattice.Face) {
	d := &DualFacets{primal: f}
	return d, d.Vertices
}

// DualFacets is the operator returned by [Facets.Dual].
type DualFacets struct {
	primal *Facets
}

// GroundSize returns the number of facets.
func (d *DualFacets) GroundSize() int { return len(d.primal.facets) }

// Vertices returns the vertices common to the given facets, all vertices
// for the empty set.
func (d *DualFacets) Vertices(s lattice.Face) lattice.Face {
	acc := lattice.FullFace(d.primal.n)
	for _, i := range s {
		acc = acc.Intersect(d.primal.facets[i])
	}
	return acc
}

// Closure implements builder.ClosureOperator.
func (d *DualFacets) Closure(s lattice.Face) lattice.Face {
	common := d.Vertices(s)
	out := lattice.Face{}
	for i, facet := range d.primal.facets {
		if common.Subset(facet) {
			out = append(out, i)
		}
	}
	return out
}
