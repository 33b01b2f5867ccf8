package closure

import (
	"fmt"

	"github.com/matzehuels/hasse/pkg/lattice"
)

// Simplicial closes a set to itself when it lies in some maximal face of the
// complex and to the whole ground set otherwise.
type Simplicial struct {
	n       int
	maximal []lattice.Face
}

// NewSimplicial returns the operator for the complex on n vertices generated
// by the given maximal faces.
func NewSimplicial(n int, maximal []lattice.Face) (*Simplicial, error) {
	for i, f := range maximal {
		if f.Max() >= n {
			return nil, fmt.Errorf("face %d: vertex %d out of range [0, %d)", i, f.Max(), n)
		}
	}
	return &Simplicial{n: n, maximal: maximal}, nil
}

// GroundSize returns the number of vertices.
func (c *Simplicial) GroundSize() int { return c.n }

// Closure implements builder.ClosureOperator.
func (c *Simplicial) Closure(s lattice.Face) lattice.Face {
	for _, f := range c.maximal {
		if s.Subset(f) {
			return s
		}
	}
	return lattice.FullFace(c.n)
}

// Dimension returns the largest maximal face size minus one.
func (c *Simplicial) Dimension() int {
	d := -1
	for _, f := range c.maximal {
		d = max(d, f.Len()-1)
	}
	return d
}

// IsSimplex reports whether some maximal face spans every vertex, so that
// the whole ground set is a genuine face.
func (c *Simplicial) IsSimplex() bool {
	for _, f := range c.maximal {
		if f.Len() == c.n {
			return true
		}
	}
	return false
}

// IsPure reports whether all maximal faces have the same size.
func (c *Simplicial) IsPure() bool {
	for _, f := range c.maximal {
		if f.Len() != c.maximal[0].Len() {
			return false
		}
	}
	return true
}
