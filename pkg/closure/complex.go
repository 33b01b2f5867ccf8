package closure

import (
	"fmt"

	"github.com/matzehuels/hasse/pkg/lattice"
)

// Complex closes a vertex set to the smallest face of a polyhedral complex
// containing it. The complex is given by its maximal cells, each with the
// vertex sets of its own facets. The empty set is closed, and a set lying in
// no cell closes to the whole ground set.
type Complex struct {
	n     int
	cells []cell
}

type cell struct {
	verts  lattice.Face
	facets []lattice.Face
}

// face returns the smallest face of the cell containing s, which must be a
// subset of the cell.
func (c cell) face(s lattice.Face) lattice.Face {
	acc := c.verts
	for _, f := range c.facets {
		if s.Subset(f) {
			acc = acc.Intersect(f)
		}
	}
	return acc
}

// NewComplex returns the operator over n vertices with the given maximal
// cells. facets[i] lists the facets of cells[i]; a cell without facets is
// taken to be a simplex.
func NewComplex(n int, cells []lattice.Face, facets [][]lattice.Face) (*Complex, error) {
	if len(facets) > len(cells) {
		return nil, fmt.Errorf("%d facet lists for %d cells", len(facets), len(cells))
	}
	c := &Complex{n: n, cells: make([]cell, 0, len(cells))}
	for i, verts := range cells {
		if verts.IsEmpty() {
			return nil, fmt.Errorf("cell %d is empty", i)
		}
		if verts.Max() >= n {
			return nil, fmt.Errorf("cell %d: vertex %d out of range [0, %d)", i, verts.Max(), n)
		}
		var fs []lattice.Face
		if i < len(facets) && len(facets[i]) > 0 {
			fs = facets[i]
			for j, f := range fs {
				if !f.Subset(verts) {
					return nil, fmt.Errorf("cell %d: facet %d %s is not contained in %s", i, j, f, verts)
				}
			}
		} else {
			fs = simplexFacets(verts)
		}
		c.cells = append(c.cells, cell{verts: verts, facets: fs})
	}
	return c, nil
}

func simplexFacets(verts lattice.Face) []lattice.Face {
	if verts.Len() < 2 {
		return nil
	}
	fs := make([]lattice.Face, 0, verts.Len())
	for _, v := range verts {
		fs = append(fs, verts.Minus(lattice.NewFace(v)))
	}
	return fs
}

// GroundSize returns the number of vertices.
func (c *Complex) GroundSize() int { return c.n }

// CellCount returns the number of maximal cells.
func (c *Complex) CellCount() int { return len(c.cells) }

// IsSingleCell reports whether the complex is one cell spanning every
// vertex, so that the whole ground set is a genuine face.
func (c *Complex) IsSingleCell() bool {
	return len(c.cells) == 1 && c.cells[0].verts.Len() == c.n
}

// Closure implements builder.ClosureOperator.
func (c *Complex) Closure(s lattice.Face) lattice.Face {
	if s.IsEmpty() {
		return lattice.NewFace()
	}
	var acc lattice.Face
	found := false
	for _, cl := range c.cells {
		if !s.Subset(cl.verts) {
			continue
		}
		f := cl.face(s)
		if !found {
			acc, found = f, true
			continue
		}
		acc = acc.Intersect(f)
	}
	if !found {
		return lattice.FullFace(c.n)
	}
	return acc
}
