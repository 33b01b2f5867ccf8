package closure

import (
	"testing"

	"github.com/matzehuels/hasse/pkg/lattice"
)

// cube returns the vertex-facet incidences of the 3-cube; vertex v has
// coordinates given by its three low bits.
func cube(t *testing.T) *Facets {
	t.Helper()
	var facets []lattice.Face
	for c := range 3 {
		for b := range 2 {
			var f []int
			for v := range 8 {
				if (v>>c)&1 == b {
					f = append(f, v)
				}
			}
			facets = append(facets, lattice.NewFace(f...))
		}
	}
	op, err := NewFacets(8, facets)
	if err != nil {
		t.Fatalf("NewFacets: %v", err)
	}
	return op
}

func k4(t *testing.T) *GraphicMatroid {
	t.Helper()
	m, err := NewGraphicMatroid(4, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}})
	if err != nil {
		t.Fatalf("NewGraphicMatroid: %v", err)
	}
	return m
}

func TestFacets_Closure(t *testing.T) {
	op := cube(t)
	tests := []struct {
		name string
		in   lattice.Face
		want lattice.Face
	}{
		{"empty", lattice.NewFace(), lattice.NewFace()},
		{"vertex", lattice.NewFace(5), lattice.NewFace(5)},
		{"edge", lattice.NewFace(0, 1), lattice.NewFace(0, 1)},
		{"diagonal of a square", lattice.NewFace(0, 3), lattice.NewFace(0, 1, 2, 3)},
		{"antipodal", lattice.NewFace(0, 7), lattice.FullFace(8)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := op.Closure(tt.in); !got.Equal(tt.want) {
				t.Errorf("Closure(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFacets_Dual(t *testing.T) {
	op := cube(t)
	dual, vertices := op.Dual()
	if dual.GroundSize() != 6 {
		t.Fatalf("GroundSize() = %d, want 6", dual.GroundSize())
	}
	// facets 0 (x=0) and 2 (y=0) meet in the edge {0, 4}
	closed := dual.Closure(lattice.NewFace(0, 2))
	if !closed.Equal(lattice.NewFace(0, 2)) {
		t.Errorf("Closure({0 2}) = %v", closed)
	}
	if got := vertices(closed); !got.Equal(lattice.NewFace(0, 4)) {
		t.Errorf("vertices = %v, want {0 4}", got)
	}
	// opposite facets share nothing, so every facet contains their intersection
	if got := dual.Closure(lattice.NewFace(0, 1)); !got.Equal(lattice.FullFace(6)) {
		t.Errorf("Closure({0 1}) = %v, want all facets", got)
	}
	if got := vertices(lattice.NewFace()); !got.Equal(lattice.FullFace(8)) {
		t.Errorf("vertices(∅) = %v, want all", got)
	}
}

func TestNewFacets_OutOfRange(t *testing.T) {
	if _, err := NewFacets(3, []lattice.Face{lattice.NewFace(0, 3)}); err == nil {
		t.Error("expected error for vertex 3 with ground size 3")
	}
}

func TestSimplicial_Closure(t *testing.T) {
	op, err := NewSimplicial(4, []lattice.Face{
		lattice.NewFace(0, 1), lattice.NewFace(1, 2), lattice.NewFace(2, 3), lattice.NewFace(0, 3),
	})
	if err != nil {
		t.Fatalf("NewSimplicial: %v", err)
	}
	if got := op.Closure(lattice.NewFace(1)); !got.Equal(lattice.NewFace(1)) {
		t.Errorf("Closure({1}) = %v", got)
	}
	if got := op.Closure(lattice.NewFace(0, 2)); !got.Equal(lattice.FullFace(4)) {
		t.Errorf("Closure({0 2}) = %v, want ground set", got)
	}
	if op.Dimension() != 1 || !op.IsPure() {
		t.Errorf("Dimension() = %d, IsPure() = %v", op.Dimension(), op.IsPure())
	}
}

func TestSimplicial_IsSimplex(t *testing.T) {
	simplex, _ := NewSimplicial(3, []lattice.Face{lattice.NewFace(0, 1, 2)})
	pair, _ := NewSimplicial(4, []lattice.Face{lattice.NewFace(0, 1, 2), lattice.NewFace(1, 2, 3)})
	if !simplex.IsSimplex() {
		t.Error("triangle on 3 vertices should be a simplex")
	}
	if pair.IsSimplex() {
		t.Error("two triangles should not be a simplex")
	}
}

// squareAndTriangle is a square {0 1 2 3} with boundary 0-1-2-3 glued to the
// triangle {2 3 4} along the edge {2 3}.
func squareAndTriangle(t *testing.T) *Complex {
	t.Helper()
	c, err := NewComplex(5,
		[]lattice.Face{lattice.NewFace(0, 1, 2, 3), lattice.NewFace(2, 3, 4)},
		[][]lattice.Face{{
			lattice.NewFace(0, 1), lattice.NewFace(1, 2), lattice.NewFace(2, 3), lattice.NewFace(0, 3),
		}})
	if err != nil {
		t.Fatalf("NewComplex: %v", err)
	}
	return c
}

func TestComplex_Closure(t *testing.T) {
	triangles, err := NewComplex(4, []lattice.Face{lattice.NewFace(0, 1, 2), lattice.NewFace(1, 2, 3)}, nil)
	if err != nil {
		t.Fatalf("NewComplex: %v", err)
	}
	cone, err := NewComplex(3, []lattice.Face{lattice.NewFace(0, 1, 2)},
		[][]lattice.Face{{lattice.NewFace(0, 1), lattice.NewFace(0, 2)}})
	if err != nil {
		t.Fatalf("NewComplex: %v", err)
	}
	mixed := squareAndTriangle(t)

	tests := []struct {
		name string
		op   *Complex
		in   lattice.Face
		want lattice.Face
	}{
		{"empty stays empty", triangles, lattice.NewFace(), lattice.NewFace()},
		{"vertex", triangles, lattice.NewFace(0), lattice.NewFace(0)},
		{"shared vertex", triangles, lattice.NewFace(1), lattice.NewFace(1)},
		{"shared edge", triangles, lattice.NewFace(1, 2), lattice.NewFace(1, 2)},
		{"triangle", triangles, lattice.NewFace(0, 2, 1), lattice.NewFace(0, 1, 2)},
		{"across cells", triangles, lattice.NewFace(0, 3), lattice.FullFace(4)},
		{"cone apex", cone, lattice.NewFace(0), lattice.NewFace(0)},
		{"cone ray", cone, lattice.NewFace(1), lattice.NewFace(0, 1)},
		{"cone empty", cone, lattice.NewFace(), lattice.NewFace()},
		{"square diagonal", mixed, lattice.NewFace(0, 2), lattice.NewFace(0, 1, 2, 3)},
		{"glued edge", mixed, lattice.NewFace(2, 3), lattice.NewFace(2, 3)},
		{"square edge", mixed, lattice.NewFace(1, 2), lattice.NewFace(1, 2)},
		{"outside", mixed, lattice.NewFace(0, 4), lattice.FullFace(5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.op.Closure(tt.in); !got.Equal(tt.want) {
				t.Errorf("Closure(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if triangles.IsSingleCell() || triangles.CellCount() != 2 {
		t.Errorf("IsSingleCell() = %v, CellCount() = %d", triangles.IsSingleCell(), triangles.CellCount())
	}
	if !cone.IsSingleCell() {
		t.Error("cone should be a single cell")
	}
}

func TestNewComplex_Errors(t *testing.T) {
	tests := []struct {
		name   string
		cells  []lattice.Face
		facets [][]lattice.Face
	}{
		{"empty cell", []lattice.Face{lattice.NewFace()}, nil},
		{"out of range", []lattice.Face{lattice.NewFace(0, 3)}, nil},
		{"facet outside cell", []lattice.Face{lattice.NewFace(0, 1)}, [][]lattice.Face{{lattice.NewFace(2)}}},
		{"too many facet lists", []lattice.Face{lattice.NewFace(0, 1)}, [][]lattice.Face{nil, nil}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewComplex(3, tt.cells, tt.facets); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestGraphicMatroid_Closure(t *testing.T) {
	m := k4(t)
	// edges 01 and 12 span the triangle 012, which adds edge 02
	got := m.Closure(lattice.NewFace(0, 3))
	if !got.Equal(lattice.NewFace(0, 1, 3)) {
		t.Errorf("Closure({01 12}) = %v, want {0 1 3}", got)
	}
	if r := m.Rank(lattice.NewFace(0, 1, 3)); r != 2 {
		t.Errorf("Rank(triangle) = %d, want 2", r)
	}
	if got := m.Closure(lattice.NewFace(0, 5)); !got.Equal(lattice.NewFace(0, 5)) {
		t.Errorf("opposite edges should be closed, got %v", got)
	}
}

func TestOperators_ClosureAxioms(t *testing.T) {
	simplicial, _ := NewSimplicial(4, []lattice.Face{lattice.NewFace(0, 1, 2), lattice.NewFace(2, 3)})
	dual, _ := cube(t).Dual()
	ops := map[string]interface {
		Closure(lattice.Face) lattice.Face
		GroundSize() int
	}{
		"facets":     cube(t),
		"dual":       dual,
		"simplicial": simplicial,
		"matroid":    k4(t),
		"identity":   Identity(4),
		"complex":    squareAndTriangle(t),
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			n := op.GroundSize()
			for mask := range 1 << n {
				s := maskFace(mask, n)
				c := op.Closure(s)
				if !s.Subset(c) {
					t.Fatalf("Closure(%v) = %v is not extensive", s, c)
				}
				if cc := op.Closure(c); !cc.Equal(c) {
					t.Fatalf("Closure(%v) = %v is not idempotent (%v)", s, c, cc)
				}
				for e := range n {
					if !c.Subset(op.Closure(s.With(e))) {
						t.Fatalf("Closure is not monotone at %v + %d", s, e)
					}
				}
			}
		})
	}
}

func maskFace(mask, n int) lattice.Face {
	f := lattice.Face{}
	for i := range n {
		if mask&(1<<i) != 0 {
			f = append(f, i)
		}
	}
	return f
}
