package builder

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/matzehuels/hasse/pkg/closure"
	errs "github.com/matzehuels/hasse/pkg/errors"
	"github.com/matzehuels/hasse/pkg/lattice"
)

func faces(sets ...[]int) []lattice.Face {
	out := make([]lattice.Face, len(sets))
	for i, s := range sets {
		out[i] = lattice.NewFace(s...)
	}
	return out
}

func cube(t *testing.T) *closure.Facets {
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
	op, err := closure.NewFacets(8, facets)
	if err != nil {
		t.Fatalf("NewFacets: %v", err)
	}
	return op
}

func mustBuild(t *testing.T, op ClosureOperator, opts Options) *lattice.Lattice {
	t.Helper()
	l, err := Build(context.Background(), op, opts)
	if err != nil {
		t.Fatalf("Build() = %v", err)
	}
	if err := l.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	return l
}

func rankSizes(l *lattice.Lattice) []int {
	var sizes []int
	for _, r := range l.Ranks() {
		sizes = append(sizes, len(l.NodesOfRank(r)))
	}
	return sizes
}

func TestBuild_DiscreteTriangle(t *testing.T) {
	op, _ := closure.NewSimplicial(3, faces([]int{0}, []int{1}, []int{2}))
	l := mustBuild(t, op, DefaultOptions())

	if got := rankSizes(l); !slices.Equal(got, []int{1, 3, 1}) {
		t.Errorf("rank sizes = %v, want [1 3 1]", got)
	}
	if len(l.NodesOfRank(1)) != 3 {
		t.Errorf("NodesOfRank(1) has %d nodes, want 3", len(l.NodesOfRank(1)))
	}
	if !l.Face(l.TopNode()).Equal(lattice.FullFace(3)) {
		t.Errorf("top face = %v", l.Face(l.TopNode()))
	}
	if !l.Face(l.BottomNode()).IsEmpty() {
		t.Errorf("bottom face = %v", l.Face(l.BottomNode()))
	}
	if l.IsArtificial(l.TopNode()) {
		t.Error("natural top marked artificial")
	}
}

func TestBuild_Square(t *testing.T) {
	op, _ := closure.NewSimplicial(4, faces([]int{0, 1}, []int{1, 2}, []int{2, 3}, []int{0, 3}))
	for _, kind := range []lattice.SeqType{lattice.Sequential, lattice.Nonsequential} {
		t.Run(kind.String(), func(t *testing.T) {
			opts := DefaultOptions()
			opts.SeqType = kind
			l := mustBuild(t, op, opts)

			if got := rankSizes(l); !slices.Equal(got, []int{1, 4, 4, 1}) {
				t.Errorf("rank sizes = %v, want [1 4 4 1]", got)
			}
			between := 0
			for _, e := range l.Edges() {
				if r, _ := l.RankOf(e.From); r == 1 {
					between++
				}
			}
			if between != 8 {
				t.Errorf("rank 1 -> 2 edges = %d, want 8", between)
			}
		})
	}
}

func TestBuild_SequentialMatchesNonsequential(t *testing.T) {
	op := cube(t)
	seq := mustBuild(t, op, DefaultOptions())
	opts := DefaultOptions()
	opts.SeqType = lattice.Nonsequential
	non := mustBuild(t, op, opts)

	if !slices.Equal(seq.Ranks(), non.Ranks()) {
		t.Fatalf("ranks differ: %v vs %v", seq.Ranks(), non.Ranks())
	}
	for _, r := range seq.Ranks() {
		a, b := seq.NodesOfRank(r), non.NodesOfRank(r)
		slices.Sort(a)
		slices.Sort(b)
		if !slices.Equal(a, b) {
			t.Errorf("rank %d: %v vs %v", r, a, b)
		}
	}
}

func TestBuild_CubeFVector(t *testing.T) {
	l := mustBuild(t, cube(t), DefaultOptions())
	if got := rankSizes(l); !slices.Equal(got, []int{1, 8, 12, 6, 1}) {
		t.Errorf("f-vector = %v, want [1 8 12 6 1]", got)
	}
	if l.EdgeCount() != 8+24+24+6 {
		t.Errorf("EdgeCount() = %d, want 62", l.EdgeCount())
	}
	v, err := l.FindVertexNode(5)
	if err != nil {
		t.Fatalf("FindVertexNode(5) = %v", err)
	}
	if !l.Face(v).Equal(lattice.NewFace(5)) {
		t.Errorf("vertex node face = %v", l.Face(v))
	}
}

func TestBuild_CubeDualAgrees(t *testing.T) {
	op := cube(t)
	primal := mustBuild(t, op, DefaultOptions())

	dualOp, translate := op.Dual()
	opts := DefaultOptions()
	opts.Dual = true
	opts.Decorator = BasicDecorator{Translate: translate}
	dual := mustBuild(t, dualOp, opts)

	if !dual.BuiltDually() || !dual.InferBuiltDually() {
		t.Error("dual lattice should report BuiltDually")
	}
	if got := rankSizes(dual); !slices.Equal(got, []int{1, 6, 12, 8, 1}) {
		t.Errorf("dual rank sizes = %v, want [1 6 12 8 1]", got)
	}
	if r, _ := dual.RankOf(dual.TopNode()); r != 0 {
		t.Errorf("dual top rank = %d, want 0", r)
	}
	if !dual.Face(dual.BottomNode()).IsEmpty() {
		t.Errorf("dual bottom face = %v, want empty", dual.Face(dual.BottomNode()))
	}

	for r := 0; r <= 4; r++ {
		want := faceKeys(primal, primal.NodesOfRank(r))
		got := faceKeys(dual, dual.NodesOfRank(4-r))
		if !slices.Equal(got, want) {
			t.Errorf("primal rank %d faces differ from dual rank %d", r, 4-r)
		}
	}

	v, err := dual.FindVertexNode(3)
	if err != nil || !dual.Face(v).Equal(lattice.NewFace(3)) {
		t.Errorf("FindVertexNode(3) = %d, %v", v, err)
	}
}

func faceKeys(l *lattice.Lattice, ids []int) []string {
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = l.Face(id).Key()
	}
	slices.Sort(keys)
	return keys
}

func TestBuild_GraphicMatroidK4(t *testing.T) {
	m, _ := closure.NewGraphicMatroid(4, [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}})
	l := mustBuild(t, m, DefaultOptions())
	if got := rankSizes(l); !slices.Equal(got, []int{1, 6, 7, 1}) {
		t.Errorf("flats per rank = %v, want [1 6 7 1]", got)
	}
	for _, id := range l.Nodes() {
		if r, _ := l.RankOf(id); m.Rank(l.Face(id)) != r {
			t.Errorf("flat %v at rank %d has matroid rank %d", l.Face(id), r, m.Rank(l.Face(id)))
		}
	}
}

func TestBuild_AcceptedFacesAreClosed(t *testing.T) {
	op := cube(t)
	l := mustBuild(t, op, DefaultOptions())
	for _, id := range l.Nodes() {
		f := l.Face(id)
		if !op.Closure(f).Equal(f) {
			t.Errorf("node %d face %v is not closed", id, f)
		}
	}
}

func TestBuild_LesserEqual(t *testing.T) {
	opts := DefaultOptions()
	opts.Restriction = RankRestriction{Bounded: true, CutType: LesserEqual, BoundaryRank: 2}
	l := mustBuild(t, cube(t), opts)

	if got := rankSizes(l); !slices.Equal(got, []int{1, 8, 12, 1}) {
		t.Errorf("rank sizes = %v, want [1 8 12 1]", got)
	}
	if !l.IsArtificial(l.TopNode()) {
		t.Error("top of a restricted lattice should be artificial")
	}
	if r, _ := l.RankOf(l.TopNode()); r != 3 {
		t.Errorf("sentinel rank = %d, want 3", r)
	}
}

func TestBuild_GreaterEqual(t *testing.T) {
	op := cube(t)
	dualOp, translate := op.Dual()
	opts := DefaultOptions()
	opts.Dual = true
	opts.TopRank = 4
	opts.Decorator = BasicDecorator{Translate: translate}
	opts.Restriction = RankRestriction{Bounded: true, CutType: GreaterEqual, BoundaryRank: 2}
	l := mustBuild(t, dualOp, opts)

	// keeps the top, the facets and the edges, then a sentinel bottom
	if got := rankSizes(l); !slices.Equal(got, []int{1, 6, 12, 1}) {
		t.Errorf("rank sizes = %v, want [1 6 12 1]", got)
	}
	if !l.IsArtificial(l.BottomNode()) {
		t.Error("bottom of a restricted dual lattice should be artificial")
	}
}

func TestBuild_GreaterEqualRequiresDual(t *testing.T) {
	opts := DefaultOptions()
	opts.Restriction = RankRestriction{Bounded: true, CutType: GreaterEqual, BoundaryRank: 1}
	_, err := Build(context.Background(), cube(t), opts)
	if !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("Build() = %v, want INVALID_INPUT", err)
	}
}

func TestBuild_FarFace(t *testing.T) {
	// the square with vertex 3 at infinity: bounded part is the path 0-1-2
	op, _ := closure.NewSimplicial(4, faces([]int{0, 1}, []int{1, 2}, []int{2, 3}, []int{0, 3}))
	opts := DefaultOptions()
	opts.FarFace = lattice.NewFace(3)
	l := mustBuild(t, op, opts)

	if got := rankSizes(l); !slices.Equal(got, []int{1, 3, 2, 1}) {
		t.Errorf("rank sizes = %v, want [1 3 2 1]", got)
	}
	for _, id := range l.Nodes() {
		if id != l.TopNode() && l.Face(id).Contains(3) {
			t.Errorf("node %d face %v meets the far face", id, l.Face(id))
		}
	}
	if _, ok := l.Meta()[MetaFarFace]; !ok {
		t.Error("far face not recorded in metadata")
	}

	opts.Dual = true
	if _, err := Build(context.Background(), op, opts); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("dual build with far face = %v, want INVALID_INPUT", err)
	}
}

func TestBuild_IncompleteJoinsMaximalFaces(t *testing.T) {
	// a triangle with a dangling edge: maximal faces of different ranks
	op, _ := closure.NewSimplicial(4, faces([]int{0, 1, 2}, []int{2, 3}))
	opts := DefaultOptions()
	opts.Topology.IsComplete = false
	l := mustBuild(t, op, opts)

	top := l.TopNode()
	if !l.IsArtificial(top) {
		t.Fatal("sentinel top should be artificial")
	}
	var maximal []string
	for _, id := range l.InAdjacent(top) {
		maximal = append(maximal, l.Face(id).String())
	}
	slices.Sort(maximal)
	if !slices.Equal(maximal, []string{"{0 1 2}", "{2 3}"}) {
		t.Errorf("top joins %v, want the two maximal faces", maximal)
	}
}

func TestBuild_NonPureCompleteFallsBackToSentinel(t *testing.T) {
	op, _ := closure.NewSimplicial(4, faces([]int{0, 1, 2}, []int{2, 3}))
	l := mustBuild(t, op, DefaultOptions())
	if !l.IsArtificial(l.TopNode()) {
		t.Error("top joining maximal faces of different ranks should be artificial")
	}
}

func TestBuild_SingleNode(t *testing.T) {
	op := closure.Func{N: 2, Fn: func(lattice.Face) lattice.Face { return lattice.FullFace(2) }}
	l := mustBuild(t, op, DefaultOptions())
	if l.NodeCount() != 1 || l.TopNode() != l.BottomNode() {
		t.Errorf("NodeCount() = %d, top = %d, bottom = %d", l.NodeCount(), l.TopNode(), l.BottomNode())
	}
}

func TestBuild_CheckClosure(t *testing.T) {
	// not idempotent: ∅ closes to {0}, which closes to {0 1}
	bad := closure.Func{N: 3, Fn: func(s lattice.Face) lattice.Face {
		if s.IsEmpty() {
			return lattice.NewFace(0)
		}
		return s.Union(lattice.NewFace(0, 1))
	}}
	opts := DefaultOptions()
	opts.CheckClosure = true
	_, err := Build(context.Background(), bad, opts)
	if !errs.Is(err, errs.ErrCodeInvariantViolation) {
		t.Errorf("Build() = %v, want INVARIANT_VIOLATION", err)
	}
}

func TestBuild_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Build(ctx, cube(t), DefaultOptions())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Build() = %v, want context.Canceled", err)
	}
}

func TestUpperCovers(t *testing.T) {
	op := cube(t)
	covers := upperCovers(op, lattice.NewFace(0))
	var got []string
	for _, c := range covers {
		got = append(got, c.String())
	}
	want := []string{"{0 1}", "{0 2}", "{0 4}"}
	slices.Sort(got)
	if !slices.Equal(got, want) {
		t.Errorf("upperCovers({0}) = %v, want %v", got, want)
	}
}

func TestBuild_NotGraded(t *testing.T) {
	// ∅ < {0} < {0 1} < {0 1 2} and ∅ < {2} < {0 1 2}
	family := faces([]int{}, []int{0}, []int{2}, []int{0, 1}, []int{0, 1, 2}, []int{0, 1, 2, 3})
	op := closure.Func{N: 4, Fn: func(s lattice.Face) lattice.Face {
		acc := lattice.FullFace(4)
		for _, f := range family {
			if s.Subset(f) {
				acc = acc.Intersect(f)
			}
		}
		return acc
	}}
	_, err := Build(context.Background(), op, DefaultOptions())
	if !errs.Is(err, errs.ErrCodeInvariantViolation) {
		t.Errorf("Build() = %v, want INVARIANT_VIOLATION", err)
	}
}
