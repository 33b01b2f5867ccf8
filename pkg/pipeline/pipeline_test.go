package pipeline

import (
	"context"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hasse/pkg/builder"
	"github.com/matzehuels/hasse/pkg/cache"
	errs "github.com/matzehuels/hasse/pkg/errors"
	pkgio "github.com/matzehuels/hasse/pkg/io"
	"github.com/matzehuels/hasse/pkg/lattice"
	"github.com/matzehuels/hasse/pkg/render/nodelink"
)

func cube() pkgio.Input {
	return pkgio.Input{
		Name:       "cube",
		Closure:    pkgio.ClosureFacets,
		GroundSize: 8,
		Faces: [][]int{
			{0, 2, 4, 6}, {1, 3, 5, 7},
			{0, 1, 4, 5}, {2, 3, 6, 7},
			{0, 1, 2, 3}, {4, 5, 6, 7},
		},
	}
}

func intp(v int) *int { return &v }

func quietRunner(t *testing.T, c cache.Cache) *Runner {
	t.Helper()
	return NewRunner(c, nil, log.New(io.Discard))
}

func TestPlan(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*pkgio.Input)
		wantCode errs.Code
		check    func(*testing.T, builder.Options)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, o builder.Options) {
				if !o.Topology.IsComplete || o.Dual || o.SeqType != lattice.Sequential || o.Restriction.Bounded {
					t.Errorf("options = %+v", o)
				}
			},
		},
		{
			name:   "max rank",
			mutate: func(in *pkgio.Input) { in.Build.MaxRank = intp(2) },
			check: func(t *testing.T, o builder.Options) {
				r := o.Restriction
				if !r.Bounded || r.CutType != builder.LesserEqual || r.BoundaryRank != 2 {
					t.Errorf("restriction = %+v", r)
				}
			},
		},
		{
			name: "dual min rank",
			mutate: func(in *pkgio.Input) {
				in.Build.Dual = true
				in.Build.MinRank = intp(2)
				in.Build.TopRank = 4
			},
			check: func(t *testing.T, o builder.Options) {
				if !o.Dual || o.Restriction.CutType != builder.GreaterEqual || o.TopRank != 4 {
					t.Errorf("options = %+v", o)
				}
				if _, ok := o.Decorator.(builder.BasicDecorator); !ok {
					t.Errorf("dual facets build should translate faces, decorator = %T", o.Decorator)
				}
			},
		},
		{
			name: "flags",
			mutate: func(in *pkgio.Input) {
				in.Build.Nonsequential = true
				in.Build.Incomplete = true
				in.Build.Pure = true
				in.FarFace = []int{7}
			},
			check: func(t *testing.T, o builder.Options) {
				if o.SeqType != lattice.Nonsequential || o.Topology.IsComplete || !o.Topology.IsPure {
					t.Errorf("options = %+v", o)
				}
				if !o.FarFace.Equal(lattice.NewFace(7)) {
					t.Errorf("FarFace = %v", o.FarFace)
				}
			},
		},
		{
			name: "dual matroid",
			mutate: func(in *pkgio.Input) {
				in.Closure = pkgio.ClosureMatroid
				in.GroundSize = 3
				in.Faces = nil
				in.Edges = [][]int{{0, 1}}
				in.Build.Dual = true
			},
			wantCode: errs.ErrCodeUnsupported,
		},
		{
			name: "both bounds",
			mutate: func(in *pkgio.Input) {
				in.Build.MaxRank = intp(1)
				in.Build.MinRank = intp(1)
			},
			wantCode: errs.ErrCodeInvalidInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := cube()
			if tt.mutate != nil {
				tt.mutate(&in)
			}
			op, opts, err := Plan(in)
			if tt.wantCode != "" {
				if !errs.Is(err, tt.wantCode) {
					t.Fatalf("err = %v, want %s", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Plan: %v", err)
			}
			if op == nil {
				t.Fatal("nil operator")
			}
			tt.check(t, opts)
		})
	}
}

func TestBuildCube(t *testing.T) {
	r := quietRunner(t, nil)
	for _, dual := range []bool{false, true} {
		in := cube()
		in.Build.Dual = dual
		res, err := r.Build(context.Background(), in)
		if err != nil {
			t.Fatalf("dual=%v: %v", dual, err)
		}
		l := res.Lattice
		if l.NodeCount() != 28 || l.EdgeCount() != 62 {
			t.Errorf("dual=%v: nodes=%d edges=%d, want 28/62", dual, l.NodeCount(), l.EdgeCount())
		}
		if l.BuiltDually() != dual {
			t.Errorf("BuiltDually = %v", l.BuiltDually())
		}
		if !l.Face(l.TopNode()).Equal(lattice.FullFace(8)) {
			t.Errorf("top face = %v", l.Face(l.TopNode()))
		}
		if len(res.Data) == 0 || res.InputHash == "" {
			t.Error("result should carry the document and hash")
		}
	}
}

func TestBuildComplexes(t *testing.T) {
	tests := []struct {
		name       string
		in         pkgio.Input
		sizes      []int
		edges      int
		artificial bool
	}{
		{
			name: "triangles sharing an edge",
			in: pkgio.Input{
				Closure: pkgio.ClosureComplex, GroundSize: 4,
				Faces: [][]int{{0, 1, 2}, {1, 2, 3}},
			},
			sizes:      []int{1, 4, 5, 2, 1},
			edges:      4 + 10 + 6 + 2,
			artificial: true,
		},
		{
			name: "simplicial triangles sharing an edge",
			in: pkgio.Input{
				Closure: pkgio.ClosureSimplicial, GroundSize: 4,
				Faces: [][]int{{0, 1, 2}, {1, 2, 3}},
			},
			sizes:      []int{1, 4, 5, 2, 1},
			edges:      4 + 10 + 6 + 2,
			artificial: true,
		},
		{
			name: "square glued to a triangle",
			in: pkgio.Input{
				Closure: pkgio.ClosureComplex, GroundSize: 5,
				Faces:      [][]int{{0, 1, 2, 3}, {2, 3, 4}},
				CellFacets: [][][]int{{{0, 1}, {1, 2}, {2, 3}, {0, 3}}},
			},
			sizes:      []int{1, 5, 6, 2, 1},
			edges:      5 + 12 + 7 + 2,
			artificial: true,
		},
		{
			name: "single square",
			in: pkgio.Input{
				Closure: pkgio.ClosureComplex, GroundSize: 4,
				Faces:      [][]int{{0, 1, 2, 3}},
				CellFacets: [][][]int{{{0, 1}, {1, 2}, {2, 3}, {0, 3}}},
			},
			sizes: []int{1, 4, 4, 1},
			edges: 4 + 8 + 4,
		},
		{
			name: "simplex",
			in: pkgio.Input{
				Closure: pkgio.ClosureSimplicial, GroundSize: 3,
				Faces: [][]int{{0, 1, 2}},
			},
			sizes: []int{1, 3, 3, 1},
			edges: 3 + 6 + 3,
		},
	}
	r := quietRunner(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := r.Build(context.Background(), tt.in)
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			l := res.Lattice
			var sizes []int
			for _, rank := range l.Ranks() {
				sizes = append(sizes, len(l.NodesOfRank(rank)))
			}
			if !slices.Equal(sizes, tt.sizes) {
				t.Errorf("rank sizes = %v, want %v", sizes, tt.sizes)
			}
			if l.EdgeCount() != tt.edges {
				t.Errorf("EdgeCount() = %d, want %d", l.EdgeCount(), tt.edges)
			}
			if !l.Face(l.BottomNode()).IsEmpty() {
				t.Errorf("bottom face = %v, want empty", l.Face(l.BottomNode()))
			}
			if got := l.IsArtificial(l.TopNode()); got != tt.artificial {
				t.Errorf("top artificial = %v, want %v", got, tt.artificial)
			}
			for v := range tt.in.GroundSize {
				if _, err := l.FindVertexNode(v); err != nil {
					t.Errorf("FindVertexNode(%d): %v", v, err)
				}
			}
		})
	}
}

func TestPlanComplexErrors(t *testing.T) {
	tests := []struct {
		name string
		in   pkgio.Input
		code errs.Code
	}{
		{"facets outside cell", pkgio.Input{
			Closure: pkgio.ClosureComplex, GroundSize: 3,
			Faces: [][]int{{0, 1}}, CellFacets: [][][]int{{{2}}},
		}, errs.ErrCodeInvalidInput},
		{"cell facets on facets input", pkgio.Input{
			Closure: pkgio.ClosureFacets, GroundSize: 3,
			Faces: [][]int{{0, 1}}, CellFacets: [][][]int{{{0}}},
		}, errs.ErrCodeInvalidInput},
		{"dual complex", pkgio.Input{
			Closure: pkgio.ClosureComplex, GroundSize: 3,
			Faces: [][]int{{0, 1, 2}}, Build: pkgio.BuildSettings{Dual: true},
		}, errs.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Plan(tt.in); !errs.Is(err, tt.code) {
				t.Errorf("Plan() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestBuildUsesCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := quietRunner(t, fc)
	ctx := context.Background()

	first, err := r.Build(ctx, cube())
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheHit {
		t.Error("first build should miss")
	}

	renamed := cube()
	renamed.Name = "other name"
	second, err := r.Build(ctx, renamed)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Error("second build should hit; names do not affect the key")
	}
	if second.Lattice.NodeCount() != first.Lattice.NodeCount() {
		t.Errorf("cached lattice has %d nodes, want %d", second.Lattice.NodeCount(), first.Lattice.NodeCount())
	}

	r.Refresh = true
	third, err := r.Build(ctx, cube())
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("refresh should skip the cache")
	}

	seq := cube()
	seq.Build.Nonsequential = true
	r.Refresh = false
	fourth, _ := r.Build(ctx, seq)
	if fourth.CacheHit {
		t.Error("different settings should miss")
	}
}

func TestInputHash(t *testing.T) {
	a, b := cube(), cube()
	b.Name = "renamed"
	if InputHash(a) != InputHash(b) {
		t.Error("name should not change the hash")
	}
	b.Build.Dual = true
	if InputHash(a) == InputHash(b) {
		t.Error("settings should change the hash")
	}
}

func TestBuildAll(t *testing.T) {
	r := quietRunner(t, nil)
	tri := pkgio.Input{Name: "triangle", Closure: pkgio.ClosureIdentity, GroundSize: 3}
	k4 := pkgio.Input{
		Name:       "k4",
		Closure:    pkgio.ClosureMatroid,
		GroundSize: 4,
		Edges:      [][]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}},
	}

	results, err := r.BuildAll(context.Background(), []pkgio.Input{cube(), tri, k4}, 2)
	if err != nil {
		t.Fatalf("BuildAll: %v", err)
	}
	want := []int{28, 8, 15}
	for i, res := range results {
		if res.Lattice.NodeCount() != want[i] {
			t.Errorf("%s: %d nodes, want %d", res.Name, res.Lattice.NodeCount(), want[i])
		}
	}

	bad := pkgio.Input{Name: "bad", Closure: "nope", GroundSize: 1}
	_, err = r.BuildAll(context.Background(), []pkgio.Input{tri, bad}, 0)
	if err == nil || !strings.Contains(err.Error(), "bad") {
		t.Errorf("BuildAll with bad input err = %v", err)
	}
}

func TestBuildCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := quietRunner(t, nil).Build(ctx, cube()); err == nil {
		t.Error("canceled build should fail")
	}
}

func TestRenderCaches(t *testing.T) {
	fc, _ := cache.NewFileCache(t.TempDir())
	r := quietRunner(t, fc)
	ctx := context.Background()
	res, err := r.Build(ctx, pkgio.Input{Closure: pkgio.ClosureIdentity, GroundSize: 2})
	if err != nil {
		t.Fatal(err)
	}

	out, hit, err := r.Render(ctx, res.Lattice, nodelink.FormatDOT, nodelink.Options{Faces: true})
	if err != nil || hit {
		t.Fatalf("first render: hit=%v err=%v", hit, err)
	}
	if !strings.Contains(string(out), "digraph Hasse") {
		t.Errorf("unexpected output %s", out)
	}
	again, hit, err := r.Render(ctx, res.Lattice, nodelink.FormatDOT, nodelink.Options{Faces: true})
	if err != nil || !hit || string(again) != string(out) {
		t.Errorf("second render: hit=%v err=%v", hit, err)
	}
}
