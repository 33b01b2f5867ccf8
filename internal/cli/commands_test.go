package cli

import (
	"bytes"
	"context"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/hasse/pkg/errors"
	pkgio "github.com/matzehuels/hasse/pkg/io"
	"github.com/matzehuels/hasse/pkg/lattice"
)

const segmentJSON = `{"name": "segment", "closure": "identity", "ground_size": 2}`

const cubeYAML = `name: cube
closure: facets
ground_size: 8
faces:
  - [0, 2, 4, 6]
  - [1, 3, 5, 7]
  - [0, 1, 4, 5]
  - [2, 3, 6, 7]
  - [0, 1, 2, 3]
  - [4, 5, 6, 7]
`

const k4TOML = `name = "k4"
closure = "matroid"
ground_size = 4
edges = [[0, 1], [0, 2], [0, 3], [1, 2], [1, 3], [2, 3]]
`

// sandbox runs the test in a fresh directory with isolated XDG paths and
// writes the sample inputs there.
func sandbox(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	writeFile(t, dir, "segment.json", segmentJSON)
	writeFile(t, dir, "cube.yaml", cubeYAML)
	writeFile(t, dir, "k4.toml", k4TOML)
	return dir
}

func execute(args ...string) (string, error) {
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(args...)
	if err != nil {
		t.Fatalf("hasse %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}

func loadLattice(t *testing.T, path string) *lattice.Lattice {
	t.Helper()
	l, err := pkgio.ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON(%s): %v", path, err)
	}
	return l
}

func TestBuildToStdout(t *testing.T) {
	sandbox(t)
	out := mustExecute(t, "build", "segment.json", "--no-cache")

	l, err := pkgio.ReadJSON(strings.NewReader(out))
	if err != nil {
		t.Fatalf("stdout is not a lattice document: %v", err)
	}
	if l.NodeCount() != 4 || l.EdgeCount() != 4 || l.Rank() != 3 {
		t.Errorf("segment: %d nodes, %d edges, %d ranks", l.NodeCount(), l.EdgeCount(), l.Rank())
	}
}

func TestBuildAndQuery(t *testing.T) {
	sandbox(t)
	mustExecute(t, "build", "cube.yaml", "-o", "cube.json", "--no-cache")

	l := loadLattice(t, "cube.json")
	if l.NodeCount() != 28 || l.EdgeCount() != 62 {
		t.Fatalf("cube: %d nodes, %d edges, want 28 and 62", l.NodeCount(), l.EdgeCount())
	}

	if got := lines(mustExecute(t, "ranks", "cube.json", "1")); len(got) != 8 {
		t.Errorf("rank 1 has %d nodes, want 8", len(got))
	}
	if got := lines(mustExecute(t, "ranks", "cube.json", "2", "1")); len(got) != 20 {
		t.Errorf("ranks 1..2 have %d nodes, want 20", len(got))
	}
	if out := mustExecute(t, "ranks", "cube.json", "7"); out != "" {
		t.Errorf("rank 7 should be empty, got %q", out)
	}
	if out := mustExecute(t, "vertex", "cube.json", "3"); !strings.HasSuffix(out, "\t1\t{3}\n") {
		t.Errorf("vertex 3 = %q", out)
	}
	if got := lines(mustExecute(t, "dual-faces", "cube.json")); len(got) != 28 {
		t.Errorf("dual-faces printed %d lines, want 28", len(got))
	}
	mustExecute(t, "info", "cube.json", "--validate")
}

func TestQueryErrors(t *testing.T) {
	sandbox(t)
	mustExecute(t, "build", "segment.json", "-o", "segment.lattice.json", "--no-cache")

	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"vertex out of range", []string{"vertex", "segment.lattice.json", "5"}, errs.ErrCodeLookupMiss},
		{"delete bottom", []string{"delete", "segment.lattice.json", "0"}, errs.ErrCodeInvariantViolation},
		{"delete unknown", []string{"delete", "segment.lattice.json", "9"}, errs.ErrCodeLookupMiss},
		{"trees on identity", []string{"trees", "segment.json"}, errs.ErrCodeWrongType},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(tt.args...)
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}

	for _, args := range [][]string{
		{"ranks", "segment.lattice.json", "one"},
		{"vertex", "segment.lattice.json", "x"},
		{"info", "missing.json"},
		{"build", "segment.json", "--max-rank", "1", "--min-rank", "1"},
		{"render", "segment.lattice.json", "-f", "pdf"},
	} {
		if _, err := execute(args...); err == nil {
			t.Errorf("hasse %s should fail", strings.Join(args, " "))
		}
	}
}

func TestBuildFlags(t *testing.T) {
	sandbox(t)

	dual, err := pkgio.ReadJSON(strings.NewReader(mustExecute(t, "build", "cube.yaml", "--dual", "--no-cache")))
	if err != nil {
		t.Fatal(err)
	}
	if !dual.BuiltDually() || dual.NodeCount() != 28 {
		t.Errorf("dual cube: dual=%v nodes=%d", dual.BuiltDually(), dual.NodeCount())
	}

	cut, err := pkgio.ReadJSON(strings.NewReader(mustExecute(t, "build", "cube.yaml", "--max-rank", "2", "--no-cache")))
	if err != nil {
		t.Fatal(err)
	}
	if cut.NodeCount() != 22 || !cut.IsArtificial(cut.TopNode()) {
		t.Errorf("cube up to rank 2: %d nodes, artificial top %v", cut.NodeCount(), cut.IsArtificial(cut.TopNode()))
	}

	seq, err := pkgio.ReadJSON(strings.NewReader(mustExecute(t, "build", "cube.yaml", "--nonsequential", "--no-cache")))
	if err != nil {
		t.Fatal(err)
	}
	if seq.SeqType() != lattice.Nonsequential {
		t.Errorf("seq type = %s, want nonsequential", seq.SeqType())
	}
}

func TestBuildBatch(t *testing.T) {
	dir := sandbox(t)
	mustExecute(t, "build", "segment.json", "cube.yaml", "k4.toml", "-o", "out", "-w", "2", "--no-cache")

	want := map[string]int{"segment": 4, "cube": 28, "k4": 15}
	for name, nodes := range want {
		l := loadLattice(t, filepath.Join(dir, "out", name+".json"))
		if l.NodeCount() != nodes {
			t.Errorf("%s: %d nodes, want %d", name, l.NodeCount(), nodes)
		}
	}

	if _, err := execute("build", "segment.json", "cube.yaml", "-o", "-"); err == nil {
		t.Error("batch build to stdout should fail")
	}
}

func countFiles(t *testing.T, dir string) int {
	t.Helper()
	n := 0
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			n++
		}
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		t.Fatal(err)
	}
	return n
}

func TestCacheCommands(t *testing.T) {
	dir := sandbox(t)
	cacheRoot := filepath.Join(dir, "cache", appName)

	if got := strings.TrimSpace(mustExecute(t, "cache", "path")); got != cacheRoot {
		t.Errorf("cache path = %q, want %q", got, cacheRoot)
	}

	mustExecute(t, "build", "segment.json", "-o", "segment.lattice.json")
	if countFiles(t, cacheRoot) == 0 {
		t.Fatal("build should populate the file cache")
	}
	mustExecute(t, "build", "segment.json", "-o", "again.json")
	if a, b := loadLattice(t, "segment.lattice.json"), loadLattice(t, "again.json"); a.NodeCount() != b.NodeCount() {
		t.Errorf("cached build differs: %d vs %d nodes", a.NodeCount(), b.NodeCount())
	}

	mustExecute(t, "cache", "clear")
	if n := countFiles(t, cacheRoot); n != 0 {
		t.Errorf("%d files left after cache clear", n)
	}
}

func TestCacheDisabledByConfig(t *testing.T) {
	dir := sandbox(t)
	writeFile(t, dir, configFile, "[cache]\nbackend = \"none\"\n")

	mustExecute(t, "build", "segment.json", "-o", "segment.lattice.json")
	if n := countFiles(t, filepath.Join(dir, "cache")); n != 0 {
		t.Errorf("disabled cache wrote %d files", n)
	}
	if got := strings.TrimSpace(mustExecute(t, "cache", "path")); got != cacheNone {
		t.Errorf("cache path = %q, want %q", got, cacheNone)
	}
	mustExecute(t, "cache", "clear")
}

func TestDelete(t *testing.T) {
	sandbox(t)
	mustExecute(t, "build", "segment.json", "-o", "segment.lattice.json", "--no-cache")
	mustExecute(t, "delete", "segment.lattice.json", "1", "-o", "trimmed.json", "--mapping")

	l := loadLattice(t, "trimmed.json")
	if l.NodeCount() != 3 || l.EdgeCount() != 2 {
		t.Errorf("after delete: %d nodes, %d edges, want 3 and 2", l.NodeCount(), l.EdgeCount())
	}
	if l.TopNode() != 2 {
		t.Errorf("top = %d, want 2 after renumbering", l.TopNode())
	}
	if err := l.Validate(); err != nil {
		t.Errorf("trimmed lattice is inconsistent: %v", err)
	}

	// default output overwrites the input
	mustExecute(t, "delete", "segment.lattice.json", "2")
	if n := loadLattice(t, "segment.lattice.json").NodeCount(); n != 3 {
		t.Errorf("in-place delete left %d nodes, want 3", n)
	}
}

func TestMigrate(t *testing.T) {
	sandbox(t)
	mustExecute(t, "build", "segment.json", "-o", "segment.lattice.json", "--no-cache")
	mustExecute(t, "migrate", "segment.lattice.json", "--legacy", "-o", "legacy.json")

	data, err := os.ReadFile("legacy.json")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"DIMS"`) || strings.Contains(string(data), `"RANKS"`) {
		t.Errorf("legacy document should carry DIMS only:\n%s", data)
	}

	l, err := pkgio.ReadJSON(strings.NewReader(mustExecute(t, "migrate", "legacy.json")))
	if err != nil {
		t.Fatal(err)
	}
	if l.NodeCount() != 4 || l.Rank() != 3 {
		t.Errorf("migrated: %d nodes, %d ranks", l.NodeCount(), l.Rank())
	}
}

func TestRenderDOT(t *testing.T) {
	sandbox(t)
	mustExecute(t, "build", "segment.json", "-o", "segment.lattice.json", "--no-cache")
	mustExecute(t, "render", "segment.lattice.json", "-f", "dot", "--no-cache")

	data, err := os.ReadFile("segment.lattice.dot")
	if err != nil {
		t.Fatalf("default output file: %v", err)
	}
	if !strings.HasPrefix(string(data), "digraph Hasse {") {
		t.Errorf("unexpected DOT output:\n%s", data)
	}

	out := mustExecute(t, "render", "segment.lattice.json", "-f", "dot", "--faces", "-o", "-", "--no-cache")
	if !strings.Contains(out, "{0 1}") {
		t.Errorf("face labels missing from:\n%s", out)
	}
}

func TestTrees(t *testing.T) {
	sandbox(t)
	if got := strings.TrimSpace(mustExecute(t, "trees", "k4.toml", "--count")); got != "16" {
		t.Errorf("trees --count = %q, want 16", got)
	}
	trees := lines(mustExecute(t, "trees", "k4.toml"))
	if len(trees) != 16 {
		t.Fatalf("trees printed %d lines, want 16", len(trees))
	}
	for _, tr := range trees {
		if ids := strings.Split(strings.SplitN(tr, "\t", 2)[0], ", "); len(ids) != 3 {
			t.Errorf("tree %q should have 3 edges", tr)
		}
	}
}

const circleJSON = `{"name": "circle", "closure": "simplicial", "ground_size": 4,
  "faces": [[0, 1], [1, 2], [2, 3], [0, 3]]}`

func TestCollapse(t *testing.T) {
	dir := sandbox(t)
	writeFile(t, dir, "circle.json", circleJSON)
	mustExecute(t, "build", "circle.json", "-o", "circle.lattice.json", "--no-cache")
	mustExecute(t, "build", "cube.yaml", "-o", "cube.lattice.json", "--no-cache")

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"circle", []string{"circle.lattice.json"}, "1, 1\n"},
		{"circle critical", []string{"circle.lattice.json", "--critical"}, "1, 1\n1\t{0 1}\n"},
		{"circle last", []string{"circle.lattice.json", "--critical", "--strategy", "last"}, "1, 1\n1\t{2 3}\n"},
		{"cube", []string{"cube.lattice.json"}, "1, 0, 0, 0\n"},
		{"cube seeded", []string{"cube.lattice.json", "--seed", "42"}, "1, 0, 0, 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mustExecute(t, append([]string{"collapse"}, tt.args...)...); got != tt.want {
				t.Errorf("collapse %v = %q, want %q", tt.args, got, tt.want)
			}
		})
	}

	if _, err := execute("collapse", "circle.lattice.json", "--strategy", "random"); !errs.Is(err, errs.ErrCodeInvalidInput) {
		t.Errorf("unknown strategy: %v, want INVALID_INPUT", err)
	}
	mustExecute(t, "build", "segment.json", "-o", "segment.lattice.json", "--no-cache")
	if _, err := execute("collapse", "segment.lattice.json"); err != nil {
		t.Errorf("collapse segment: %v", err)
	}
}

func TestCompletion(t *testing.T) {
	sandbox(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		if out := mustExecute(t, "completion", shell); !strings.Contains(out, appName) {
			t.Errorf("%s completion does not mention %s", shell, appName)
		}
	}
	if _, err := execute("completion", "tcsh"); err == nil {
		t.Error("unknown shell should fail")
	}
}

func TestBuildOptsApply(t *testing.T) {
	one, two := 1, 2
	in := pkgio.Input{Build: pkgio.BuildSettings{MinRank: &one, Pure: true}}

	tests := []struct {
		name  string
		opts  buildOpts
		check func(pkgio.BuildSettings) bool
	}{
		{"no flags keep the input", buildOpts{}, func(b pkgio.BuildSettings) bool {
			return b.Pure && b.MinRank != nil && *b.MinRank == 1 && !b.Dual
		}},
		{"booleans switch on", buildOpts{dual: true, checkClosure: true}, func(b pkgio.BuildSettings) bool {
			return b.Dual && b.CheckClosure && b.Pure
		}},
		{"max rank replaces min rank", buildOpts{maxRank: &two}, func(b pkgio.BuildSettings) bool {
			return b.MinRank == nil && b.MaxRank != nil && *b.MaxRank == 2
		}},
		{"top rank", buildOpts{topRank: &two}, func(b pkgio.BuildSettings) bool {
			return b.TopRank == 2
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.apply(in).Build; !tt.check(got) {
				t.Errorf("apply() = %+v", got)
			}
		})
	}
}

func TestExamplesBuild(t *testing.T) {
	var paths []string
	for _, pattern := range []string{"*.json", "*.yaml", "*.toml"} {
		matches, err := filepath.Glob(filepath.Join("..", "..", "examples", pattern))
		if err != nil {
			t.Fatal(err)
		}
		for _, m := range matches {
			if filepath.Base(m) == configFile {
				continue
			}
			abs, err := filepath.Abs(m)
			if err != nil {
				t.Fatal(err)
			}
			paths = append(paths, abs)
		}
	}
	if len(paths) == 0 {
		t.Skip("no example inputs")
	}

	dir := sandbox(t)
	mustExecute(t, append([]string{"build", "-o", "out", "--no-cache"}, paths...)...)
	for _, p := range paths {
		name := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		if err := loadLattice(t, filepath.Join(dir, "out", name+".json")).Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}
