package morse

import (
	"context"
	"fmt"
	"io"
	"maps"
	"math/rand/v2"
	"slices"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/hasse/pkg/errors"
	"github.com/matzehuels/hasse/pkg/lattice"
)

var (
	// ErrDualLattice is returned for lattices built from the top down.
	ErrDualLattice = errs.New(errs.ErrCodeUnsupported, "collapse needs a primally built lattice")

	// ErrNoCells is returned when the complex has no cell above the vertices.
	ErrNoCells = errs.New(errs.ErrCodeInvalidInput, "complex has only vertices")

	// ErrNotFree is returned when a face chosen for collapse has more than
	// one upper cover.
	ErrNotFree = errs.New(errs.ErrCodeInvariantViolation, "collapsing a face that is not free")
)

// Strategy selects which candidate is taken at every step.
type Strategy int

const (
	// LexFirst takes the lexicographically smallest candidate.
	LexFirst Strategy = iota
	// LexLast takes the lexicographically largest candidate.
	LexLast
)

// String returns "first" or "last".
func (s Strategy) String() string {
	if s == LexLast {
		return "last"
	}
	return "first"
}

// ParseStrategy parses "first" or "last".
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "first", "":
		return LexFirst, nil
	case "last":
		return LexLast, nil
	}
	return 0, errs.New(errs.ErrCodeInvalidInput, "unknown strategy %q (want first or last)", s)
}

// Options configures [Collapse].
type Options struct {
	Strategy Strategy

	// Seed permutes the vertex labels before faces are compared. Zero keeps
	// the labels as they are.
	Seed uint64

	// Logger receives one debug line per dimension. Nil discards.
	Logger *log.Logger

	// OnStep, if set, is called with the shrinking lattice after every
	// collapse and every critical deletion. A non-nil error stops the run.
	OnStep func(l *lattice.Lattice) error
}

// Cell is a critical cell.
type Cell struct {
	Dim  int          `json:"dim"`
	Face lattice.Face `json:"face"`
}

// Result is the outcome of [Collapse].
type Result struct {
	// Vector counts the critical cells by dimension.
	Vector []int
	// Critical lists the critical cells of positive dimension in the order
	// they were declared.
	Critical []Cell
	// Collapses counts elementary collapses.
	Collapses int
	// Remainder is what is left of the lattice: the bottom, the top and the
	// critical vertices.
	Remainder *lattice.Lattice
}

// Collapse runs the lexicographic collapse on a copy of l.
func Collapse(ctx context.Context, l *lattice.Lattice, opts Options) (*Result, error) {
	if l.BuiltDually() {
		return nil, ErrDualLattice
	}
	if !l.Complete() {
		return nil, lattice.ErrMissingExtremal
	}
	c := &collapser{
		l:     l.Clone(),
		opts:  opts,
		log:   opts.Logger,
		free:  make(map[int]bool),
		label: make(map[int]lattice.Face),
	}
	if c.log == nil {
		c.log = log.New(io.Discard)
	}
	c.base, _ = c.l.RankOf(c.l.BottomNode())
	if !c.l.IsArtificial(c.l.TopNode()) {
		c.coverTop()
	}
	topRank, _ := c.l.RankOf(c.l.TopNode())
	dim := topRank - c.base - 2
	if dim < 1 {
		return nil, ErrNoCells
	}
	if opts.Seed != 0 {
		c.relabel = c.permutation(opts.Seed)
	}
	return c.run(ctx, dim)
}

type collapser struct {
	l       *lattice.Lattice
	opts    Options
	log     *log.Logger
	base    int
	relabel []int
	label   map[int]lattice.Face
	free    map[int]bool
	res     Result
}

// rank returns the rank of the cells of dimension d.
func (c *collapser) rank(d int) int { return c.base + d + 1 }

// coverTop puts an artificial node above a top that is itself a cell, so
// that the cell can be collapsed like any other.
func (c *collapser) coverTop() {
	old := c.l.TopNode()
	d, _ := c.l.Decoration(old)
	top := c.l.AddNode(lattice.Decoration{Face: d.Face, Rank: d.Rank + 1})
	_ = c.l.AddEdge(old, top)
	_ = c.l.SetTopNode(top)
	c.l.MarkArtificial(top)
}

func (c *collapser) permutation(seed uint64) []int {
	n := 0
	for _, id := range c.l.Nodes() {
		if f := c.l.Face(id); !f.IsEmpty() && !c.l.IsArtificial(id) {
			n = max(n, f.Max()+1)
		}
	}
	return rand.New(rand.NewPCG(seed, seed>>1|1)).Perm(n)
}

func (c *collapser) run(ctx context.Context, dim int) (*Result, error) {
	c.res.Vector = make([]int, dim+1)
	d := dim
	left := len(c.l.NodesOfRank(c.rank(d)))
	c.initFree(d)
	collapsed := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		switch {
		case len(c.free) > 0:
			f := c.pick(slices.Collect(maps.Keys(c.free)))
			if err := c.collapse(f); err != nil {
				return nil, err
			}
			left--
			collapsed++
		case left == 0:
			c.log.Debug("dimension done", "dim", d, "collapses", collapsed, "critical", c.res.Vector[d])
			collapsed = 0
			d--
			if d <= 0 {
				c.res.Vector[0] += len(c.l.NodesOfRank(c.rank(0)))
				c.res.Remainder = c.l
				return &c.res, nil
			}
			left = len(c.l.NodesOfRank(c.rank(d)))
			c.initFree(d)
			continue
		default:
			crit := c.pick(c.l.NodesOfRank(c.rank(d)))
			if err := c.critical(crit, d); err != nil {
				return nil, err
			}
			left--
			c.res.Vector[d]++
		}
		if c.opts.OnStep != nil {
			if err := c.opts.OnStep(c.l); err != nil {
				return nil, err
			}
		}
	}
}

// initFree collects the free faces of dimension d-1.
func (c *collapser) initFree(d int) {
	clear(c.free)
	for _, id := range c.l.NodesOfRank(c.rank(d - 1)) {
		if c.isFree(id) {
			c.free[id] = true
		}
	}
}

func (c *collapser) isFree(id int) bool {
	up := c.l.OutAdjacent(id)
	if len(up) != 1 {
		return false
	}
	r, _ := c.l.RankOf(id)
	ur, _ := c.l.RankOf(up[0])
	return ur == r+1
}

// collapse deletes the free face f together with its unique cover and
// rescans the boundary of the cover for faces that became free.
func (c *collapser) collapse(f int) error {
	up := c.l.OutAdjacent(f)
	if len(up) != 1 {
		return fmt.Errorf("%w: node %d has %d upper covers", ErrNotFree, f, len(up))
	}
	g := up[0]
	boundary := slices.Clone(c.l.InAdjacent(g))
	for _, b := range boundary {
		delete(c.free, b)
	}
	if err := c.l.DeleteNode(f); err != nil {
		return err
	}
	if err := c.l.DeleteNode(g); err != nil {
		return err
	}
	c.res.Collapses++
	c.refresh(boundary)
	return nil
}

// critical deletes a cell that cannot be collapsed.
func (c *collapser) critical(id, dim int) error {
	boundary := slices.Clone(c.l.InAdjacent(id))
	c.res.Critical = append(c.res.Critical, Cell{Dim: dim, Face: c.l.Face(id)})
	if err := c.l.DeleteNode(id); err != nil {
		return err
	}
	c.refresh(boundary)
	return nil
}

func (c *collapser) refresh(boundary []int) {
	for _, b := range boundary {
		if c.l.Has(b) && c.isFree(b) {
			c.free[b] = true
		}
	}
}

// pick returns the lexicographically first or last candidate.
func (c *collapser) pick(ids []int) int {
	best := ids[0]
	for _, id := range ids[1:] {
		cmp := c.compare(id, best)
		if (c.opts.Strategy == LexFirst && cmp < 0) || (c.opts.Strategy == LexLast && cmp > 0) {
			best = id
		}
	}
	return best
}

func (c *collapser) compare(a, b int) int {
	if n := c.face(a).Compare(c.face(b)); n != 0 {
		return n
	}
	return a - b
}

// face returns the vertex set of a node under the active relabeling.
func (c *collapser) face(id int) lattice.Face {
	if c.relabel == nil {
		return c.l.Face(id)
	}
	if f, ok := c.label[id]; ok {
		return f
	}
	src := c.l.Face(id)
	mapped := make([]int, len(src))
	for i, v := range src {
		mapped[i] = c.relabel[v]
	}
	f := lattice.NewFace(mapped...)
	c.label[id] = f
	return f
}
