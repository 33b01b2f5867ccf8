package builder

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/hasse/pkg/errors"
	"github.com/matzehuels/hasse/pkg/lattice"
)

// MetaFarFace is the lattice metadata key holding the far face of a bounded build.
const MetaFarFace = "far_face"

// builder holds the state of one construction run.
type builder struct {
	op    ClosureOperator
	opts  Options
	dec   Decorator
	log   *log.Logger
	l     *lattice.Lattice
	faces []lattice.Face // construction-space face per node
	depth []int
	seen  map[string]int
	cover []bool // node has an accepted upper cover
}

// Build constructs the lattice of closed sets of op, rank by rank, starting
// from the closure of the empty set.
//
// Each closed set appears exactly once. Closures equal to the closure of the
// whole ground set are never enqueued: the closing node is inserted last and
// joined from every node without an accepted cover. It is the natural top
// when the lattice is complete and unrestricted, and an artificial sentinel
// otherwise.
//
// For a dual build op works on the dual ground set, the starting node is the
// top (rank 0) and stored edges still point from the smaller face to the
// larger one.
//
// ctx is checked once per rank. A cover found again at a different rank makes
// the build fail with INVARIANT_VIOLATION.
func Build(ctx context.Context, op ClosureOperator, opts Options) (*lattice.Lattice, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	limit, _ := opts.depthLimit()

	b := &builder{
		op:   op,
		opts: opts,
		dec:  opts.Decorator,
		log:  opts.Logger,
		l:    lattice.New(opts.SeqType, opts.Dual),
		seen: make(map[string]int),
	}
	if b.dec == nil {
		b.dec = BasicDecorator{}
	}
	if b.log == nil {
		b.log = log.New(io.Discard)
	}
	if !opts.FarFace.IsEmpty() {
		b.l.Meta()[MetaFarFace] = opts.FarFace
	}
	return b.run(ctx, limit)
}

func (b *builder) run(ctx context.Context, limit int) (*lattice.Lattice, error) {
	ground := lattice.FullFace(b.op.GroundSize())
	topFace := b.op.Closure(ground)

	start := b.op.Closure(lattice.NewFace())
	if err := b.checkClosed(start, nil); err != nil {
		return nil, err
	}
	startID := b.add(start, b.dec.Initial(start), 0)
	if start.Equal(topFace) && b.natural(false) {
		_ = b.l.SetTopNode(startID)
		_ = b.l.SetBottomNode(startID)
		return b.l, nil
	}

	current := []int{startID}
	cut := false
	for depth := 0; ; depth++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if limit >= 0 && depth >= limit {
			cut = true
			break
		}

		var next []int
		candidates := 0
		for _, u := range current {
			for _, m := range upperCovers(b.op, b.faces[u]) {
				candidates++
				if m.Equal(topFace) || m.Meets(b.opts.FarFace) {
					continue
				}
				if err := b.checkClosed(m, b.faces[u]); err != nil {
					return nil, err
				}
				v, ok := b.seen[m.Key()]
				if ok {
					if b.depth[v] != depth+1 {
						return nil, errs.New(errs.ErrCodeInvariantViolation,
							"closure system is not graded: %s reached at depth %d and %d", m, b.depth[v], depth+1)
					}
				} else {
					pred, _ := b.l.Decoration(u)
					v = b.add(m, b.dec.Decorate(m, pred), depth+1)
					next = append(next, v)
				}
				b.cover[u] = true
				if err := b.link(u, v); err != nil {
					return nil, err
				}
			}
		}
		b.log.Debug("constructed rank", "rank", depth+1, "nodes", len(next), "candidates", candidates)
		if len(next) == 0 {
			break
		}
		current = next
	}

	return b.close(startID, current, topFace, cut)
}

// natural reports whether the closing node is the genuine top face.
func (b *builder) natural(cut bool) bool {
	return b.opts.Topology.IsComplete && !cut && b.opts.FarFace.IsEmpty()
}

// close inserts the closing node and joins every node without a cover to it.
// The closing node is the natural top face only when the lattice is complete,
// unrestricted, and all joined nodes share one rank; otherwise it is an
// artificial sentinel one rank past the deepest node.
func (b *builder) close(startID int, last []int, topFace lattice.Face, cut bool) (*lattice.Lattice, error) {
	pool := b.l.Nodes()
	if b.opts.Topology.IsPure {
		pool = last
	}
	var open []int
	for _, id := range pool {
		if !b.cover[id] {
			open = append(open, id)
		}
	}
	maxRank, _ := b.l.RankOf(startID)
	for _, id := range b.l.Nodes() {
		r, _ := b.l.RankOf(id)
		maxRank = max(maxRank, r)
	}

	natural := b.natural(cut) && len(open) > 0
	for _, id := range open {
		if r, _ := b.l.RankOf(id); r != maxRank {
			natural = false
		}
	}

	var closing int
	if natural {
		pred, _ := b.l.Decoration(open[0])
		closing = b.add(topFace, b.dec.Decorate(topFace, pred), -1)
	} else {
		ground := lattice.FullFace(b.op.GroundSize())
		closing = b.add(ground, b.dec.Artificial(ground, maxRank+1), -1)
		b.l.MarkArtificial(closing)
	}
	for _, id := range open {
		if err := b.link(id, closing); err != nil {
			return nil, err
		}
	}

	top, bottom := closing, startID
	if b.opts.Dual {
		top, bottom = startID, closing
	}
	_ = b.l.SetTopNode(top)
	_ = b.l.SetBottomNode(bottom)
	b.log.Debug("closed lattice", "nodes", b.l.NodeCount(), "edges", b.l.EdgeCount(), "artificial", !natural)
	return b.l, nil
}

func (b *builder) add(face lattice.Face, d lattice.Decoration, depth int) int {
	id := b.l.AddNode(d)
	b.faces = append(b.faces, face)
	b.depth = append(b.depth, depth)
	b.cover = append(b.cover, false)
	if depth >= 0 {
		b.seen[face.Key()] = id
	}
	return id
}

// link stores the covering pair found at construction time. In a dual build
// the newer node is the smaller face.
func (b *builder) link(older, newer int) error {
	if b.opts.Dual {
		return b.l.AddEdge(newer, older)
	}
	return b.l.AddEdge(older, newer)
}

func (b *builder) checkClosed(m, pred lattice.Face) error {
	if !b.opts.CheckClosure {
		return nil
	}
	if c := b.op.Closure(m); !c.Equal(m) {
		return errs.New(errs.ErrCodeInvariantViolation, "closure is not idempotent: %s closes to %s", m, c)
	}
	if pred != nil && (!pred.Subset(m) || pred.Equal(m)) {
		return errs.New(errs.ErrCodeInvariantViolation, "closure is not monotone: %s does not properly contain %s", m, pred)
	}
	return nil
}
