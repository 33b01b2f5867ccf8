package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/hasse/pkg/builder"
	"github.com/matzehuels/hasse/pkg/cache"
	pkgio "github.com/matzehuels/hasse/pkg/io"
	"github.com/matzehuels/hasse/pkg/lattice"
	"github.com/matzehuels/hasse/pkg/observability"
	"github.com/matzehuels/hasse/pkg/render/nodelink"
)

// Result is a built lattice with its encoded document.
type Result struct {
	Name      string
	Lattice   *lattice.Lattice
	Data      []byte // JSON document, see pkg/io
	InputHash string
	CacheHit  bool
	Duration  time.Duration
}

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can use the same Runner; each build owns its lattice.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Refresh skips cache reads; results are still written.
	Refresh bool
	// TTL is the lifetime of cached lattices. Zero means cache.TTLLattice.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// InputHash hashes the canonical JSON form of an input. The name does not
// take part.
func InputHash(in pkgio.Input) string {
	in.Name = ""
	data, _ := json.Marshal(in)
	return cache.Hash(data)
}

// Build plans, builds and validates one input, consulting the cache first.
func (r *Runner) Build(ctx context.Context, in pkgio.Input) (*Result, error) {
	op, opts, err := Plan(in)
	if err != nil {
		return nil, err
	}

	res := &Result{Name: in.Name, InputHash: InputHash(in)}
	key := r.Keyer.LatticeKey(res.InputHash, cache.LatticeKeyOpts{
		SeqType:      opts.SeqType.String(),
		CheckClosure: opts.CheckClosure,
	})
	logger := r.Logger.With("input", in.Name)

	if !r.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if l, err := pkgio.Unmarshal(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "lattice")
				logger.Debug("lattice cache hit", "nodes", l.NodeCount())
				res.Lattice, res.Data, res.CacheHit = l, data, true
				return res, nil
			}
			logger.Warn("discarding unreadable cache entry")
		} else if err != nil {
			logger.Warn("cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "lattice")
	}

	opts.Logger = logger
	start := time.Now()
	observability.Build().OnBuildStart(ctx, in.Name, op.GroundSize())
	l, err := r.build(ctx, op, opts)
	res.Duration = time.Since(start)
	nodes := 0
	if l != nil {
		nodes = l.NodeCount()
	}
	observability.Build().OnBuildComplete(ctx, in.Name, nodes, res.Duration, err)
	if err != nil {
		return nil, err
	}

	data, err := pkgio.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("encode lattice: %w", err)
	}
	ttl := r.TTL
	if ttl <= 0 {
		ttl = cache.TTLLattice
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "lattice", len(data))
	}

	logger.Info("built lattice",
		"nodes", l.NodeCount(),
		"edges", l.EdgeCount(),
		"ranks", l.Rank(),
		"duration", res.Duration)

	res.Lattice, res.Data = l, data
	return res, nil
}

func (r *Runner) build(ctx context.Context, op builder.ClosureOperator, opts builder.Options) (*lattice.Lattice, error) {
	l, err := builder.Build(ctx, op, opts)
	if err != nil {
		return nil, err
	}
	if err := l.Validate(); err != nil {
		return nil, fmt.Errorf("built lattice is inconsistent: %w", err)
	}
	return l, nil
}

// BuildAll builds the inputs on at most workers goroutines. Results keep the
// input order. The first failure cancels the remaining builds.
func (r *Runner) BuildAll(ctx context.Context, inputs []pkgio.Input, workers int) ([]*Result, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([]*Result, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range inputs {
		g.Go(func() error {
			res, err := r.Build(ctx, in)
			if err != nil {
				return fmt.Errorf("%s: %w", in.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Render draws a lattice, caching the output by the hash of its document.
func (r *Runner) Render(ctx context.Context, l *lattice.Lattice, format nodelink.Format, opts nodelink.Options) ([]byte, bool, error) {
	doc, err := pkgio.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("encode lattice: %w", err)
	}
	key := r.Keyer.RenderKey(cache.Hash(doc), cache.RenderKeyOpts{
		Format: string(format),
		Faces:  opts.Faces,
		Ranks:  opts.Ranks,
	})

	if !r.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "render")
			return data, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "render")
	}

	start := time.Now()
	observability.Build().OnRenderStart(ctx, string(format), l.NodeCount())
	out, err := nodelink.Render(ctx, l, format, opts)
	observability.Build().OnRenderComplete(ctx, string(format), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, out, cache.TTLRender); err == nil {
		observability.Cache().OnCacheSet(ctx, "render", len(out))
	}
	return out, false, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
