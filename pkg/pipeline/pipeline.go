// Package pipeline turns input documents into lattices and drawings.
//
// It is the shared entry point of the CLI and the HTTP server: an [Input]
// is planned into a closure operator and builder options, built, validated,
// encoded and cached. A [Runner] carries the cache and logger.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Build(ctx, in)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Lattice.NodeCount(), res.CacheHit)
//
// Batches run on a bounded worker pool, one lattice per worker:
//
//	results, err := runner.BuildAll(ctx, inputs, 4)
package pipeline

import (
	"github.com/matzehuels/hasse/pkg/builder"
	"github.com/matzehuels/hasse/pkg/closure"
	errs "github.com/matzehuels/hasse/pkg/errors"
	pkgio "github.com/matzehuels/hasse/pkg/io"
	"github.com/matzehuels/hasse/pkg/lattice"
)

// Plan maps an input to its closure operator and builder options. The
// options carry no logger.
func Plan(in pkgio.Input) (builder.ClosureOperator, builder.Options, error) {
	if err := in.Validate(); err != nil {
		return nil, builder.Options{}, err
	}

	opts := builder.DefaultOptions()
	s := in.Build
	opts.Dual = s.Dual
	opts.TopRank = s.TopRank
	opts.CheckClosure = s.CheckClosure
	opts.Topology = builder.TopologicalType{IsPure: s.Pure, IsComplete: !s.Incomplete}
	if s.Nonsequential {
		opts.SeqType = lattice.Nonsequential
	}
	if len(in.FarFace) > 0 {
		opts.FarFace = lattice.NewFace(in.FarFace...)
	}
	switch {
	case s.MaxRank != nil:
		opts.Restriction = builder.RankRestriction{Bounded: true, CutType: builder.LesserEqual, BoundaryRank: *s.MaxRank}
	case s.MinRank != nil:
		opts.Restriction = builder.RankRestriction{Bounded: true, CutType: builder.GreaterEqual, BoundaryRank: *s.MinRank}
	}

	faces := make([]lattice.Face, len(in.Faces))
	for i, f := range in.Faces {
		faces[i] = lattice.NewFace(f...)
	}

	var op builder.ClosureOperator
	switch in.Closure {
	case pkgio.ClosureFacets:
		f, err := closure.NewFacets(in.GroundSize, faces)
		if err != nil {
			return nil, opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "facets")
		}
		op = f
		if s.Dual {
			d, translate := f.Dual()
			op = d
			opts.Decorator = builder.BasicDecorator{Translate: translate}
		}
	case pkgio.ClosureSimplicial:
		c, err := closure.NewSimplicial(in.GroundSize, faces)
		if err != nil {
			return nil, opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "simplicial complex")
		}
		op = c
		// the whole vertex set is a sentinel unless it is itself a face
		opts.Topology.IsComplete = opts.Topology.IsComplete && c.IsSimplex()
	case pkgio.ClosureComplex:
		cellFacets := make([][]lattice.Face, len(in.CellFacets))
		for i, fs := range in.CellFacets {
			cellFacets[i] = make([]lattice.Face, len(fs))
			for j, f := range fs {
				cellFacets[i][j] = lattice.NewFace(f...)
			}
		}
		c, err := closure.NewComplex(in.GroundSize, faces, cellFacets)
		if err != nil {
			return nil, opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "complex")
		}
		op = c
		opts.Topology.IsComplete = opts.Topology.IsComplete && c.IsSingleCell()
	case pkgio.ClosureMatroid:
		edges := make([][2]int, len(in.Edges))
		for i, e := range in.Edges {
			edges[i] = [2]int{e[0], e[1]}
		}
		m, err := closure.NewGraphicMatroid(in.GroundSize, edges)
		if err != nil {
			return nil, opts, errs.Wrap(errs.ErrCodeInvalidInput, err, "graphic matroid")
		}
		op = m
	case pkgio.ClosureIdentity:
		op = closure.Identity(in.GroundSize)
	}

	if s.Dual && in.Closure != pkgio.ClosureFacets {
		return nil, opts, errs.New(errs.ErrCodeUnsupported, "dual construction needs a facets input, got %s", in.Closure)
	}
	return op, opts, nil
}
