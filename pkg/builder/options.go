package builder

import (
	"github.com/charmbracelet/log"

	errs "github.com/matzehuels/hasse/pkg/errors"
	"github.com/matzehuels/hasse/pkg/lattice"
)

// CutType says whether a rank restriction is an upper or a lower bound.
type CutType int

const (
	// LesserEqual keeps construction ranks <= BoundaryRank.
	LesserEqual CutType = iota
	// GreaterEqual keeps primal ranks >= BoundaryRank. Needs a dual build.
	GreaterEqual
)

// String returns the name of the cut type.
func (c CutType) String() string {
	if c == GreaterEqual {
		return "GreaterEqual"
	}
	return "LesserEqual"
}

// RankRestriction bounds how far construction proceeds.
type RankRestriction struct {
	Bounded      bool
	CutType      CutType
	BoundaryRank int
}

// TopologicalType describes the shape of the expected lattice.
type TopologicalType struct {
	// IsPure promises that all maximal faces share one rank, so only the
	// last constructed rank is scanned when joining the closing node.
	IsPure bool
	// IsComplete promises that the closure of the ground set is the natural
	// top. When false the closing node is a synthesized sentinel.
	IsComplete bool
}

// Options configures [Build]. Use [DefaultOptions] rather than the zero value,
// which describes an incomplete lattice.
type Options struct {
	Restriction RankRestriction
	Topology    TopologicalType

	// Dual builds from the top down over the dual ground set.
	Dual bool
	// TopRank is the primal rank of the top; needed for GreaterEqual cuts.
	TopRank int
	// FarFace rejects every closed set meeting it (bounded subcomplex).
	// Only valid for primal builds.
	FarFace lattice.Face

	SeqType lattice.SeqType
	// CheckClosure verifies that every accepted set is closed and contains
	// its predecessor. Off by default.
	CheckClosure bool

	// Decorator labels nodes. Nil means a BasicDecorator without translation.
	Decorator Decorator
	// Logger receives one debug line per constructed rank. Nil disables logging.
	Logger *log.Logger
}

// DefaultOptions returns an unbounded, impure, complete, Sequential configuration.
func DefaultOptions() Options {
	return Options{
		Topology: TopologicalType{IsComplete: true},
		SeqType:  lattice.Sequential,
	}
}

// construction-relative depth limit, or -1 when unbounded
func (o Options) depthLimit() (int, error) {
	r := o.Restriction
	if !r.Bounded {
		return -1, nil
	}
	switch r.CutType {
	case LesserEqual:
		if r.BoundaryRank < 0 {
			return 0, errs.New(errs.ErrCodeInvalidInput, "rank bound must be non-negative, got %d", r.BoundaryRank)
		}
		return r.BoundaryRank, nil
	case GreaterEqual:
		if !o.Dual {
			return 0, errs.New(errs.ErrCodeInvalidInput, "a lower rank bound requires dual construction")
		}
		if o.TopRank <= 0 {
			return 0, errs.New(errs.ErrCodeInvalidInput, "a lower rank bound requires the rank of the top")
		}
		if r.BoundaryRank <= 0 {
			return -1, nil
		}
		return max(o.TopRank-r.BoundaryRank, 0), nil
	default:
		return 0, errs.New(errs.ErrCodeInvalidInput, "unknown cut type %d", int(r.CutType))
	}
}

func (o Options) validate() error {
	if o.Dual && !o.FarFace.IsEmpty() {
		return errs.New(errs.ErrCodeInvalidInput, "far faces are only supported for primal construction")
	}
	_, err := o.depthLimit()
	return err
}
