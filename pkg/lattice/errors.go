package lattice

import errs "github.com/matzehuels/hasse/pkg/errors"

var (
	// ErrUnknownNode is returned when an id does not name a live node.
	ErrUnknownNode = errs.New(errs.ErrCodeLookupMiss, "unknown node")

	// ErrVertexNotFound is returned by [Lattice.FindVertexNode] when no atom
	// carries the requested vertex label.
	ErrVertexNotFound = errs.New(errs.ErrCodeLookupMiss, "vertex node not found")

	// ErrFaceNotFound is returned by [Lattice.FindNode] when no node carries
	// the requested face.
	ErrFaceNotFound = errs.New(errs.ErrCodeLookupMiss, "face not found")

	// ErrExtremalNode is returned by [Lattice.DeleteNode] for the top or
	// bottom node. They must exist for as long as the lattice does.
	ErrExtremalNode = errs.New(errs.ErrCodeInvariantViolation, "top and bottom nodes cannot be deleted")

	// ErrMissingExtremal is returned by queries that need the top or bottom
	// node before they have been set.
	ErrMissingExtremal = errs.New(errs.ErrCodeInvariantViolation, "top or bottom node not set")

	// ErrRankGap is reported by [Lattice.Validate] for an edge whose endpoints
	// are not exactly one rank apart.
	ErrRankGap = errs.New(errs.ErrCodeInvariantViolation, "edge must connect adjacent ranks")

	// ErrRankIndexMismatch is reported by [Lattice.Validate] when the rank
	// index disagrees with a node's stored rank.
	ErrRankIndexMismatch = errs.New(errs.ErrCodeInvariantViolation, "rank index inconsistent with node rank")

	// ErrDuplicateFace is reported by [Lattice.Validate] when two nodes of
	// the same rank carry equal faces.
	ErrDuplicateFace = errs.New(errs.ErrCodeInvariantViolation, "duplicate face within rank")

	// ErrNotExtremal is reported by [Lattice.Validate] when the top or bottom
	// node is not the unique node of the extremal rank.
	ErrNotExtremal = errs.New(errs.ErrCodeInvariantViolation, "top or bottom is not the unique extremal node")

	// ErrHasCycle is reported by [Lattice.Validate] when the covering graph
	// contains a directed cycle.
	ErrHasCycle = errs.New(errs.ErrCodeInvariantViolation, "covering graph contains a cycle")
)
