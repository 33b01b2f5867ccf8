package lattice

import (
	"fmt"

	"go.uber.org/multierr"
)

// Validate checks the structural invariants and returns every violation
// found, combined with multierr. It verifies that:
//
//  1. Every live node is recorded exactly once in the rank index, under its
//     own rank.
//  2. Every edge joins live nodes exactly one rank apart in the direction of
//     construction. Edges touching artificial nodes are exempt.
//  3. Top and bottom are set, live, and the only nodes of their ranks, which
//     are the extremal ranks.
//  4. No two nodes of one rank carry equal faces.
//  5. The covering graph is acyclic.
func (l *Lattice) Validate() error {
	var err error
	err = multierr.Append(err, l.validateRankIndex())
	err = multierr.Append(err, l.validateEdges())
	err = multierr.Append(err, l.validateExtremal())
	err = multierr.Append(err, l.validateFaces())
	err = multierr.Append(err, l.detectCycles())
	return err
}

func (l *Lattice) validateRankIndex() error {
	var err error
	seen := make(map[int]int, l.NodeCount())
	for _, r := range l.index.Ranks() {
		for _, id := range l.NodesOfRank(r) {
			seen[id]++
			if l.decor[id].Rank != r {
				err = multierr.Append(err, fmt.Errorf("%w: node %d has rank %d but is indexed under %d",
					ErrRankIndexMismatch, id, l.decor[id].Rank, r))
			}
		}
	}
	for _, id := range l.Nodes() {
		if seen[id] != 1 {
			err = multierr.Append(err, fmt.Errorf("%w: node %d indexed %d times",
				ErrRankIndexMismatch, id, seen[id]))
		}
	}
	return err
}

func (l *Lattice) validateEdges() error {
	var err error
	for _, e := range l.Edges() {
		if !l.Has(e.To) {
			err = multierr.Append(err, fmt.Errorf("%w: %d", ErrUnknownNode, e.To))
			continue
		}
		if l.artificial[e.From] || l.artificial[e.To] {
			continue
		}
		if got := l.decor[e.To].Rank - l.decor[e.From].Rank; got != l.step() {
			err = multierr.Append(err, fmt.Errorf("%w: %d->%d spans %d", ErrRankGap, e.From, e.To, got))
		}
	}
	return err
}

func (l *Lattice) validateExtremal() error {
	if !l.Has(l.top) || !l.Has(l.bottom) {
		return ErrMissingExtremal
	}
	ranks := l.index.Ranks()
	lowest, highest := ranks[0], ranks[len(ranks)-1]
	topRank, bottomRank := l.decor[l.top].Rank, l.decor[l.bottom].Rank
	wantTop, wantBottom := highest, lowest
	if l.dual {
		wantTop, wantBottom = lowest, highest
	}

	var err error
	if topRank != wantTop {
		err = multierr.Append(err, fmt.Errorf("%w: top node %d at rank %d", ErrNotExtremal, l.top, topRank))
	}
	if bottomRank != wantBottom {
		err = multierr.Append(err, fmt.Errorf("%w: bottom node %d at rank %d", ErrNotExtremal, l.bottom, bottomRank))
	}
	if l.top != l.bottom {
		if n := len(l.NodesOfRank(topRank)); n != 1 {
			err = multierr.Append(err, fmt.Errorf("%w: %d nodes share the top rank", ErrNotExtremal, n))
		}
		if n := len(l.NodesOfRank(bottomRank)); n != 1 {
			err = multierr.Append(err, fmt.Errorf("%w: %d nodes share the bottom rank", ErrNotExtremal, n))
		}
	}
	return err
}

func (l *Lattice) validateFaces() error {
	var err error
	for _, r := range l.index.Ranks() {
		seen := make(map[string]int)
		for _, id := range l.NodesOfRank(r) {
			key := l.decor[id].Face.Key()
			if prev, dup := seen[key]; dup {
				err = multierr.Append(err, fmt.Errorf("%w: nodes %d and %d carry %s",
					ErrDuplicateFace, prev, id, l.decor[id].Face))
				continue
			}
			seen[key] = id
		}
	}
	return err
}

func (l *Lattice) detectCycles() error {
	const (
		white = iota
		gray
		black
	)

	color := make([]int, len(l.decor))
	var hasCycle bool

	var dfs func(id int)
	dfs = func(id int) {
		color[id] = gray
		for _, up := range l.out[id] {
			switch color[up] {
			case white:
				dfs(up)
			case gray:
				hasCycle = true
				return
			}
		}
		color[id] = black
	}

	for _, id := range l.Nodes() {
		if color[id] == white {
			dfs(id)
			if hasCycle {
				return ErrHasCycle
			}
		}
	}
	return nil
}
