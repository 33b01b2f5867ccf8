package builder

import "github.com/matzehuels/hasse/pkg/lattice"

// ClosureOperator computes closed sets over the ground set {0, ..., GroundSize()-1}.
//
// Implementations must be deterministic, extensive (S ⊆ Closure(S)), monotone
// and idempotent. The builder relies on this contract and does not check it
// unless [Options.CheckClosure] is set.
type ClosureOperator interface {
	Closure(s lattice.Face) lattice.Face
	GroundSize() int
}

// upperCovers returns the closed sets covering h, each exactly once.
//
// A candidate closure(h ∪ {g}) is a cover iff it adds no element still
// considered minimal besides g itself; otherwise g is dropped from the
// minimal set. Candidates are visited in ascending element order, so each
// cover is reported by its largest minimal generator.
func upperCovers(op ClosureOperator, h lattice.Face) []lattice.Face {
	n := op.GroundSize()
	minimal := make([]bool, n)
	for g := range n {
		minimal[g] = !h.Contains(g)
	}

	var covers []lattice.Face
	for g := range n {
		if !minimal[g] {
			continue
		}
		m := op.Closure(h.With(g))
		isCover := true
		for _, x := range m.Minus(h) {
			if x != g && x < n && minimal[x] {
				isCover = false
				break
			}
		}
		if isCover {
			covers = append(covers, m)
		} else {
			minimal[g] = false
		}
	}
	return covers
}
