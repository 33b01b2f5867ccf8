package closure

import "github.com/matzehuels/hasse/pkg/lattice"

// Func adapts a function to the builder.ClosureOperator interface.
type Func struct {
	N  int
	Fn func(lattice.Face) lattice.Face
}

// GroundSize returns N.
func (f Func) GroundSize() int { return f.N }

// Closure calls Fn.
func (f Func) Closure(s lattice.Face) lattice.Face { return f.Fn(s) }

// Identity returns the discrete operator on n elements: every set is closed.
func Identity(n int) Func {
	return Func{N: n, Fn: func(s lattice.Face) lattice.Face { return s }}
}
