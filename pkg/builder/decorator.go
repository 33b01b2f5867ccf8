package builder

import "github.com/matzehuels/hasse/pkg/lattice"

// Decorator labels the nodes created during construction. Faces handed to a
// Decorator are in construction space: for a dual build they are sets of
// dual ground elements (facets), which the decorator may translate back.
type Decorator interface {
	// Initial decorates the starting closed set.
	Initial(closed lattice.Face) lattice.Decoration
	// Decorate decorates a closed set reached from pred.
	Decorate(closed lattice.Face, pred lattice.Decoration) lattice.Decoration
	// Artificial decorates a synthesized closing node at the given rank.
	Artificial(face lattice.Face, rank int) lattice.Decoration
}

// BasicDecorator ranks nodes by their distance from the starting node and
// stores the (optionally translated) face.
type BasicDecorator struct {
	// InitialRank is the rank of the starting node.
	InitialRank int
	// Translate maps construction faces to stored faces. Nil keeps them as is.
	Translate func(lattice.Face) lattice.Face
}

func (d BasicDecorator) face(f lattice.Face) lattice.Face {
	if d.Translate == nil {
		return f
	}
	return d.Translate(f)
}

// Initial implements [Decorator].
func (d BasicDecorator) Initial(closed lattice.Face) lattice.Decoration {
	return lattice.Decoration{Face: d.face(closed), Rank: d.InitialRank}
}

// Decorate implements [Decorator].
func (d BasicDecorator) Decorate(closed lattice.Face, pred lattice.Decoration) lattice.Decoration {
	return lattice.Decoration{Face: d.face(closed), Rank: pred.Rank + 1}
}

// Artificial implements [Decorator].
func (d BasicDecorator) Artificial(face lattice.Face, rank int) lattice.Decoration {
	return lattice.Decoration{Face: d.face(face), Rank: rank}
}
