package lattice

import "fmt"

// Decoration is the payload carried by every node: its face and its rank.
// Richer decorations are attached through lattice metadata rather than by
// extending this type.
type Decoration struct {
	Face Face `json:"face"`
	Rank int  `json:"rank"`
}

// String returns "face@rank".
func (d Decoration) String() string { return fmt.Sprintf("%s@%d", d.Face, d.Rank) }

// Metadata stores arbitrary key-value pairs attached to the lattice, such as
// the far face of an unbounded polyhedron or the name of the source input.
type Metadata map[string]any

// Edge is a covering pair: the face of From is covered by the face of To.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}
