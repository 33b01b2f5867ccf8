package lattice

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"
)

// Face is an immutable set of ground-set indices, stored sorted and without
// duplicates. Methods never modify the receiver; set operations return new
// faces. The nil Face is the empty set.
type Face []int

// NewFace builds a Face from arbitrary elements, sorting and deduplicating them.
func NewFace(elems ...int) Face {
	if len(elems) == 0 {
		return Face{}
	}
	f := slices.Clone(elems)
	slices.Sort(f)
	return Face(slices.Compact(f))
}

// FullFace returns the face {0, 1, ..., n-1}.
func FullFace(n int) Face {
	f := make(Face, n)
	for i := range f {
		f[i] = i
	}
	return f
}

// Len returns the number of elements.
func (f Face) Len() int { return len(f) }

// IsEmpty reports whether the face has no elements.
func (f Face) IsEmpty() bool { return len(f) == 0 }

// Contains reports whether e is an element of f.
func (f Face) Contains(e int) bool {
	_, ok := slices.BinarySearch(f, e)
	return ok
}

// Equal reports set equality.
func (f Face) Equal(g Face) bool { return slices.Equal(f, g) }

// Subset reports whether f ⊆ g.
func (f Face) Subset(g Face) bool {
	if len(f) > len(g) {
		return false
	}
	j := 0
	for _, e := range f {
		for j < len(g) && g[j] < e {
			j++
		}
		if j == len(g) || g[j] != e {
			return false
		}
		j++
	}
	return true
}

// Meets reports whether f and g share at least one element.
func (f Face) Meets(g Face) bool {
	i, j := 0, 0
	for i < len(f) && j < len(g) {
		switch {
		case f[i] == g[j]:
			return true
		case f[i] < g[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// Union returns f ∪ g.
func (f Face) Union(g Face) Face {
	out := make(Face, 0, len(f)+len(g))
	i, j := 0, 0
	for i < len(f) && j < len(g) {
		switch {
		case f[i] == g[j]:
			out = append(out, f[i])
			i++
			j++
		case f[i] < g[j]:
			out = append(out, f[i])
			i++
		default:
			out = append(out, g[j])
			j++
		}
	}
	out = append(out, f[i:]...)
	return append(out, g[j:]...)
}

// Intersect returns f ∩ g.
func (f Face) Intersect(g Face) Face {
	out := Face{}
	i, j := 0, 0
	for i < len(f) && j < len(g) {
		switch {
		case f[i] == g[j]:
			out = append(out, f[i])
			i++
			j++
		case f[i] < g[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// Minus returns f \ g.
func (f Face) Minus(g Face) Face {
	out := Face{}
	j := 0
	for _, e := range f {
		for j < len(g) && g[j] < e {
			j++
		}
		if j < len(g) && g[j] == e {
			continue
		}
		out = append(out, e)
	}
	return out
}

// With returns f ∪ {e}.
func (f Face) With(e int) Face {
	i, ok := slices.BinarySearch(f, e)
	if ok {
		return f
	}
	out := make(Face, 0, len(f)+1)
	out = append(out, f[:i]...)
	out = append(out, e)
	return append(out, f[i:]...)
}

// Max returns the largest element, or -1 for the empty face.
func (f Face) Max() int {
	if len(f) == 0 {
		return -1
	}
	return f[len(f)-1]
}

// Compare orders faces lexicographically.
func (f Face) Compare(g Face) int { return slices.Compare(f, g) }

// Key returns a canonical string usable as a map key.
func (f Face) Key() string {
	var b strings.Builder
	for i, e := range f {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(e))
	}
	return b.String()
}

// String formats the face as {a b c}.
func (f Face) String() string {
	return "{" + strings.ReplaceAll(f.Key(), ",", " ") + "}"
}

// MarshalJSON encodes the empty face as [] rather than null.
func (f Face) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]int(f))
}

// UnmarshalJSON normalizes the decoded elements.
func (f *Face) UnmarshalJSON(data []byte) error {
	var elems []int
	if err := json.Unmarshal(data, &elems); err != nil {
		return err
	}
	*f = NewFace(elems...)
	return nil
}
