package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	errs "github.com/matzehuels/hasse/pkg/errors"
	"github.com/matzehuels/hasse/pkg/lattice"
	"github.com/matzehuels/hasse/pkg/migration"
)

type document struct {
	Adjacency      [][]int          `json:"ADJACENCY"`
	Faces          []lattice.Face   `json:"FACES"`
	Ranks          []int            `json:"RANKS,omitempty"`
	InverseRankMap map[string][]int `json:"INVERSE_RANK_MAP,omitempty"`
	Dims           []int            `json:"DIMS,omitempty"`
	TopNode        *int             `json:"TOP_NODE,omitempty"`
	BottomNode     *int             `json:"BOTTOM_NODE,omitempty"`
	BuiltDually    *bool            `json:"BUILT_DUALLY,omitempty"`
	SeqType        string           `json:"SEQ_TYPE,omitempty"`
	Artificial     []int            `json:"ARTIFICIAL_NODES,omitempty"`
	Meta           lattice.Metadata `json:"META,omitempty"`
}

// Marshal encodes a lattice document. A lattice with deletion gaps is
// squeezed on a copy first.
func Marshal(l *lattice.Lattice) ([]byte, error) {
	l = dense(l)
	doc := newDocument(l)
	doc.Ranks, doc.InverseRankMap = ranksOf(l)
	return json.MarshalIndent(doc, "", "  ")
}

// WriteJSON encodes a lattice document and writes it to w.
func WriteJSON(l *lattice.Lattice, w io.Writer) error {
	data, err := Marshal(l)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// WriteLegacyJSON writes the lattice in the legacy DIMS layout. It fails with
// DIMENSION_MISMATCH when the ranks do not form that layout.
func WriteLegacyJSON(l *lattice.Lattice, w io.Writer) error {
	l = dense(l)
	dims, err := migration.ToDims(l.RankIndex(), l.NodeCount())
	if err != nil {
		return err
	}
	doc := newDocument(l)
	doc.Dims = dims
	doc.SeqType = ""
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes a lattice document to a file at path.
func ExportJSON(l *lattice.Lattice, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(l, f)
}

func dense(l *lattice.Lattice) *lattice.Lattice {
	if !l.HasGaps() {
		return l
	}
	c := l.Clone()
	c.Squeeze()
	return c
}

func newDocument(l *lattice.Lattice) document {
	n := l.NodeCount()
	doc := document{
		Adjacency:   make([][]int, n),
		Faces:       make([]lattice.Face, n),
		BuiltDually: ptr(l.BuiltDually()),
		SeqType:     l.SeqType().String(),
		Artificial:  l.ArtificialNodes(),
	}
	if l.TopNode() >= 0 {
		doc.TopNode = ptr(l.TopNode())
	}
	if l.BottomNode() >= 0 {
		doc.BottomNode = ptr(l.BottomNode())
	}
	if len(l.Meta()) > 0 {
		doc.Meta = l.Meta()
	}
	for id := range n {
		doc.Adjacency[id] = append([]int{}, l.OutAdjacent(id)...)
		doc.Faces[id] = l.Face(id)
	}
	return doc
}

func ranksOf(l *lattice.Lattice) ([]int, map[string][]int) {
	ranks := make([]int, l.NodeCount())
	for id := range ranks {
		ranks[id], _ = l.RankOf(id)
	}
	idx := l.RankIndex()
	inv := make(map[string][]int, len(idx.Ranks()))
	for _, r := range idx.Ranks() {
		ids := idx.NodesOfRank(r)
		if idx.Kind() == lattice.Sequential {
			ids = []int{ids[0], ids[len(ids)-1]}
		}
		inv[strconv.Itoa(r)] = ids
	}
	return ranks, inv
}

func ptr[T any](v T) *T { return &v }

// Unmarshal decodes a lattice document, migrating legacy layouts.
func Unmarshal(data []byte) (*lattice.Lattice, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode lattice")
	}
	return doc.lattice()
}

// ReadJSON decodes a lattice document from r. ReadJSON does not close r.
//
// The returned lattice has not been validated; call [lattice.Lattice.Validate]
// when the source is untrusted.
func ReadJSON(r io.Reader) (*lattice.Lattice, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return Unmarshal(data)
}

// ImportJSON reads a lattice document from a file at path.
func ImportJSON(path string) (*lattice.Lattice, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func (doc document) lattice() (*lattice.Lattice, error) {
	n := len(doc.Adjacency)
	if n == 0 {
		return nil, errs.New(errs.ErrCodeInvalidFormat, "lattice has no nodes")
	}
	if len(doc.Faces) != n {
		return nil, errs.New(errs.ErrCodeDimensionMismatch, "%d faces for %d nodes", len(doc.Faces), n)
	}
	kind, err := lattice.ParseSeqType(doc.SeqType)
	if err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "SEQ_TYPE")
	}
	ranks, err := doc.nodeRanks(n, kind)
	if err != nil {
		return nil, err
	}

	dual := inferDual(doc.Adjacency)
	if doc.BuiltDually != nil {
		dual = *doc.BuiltDually
	}
	l := lattice.New(kind, dual)
	for id := range n {
		l.AddNode(lattice.Decoration{Face: doc.Faces[id], Rank: ranks[id]})
	}
	for u, ups := range doc.Adjacency {
		for _, v := range ups {
			if err := l.AddEdge(u, v); err != nil {
				return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "edge %d->%d", u, v)
			}
		}
	}

	top, bottom := n-1, 0
	if dual {
		top, bottom = 0, n-1
	}
	if doc.TopNode != nil {
		top = *doc.TopNode
	}
	if doc.BottomNode != nil {
		bottom = *doc.BottomNode
	}
	if err := l.SetTopNode(top); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "TOP_NODE")
	}
	if err := l.SetBottomNode(bottom); err != nil {
		return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "BOTTOM_NODE")
	}
	for _, id := range doc.Artificial {
		l.MarkArtificial(id)
	}
	for k, v := range doc.Meta {
		l.Meta()[k] = v
	}
	return l, nil
}

// nodeRanks resolves the rank of every node from RANKS, INVERSE_RANK_MAP or
// the legacy DIMS array, in that order of preference.
func (doc document) nodeRanks(n int, kind lattice.SeqType) ([]int, error) {
	switch {
	case doc.Ranks != nil:
		if len(doc.Ranks) != n {
			return nil, errs.New(errs.ErrCodeDimensionMismatch, "%d ranks for %d nodes", len(doc.Ranks), n)
		}
		return doc.Ranks, nil
	case doc.InverseRankMap != nil:
		return inverseRanks(doc.InverseRankMap, n, kind)
	case doc.Dims != nil:
		return migration.Ranks(doc.Dims, n)
	default:
		return nil, errs.New(errs.ErrCodeInvalidFormat, "lattice has neither RANKS, INVERSE_RANK_MAP nor DIMS")
	}
}

func inverseRanks(inv map[string][]int, n int, kind lattice.SeqType) ([]int, error) {
	ranks := make([]int, n)
	seen := make([]bool, n)
	for key, ids := range inv {
		r, err := strconv.Atoi(key)
		if err != nil {
			return nil, errs.Wrap(errs.ErrCodeInvalidFormat, err, "rank key %q", key)
		}
		if kind == lattice.Sequential {
			if len(ids) != 2 {
				return nil, errs.New(errs.ErrCodeInvalidFormat, "rank %d: interval needs 2 bounds", r)
			}
			lo, hi := ids[0], ids[1]
			ids = nil
			for id := lo; id <= hi; id++ {
				ids = append(ids, id)
			}
		}
		for _, id := range ids {
			if id < 0 || id >= n || seen[id] {
				return nil, errs.New(errs.ErrCodeDimensionMismatch, "rank %d: node %d out of range or repeated", r, id)
			}
			seen[id] = true
			ranks[id] = r
		}
	}
	for id, ok := range seen {
		if !ok {
			return nil, errs.New(errs.ErrCodeDimensionMismatch, "node %d has no rank", id)
		}
	}
	return ranks, nil
}

// inferDual applies the legacy convention: node 0 is the top of a dually
// built lattice, so it has lower covers but no upper ones.
func inferDual(adj [][]int) bool {
	if len(adj[0]) > 0 {
		return false
	}
	for _, ups := range adj[1:] {
		for _, v := range ups {
			if v == 0 {
				return true
			}
		}
	}
	return false
}
