package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	errs "github.com/matzehuels/hasse/pkg/errors"
)

// Closure kinds accepted in [Input.Closure].
const (
	ClosureFacets     = "facets"
	ClosureSimplicial = "simplicial"
	ClosureComplex    = "complex"
	ClosureMatroid    = "matroid"
	ClosureIdentity   = "identity"
)

// Input describes one lattice to build.
type Input struct {
	Name string `json:"name,omitempty" yaml:"name" toml:"name"`
	// Closure selects the operator: facets, simplicial, complex, matroid or
	// identity.
	Closure string `json:"closure" yaml:"closure" toml:"closure"`
	// GroundSize is the number of vertices, or of graph vertices for a
	// matroid.
	GroundSize int `json:"ground_size" yaml:"ground_size" toml:"ground_size"`
	// Faces lists the facets, maximal faces or maximal cells.
	Faces [][]int `json:"faces,omitempty" yaml:"faces" toml:"faces"`
	// CellFacets lists, per maximal cell of a complex, the vertex sets of the
	// cell's facets. Cells without facets are simplices.
	CellFacets [][][]int `json:"cell_facets,omitempty" yaml:"cell_facets" toml:"cell_facets"`
	// Edges lists the graph edges of a matroid input as vertex pairs.
	Edges [][]int `json:"edges,omitempty" yaml:"edges" toml:"edges"`
	// FarFace lists vertices at infinity; faces meeting it are dropped.
	FarFace []int `json:"far_face,omitempty" yaml:"far_face" toml:"far_face"`

	Build BuildSettings `json:"build" yaml:"build" toml:"build"`
}

// BuildSettings carries the builder configuration of an [Input].
type BuildSettings struct {
	Dual          bool `json:"dual,omitempty" yaml:"dual" toml:"dual"`
	MaxRank       *int `json:"max_rank,omitempty" yaml:"max_rank" toml:"max_rank"`
	MinRank       *int `json:"min_rank,omitempty" yaml:"min_rank" toml:"min_rank"`
	TopRank       int  `json:"top_rank,omitempty" yaml:"top_rank" toml:"top_rank"`
	Pure          bool `json:"pure,omitempty" yaml:"pure" toml:"pure"`
	Incomplete    bool `json:"incomplete,omitempty" yaml:"incomplete" toml:"incomplete"`
	Nonsequential bool `json:"nonsequential,omitempty" yaml:"nonsequential" toml:"nonsequential"`
	CheckClosure  bool `json:"check_closure,omitempty" yaml:"check_closure" toml:"check_closure"`
}

// Validate checks the input for structural problems.
func (in Input) Validate() error {
	if in.GroundSize < 0 {
		return errs.New(errs.ErrCodeInvalidInput, "ground_size must be non-negative")
	}
	switch in.Closure {
	case ClosureFacets, ClosureSimplicial, ClosureComplex, ClosureIdentity:
	case ClosureMatroid:
		for i, e := range in.Edges {
			if len(e) != 2 {
				return errs.New(errs.ErrCodeInvalidInput, "edge %d has %d endpoints", i, len(e))
			}
		}
	case "":
		return errs.New(errs.ErrCodeInvalidInput, "closure is required")
	default:
		return errs.New(errs.ErrCodeUnsupported, "unknown closure %q", in.Closure)
	}
	for i, f := range in.Faces {
		for _, v := range f {
			if v < 0 || v >= in.GroundSize {
				return errs.New(errs.ErrCodeInvalidInput, "face %d: vertex %d out of range [0, %d)", i, v, in.GroundSize)
			}
		}
	}
	if len(in.CellFacets) > 0 {
		if in.Closure != ClosureComplex {
			return errs.New(errs.ErrCodeInvalidInput, "cell_facets needs closure %q, got %q", ClosureComplex, in.Closure)
		}
		if len(in.CellFacets) > len(in.Faces) {
			return errs.New(errs.ErrCodeInvalidInput, "%d cell_facets entries for %d cells", len(in.CellFacets), len(in.Faces))
		}
		for i, fs := range in.CellFacets {
			for j, f := range fs {
				for _, v := range f {
					if v < 0 || v >= in.GroundSize {
						return errs.New(errs.ErrCodeInvalidInput, "cell %d facet %d: vertex %d out of range [0, %d)", i, j, v, in.GroundSize)
					}
				}
			}
		}
	}
	if in.Build.MaxRank != nil && in.Build.MinRank != nil {
		return errs.New(errs.ErrCodeInvalidInput, "max_rank and min_rank are mutually exclusive")
	}
	return nil
}

// Format names an input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor picks the encoding from a file extension, defaulting to JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// ReadInput decodes an input in the given format and validates it.
func ReadInput(r io.Reader, format Format) (Input, error) {
	var in Input
	var err error
	switch format {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&in)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&in)
	default:
		err = json.NewDecoder(r).Decode(&in)
	}
	if err != nil {
		return Input{}, errs.Wrap(errs.ErrCodeInvalidFormat, err, "decode %s input", format)
	}
	return in, in.Validate()
}

// LoadInput reads an input file, choosing the format by extension. The file
// name without extension becomes the input name when none is given.
func LoadInput(path string) (Input, error) {
	f, err := os.Open(path)
	if err != nil {
		return Input{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	in, err := ReadInput(f, FormatFor(path))
	if err != nil {
		return Input{}, fmt.Errorf("%s: %w", path, err)
	}
	if in.Name == "" {
		in.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return in, nil
}
