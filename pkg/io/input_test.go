package io

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	errs "github.com/matzehuels/hasse/pkg/errors"
)

const cubeTOML = `
closure = "facets"
ground_size = 8
faces = [[0, 2, 4, 6], [1, 3, 5, 7], [0, 1, 4, 5], [2, 3, 6, 7], [0, 1, 2, 3], [4, 5, 6, 7]]

[build]
dual = true
max_rank = 2
`

const k4YAML = `
name: k4
closure: matroid
ground_size: 4
edges: [[0, 1], [0, 2], [0, 3], [1, 2], [1, 3], [2, 3]]
build:
  nonsequential: true
`

const squareJSON = `{
  "name": "square",
  "closure": "simplicial",
  "ground_size": 4,
  "faces": [[0, 1], [1, 2], [2, 3], [0, 3]],
  "far_face": [3]
}`

func TestReadInput(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		format  Format
		closure string
		check   func(t *testing.T, in Input)
	}{
		{"toml", cubeTOML, FormatTOML, ClosureFacets, func(t *testing.T, in Input) {
			if len(in.Faces) != 6 || !in.Build.Dual {
				t.Errorf("faces = %d, dual = %v", len(in.Faces), in.Build.Dual)
			}
			if in.Build.MaxRank == nil || *in.Build.MaxRank != 2 {
				t.Errorf("max_rank = %v", in.Build.MaxRank)
			}
		}},
		{"yaml", k4YAML, FormatYAML, ClosureMatroid, func(t *testing.T, in Input) {
			if len(in.Edges) != 6 || !in.Build.Nonsequential || in.Name != "k4" {
				t.Errorf("unexpected input: %+v", in)
			}
		}},
		{"json", squareJSON, FormatJSON, ClosureSimplicial, func(t *testing.T, in Input) {
			if len(in.FarFace) != 1 || in.FarFace[0] != 3 {
				t.Errorf("far_face = %v", in.FarFace)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, err := ReadInput(strings.NewReader(tt.body), tt.format)
			if err != nil {
				t.Fatalf("ReadInput() = %v", err)
			}
			if in.Closure != tt.closure {
				t.Errorf("Closure = %q, want %q", in.Closure, tt.closure)
			}
			tt.check(t, in)
		})
	}
}

func TestInput_Validate(t *testing.T) {
	one := 1
	tests := []struct {
		name string
		in   Input
		code errs.Code
	}{
		{"missing closure", Input{GroundSize: 2}, errs.ErrCodeInvalidInput},
		{"unknown closure", Input{Closure: "oriented", GroundSize: 2}, errs.ErrCodeUnsupported},
		{"vertex out of range", Input{Closure: ClosureFacets, GroundSize: 2, Faces: [][]int{{0, 2}}}, errs.ErrCodeInvalidInput},
		{"bad edge", Input{Closure: ClosureMatroid, GroundSize: 3, Edges: [][]int{{0, 1, 2}}}, errs.ErrCodeInvalidInput},
		{"both bounds", Input{Closure: ClosureIdentity, GroundSize: 2, Build: BuildSettings{MaxRank: &one, MinRank: &one}}, errs.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.in.Validate(); !errs.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadInput_NameFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cube.toml")
	if err := os.WriteFile(path, []byte(cubeTOML), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	in, err := LoadInput(path)
	if err != nil {
		t.Fatalf("LoadInput() = %v", err)
	}
	if in.Name != "cube" {
		t.Errorf("Name = %q, want cube", in.Name)
	}
}

func TestFormatFor(t *testing.T) {
	for path, want := range map[string]Format{
		"a.yml": FormatYAML, "a.YAML": FormatYAML, "a.toml": FormatTOML, "a.json": FormatJSON, "a": FormatJSON,
	} {
		if got := FormatFor(path); got != want {
			t.Errorf("FormatFor(%q) = %q, want %q", path, got, want)
		}
	}
}
