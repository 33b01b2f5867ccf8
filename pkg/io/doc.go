// Package io reads and writes lattices and build inputs.
//
// # Lattice Documents
//
// A lattice is persisted as one JSON object whose properties carry the
// covering graph and the rank bookkeeping:
//
//	{
//	  "ADJACENCY": [[1, 2], [3], [3], []],
//	  "FACES": [[], [0], [1], [0, 1]],
//	  "RANKS": [0, 1, 1, 2],
//	  "INVERSE_RANK_MAP": {"0": [0, 0], "1": [1, 2], "2": [3, 3]},
//	  "TOP_NODE": 3,
//	  "BOTTOM_NODE": 0,
//	  "BUILT_DUALLY": false,
//	  "SEQ_TYPE": "Sequential"
//	}
//
// ADJACENCY lists the upper covers of each node. INVERSE_RANK_MAP stores an
// inclusive [lo, hi] id interval per rank for Sequential lattices and an id
// list for Nonsequential ones. Lattices with deletion gaps are squeezed
// before writing, so ids in a document are always dense.
//
// Legacy documents carry a DIMS array instead of RANKS and INVERSE_RANK_MAP
// and may omit BUILT_DUALLY, TOP_NODE and BOTTOM_NODE. [ReadJSON] migrates
// them on load; [WriteLegacyJSON] produces them.
//
// # Build Inputs
//
// [LoadInput] reads a build description from TOML, YAML or JSON, chosen by
// file extension:
//
//	name = "cube"
//	closure = "facets"
//	ground_size = 8
//	faces = [[0, 2, 4, 6], [1, 3, 5, 7], ...]
//
//	[build]
//	dual = true
package io
