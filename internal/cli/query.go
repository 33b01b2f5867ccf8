package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hasse/pkg/lattice"
)

// infoCommand creates the info command.
func (c *CLI) infoCommand() *cobra.Command {
	var validate bool

	cmd := &cobra.Command{
		Use:   "info [lattice.json]",
		Short: "Summarize a lattice document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := readLattice(args[0])
			if err != nil {
				return err
			}

			fmt.Println(styleHeading.Render(args[0]))
			printKeyValue("nodes", strconv.Itoa(l.NodeCount()))
			printKeyValue("edges", strconv.Itoa(l.EdgeCount()))
			printKeyValue("ranks", strconv.Itoa(l.Rank()))
			printKeyValue("f-vector", fVector(l))
			printKeyValue("index", l.SeqType().String())
			printKeyValue("dual", strconv.FormatBool(l.BuiltDually()))
			printKeyValue("bottom", nodeLabel(l, l.BottomNode()))
			printKeyValue("top", nodeLabel(l, l.TopNode()))
			if art := l.ArtificialNodes(); len(art) > 0 {
				printKeyValue("artificial", joinInts(art))
			}

			if validate {
				if err := l.Validate(); err != nil {
					printError("Lattice is inconsistent")
					return err
				}
				printSuccess("Lattice is consistent")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "check the structural invariants")
	return cmd
}

// ranksCommand creates the ranks command.
func (c *CLI) ranksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ranks [lattice.json] [rank] [to-rank]",
		Short: "List the nodes of a rank or a range of ranks",
		Long: `List the nodes of a rank, or of every rank between two bounds inclusive.
The bounds may be given in either order. Each line holds the node id, its
rank and its face.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := readLattice(args[0])
			if err != nil {
				return err
			}
			r1, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rank %q", args[1])
			}
			r2 := r1
			if len(args) == 3 {
				if r2, err = strconv.Atoi(args[2]); err != nil {
					return fmt.Errorf("invalid rank %q", args[2])
				}
			}
			writeNodes(cmd.OutOrStdout(), l, l.NodesOfRankRange(r1, r2))
			return nil
		},
	}
}

// vertexCommand creates the vertex command.
func (c *CLI) vertexCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "vertex [lattice.json] [v]",
		Short: "Find the node labelled with a single vertex",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := readLattice(args[0])
			if err != nil {
				return err
			}
			v, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid vertex %q", args[1])
			}
			id, err := l.FindVertexNode(v)
			if err != nil {
				return err
			}
			writeNodes(cmd.OutOrStdout(), l, []int{id})
			return nil
		},
	}
}

// dualFacesCommand creates the dual-faces command.
func (c *CLI) dualFacesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dual-faces [lattice.json]",
		Short: "Label every node with the facets above it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := readLattice(args[0])
			if err != nil {
				return err
			}
			faces, err := l.DualFaces()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			for _, id := range l.Nodes() {
				fmt.Fprintf(w, "%d\t%s\n", id, faces[id])
			}
			return nil
		},
	}
}

func writeNodes(w io.Writer, l *lattice.Lattice, ids []int) {
	for _, id := range ids {
		r, _ := l.RankOf(id)
		fmt.Fprintf(w, "%d\t%d\t%s\n", id, r, l.Face(id))
	}
}

// fVector lists the node count per rank in ascending rank order.
func fVector(l *lattice.Lattice) string {
	counts := make([]int, 0, l.Rank())
	for _, r := range l.Ranks() {
		counts = append(counts, l.RankSize(r))
	}
	return "(" + joinInts(counts) + ")"
}

func nodeLabel(l *lattice.Lattice, id int) string {
	if !l.Has(id) {
		return "none"
	}
	r, _ := l.RankOf(id)
	return fmt.Sprintf("%d (rank %d, %s)", id, r, l.Face(id))
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, ", ")
}
