package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	errs "github.com/matzehuels/hasse/pkg/errors"
	"github.com/matzehuels/hasse/pkg/graph/arclink"
	pkgio "github.com/matzehuels/hasse/pkg/io"
)

// treesCommand creates the trees command.
func (c *CLI) treesCommand() *cobra.Command {
	var countOnly bool

	cmd := &cobra.Command{
		Use:   "trees [input]",
		Short: "Enumerate the spanning trees of a graphic matroid input",
		Long: `Enumerate the spanning trees of the graph of a matroid input, which are the
bases of its graphic matroid. Each line lists the indices of the tree's edges
in input order followed by the edges themselves.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := pkgio.LoadInput(args[0])
			if err != nil {
				return err
			}
			edges, err := graphEdges(in)
			if err != nil {
				return err
			}

			if countOnly {
				n, err := arclink.CountSpanningTrees(cmd.Context(), in.GroundSize, edges)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			}
			trees, err := arclink.SpanningTrees(cmd.Context(), in.GroundSize, edges)
			if err != nil {
				return err
			}
			writeTrees(cmd.OutOrStdout(), trees, edges)
			loggerFromContext(cmd.Context()).Debug("enumerated spanning trees", "input", in.Name, "trees", len(trees))
			return nil
		},
	}

	cmd.Flags().BoolVar(&countOnly, "count", false, "print only the number of spanning trees")
	return cmd
}

func graphEdges(in pkgio.Input) ([][2]int, error) {
	if in.Closure != pkgio.ClosureMatroid {
		return nil, errs.New(errs.ErrCodeWrongType, "%s: spanning trees need a %s input, got %s",
			in.Name, pkgio.ClosureMatroid, in.Closure)
	}
	edges := make([][2]int, len(in.Edges))
	for i, e := range in.Edges {
		edges[i] = [2]int{e[0], e[1]}
	}
	return edges, nil
}

func writeTrees(w io.Writer, trees [][]int, edges [][2]int) {
	for _, t := range trees {
		pairs := make([]string, len(t))
		for i, e := range t {
			pairs[i] = fmt.Sprintf("%d-%d", edges[e][0], edges[e][1])
		}
		fmt.Fprintf(w, "%s\t%v\n", joinInts(t), pairs)
	}
}
