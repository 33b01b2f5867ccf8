package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hasse/pkg/morse"
)

// collapseCommand creates the collapse command.
func (c *CLI) collapseCommand() *cobra.Command {
	var (
		strategy string
		seed     uint64
		critical bool
	)

	cmd := &cobra.Command{
		Use:   "collapse [lattice.json]",
		Short: "Compute a discrete Morse vector by elementary collapses",
		Long: `Collapse the complex of a primally built lattice and print its discrete Morse
vector: the number of critical cells in each dimension, from the vertices up.

Free faces are collapsed while there are any; otherwise the lexicographically
first (or last, with --strategy last) cell of the current dimension is
declared critical. --seed permutes the vertex labels before comparing faces.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := morse.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			l, err := readLattice(args[0])
			if err != nil {
				return err
			}

			logger := loggerFromContext(cmd.Context())
			res, err := morse.Collapse(cmd.Context(), l, morse.Options{
				Strategy: s,
				Seed:     seed,
				Logger:   logger,
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintln(w, joinInts(res.Vector))
			if critical {
				for _, cell := range res.Critical {
					fmt.Fprintf(w, "%d\t%s\n", cell.Dim, cell.Face)
				}
			}
			logger.Debug("collapsed complex", "collapses", res.Collapses, "critical", len(res.Critical))
			return nil
		},
	}

	cmd.Flags().StringVar(&strategy, "strategy", "first", "pick the lexicographically first or last cell (first|last)")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "permute vertex labels with this seed (0 keeps them)")
	cmd.Flags().BoolVar(&critical, "critical", false, "list the critical cells of positive dimension")
	return cmd
}
