package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

// deleteCommand creates the delete command.
func (c *CLI) deleteCommand() *cobra.Command {
	var output string
	var showMapping bool

	cmd := &cobra.Command{
		Use:   "delete [lattice.json] [node]...",
		Short: "Delete nodes and renumber the survivors",
		Long: `Delete nodes from a lattice document. Node ids refer to the document as read.
The surviving nodes are renumbered densely in their original order before the
document is written; the top and bottom nodes cannot be deleted.`,
		Example: `  hasse delete cube.json 3 4 -o trimmed.json --mapping`,
		Args:    cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := readLattice(args[0])
			if err != nil {
				return err
			}
			for _, a := range args[1:] {
				id, err := strconv.Atoi(a)
				if err != nil {
					return fmt.Errorf("invalid node id %q", a)
				}
				if err := l.DeleteNode(id); err != nil {
					return err
				}
			}
			mapping := l.Squeeze()

			if output == "" {
				output = args[0]
			}
			if err := writeLattice(l, output, false, cmd.OutOrStdout()); err != nil {
				return err
			}
			if output == stdio {
				return nil
			}
			printSuccess("Deleted %d node(s)", len(args)-1)
			printStats(l.NodeCount(), l.EdgeCount(), l.Rank(), false)
			printFile(output)
			if showMapping {
				for old, id := range mapping {
					if id != old {
						printDetail("%d %s %s", old, arrow, mappedID(id))
					}
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: overwrite the input, - for stdout)")
	cmd.Flags().BoolVar(&showMapping, "mapping", false, "print the ids that changed")
	return cmd
}

func mappedID(id int) string {
	if id < 0 {
		return "deleted"
	}
	return strconv.Itoa(id)
}

// migrateCommand creates the migrate command.
func (c *CLI) migrateCommand() *cobra.Command {
	var output string
	var toLegacy bool

	cmd := &cobra.Command{
		Use:   "migrate [lattice.json]",
		Short: "Convert between the DIMS layout and the rank index layout",
		Long: `Read a lattice document in either layout and write it in the rank index
layout, or with --legacy in the DIMS layout. Converting to DIMS fails when the
ranks are not contiguous id blocks.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := readLattice(args[0])
			if err != nil {
				return err
			}
			if err := l.Validate(); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if output == "" {
				output = stdio
			}
			if err := writeLattice(l, output, toLegacy, cmd.OutOrStdout()); err != nil {
				return err
			}
			if output != stdio {
				printSuccess("Migrated %s", args[0])
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVar(&toLegacy, "legacy", false, "write the DIMS layout")
	return cmd
}
