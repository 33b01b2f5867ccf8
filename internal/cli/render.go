package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/hasse/pkg/render/nodelink"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output  string
	format  string
	faces   bool
	ranks   bool
	noCache bool
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [lattice.json]",
		Short: "Draw the Hasse diagram of a lattice",
		Long: `Draw the Hasse diagram with one row per rank, the bottom at the bottom.
Nodes are labelled with their ids, or with their faces when --faces is set.
Artificial nodes are drawn dashed.`,
		Example: `  hasse render cube.json
  hasse render cube.json -f png --faces -o cube.png
  hasse render cube.json -f dot -o - | dot -Tpdf > cube.pdf`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := nodelink.ParseFormat(opts.format)
			if err != nil {
				return err
			}
			return c.runRender(cmd, args[0], format, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: <input>.<format>, - for stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "svg", "output format: svg, png or dot")
	cmd.Flags().BoolVar(&opts.faces, "faces", false, "label nodes with their faces")
	cmd.Flags().BoolVar(&opts.ranks, "ranks", false, "append the rank to each label")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render cache")

	return cmd
}

func (c *CLI) runRender(cmd *cobra.Command, input string, format nodelink.Format, opts renderOpts) error {
	ctx := cmd.Context()

	l, err := readLattice(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, opts.noCache, false)
	if err != nil {
		return err
	}
	defer runner.Close()

	data, cached, err := runner.Render(ctx, l, format, nodelink.Options{Faces: opts.faces, Ranks: opts.ranks})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}

	out := opts.output
	if out == stdio {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	if out == "" {
		out = outputPath(input, string(format))
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	printSuccess("Rendered %s", styleAccent.Render(string(format)))
	printStats(l.NodeCount(), l.EdgeCount(), l.Rank(), cached)
	printFile(out)
	return nil
}
