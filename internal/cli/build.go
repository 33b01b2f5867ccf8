package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	pkgio "github.com/matzehuels/hasse/pkg/io"
)

// buildOpts holds the command-line flags for the build command.
// Boolean flags only switch settings on; rank bounds replace the input's.
type buildOpts struct {
	output        string
	dual          bool
	maxRank       *int
	minRank       *int
	topRank       *int
	pure          bool
	incomplete    bool
	nonsequential bool
	checkClosure  bool
	legacy        bool
	noCache       bool
	refresh       bool
	workers       int
}

// apply overlays the flags on an input's build settings.
func (o buildOpts) apply(in pkgio.Input) pkgio.Input {
	b := &in.Build
	b.Dual = b.Dual || o.dual
	b.Pure = b.Pure || o.pure
	b.Incomplete = b.Incomplete || o.incomplete
	b.Nonsequential = b.Nonsequential || o.nonsequential
	b.CheckClosure = b.CheckClosure || o.checkClosure
	if o.maxRank != nil {
		b.MaxRank, b.MinRank = o.maxRank, nil
	}
	if o.minRank != nil {
		b.MinRank, b.MaxRank = o.minRank, nil
	}
	if o.topRank != nil {
		b.TopRank = *o.topRank
	}
	return in
}

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var opts buildOpts
	var maxRank, minRank, topRank int

	cmd := &cobra.Command{
		Use:   "build [input]...",
		Short: "Build lattices from closure operator inputs",
		Long: `Build the Hasse diagram of each input and write it as a lattice document.

Inputs are JSON, YAML or TOML files chosen by extension. With a single input
and no --output the document goes to standard output; with several inputs
--output names a directory that receives <name>.json per input.`,
		Example: `  hasse build cube.yaml -o cube.json
  hasse build cube.yaml --dual --min-rank 1
  hasse build inputs/*.toml -o lattices/ --workers 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if flags.Changed("max-rank") {
				opts.maxRank = &maxRank
			}
			if flags.Changed("min-rank") {
				opts.minRank = &minRank
			}
			if flags.Changed("top-rank") {
				opts.topRank = &topRank
			}
			if opts.maxRank != nil && opts.minRank != nil {
				return fmt.Errorf("--max-rank and --min-rank are mutually exclusive")
			}
			opts.nonsequential = opts.nonsequential || c.Config.Build.Nonsequential
			opts.checkClosure = opts.checkClosure || c.Config.Build.CheckClosure
			if !flags.Changed("workers") {
				opts.workers = c.Config.Build.Workers
			}
			return c.runBuild(cmd, args, opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (single input) or directory (several inputs)")
	f.BoolVar(&opts.dual, "dual", false, "build from the top down on the facet-vertex incidences")
	f.IntVar(&maxRank, "max-rank", 0, "stop after this rank and close with an artificial top")
	f.IntVar(&minRank, "min-rank", 0, "keep faces of at least this rank (requires --dual)")
	f.IntVar(&topRank, "top-rank", 0, "rank of the top node in a dual build")
	f.BoolVar(&opts.pure, "pure", false, "assume a pure complex")
	f.BoolVar(&opts.incomplete, "incomplete", false, "do not add a closing node")
	f.BoolVar(&opts.nonsequential, "nonsequential", false, "use the nonsequential rank index")
	f.BoolVar(&opts.checkClosure, "check-closure", false, "verify that the operator returns closed sets")
	f.BoolVar(&opts.legacy, "legacy", false, "write the DIMS layout")
	f.BoolVar(&opts.noCache, "no-cache", false, "disable the lattice cache")
	f.BoolVar(&opts.refresh, "refresh", false, "rebuild even when a cached lattice exists")
	f.IntVarP(&opts.workers, "workers", "w", 0, "parallel builds (default from config, then number of CPUs)")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, paths []string, opts buildOpts) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	if len(paths) > 1 && opts.output == stdio {
		return fmt.Errorf("cannot write %d lattices to standard output", len(paths))
	}

	inputs := make([]pkgio.Input, len(paths))
	for i, p := range paths {
		in, err := pkgio.LoadInput(p)
		if err != nil {
			return err
		}
		in = opts.apply(in)
		if err := in.Validate(); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		inputs[i] = in
	}

	runner, err := c.newRunner(ctx, opts.noCache, opts.refresh)
	if err != nil {
		return err
	}
	defer runner.Close()

	toStdout := len(inputs) == 1 && (opts.output == "" || opts.output == stdio)
	prog := newProgress(logger)

	var spinner *Spinner
	if !toStdout {
		spinner = newSpinnerWithContext(ctx, fmt.Sprintf("Building %d lattice(s)...", len(inputs)))
		spinner.Start()
	}
	results, err := runner.BuildAll(ctx, inputs, opts.workers)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return err
	}

	if toStdout {
		res := results[0]
		return writeLattice(res.Lattice, "", opts.legacy, cmd.OutOrStdout())
	}

	dir := ""
	if len(inputs) > 1 {
		dir = opts.output
		if dir == "" {
			dir = "."
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	for _, res := range results {
		path := opts.output
		if dir != "" {
			path = filepath.Join(dir, res.Name+".json")
		}
		if err := writeLattice(res.Lattice, path, opts.legacy, nil); err != nil {
			return err
		}
		printSuccess("Built %s", styleAccent.Render(res.Name))
		printStats(res.Lattice.NodeCount(), res.Lattice.EdgeCount(), res.Lattice.Rank(), res.CacheHit)
		printFile(path)
	}
	prog.done(fmt.Sprintf("Built %d lattice(s)", len(results)))

	if len(results) == 1 {
		printNextStep("Render it", fmt.Sprintf("%s render %s", appName, opts.output))
	}
	return nil
}
