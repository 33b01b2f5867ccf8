package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/hasse/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands registered.
// Configuration is loaded before any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Hasse builds and queries face lattices",
		Long: `Hasse builds the Hasse diagram of the lattice of closed sets of a closure
operator (face lattices of polytopes and complexes, flats of graphic matroids),
stores it as a graded graph and answers rank and vertex queries on it.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := loadConfig(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./hasse.toml, then $XDG_CONFIG_HOME/hasse/hasse.toml)")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.infoCommand())
	root.AddCommand(c.ranksCommand())
	root.AddCommand(c.vertexCommand())
	root.AddCommand(c.dualFacesCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.migrateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.treesCommand())
	root.AddCommand(c.collapseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}
