package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/matzehuels/hasse/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lattice HTTP API",
		Long: `Serve the lattice HTTP API. Built lattices are kept in the configured store
(SQLite by default, or MongoDB) and builds go through the configured cache
(file, Redis or none).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.Config.Server.Addr
			}

			runner, err := c.newRunner(ctx, false, false)
			if err != nil {
				return err
			}
			st, err := c.openStore(ctx)
			if err != nil {
				return multierr.Append(err, runner.Close())
			}
			defer func() {
				err = multierr.Combine(err, st.Close(), runner.Close())
			}()

			logger := loggerFromContext(ctx)
			logger.Info("starting server",
				"cache", c.Config.Cache.Backend,
				"store", c.Config.Store.Backend)
			return server.New(runner, st, logger).Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
