package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/levelforge/pkg/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the level JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			cfg := c.Config.Server
			if addr != "" {
				cfg.Addr = addr
			}
			printInfo("Serving %s on %s", c.Config.Levels.Root, StyleHighlight.Render("http://"+cfg.Addr))
			return server.New(runner, c.Logger).ListenAndServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server.addr)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "ignore the header cache")

	return cmd
}
