package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/levelforge/pkg/watch"
)

// watchCommand creates the watch command.
func (c *CLI) watchCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Rebuild levels when their text files change",
		Long: `Watch rebuilds the header of every level whose text file is created or
modified, and rewrites the registry header when a level file is removed.
It runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			ctx := cmd.Context()
			if _, err := runner.BuildRegistry(ctx); err != nil {
				return err
			}

			w, err := watch.New(c.Config.Levels.Root, runner, c.Config.Watch.Debounce.Duration, c.Logger)
			if err != nil {
				return err
			}
			if err := w.Start(ctx); err != nil {
				return err
			}
			defer w.Stop()

			printInfo("Watching %s (Ctrl+C to stop)", StyleHighlight.Render(c.Config.Levels.Root))
			<-w.Done()

			st := w.Stats()
			printDetail("%d events, %d builds, %d errors", st.Events, st.Builds, st.Errors)
			return ctx.Err()
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "ignore the header cache")

	return cmd
}
