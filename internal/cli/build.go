package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/levelforge/pkg/errors"
)

// buildCommand creates the build command.
func (c *CLI) buildCommand() *cobra.Command {
	var (
		all     bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "build [name...]",
		Short: "Generate level headers and the registry header",
		Long: `Build regenerates the C++ header of each named level, reconciles order.cfg
and rewrites AllLevels.h. Without names (or with --all) every level is built.`,
		ValidArgsFunction: c.completeLevelNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all || len(args) == 0 {
				return c.buildAll(cmd, noCache)
			}
			return c.buildLevels(cmd, args, noCache)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "build every level")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "ignore the header cache")

	return cmd
}

// buildLevels builds the named levels in order, stopping at the first
// failure.
func (c *CLI) buildLevels(cmd *cobra.Command, names []string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	for _, name := range names {
		res, err := runner.Build(cmd.Context(), name)
		if err != nil {
			if errors.Is(err, errors.ErrCodeNotFound) {
				printError("Level %q not found", name)
				printNextStep("Create it with", fmt.Sprintf("%s create %q", appName, name))
			}
			return err
		}
		printSuccess("Built %s", StyleHighlight.Render(res.Symbol()))
		printFile(res.HeaderPath())
		printBuildStatus(res.Included, len(res.Order), res.Cached)
	}
	return nil
}

// buildAll builds every level with a spinner on the terminal.
func (c *CLI) buildAll(cmd *cobra.Command, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(cmd.Context(), "Building levels...")
	spinner.Start()

	stats, err := runner.BuildAll(cmd.Context())
	if err != nil {
		spinner.StopWithError("Build failed")
		return err
	}
	spinner.Stop()

	prog.done(fmt.Sprintf("Built %d levels", stats.Levels))
	printSuccess("Built %s levels", StyleNumber.Render(fmt.Sprint(stats.Levels)))
	printKeyValue("Written", fmt.Sprint(stats.Written))
	printKeyValue("Unchanged", fmt.Sprint(stats.Cached))
	printFile(c.Config.AggregatePath())
	return nil
}
