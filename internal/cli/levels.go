package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/levelforge/pkg/errors"
)

// listCommand creates the list command.
func (c *CLI) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List levels in registry order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			defer runner.Close()

			entries, err := runner.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No levels in %s", c.Config.Levels.Root)
				printNextStep("Create one with", appName+" create <name>")
				return nil
			}

			headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
			rows := make([][]string, len(entries))
			for i, e := range entries {
				status := styleComputed.Render("unbuilt")
				if e.Built {
					status = styleCached.Render("built")
				}
				rows[i] = []string{fmt.Sprint(i), e.Name, e.Symbol(), status}
			}

			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
				Headers("#", "Level", "Symbol", "Header").
				Rows(rows...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return headerStyle
					}
					if col == 0 {
						return StyleDim
					}
					return lipgloss.NewStyle()
				})
			fmt.Println(t.Render())
			return nil
		},
	}
}

// createCommand creates the create command.
func (c *CLI) createCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a level from the template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			defer runner.Close()

			rec, err := runner.Create(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printSuccess("Created %s", StyleHighlight.Render(rec.Name))
			printFile(rec.TextPath())
			printNextStep("Edit it with", fmt.Sprintf("%s %s", appName, rec.Name))
			return nil
		},
	}
}

// deleteCommand creates the delete command.
func (c *CLI) deleteCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:               "delete <name>",
		Short:             "Delete a level and its header",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: c.completeLevelNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			defer runner.Close()

			rec, err := runner.Record(args[0])
			if err != nil {
				return err
			}
			if !yes && !confirm(fmt.Sprintf("Delete level %q?", rec.Name)) {
				printInfo("Aborted")
				return nil
			}
			if err := runner.Delete(cmd.Context(), rec.Name); err != nil {
				return err
			}
			printSuccess("Deleted %s", StyleHighlight.Render(rec.Name))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	return cmd
}

// moveCommand creates the move command.
func (c *CLI) moveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move <name> up|down",
		Short: "Move a level one step in the registry order",
		Args:  cobra.ExactArgs(2),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			if len(args) == 1 {
				return []string{"up", "down"}, cobra.ShellCompDirectiveNoFileComp
			}
			return c.completeLevelNames(cmd, args, toComplete)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := parseDirection(args[1])
			if err != nil {
				return err
			}

			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			defer runner.Close()

			order, err := runner.Move(cmd.Context(), args[0], dir)
			if err != nil {
				return err
			}
			printSuccess("Order updated")
			for i, name := range order {
				printDetail("%2d  %s", i, name)
			}
			return nil
		},
	}
}

// registryCommand creates the registry command.
func (c *CLI) registryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "registry",
		Short: "Reconcile order.cfg and rewrite the registry header",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(true)
			if err != nil {
				return err
			}
			defer runner.Close()

			order, err := runner.BuildRegistry(cmd.Context())
			if err != nil {
				return err
			}
			printSuccess("Registry rebuilt with %s levels", StyleNumber.Render(fmt.Sprint(len(order))))
			printFile(c.Config.AggregatePath())
			return nil
		},
	}
}

// =============================================================================
// Helpers
// =============================================================================

func parseDirection(s string) (int, error) {
	switch strings.ToLower(s) {
	case "up":
		return -1, nil
	case "down":
		return 1, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidArgument, "direction must be up or down, got %q", s)
}

// confirm asks a yes/no question on stdin. Anything but y or yes is no.
func confirm(question string) bool {
	fmt.Print(StyleWarning.Render(question) + StyleDim.Render(" [y/N] "))
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}
