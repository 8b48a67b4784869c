package cli

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/levelforge/pkg/config"
	"github.com/matzehuels/levelforge/pkg/registry"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for levelforge.

Bash:
  $ source <(levelforge completion bash)

Zsh:
  $ levelforge completion zsh > "${fpath[1]}/_levelforge"

Fish:
  $ levelforge completion fish | source

PowerShell:
  PS> levelforge completion powershell | Out-String | Invoke-Expression

Level names are completed from the levels directory for the editor,
build, delete and move commands.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	return cmd
}

// completeLevelNames completes the first argument with level names from the
// configured levels directory.
func (c *CLI) completeLevelNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 && cmd.Name() != "build" {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return levelNames(c.completionRoot(), toComplete), cobra.ShellCompDirectiveNoFileComp
}

// completionRoot resolves the levels directory without running the
// persistent pre-run hooks, which cobra skips during completion.
func (c *CLI) completionRoot() string {
	if c.root != "" {
		return c.root
	}
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return config.Default().Levels.Root
	}
	return cfg.Levels.Root
}

func levelNames(dir, prefix string) []string {
	existing, err := registry.New(dir, registry.DefaultOrderFile).Existing()
	if err != nil {
		return nil
	}
	var names []string
	for _, name := range existing {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	return names
}
