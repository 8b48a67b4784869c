// Package cli implements the levelforge command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/levelforge/pkg/buildinfo"
	"github.com/matzehuels/levelforge/pkg/cache"
	"github.com/matzehuels/levelforge/pkg/config"
	"github.com/matzehuels/levelforge/pkg/observability"
	"github.com/matzehuels/levelforge/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "levelforge"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
	root       string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
//
// Without arguments the root command opens the level browser; with a level
// name it opens the editor, or builds the level headlessly with --build.
func (c *CLI) RootCommand() *cobra.Command {
	var build bool

	root := &cobra.Command{
		Use:   "levelforge [name]",
		Short: "Levelforge edits tile-grid levels and generates C++ headers",
		Long: `Levelforge edits tile-grid game levels stored as text files and compiles them
into C++ headers, keeping an ordered registry header (AllLevels.h) in sync.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				if build {
					return c.buildAll(cmd, false)
				}
				return c.runBrowser(cmd.Context())
			}
			if build {
				return c.buildLevels(cmd, args, false)
			}
			return c.runEditor(cmd.Context(), args[0])
		},
	}

	root.ValidArgsFunction = c.completeLevelNames
	root.SetVersionTemplate(buildinfo.Template())
	root.Flags().BoolVar(&build, "build", false, "build the level headlessly and exit")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")
	root.PersistentFlags().StringVar(&c.root, "root", "", "levels directory (overrides levels.root)")

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.createCommand())
	root.AddCommand(c.deleteCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.registryCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command
// context. It runs before every command.
func (c *CLI) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.root != "" {
		cfg.Levels.Root = c.root
	}
	c.Config = cfg

	hooks := &logHooks{}
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetHTTPHooks(hooks)

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	c.Logger.Debug("configuration loaded", "root", cfg.Levels.Root, "config", c.configPath)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cfg := c.Config
	if cfg == nil {
		cfg = config.Default()
	}
	hc, err := newCache(cfg, noCache || !cfg.Cache.Enabled)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cfg, hc, nil, c.Logger), nil
}

func newCache(cfg *config.Config, disabled bool) (cache.Cache, error) {
	if disabled {
		return cache.NewNullCache(), nil
	}
	dir := cfg.Cache.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/levelforge/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
