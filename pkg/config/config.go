// Package config loads levelforge settings from a TOML file.
//
// Every component receives its paths, palette and generator identifiers
// from a Config value instead of package globals, so tests can point a
// whole pipeline at a temporary directory.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/levelforge/pkg/codegen"
	"github.com/matzehuels/levelforge/pkg/errors"
	"github.com/matzehuels/levelforge/pkg/grid"
	"github.com/matzehuels/levelforge/pkg/registry"
)

// DefaultFile is looked up in the working directory when no path is given.
const DefaultFile = "levelforge.toml"

// Config is the full levelforge configuration, one field per TOML table.
type Config struct {
	Levels  LevelsConfig   `toml:"levels"`
	Grid    GridConfig     `toml:"grid"`
	Codegen CodegenConfig  `toml:"codegen"`
	Palette []PaletteEntry `toml:"palette"`
	Server  ServerConfig   `toml:"server"`
	Watch   WatchConfig    `toml:"watch"`
	Cache   CacheConfig    `toml:"cache"`
}

// LevelsConfig locates the levels directory and its generated files.
type LevelsConfig struct {
	Root          string `toml:"root"`
	OrderFile     string `toml:"order_file"`
	AggregateFile string `toml:"aggregate_file"`
}

// GridConfig sets the size, empty tile and template of new levels.
type GridConfig struct {
	DefaultRows int      `toml:"default_rows"`
	DefaultCols int      `toml:"default_cols"`
	Empty       string   `toml:"empty"`
	Template    []string `toml:"template"`
}

// CodegenConfig names the identifiers emitted into generated headers.
type CodegenConfig struct {
	Namespace string `toml:"namespace"`
	ListName  string `toml:"list_name"`
}

// PaletteEntry is one [[palette]] row; Symbol must be a single character.
type PaletteEntry struct {
	Symbol string `toml:"symbol"`
	Label  string `toml:"label"`
	Color  string `toml:"color"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// WatchConfig configures the file watcher.
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// CacheConfig configures the header build cache.
type CacheConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"` // empty: XDG cache dir
}

// Duration decodes TOML strings such as "300ms".
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats d the way UnmarshalText accepts it.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	palette := make([]PaletteEntry, 0, len(grid.DefaultPalette()))
	for _, e := range grid.DefaultPalette() {
		palette = append(palette, PaletteEntry{Symbol: string(e.Symbol), Label: e.Label, Color: e.Color})
	}
	return &Config{
		Levels: LevelsConfig{
			Root:          filepath.Join("src", "assets", "levels"),
			OrderFile:     registry.DefaultOrderFile,
			AggregateFile: "AllLevels.h",
		},
		Grid: GridConfig{
			DefaultRows: grid.DefaultRows,
			DefaultCols: grid.DefaultCols,
			Empty:       string(grid.DefaultEmpty),
			Template:    append([]string(nil), grid.DefaultTemplate...),
		},
		Codegen: CodegenConfig{
			Namespace: codegen.DefaultNamespace,
			ListName:  codegen.DefaultListName,
		},
		Palette: palette,
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{10 * time.Second},
		},
		Watch: WatchConfig{
			Debounce: Duration{300 * time.Millisecond},
		},
		Cache: CacheConfig{
			Enabled: true,
		},
	}
}

// Load reads path over the defaults. When path is empty, DefaultFile is
// used if present and the defaults otherwise.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat(DefaultFile); err != nil {
			return cfg, nil
		}
		path = DefaultFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that would break the pipeline.
func (c *Config) Validate() error {
	if c.Levels.Root == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "levels.root must not be empty")
	}
	if c.Levels.OrderFile == "" || c.Levels.AggregateFile == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "levels.order_file and levels.aggregate_file must not be empty")
	}
	if c.Grid.DefaultRows <= 0 || c.Grid.DefaultCols <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid defaults must be positive, got %dx%d", c.Grid.DefaultRows, c.Grid.DefaultCols)
	}
	if utf8.RuneCountInString(c.Grid.Empty) != 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "grid.empty must be a single character, got %q", c.Grid.Empty)
	}

	seen := make(map[string]bool, len(c.Palette))
	for _, e := range c.Palette {
		if utf8.RuneCountInString(e.Symbol) != 1 {
			return errors.New(errors.ErrCodeInvalidConfig, "palette symbol must be a single character, got %q", e.Symbol)
		}
		if seen[e.Symbol] {
			return errors.New(errors.ErrCodeInvalidConfig, "duplicate palette symbol %q", e.Symbol)
		}
		seen[e.Symbol] = true
	}
	return nil
}

// EmptyRune returns the configured empty symbol.
func (c *Config) EmptyRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Grid.Empty)
	return r
}

// GridOptions returns the grid construction options for this config.
func (c *Config) GridOptions() []grid.Option {
	return []grid.Option{
		grid.WithEmpty(c.EmptyRune()),
		grid.WithDefaultSize(c.Grid.DefaultRows, c.Grid.DefaultCols),
	}
}

// GridPalette converts the configured palette.
func (c *Config) GridPalette() grid.Palette {
	p := make(grid.Palette, 0, len(c.Palette))
	for _, e := range c.Palette {
		r, _ := utf8.DecodeRuneInString(e.Symbol)
		p = append(p, grid.Entry{Symbol: r, Label: e.Label, Color: e.Color})
	}
	return p
}

// CodegenOptions returns the generator identifiers.
func (c *Config) CodegenOptions() codegen.Options {
	return codegen.Options{Namespace: c.Codegen.Namespace, ListName: c.Codegen.ListName}
}

// AggregatePath returns the path of the aggregate header.
func (c *Config) AggregatePath() string {
	return filepath.Join(c.Levels.Root, c.Levels.AggregateFile)
}

// String renders the config as TOML.
func (c *Config) String() string {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(data)
}
