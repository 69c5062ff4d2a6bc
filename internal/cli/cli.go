package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/gridpack/pkg/buildinfo"
	"github.com/matzehuels/gridpack/pkg/cache"
	"github.com/matzehuels/gridpack/pkg/config"
	"github.com/matzehuels/gridpack/pkg/errors"
	gridio "github.com/matzehuels/gridpack/pkg/io"
	"github.com/matzehuels/gridpack/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for cache prefixes and display.
const appName = "gridpack"

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

	// global flags
	configPath string
	column     int
	maxRow     int
	float      bool
	noCache    bool

	cfg *config.Config
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
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "gridpack",
		Short: "Gridpack lays out widgets on a column grid",
		Long: `Gridpack positions rectangular widgets on an integer grid. It packs layouts
toward the top, rescales them between column counts without losing the
original placement, and checks layout files for overlaps.

Layout files are JSON: either a bare array of widgets or an object with
"grid", "widgets" and an optional "layouts" column cache.`,
		Version:           buildinfo.Get().Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/gridpack/config.toml)")
	pf.IntVar(&c.column, "column", 0, "column count of the input layout (default: from the file or config)")
	pf.IntVar(&c.maxRow, "max-row", 0, "row limit, 0 for unbounded")
	pf.BoolVar(&c.float, "float", false, "disable gravity so widgets stay where they are put")
	pf.BoolVar(&c.noCache, "no-cache", false, "do not read or store the column cache")

	root.AddCommand(c.compactCommand())
	root.AddCommand(c.columnsCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.addCommand())
	root.AddCommand(c.moveCommand())
	root.AddCommand(c.showCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the command's
// context.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "path", cfg.Path)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		return config.Default()
	}
	return c.cfg
}

// =============================================================================
// Options Helpers
// =============================================================================

// options resolves the grid for doc: config, then the file's own grid, then
// flags given on the command line.
func (c *CLI) options(cmd *cobra.Command, doc *gridio.Document) pipeline.Options {
	cfg := c.config()
	g := cfg.GridOptions()
	opts := pipeline.Options{Logger: c.Logger}
	if doc != nil {
		doc.Apply(&g)
		opts.Layouts = doc.Layouts
	}

	flags := cmd.Flags()
	if flags.Changed("column") {
		g.Column = c.column
	}
	if flags.Changed("max-row") {
		g.MaxRow = c.maxRow
	}
	if flags.Changed("float") {
		g.Float = c.float
	}
	opts.Column, opts.MaxRow, opts.Float = g.Column, g.MaxRow, g.Float
	opts.NoCache = c.noCache || cfg.CacheBackend == config.BackendNone
	return opts
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.config()
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.CacheBackend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:   cfg.RedisAddr,
			DB:     cfg.RedisDB,
			Prefix: appName + ":",
		})
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeCache, err, "connect to cache")
		}
		return rc, nil
	default:
		dir, err := c.cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, column cache disabled", "error", err)
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, by default
// ~/.cache/gridpack/ following the XDG layout.
func (c *CLI) cacheDir() (string, error) {
	return c.config().CacheDirectory()
}
