// Package cli implements the compgraph command-line interface.
//
// Every command reads a graph from a share token, a share URL, a graph file
// (.json, .toml, .yaml) or stdin, and edits are written back as a fresh
// token (or to the file with --write).
//
// # Commands
//
//   - encode, decode, check: convert between files and tokens
//   - add, update, delete, prop: edit a graph
//   - tree, browse: inspect a graph in the terminal
//   - layout, render, watch: compute layouts and Graphviz output
//   - serve: run the HTTP editor API
//   - cache: manage the layout and render cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Status lines
// go to stderr so that stdout stays pipeable.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/compgraph/internal/config"
	"github.com/matzehuels/compgraph/pkg/buildinfo"
	"github.com/matzehuels/compgraph/pkg/cache"
	"github.com/matzehuels/compgraph/pkg/editor"
	"github.com/matzehuels/compgraph/pkg/pipeline"
)

const appName = "compgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config // loaded before any command runs

	configPath string
	verbose    bool
}

// New creates a new CLI instance logging to w.
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
		Use:   appName,
		Short: "compgraph edits component hierarchies and lays them out",
		Long: `compgraph edits a hierarchy of UI components and lays it out as a layered graph.

The whole graph travels in a URL-safe share token, so a graph can be passed
around as a link and restored without a server-side store.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cfg, err := config.Load(cmd.Flags(), c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}
	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&c.configPath, "config", "", "config file (default: ./"+config.DefaultFile+" if present)")
	pf.String(config.KeyBaseURL, "", "base URL of share links")
	config.AddFlags(pf)
	config.AddCacheFlags(pf)

	root.AddCommand(
		c.encodeCommand(),
		c.decodeCommand(),
		c.checkCommand(),
		c.addCommand(),
		c.updateCommand(),
		c.deleteCommand(),
		c.propCommand(),
		c.treeCommand(),
		c.browseCommand(),
		c.layoutCommand(),
		c.renderCommand(),
		c.watchCommand(),
		c.serveCommand(),
		c.cacheCommand(),
		c.completionCommand(),
	)
	return root
}

// cfg returns the loaded configuration, or the defaults when a command runs
// without the root pre-run (as in tests that call a subcommand directly).
func (c *CLI) cfg() *config.Config {
	if c.Config != nil {
		return c.Config
	}
	cfg, err := config.Load(nil, "")
	if err != nil {
		c.Logger.Warn("using built-in defaults", "error", err)
		b := builtin()
		cfg = &b
	}
	c.Config = cfg
	return cfg
}

func builtin() config.Config {
	opts := pipeline.DefaultOptions()
	return config.Config{
		NodeWidth:  opts.NodeWidth,
		NodeHeight: opts.NodeHeight,
		NodeSep:    opts.NodeSep,
		RankSep:    opts.RankSep,
		Sweeps:     opts.Sweeps,
		BaseURL:    editor.DefaultBaseURL,
		Addr:       config.DefaultAddr,
		CacheDir:   config.DefaultCacheDir(),
	}
}

// newRunner creates a pipeline runner backed by the configured cache. Keys
// are scoped by release so an upgrade never serves stale renders.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	keyer := cache.WithPrefix(nil, buildinfo.Release()+":")
	r := pipeline.NewRunner(ch, keyer, c.Logger)
	r.TTL = c.cfg().CacheTTL
	return r, nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cfg := c.cfg()
	switch {
	case cfg.NoCache:
		return cache.NewNullCache(), nil
	case cfg.RedisAddr != "":
		return cache.DialRedis(ctx, cfg.RedisAddr, cache.DefaultRedisPrefix)
	case cfg.CacheDir == "":
		return cache.NewNullCache(), nil
	default:
		return cache.NewFileCache(cfg.CacheDir)
	}
}
