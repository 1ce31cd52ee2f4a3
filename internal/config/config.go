// Package config loads compgraph settings from defaults, an optional TOML
// file, COMPGRAPH_* environment variables and command-line flags, in that
// order of increasing priority.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/toml/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/compgraph/pkg/editor"
	"github.com/matzehuels/compgraph/pkg/errors"
	"github.com/matzehuels/compgraph/pkg/layout"
	"github.com/matzehuels/compgraph/pkg/layout/ordering"
	"github.com/matzehuels/compgraph/pkg/pipeline"
)

const (
	appName = "compgraph"

	// DefaultFile is read from the working directory when present.
	DefaultFile = "compgraph.toml"

	// EnvPrefix prefixes every environment variable, e.g. COMPGRAPH_NODE_WIDTH.
	EnvPrefix = "COMPGRAPH_"

	// DefaultAddr is the listen address of compgraph serve.
	DefaultAddr = "localhost:8080"
)

// Keys shared by flags, environment and file.
const (
	KeyNodeWidth  = "node-width"
	KeyNodeHeight = "node-height"
	KeyNodeSep    = "node-sep"
	KeyRankSep    = "rank-sep"
	KeySweeps     = "sweeps"
	KeyBaseURL    = "base-url"
	KeyAddr       = "addr"
	KeyCacheDir   = "cache-dir"
	KeyRedisAddr  = "redis-addr"
	KeyCacheTTL   = "cache-ttl"
	KeyNoCache    = "no-cache"
)

// Config holds all settings.
type Config struct {
	NodeWidth  float64       `koanf:"node-width"`
	NodeHeight float64       `koanf:"node-height"`
	NodeSep    float64       `koanf:"node-sep"`
	RankSep    float64       `koanf:"rank-sep"`
	Sweeps     int           `koanf:"sweeps"`
	BaseURL    string        `koanf:"base-url"`
	Addr       string        `koanf:"addr"`
	CacheDir   string        `koanf:"cache-dir"`
	RedisAddr  string        `koanf:"redis-addr"` // shared cache; empty uses CacheDir
	CacheTTL   time.Duration `koanf:"cache-ttl"` // 0 keeps the per-stage defaults
	NoCache    bool          `koanf:"no-cache"`
}

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		KeyNodeWidth:  layout.DefaultNodeWidth,
		KeyNodeHeight: layout.DefaultNodeHeight,
		KeyNodeSep:    layout.DefaultNodeSep,
		KeyRankSep:    layout.DefaultRankSep,
		KeySweeps:     ordering.DefaultPasses,
		KeyBaseURL:    editor.DefaultBaseURL,
		KeyAddr:       DefaultAddr,
		KeyCacheDir:   DefaultCacheDir(),
		KeyRedisAddr:  "",
		KeyCacheTTL:   "0s",
		KeyNoCache:    false,
	}
}

// DefaultCacheDir returns the cache directory following the XDG standard
// ($XDG_CACHE_HOME/compgraph, else ~/.cache/compgraph). Without a home
// directory it falls back to the system temp dir.
func DefaultCacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName)
	}
	return filepath.Join(home, ".cache", appName)
}

// Load merges defaults, the config file at path, the environment and the
// flags that were set explicitly. An empty path reads [DefaultFile] if it
// exists; a path given explicitly must exist.
func Load(f *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(Defaults(), ""), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	} else if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "config file %s", path)
	}
	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse config file %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid configuration")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps COMPGRAPH_NODE_WIDTH to node-width.
func envKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", "-")
}

// Validate rejects settings no command could use.
func (c *Config) Validate() error {
	if c.Sweeps < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s must not be negative", KeySweeps)
	}
	if c.CacheTTL < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s must not be negative", KeyCacheTTL)
	}
	if err := errors.ValidateURL(c.BaseURL); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", KeyBaseURL)
	}
	return nil
}

// PipelineOptions returns pipeline options carrying the layout settings.
// Non-positive box sizes and negative gaps keep the layout defaults.
func (c *Config) PipelineOptions() pipeline.Options {
	opts := pipeline.DefaultOptions()
	opts.NodeWidth = c.NodeWidth
	opts.NodeHeight = c.NodeHeight
	opts.NodeSep = c.NodeSep
	opts.RankSep = c.RankSep
	opts.Sweeps = c.Sweeps
	return opts
}

// LayoutOptions returns the layout settings as [layout.Option] values.
func (c *Config) LayoutOptions() []layout.Option {
	opts := c.PipelineOptions()
	return opts.LayoutOptions()
}

// AddFlags registers the layout flags on fs, using the built-in defaults
// for the help text.
func AddFlags(fs *pflag.FlagSet) {
	fs.Float64(KeyNodeWidth, layout.DefaultNodeWidth, "node box width")
	fs.Float64(KeyNodeHeight, layout.DefaultNodeHeight, "node box height")
	fs.Float64(KeyNodeSep, layout.DefaultNodeSep, "horizontal gap between boxes")
	fs.Float64(KeyRankSep, layout.DefaultRankSep, "vertical gap between ranks")
	fs.Int(KeySweeps, ordering.DefaultPasses, "crossing-reduction sweeps")
}

// AddCacheFlags registers the cache flags on fs.
func AddCacheFlags(fs *pflag.FlagSet) {
	fs.String(KeyCacheDir, "", "file cache directory (default: user cache dir)")
	fs.String(KeyRedisAddr, "", "redis address for a shared cache")
	fs.Duration(KeyCacheTTL, 0, "lifetime of cached entries (0: 24h layouts, 7d renders)")
	fs.Bool(KeyNoCache, false, "disable caching")
}
