// Package cli implements the bumper command-line interface.
//
// # Commands
//
//   - bump: raise the constraints of selected packages in composer.json
//   - cache: inspect and clear the repository metadata cache
//   - completion: generate shell completion scripts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which shows
// why each dependency was skipped and how the manifest was written.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/bumper/pkg/buildinfo"
	"github.com/matzehuels/bumper/pkg/cache"
	"github.com/matzehuels/bumper/pkg/config"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	out io.Writer
	err io.Writer
}

// New creates a CLI printing results to out and logs and progress to errw.
func New(out, errw io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(errw, level),
		out:    out,
		err:    errw,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "bumper",
		Short:         "Bumper raises Composer constraints to the latest releases",
		Long:          `Bumper raises the version constraints in composer.json to the newest releases published on Packagist, limited to the packages you select, while keeping the file's formatting.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.bumpCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// loadConfig reads the user configuration file and environment.
func (c *CLI) loadConfig() (config.Config, error) {
	path, err := config.Path()
	if err != nil {
		c.Logger.Debug("no config path", "err", err)
		path = ""
	}
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	c.Logger.Debug("config loaded", "path", path, "repository", cfg.Repository, "api", cfg.API, "shortcuts", cfg.ShortcutNames())
	return cfg, nil
}

// newCache returns the metadata cache: none with noCache, Redis when
// configured, the file cache otherwise. A cache that cannot be opened
// degrades to no caching.
func (c *CLI) newCache(ctx context.Context, cfg config.Config, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err == nil {
			return rc
		}
		c.Logger.Warn("redis cache unavailable, using file cache", "err", err)
	}
	dir, err := config.CacheDir()
	if err != nil {
		return cache.NewNullCache()
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		c.Logger.Debug("file cache unavailable", "dir", dir, "err", err)
		return cache.NewNullCache()
	}
	return fc
}
