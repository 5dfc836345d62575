package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bumper/pkg/cache"
	"github.com/matzehuels/bumper/pkg/config"
	bumperrors "github.com/matzehuels/bumper/pkg/errors"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the repository metadata cache",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "clear",
			Short: "Remove all cached metadata (file cache and Redis, if configured)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return c.runCacheClear(cmd.Context())
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the cache directory path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				dir, err := config.CacheDir()
				if err != nil {
					return fmt.Errorf("get cache dir: %w", err)
				}
				fmt.Fprintln(c.out, dir)
				return nil
			},
		},
	)
	return cmd
}

func (c *CLI) runCacheClear(ctx context.Context) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return bumperrors.Wrap(bumperrors.ErrCodeNetwork, err, "open redis cache")
		}
		defer rc.Close()
		if err := c.clear(ctx, rc, "Redis: "+cfg.RedisURL); err != nil {
			return err
		}
	}

	dir, err := config.CacheDir()
	if err != nil {
		return fmt.Errorf("get cache dir: %w", err)
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		printInfo(c.out, "Cache is empty")
		return nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return err
	}
	return c.clear(ctx, fc, "Directory: "+dir)
}

func (c *CLI) clear(ctx context.Context, cl cache.Clearer, where string) error {
	n, err := cl.Clear(ctx)
	if err != nil {
		return err
	}
	if n == 0 {
		printInfo(c.out, "Cache is empty")
	} else {
		printSuccess(c.out, "Cleared %d cached %s", n, plural(n, "entry", "entries"))
	}
	printDetail(c.out, "%s", where)
	return nil
}
