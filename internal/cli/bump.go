package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bumper/pkg/cache"
	"github.com/matzehuels/bumper/pkg/config"
	bumperrors "github.com/matzehuels/bumper/pkg/errors"
	"github.com/matzehuels/bumper/pkg/integrations/packagist"
	"github.com/matzehuels/bumper/pkg/manifest"
	"github.com/matzehuels/bumper/pkg/observability"
	"github.com/matzehuels/bumper/pkg/persist"
	"github.com/matzehuels/bumper/pkg/resolver"
	"github.com/matzehuels/bumper/pkg/selector"
	"github.com/matzehuels/bumper/pkg/update"
)

// bumpOptions holds the flags of the bump command.
type bumpOptions struct {
	workingDir string
	dryRun     bool
	noCache    bool
	refresh    bool
	php        string
	api        string
}

// bumpCommand creates the bump command.
func (c *CLI) bumpCommand() *cobra.Command {
	var opts bumpOptions

	cmd := &cobra.Command{
		Use:   "bump [packages...]",
		Short: "Raise constraints in composer.json to the latest releases",
		Long: `Raise the constraints of the selected packages to the newest release
installable on your platform.

Packages are selected by name, glob ("symfony/*"), bare vendor ("symfony",
same as "symfony/*") or shortcut group (laravel, symfony, phpunit, doctrine,
phpstan, plus the [shortcuts] of the config file). Without arguments every
package is selected. Platform packages (php, ext-*) and dev-branch
constraints are never changed.`,
		Example: `  bumper bump
  bumper bump symfony laravel
  bumper bump 'acme/*-bundle' --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBump(cmd.Context(), opts, args)
		},
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return c.completePackages(opts.workingDir), cobra.ShellCompDirectiveNoFileComp
		},
	}

	cmd.Flags().StringVarP(&opts.workingDir, "working-dir", "d", ".", "directory containing composer.json")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "show the updates without writing composer.json")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the metadata cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "refetch metadata even if cached")
	cmd.Flags().StringVar(&opts.php, "php", "", "PHP version to resolve for (default: config.platform or the php binary)")
	cmd.Flags().StringVar(&opts.api, "api", "", "repository metadata API: auto, v1 or v2")

	return cmd
}

func (c *CLI) runBump(ctx context.Context, opts bumpOptions, args []string) error {
	c.registerHooks()
	defer observability.Reset()

	path, err := manifest.Locate(opts.workingDir)
	if err != nil {
		return err
	}
	m, err := manifest.Load(path)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	masks := selector.Expand(args, cfg.Groups())
	c.Logger.Debug("selection", "masks", masks.Strings())

	backend := c.newCache(ctx, cfg, opts.noCache)
	defer backend.Close()

	res, err := c.newResolver(cfg, opts, m, backend)
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	spin := startSpinner(ctx, c.err, "Checking "+path+"...")
	observability.SetResolveHooks(spinnerHooks{s: spin})
	decisions, err := update.NewEngine(res, c.Logger).Compute(ctx, m, masks)
	observability.SetResolveHooks(observability.NoopResolveHooks{})
	spin.Stop()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	prog.done(fmt.Sprintf("Checked %s with %s", path, res.Name()))

	if len(decisions) == 0 {
		printSuccess(c.out, "Dependencies are up to date")
		return nil
	}

	renderDecisions(c.out, decisions)

	if opts.dryRun {
		printWarning(c.out, "Dry run: %s was not modified", path)
		return nil
	}

	result, err := persist.New(c.Logger).Persist(path, decisions)
	if err != nil {
		return err
	}
	printSuccess(c.out, "Updated %d %s", result.Applied, plural(result.Applied, "constraint", "constraints"))
	if result.Strategy == persist.Rewritten {
		printDetail(c.out, "%s was reformatted", path)
	}
	return nil
}

// newResolver validates the resolver settings and returns a resolver that
// probes the repository and inspects php on its first lookup.
func (c *CLI) newResolver(cfg config.Config, opts bumpOptions, m *manifest.Manifest, backend cache.Cache) (resolver.Resolver, error) {
	apiFlag := cfg.API
	if opts.api != "" {
		apiFlag = opts.api
	}
	api, err := resolver.ParseAPIVersion(apiFlag)
	if err != nil {
		return nil, err
	}

	minimum, err := resolver.ParseStability(m.MinimumStability)
	if err != nil {
		return nil, bumperrors.Wrap(bumperrors.ErrCodeInvalidManifest, err, "%s: minimum-stability", m.Path)
	}

	return resolver.NewLazy("packagist", func(ctx context.Context) (resolver.Resolver, error) {
		platform := resolver.Platform{PHP: opts.php}
		if opts.php == "" {
			var err error
			if platform, err = resolver.DetectPlatform(ctx, m.Platform, cfg.PHP); err != nil {
				c.Logger.Warn("could not inspect php, resolving without platform checks", "err", err)
				platform = resolver.Platform{}
			}
		}

		client := packagist.NewClient(backend, cfg.Repository, cfg.CacheTTL.Duration)
		return resolver.New(ctx, client, resolver.Options{
			API:      api,
			Platform: platform,
			Policy:   resolver.Policy{MinimumStability: minimum, PreferStable: m.PreferStable},
			Refresh:  opts.refresh,
			Logger:   c.Logger,
		})
	}), nil
}

// completePackages suggests shortcut groups and the packages declared in
// the manifest under dir.
func (c *CLI) completePackages(dir string) []string {
	var names []string
	if cfg, err := c.loadConfig(); err == nil {
		names = cfg.Groups().Names()
	}
	path, err := manifest.Locate(dir)
	if err != nil {
		return names
	}
	m, err := manifest.Load(path)
	if err != nil {
		return names
	}
	for _, s := range manifest.Sections() {
		for _, dep := range m.Dependencies(s) {
			if !manifest.IsPlatformPackage(dep.Name) {
				names = append(names, dep.Name)
			}
		}
	}
	return names
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
