package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/bumper/internal/packagisttest"
	bumperrors "github.com/matzehuels/bumper/pkg/errors"
	"github.com/matzehuels/bumper/pkg/manifest"
	"github.com/matzehuels/bumper/pkg/observability"
	"github.com/matzehuels/bumper/pkg/update"
)

const composerJSON = `{
    "name": "acme/app",
    "require": {
        "php": "^8.1",
        "acme/foo": "^1.0",
        "acme/bar": "dev-main"
    },
    "require-dev": {
        "phpunit/phpunit": "^9.6"
    }
}
`

var releases = map[string][]packagisttest.Release{
	"acme/foo":        {{Version: "2.3.0"}, {Version: "1.9.0"}},
	"acme/bar":        {{Version: "3.0.0"}},
	"phpunit/phpunit": {{Version: "10.5.2"}, {Version: "9.6.0"}},
}

// setup starts a fake repository, isolates config and cache directories
// and writes composer.json into a fresh project directory.
func setup(t *testing.T, repo packagisttest.Repo) string {
	t.Helper()
	srv := packagisttest.NewServer(repo)
	t.Cleanup(srv.Close)

	t.Setenv("NO_COLOR", "1")
	t.Setenv("COMPOSER", "")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("BUMPER_REPOSITORY", srv.URL)
	t.Setenv("BUMPER_API", "")
	t.Setenv("BUMPER_REDIS_URL", "")
	t.Setenv("BUMPER_CACHE_TTL", "")
	t.Setenv("BUMPER_PHP", filepath.Join(t.TempDir(), "no-php"))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, manifest.DefaultFilename), []byte(composerJSON), 0o644))
	return dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	c := New(&out, io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(io.Discard)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func readManifest(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, manifest.DefaultFilename))
	require.NoError(t, err)
	return string(data)
}

func TestBumpWritesUpdates(t *testing.T) {
	dir := setup(t, packagisttest.Repo{Packages: releases})

	out, err := execute(t, "bump", "-d", dir)
	require.NoError(t, err)

	assert.Contains(t, out, "acme/foo")
	assert.Contains(t, out, "phpunit/phpunit")
	assert.Contains(t, out, iconArrow)
	assert.Contains(t, out, markerDev)
	assert.Contains(t, out, "Updated 2 constraints")
	assert.NotContains(t, out, "acme/bar", "dev branches are never bumped")

	got := readManifest(t, dir)
	assert.Contains(t, got, `"acme/foo": "^2.3"`)
	assert.Contains(t, got, `"phpunit/phpunit": "^10.5"`)
	assert.Contains(t, got, `"php": "^8.1"`)
	assert.Contains(t, got, `"acme/bar": "dev-main"`)
}

func TestBumpSelection(t *testing.T) {
	dir := setup(t, packagisttest.Repo{Packages: releases})

	out, err := execute(t, "bump", "-d", dir, "phpunit")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated 1 constraint")

	got := readManifest(t, dir)
	assert.Contains(t, got, `"acme/foo": "^1.0"`)
	assert.Contains(t, got, `"phpunit/phpunit": "^10.5"`)
}

func TestBumpUpToDate(t *testing.T) {
	dir := setup(t, packagisttest.Repo{Packages: releases})

	out, err := execute(t, "bump", "-d", dir, "other/*")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
	assert.Equal(t, composerJSON, readManifest(t, dir))
}

func TestBumpNothingSelectedStaysOffline(t *testing.T) {
	dir := setup(t, packagisttest.Repo{Packages: releases})
	t.Setenv("BUMPER_REPOSITORY", "http://127.0.0.1:1")

	start := time.Now()
	out, err := execute(t, "bump", "-d", dir, "--no-cache", "other/*")
	require.NoError(t, err)
	assert.Contains(t, out, "Dependencies are up to date")
	assert.Less(t, time.Since(start), time.Second, "the repository must not be contacted")
	assert.Equal(t, composerJSON, readManifest(t, dir))

	_, ok := observability.HTTP().(observability.NoopHTTPHooks)
	assert.True(t, ok, "hooks are reset after the run")
}

func TestBumpMissingManifestWithBrokenConfig(t *testing.T) {
	setup(t, packagisttest.Repo{Packages: releases})

	cfgDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "bumper")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte("[shortcuts\n"), 0o644))

	_, err := execute(t, "bump", "-d", t.TempDir())
	assert.True(t, bumperrors.Is(err, bumperrors.ErrCodeFileNotFound), "err = %v", err)
	assert.Equal(t, bumperrors.ExitNotFound, bumperrors.ExitStatus(err))
}

func TestBumpDryRun(t *testing.T) {
	dir := setup(t, packagisttest.Repo{Packages: releases})

	out, err := execute(t, "bump", "-d", dir, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "acme/foo")
	assert.Contains(t, out, "Dry run")
	assert.Equal(t, composerJSON, readManifest(t, dir))
}

func TestBumpLegacyRepository(t *testing.T) {
	dir := setup(t, packagisttest.Repo{Packages: releases, LegacyOnly: true})

	_, err := execute(t, "bump", "-d", dir, "acme", "--php", "8.2.0")
	require.NoError(t, err)
	assert.Contains(t, readManifest(t, dir), `"acme/foo": "^2.3"`)
}

func TestBumpConfigShortcut(t *testing.T) {
	dir := setup(t, packagisttest.Repo{Packages: releases})

	cfgDir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "bumper")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.toml"), []byte("[shortcuts]\ntesting = [\"phpunit/*\"]\n"), 0o644))

	_, err := execute(t, "bump", "-d", dir, "testing")
	require.NoError(t, err)

	got := readManifest(t, dir)
	assert.Contains(t, got, `"acme/foo": "^1.0"`)
	assert.Contains(t, got, `"phpunit/phpunit": "^10.5"`)
}

func TestBumpErrors(t *testing.T) {
	dir := setup(t, packagisttest.Repo{Packages: releases})

	_, err := execute(t, "bump", "-d", t.TempDir())
	assert.True(t, bumperrors.Is(err, bumperrors.ErrCodeFileNotFound), "err = %v", err)

	_, err = execute(t, "bump", "-d", dir, "--api", "v3")
	assert.True(t, bumperrors.Is(err, bumperrors.ErrCodeInvalidInput), "err = %v", err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, manifest.DefaultFilename), []byte(`{"require": `), 0o644))
	_, err = execute(t, "bump", "-d", dir)
	assert.True(t, bumperrors.Is(err, bumperrors.ErrCodeInvalidManifest), "err = %v", err)
}

func TestCacheCommands(t *testing.T) {
	dir := setup(t, packagisttest.Repo{Packages: releases})

	out, err := execute(t, "cache", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_CACHE_HOME"), "bumper")+"\n", out)

	out, err = execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cache is empty")

	_, err = execute(t, "bump", "-d", dir, "--dry-run")
	require.NoError(t, err)

	out, err = execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 2 cached entries")
}

func TestCacheClearRedis(t *testing.T) {
	dir := setup(t, packagisttest.Repo{Packages: releases})
	mr := miniredis.RunT(t)
	t.Setenv("BUMPER_REDIS_URL", "redis://"+mr.Addr())

	_, err := execute(t, "bump", "-d", dir, "--dry-run")
	require.NoError(t, err)
	assert.NotEmpty(t, mr.Keys(), "metadata should be cached in redis")

	out, err := execute(t, "cache", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Cleared 2 cached entries")
	assert.Contains(t, out, "Redis: redis://"+mr.Addr())
	assert.Empty(t, mr.Keys())
}

func TestPrintHelpers(t *testing.T) {
	var buf bytes.Buffer
	printSuccess(&buf, "done %d", 1)
	printInfo(&buf, "info")
	assert.Contains(t, buf.String(), iconSuccess+" done 1")
	assert.Contains(t, buf.String(), iconInfo+" info")
}

func TestRenderDecisions(t *testing.T) {
	var buf bytes.Buffer
	renderDecisions(&buf, []update.Decision{
		{Section: manifest.Require, Package: "acme/foo", From: "^1.0", To: "^2.3"},
		{Section: manifest.RequireDev, Package: "phpunit/phpunit", From: "^9.6", To: "^10.5"},
	})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var fooLine, devLine string
	for _, l := range lines {
		switch {
		case strings.Contains(l, "acme/foo"):
			fooLine = l
		case strings.Contains(l, "phpunit/phpunit"):
			devLine = l
		}
	}
	require.NotEmpty(t, fooLine)
	require.NotEmpty(t, devLine)
	assert.Regexp(t, `acme/foo.*\^1\.0.*→.*\^2\.3`, fooLine)
	assert.NotContains(t, fooLine, markerDev)
	assert.Regexp(t, `dev.*phpunit/phpunit.*\^9\.6.*→.*\^10\.5`, devLine)
}

func TestCompletePackages(t *testing.T) {
	dir := setup(t, packagisttest.Repo{})
	c := New(io.Discard, io.Discard, LogInfo)

	got := c.completePackages(dir)
	assert.Contains(t, got, "laravel")
	assert.Contains(t, got, "acme/foo")
	assert.Contains(t, got, "phpunit/phpunit")
	assert.NotContains(t, got, "php")
}
