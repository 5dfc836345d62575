package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/stretchr/testify/assert"

	"github.com/matzehuels/bumper/internal/packagisttest"
	bumperrors "github.com/matzehuels/bumper/pkg/errors"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"bumper": func() int {
			return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
		},
	}))
}

var scriptPackages = map[string][]packagisttest.Release{
	"acme/foo":        {{Version: "2.3.0", Require: map[string]string{"php": ">=8.1"}}, {Version: "1.9.0"}},
	"acme/legacy":     {{Version: "4.0.0", Require: map[string]string{"php": ">=9.0"}}, {Version: "3.2.1"}},
	"other/bar":       {{Version: "1.0.0"}},
	"phpunit/phpunit": {{Version: "10.5.2"}, {Version: "9.6.0"}},
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   filepath.Join("testdata", "script"),
		Setup: setupScript,
	})
}

// setupScript serves a fake Packagist for each script and isolates the
// user's config and cache directories.
func setupScript(env *testscript.Env) error {
	srv := packagisttest.NewServer(packagisttest.Repo{Packages: scriptPackages})
	env.Defer(srv.Close)

	env.Setenv("NO_COLOR", "1")
	env.Setenv("BUMPER_REPOSITORY", srv.URL)
	env.Setenv("BUMPER_PHP", filepath.Join(env.WorkDir, "no-php"))
	env.Setenv("HOME", filepath.Join(env.WorkDir, ".home"))
	env.Setenv("XDG_CONFIG_HOME", filepath.Join(env.WorkDir, ".config"))
	env.Setenv("XDG_CACHE_HOME", filepath.Join(env.WorkDir, ".cache"))
	return nil
}

func TestRunExitCodes(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	t.Setenv("COMPOSER", "")

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"version", []string{"--version"}, bumperrors.ExitOK},
		{"missing manifest", []string{"bump", "-d", t.TempDir()}, bumperrors.ExitNotFound},
		{"unknown command", []string{"frobnicate"}, bumperrors.ExitFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			assert.Equal(t, tt.want, run(context.Background(), tt.args, &stdout, &stderr))
		})
	}
}

func TestRunInterrupted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var stderr bytes.Buffer
	assert.Equal(t, bumperrors.ExitInterrupted, exitCode(ctx.Err(), &stderr))
	assert.Empty(t, stderr.String())
}

func TestRunReportsError(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("COMPOSER", "")

	var stdout, stderr bytes.Buffer
	run(context.Background(), []string{"bump", "-d", t.TempDir()}, &stdout, &stderr)
	assert.Contains(t, stderr.String(), "Error: composer.json not found")
}
