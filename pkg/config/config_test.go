package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bumperrors "github.com/matzehuels/bumper/pkg/errors"
	"github.com/matzehuels/bumper/pkg/selector"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, env := range []string{EnvRepository, EnvAPI, EnvCacheTTL, EnvRedisURL, EnvPHP} {
		t.Setenv(env, "")
		os.Unsetenv(env)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL.Duration)
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
repository = "https://packages.example.com"
api = "v1"
cache_ttl = "90m"
redis_url = "redis://localhost:6379/1"
php = "/usr/bin/php8.2"

[shortcuts]
acme = ["acme/*", "acme-labs/*"]
symfony = ["symfony/console"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://packages.example.com", cfg.Repository)
	assert.Equal(t, "v1", cfg.API)
	assert.Equal(t, 90*time.Minute, cfg.CacheTTL.Duration)
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
	assert.Equal(t, "/usr/bin/php8.2", cfg.PHP)
	assert.Equal(t, []string{"acme", "symfony"}, cfg.ShortcutNames())

	groups := cfg.Groups()
	assert.Equal(t, []selector.Mask{"acme/*", "acme-labs/*"}, groups["acme"])
	assert.Equal(t, []selector.Mask{"symfony/console"}, groups["symfony"])
	assert.Contains(t, groups, "laravel")
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `repository = "https://packages.example.com"`)
	t.Setenv(EnvRepository, "http://127.0.0.1:8080")
	t.Setenv(EnvAPI, "v2")
	t.Setenv(EnvCacheTTL, "5m")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080", cfg.Repository)
	assert.Equal(t, "v2", cfg.API)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL.Duration)
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)

	tests := map[string]string{
		"syntax":       `repository = `,
		"bad duration": `cache_ttl = "soon"`,
		"unknown key":  `colour = "blue"`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, content))
			assert.True(t, bumperrors.Is(err, bumperrors.ErrCodeInvalidConfig), "err = %v", err)
		})
	}

	t.Setenv(EnvCacheTTL, "forever")
	_, err := Load("")
	assert.True(t, bumperrors.Is(err, bumperrors.ErrCodeInvalidConfig))
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-config")
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	path, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg-config", "bumper", "config.toml"), path)

	dir, err := CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/tmp/xdg-cache", "bumper"), dir)

	t.Setenv("XDG_CACHE_HOME", "")
	t.Setenv("HOME", "/home/dev")
	dir, err = CacheDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/dev", ".cache", "bumper"), dir)
}
