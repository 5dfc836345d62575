// Package config loads bumper's user configuration.
//
// Settings come from a TOML file ($XDG_CONFIG_HOME/bumper/config.toml,
// falling back to ~/.config/bumper/config.toml) and are overridden by
// BUMPER_* environment variables:
//
//	repository = "https://repo.packagist.org"
//	api        = "auto"       # auto, v1 or v2
//	cache_ttl  = "24h"
//	redis_url  = ""           # share the metadata cache through Redis
//	php        = "php"        # binary asked for the platform
//
//	[shortcuts]
//	acme = ["acme/*", "acme-labs/*"]
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	bumperrors "github.com/matzehuels/bumper/pkg/errors"
	"github.com/matzehuels/bumper/pkg/integrations/packagist"
	"github.com/matzehuels/bumper/pkg/selector"
)

const appName = "bumper"

// Environment variables that override the file.
const (
	EnvRepository = "BUMPER_REPOSITORY"
	EnvAPI        = "BUMPER_API"
	EnvCacheTTL   = "BUMPER_CACHE_TTL"
	EnvRedisURL   = "BUMPER_REDIS_URL"
	EnvPHP        = "BUMPER_PHP"
)

// DefaultCacheTTL is how long repository metadata is reused.
const DefaultCacheTTL = 24 * time.Hour

// Duration is a time.Duration written as a string ("90m", "24h") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config holds the user settings.
type Config struct {
	Repository string              `toml:"repository"`
	API        string              `toml:"api"`
	CacheTTL   Duration            `toml:"cache_ttl"`
	RedisURL   string              `toml:"redis_url"`
	PHP        string              `toml:"php"`
	Shortcuts  map[string][]string `toml:"shortcuts"`
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Repository: packagist.DefaultURL,
		API:        "auto",
		CacheTTL:   Duration{DefaultCacheTTL},
		PHP:        "php",
	}
}

// Load reads the file at path (a missing file is not an error) and applies
// environment overrides. An empty path loads only defaults and environment.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return cfg, bumperrors.Wrap(bumperrors.ErrCodeInvalidConfig, err, "parse %s", path)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				keys := make([]string, len(undecoded))
				for i, k := range undecoded {
					keys[i] = k.String()
				}
				return cfg, bumperrors.New(bumperrors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
			}
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	for env, dst := range map[string]*string{
		EnvRepository: &cfg.Repository,
		EnvAPI:        &cfg.API,
		EnvRedisURL:   &cfg.RedisURL,
		EnvPHP:        &cfg.PHP,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	if v := os.Getenv(EnvCacheTTL); v != "" {
		if err := cfg.CacheTTL.UnmarshalText([]byte(v)); err != nil {
			return bumperrors.Wrap(bumperrors.ErrCodeInvalidConfig, err, "%s", EnvCacheTTL)
		}
	}
	return nil
}

// Groups returns the built-in shortcut groups with the configured ones
// layered on top.
func (c Config) Groups() selector.Groups {
	user := make(selector.Groups, len(c.Shortcuts))
	for name, masks := range c.Shortcuts {
		for _, m := range masks {
			user[name] = append(user[name], selector.Mask(m))
		}
	}
	return selector.DefaultGroups().Merge(user)
}

// ShortcutNames lists the configured shortcut names, sorted.
func (c Config) ShortcutNames() []string {
	names := make([]string, 0, len(c.Shortcuts))
	for name := range c.Shortcuts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Path returns the config file location following XDG.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the metadata cache directory (~/.cache/bumper).
func CacheDir() (string, error) {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
