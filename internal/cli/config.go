package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/treescope/treescope/pkg/diagram"
	"github.com/treescope/treescope/pkg/errors"
)

// defaultConfigFile is looked up in the working directory when no
// --config flag is given.
const defaultConfigFile = "treescope.toml"

// Config is the on-disk configuration (treescope.toml).
// Flags override file values; file values override defaults.
type Config struct {
	// Width is the surface width in pixels. The rendered height always
	// equals the width (square drawing area).
	Width float64 `toml:"width"`

	Diagram diagram.Config `toml:"diagram"`
	Serve   ServeConfig    `toml:"serve"`
	Cache   CacheConfig    `toml:"cache"`
}

// ServeConfig configures the HTTP preview server.
type ServeConfig struct {
	Addr string `toml:"addr"`

	// RedisAddr switches the artifact cache to Redis when set
	// (host:port). Empty means in-process caching.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// TreeTTLMinutes bounds how long uploaded trees are kept.
	TreeTTLMinutes int `toml:"tree_ttl_minutes"`
}

// CacheConfig configures the rendered-artifact cache for CLI usage.
type CacheConfig struct {
	// Dir overrides the cache directory (default: user cache dir).
	Dir string `toml:"dir"`

	// Disabled turns off artifact caching entirely.
	Disabled bool `toml:"disabled"`
}

// defaultConfig returns the built-in defaults.
func defaultConfig() Config {
	return Config{
		Width:   900,
		Diagram: diagram.DefaultConfig(),
		Serve: ServeConfig{
			Addr:           ":8422",
			TreeTTLMinutes: 24 * 60,
		},
	}
}

// loadConfig reads configuration from path, or from ./treescope.toml when
// path is empty. A missing default file is not an error; a missing explicit
// file is.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if path == "" {
		path = defaultConfigFile
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return Config{}, errors.New(errors.ErrCodeFileNotFound, "config file %s does not exist", path)
		}
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	if err := cfg.Diagram.Validate(); err != nil {
		return Config{}, err
	}
	if cfg.Width <= 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "width must be positive, got %g", cfg.Width)
	}
	return cfg, nil
}

// cacheDir returns the artifact cache directory, honoring the config
// override.
func cacheDir(cfg CacheConfig) (string, error) {
	if cfg.Dir != "" {
		return cfg.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "treescope"), nil
}
