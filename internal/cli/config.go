package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const configFile = appName + ".toml"

// Cache backends.
const (
	cacheFile  = "file"
	cacheRedis = "redis"
	cacheNone  = "none"
)

// Store backends.
const (
	storeSQLite = "sqlite"
	storeMongo  = "mongo"
)

// Config mirrors hasse.toml. Command-line flags override its values.
type Config struct {
	Build  BuildConfig  `toml:"build"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Server ServerConfig `toml:"server"`
}

// BuildConfig holds defaults for "hasse build".
type BuildConfig struct {
	Nonsequential bool `toml:"nonsequential"`
	CheckClosure  bool `toml:"check_closure"`
	Workers       int  `toml:"workers"`
}

// CacheConfig selects the lattice cache.
type CacheConfig struct {
	Backend string `toml:"backend"` // file, redis or none
	URL     string `toml:"url"`     // redis://host:port/db
	Dir     string `toml:"dir"`     // file backend directory
	Prefix  string `toml:"prefix"`  // redis key prefix
	TTL     string `toml:"ttl"`     // lifetime of cached lattices, e.g. "72h"
}

// StoreConfig selects the lattice store used by "hasse serve".
type StoreConfig struct {
	Backend  string `toml:"backend"` // sqlite or mongo
	DSN      string `toml:"dsn"`
	Database string `toml:"database"` // mongo only
}

// ServerConfig configures "hasse serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

func defaultConfig() Config {
	return Config{
		Build:  BuildConfig{Workers: runtime.NumCPU()},
		Cache:  CacheConfig{Backend: cacheFile, Prefix: appName + ":"},
		Store:  StoreConfig{Backend: storeSQLite, Database: appName},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// loadConfig reads the config file at path on top of the defaults. With an
// empty path the default locations are tried and a missing file is not an
// error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		path = configPath()
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case cacheFile, cacheNone:
	case cacheRedis:
		if c.Cache.URL == "" {
			return errors.New("cache.url is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if _, err := c.Cache.ttl(); err != nil {
		return err
	}
	switch c.Store.Backend {
	case storeSQLite:
	case storeMongo:
		if c.Store.DSN == "" {
			return errors.New("store.dsn is required for the mongo backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	if c.Build.Workers < 0 {
		return fmt.Errorf("build.workers must be non-negative, got %d", c.Build.Workers)
	}
	return nil
}

// ttl parses the configured lifetime. Zero leaves the cache default.
func (c CacheConfig) ttl() (time.Duration, error) {
	if c.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.TTL)
	if err != nil {
		return 0, fmt.Errorf("cache.ttl: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("cache.ttl must be positive, got %s", d)
	}
	return d, nil
}

// configPath prefers ./hasse.toml, then the XDG config directory.
func configPath() string {
	if _, err := os.Stat(configFile); err == nil {
		return configFile
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, configFile)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return configFile
	}
	return filepath.Join(home, ".config", appName, configFile)
}
