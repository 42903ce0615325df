// Package config loads the arrange configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/arrange/config.toml
// (~/.config/arrange/config.toml when XDG_CONFIG_HOME is unset). Every
// setting has a default, so a missing file is not an error. Command-line
// flags override whatever the file sets.
//
//	[layout]
//	algorithm = "force"
//	seed = 42
//
//	[layout.force]
//	iterations = 800
//
//	[offload]
//	mode = "process"
//	timeout = "2m"
//
//	[cache]
//	backend = "redis"
//	url = "redis://localhost:6379/0"
//	namespace = "staging"
//
//	[server]
//	addr = ":8080"
package config

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/arrange/pkg/cache"
	arrerrors "github.com/matzehuels/arrange/pkg/errors"
	"github.com/matzehuels/arrange/pkg/layout"
	"github.com/matzehuels/arrange/pkg/offload"
)

// AppName names the configuration and cache directories.
const AppName = "arrange"

// =============================================================================
// Config
// =============================================================================

// Config is the complete configuration.
type Config struct {
	Layout  LayoutConfig  `toml:"layout"`
	Offload OffloadConfig `toml:"offload"`
	Cache   CacheConfig   `toml:"cache"`
	Server  ServerConfig  `toml:"server"`
}

// LayoutConfig holds defaults for layout requests.
type LayoutConfig struct {
	Algorithm string               `toml:"algorithm"`
	Seed      uint64               `toml:"seed"`
	Force     layout.ForceSettings `toml:"force"`
}

// OffloadConfig selects where layouts run.
type OffloadConfig struct {
	Mode       string        `toml:"mode"`
	WorkerPath string        `toml:"worker_path,omitempty"`
	Timeout    time.Duration `toml:"timeout"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir,omitempty"`
	URL        string `toml:"url,omitempty"`
	Database   string `toml:"database,omitempty"`
	Collection string `toml:"collection,omitempty"`
	Namespace  string `toml:"namespace,omitempty"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Algorithm: string(layout.Force),
			Seed:      layout.DefaultSeed,
		},
		Offload: OffloadConfig{
			Mode:    offload.ModeProcess,
			Timeout: offload.DefaultTimeout,
		},
		Cache: CacheConfig{
			Backend: cache.BackendFile,
		},
		Server: ServerConfig{
			Addr:            ":8080",
			ShutdownTimeout: 15 * time.Second,
		},
	}
}

// =============================================================================
// Loading
// =============================================================================

// Load reads the file at path on top of the defaults and validates the
// result. An empty path means DefaultPath, and a missing default file
// yields the defaults. A missing explicit path is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		return cfg, nil
	}
	if err != nil {
		return cfg, arrerrors.Wrap(arrerrors.ErrCodeInvalidConfig, err, "read config")
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return cfg, arrerrors.Wrap(arrerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that every named algorithm, mode and backend exists.
func (c Config) Validate() error {
	if c.Layout.Algorithm != "" {
		if _, err := layout.Parse(c.Layout.Algorithm); err != nil {
			return arrerrors.Wrap(arrerrors.ErrCodeInvalidConfig, err, "layout.algorithm")
		}
	}
	if err := c.Layout.Force.Validate(); err != nil {
		return arrerrors.Wrap(arrerrors.ErrCodeInvalidConfig, err, "layout")
	}
	switch c.Offload.Mode {
	case "", offload.ModeInProcess, offload.ModeGoroutine, offload.ModeProcess:
	default:
		return arrerrors.New(arrerrors.ErrCodeInvalidConfig, "offload.mode: unknown mode %q", c.Offload.Mode)
	}
	if c.Offload.Timeout < 0 {
		return arrerrors.New(arrerrors.ErrCodeInvalidConfig, "offload.timeout must not be negative")
	}
	switch c.Cache.Backend {
	case "", cache.BackendNone, cache.BackendFile, cache.BackendRedis, cache.BackendMongo:
	default:
		return arrerrors.New(arrerrors.ErrCodeInvalidConfig, "cache.backend: unknown backend %q", c.Cache.Backend)
	}
	if c.Cache.Namespace != "" {
		if err := arrerrors.ValidateNamespace(c.Cache.Namespace); err != nil {
			return err
		}
	}
	return nil
}

// Encode writes c as TOML.
func (c Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write stores c at path, creating parent directories.
func (c Config) Write(path string) error {
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// =============================================================================
// Paths
// =============================================================================

// DefaultPath returns the config file location using the XDG standard.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// CacheDir returns the file cache directory: the configured one, or
// $XDG_CACHE_HOME/arrange (~/.cache/arrange).
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// Keyer returns the cache keyer, scoped when a namespace is configured.
func (c Config) Keyer() cache.Keyer {
	if c.Cache.Namespace == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(nil, c.Cache.Namespace+":")
}
