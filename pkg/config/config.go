// Package config loads gridpack settings.
//
// Settings come from three layers, later ones winning: built-in defaults, an
// optional TOML file, and GRIDPACK_* environment variables. Command-line
// flags are applied on top by the CLI.
//
//	# ~/.config/gridpack/config.toml
//	column = 12
//	max_row = 0
//	float = false
//	layout_mode = "moveScale"
//	cache_backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/matzehuels/gridpack/pkg/errors"
	"github.com/matzehuels/gridpack/pkg/grid"
)

const appName = "gridpack"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "GRIDPACK"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds gridpack settings.
type Config struct {
	Column     int    `toml:"column"`
	MaxRow     int    `toml:"max_row"`
	Float      bool   `toml:"float"`
	LayoutMode string `toml:"layout_mode"`
	// OneColumnDOMOrder stacks widgets in file order, not reading order,
	// when rescaling to a single column.
	OneColumnDOMOrder bool `toml:"one_column_dom_order"`

	CacheDir     string `toml:"cache_dir"`
	CacheBackend string `toml:"cache_backend"`
	RedisAddr    string `toml:"redis_addr"`
	RedisDB      int    `toml:"redis_db"`

	ListenAddr string `toml:"listen_addr"`

	// Path is the file the settings were read from, if any.
	Path string `toml:"-"`
}

// env mirrors Config for environment overrides. Pointer fields stay nil
// when the variable is unset.
type env struct {
	Column            *int    `envconfig:"COLUMN"`
	MaxRow            *int    `envconfig:"MAX_ROW"`
	Float             *bool   `envconfig:"FLOAT"`
	LayoutMode        *string `envconfig:"LAYOUT_MODE"`
	OneColumnDOMOrder *bool   `envconfig:"DOM_ORDER"`
	CacheDir          *string `envconfig:"CACHE_DIR"`
	CacheBackend      *string `envconfig:"CACHE_BACKEND"`
	RedisAddr         *string `envconfig:"REDIS_ADDR"`
	RedisDB           *int    `envconfig:"REDIS_DB"`
	ListenAddr        *string `envconfig:"LISTEN_ADDR"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Column:       grid.DefaultColumn,
		LayoutMode:   string(grid.LayoutMoveScale),
		CacheBackend: BackendFile,
		RedisAddr:    "localhost:6379",
		ListenAddr:   ":8080",
	}
}

// Load reads settings. An empty path means the default location, which may
// be absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config file")
		}
		path = p
	}

	if _, err := os.Stat(path); err == nil {
		if err := cfg.decodeFile(path); err != nil {
			return nil, err
		}
	} else if explicit || !os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	c.Path = path
	return nil
}

func (c *Config) applyEnv() error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read environment")
	}
	setInt(&c.Column, e.Column)
	setInt(&c.MaxRow, e.MaxRow)
	setBool(&c.Float, e.Float)
	setString(&c.LayoutMode, e.LayoutMode)
	setBool(&c.OneColumnDOMOrder, e.OneColumnDOMOrder)
	setString(&c.CacheDir, e.CacheDir)
	setString(&c.CacheBackend, e.CacheBackend)
	setString(&c.RedisAddr, e.RedisAddr)
	setInt(&c.RedisDB, e.RedisDB)
	setString(&c.ListenAddr, e.ListenAddr)
	return nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks the settings.
func (c *Config) Validate() error {
	if err := errors.ValidateColumn(c.Column); err != nil {
		return err
	}
	if err := errors.ValidateMaxRow(c.MaxRow); err != nil {
		return err
	}
	if _, err := errors.ValidateLayoutMode(c.LayoutMode); err != nil {
		return err
	}
	switch c.CacheBackend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig,
			"unknown cache backend %q (want %s, %s or %s)", c.CacheBackend, BackendFile, BackendRedis, BackendNone)
	}
	if c.RedisDB < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "redis_db cannot be negative")
	}
	return nil
}

// GridOptions returns engine options for the configured grid.
func (c *Config) GridOptions() grid.Options {
	return grid.Options{Column: c.Column, MaxRow: c.MaxRow, Float: c.Float}
}

// Mode returns the configured rescale mode. Call Validate first.
func (c *Config) Mode() grid.LayoutMode {
	m, _ := grid.ParseLayoutMode(c.LayoutMode)
	return m
}

// CacheDirectory returns CacheDir or, when unset, $XDG_CACHE_HOME/gridpack
// (falling back to ~/.cache/gridpack).
func (c *Config) CacheDirectory() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// DefaultPath returns $XDG_CONFIG_HOME/gridpack/config.toml (falling back
// to ~/.config/gridpack/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
