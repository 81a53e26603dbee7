// Package config loads the optional TOML configuration file.
//
// Configuration only seeds defaults: every value can still be overridden
// per invocation with CLI flags or API parameters. A missing config file
// is not an error.
package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/venviro/chartkit/pkg/cache"
	"github.com/venviro/chartkit/pkg/errors"
)

// Duration wraps time.Duration so TOML values can be written as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler for TOML decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Config is the full application configuration.
type Config struct {
	Export ExportConfig `toml:"export"`
	Cache  CacheConfig  `toml:"cache"`
	Log    LogConfig    `toml:"log"`
}

// ExportConfig seeds export defaults.
type ExportConfig struct {
	// Dir is the default directory for local exports.
	Dir string `toml:"dir"`
	// DPI is the default output resolution.
	DPI int `toml:"dpi"`
	// Formats are the default output formats.
	Formats []string `toml:"formats"`
	// AppendTimestamp controls the default filename suffix behavior.
	AppendTimestamp bool `toml:"append_timestamp"`
}

// CacheConfig selects and configures the artifact cache backend.
type CacheConfig struct {
	// Backend is one of: none, file, redis, mongo.
	Backend string `toml:"backend"`
	// Dir is the file backend's directory. Empty means a chartkit
	// directory under the user cache dir.
	Dir string `toml:"dir"`
	// TTL is how long cached artifacts stay valid.
	TTL Duration `toml:"ttl"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the mongo backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of: debug, info, warn, error.
	Level string `toml:"level"`
}

// Cache backend names.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Export: ExportConfig{
			DPI:             100,
			Formats:         []string{"png"},
			AppendTimestamp: true,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			TTL:     Duration{7 * 24 * time.Hour},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns the standard config file location,
// e.g. ~/.config/chartkit/config.toml on Linux.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "chartkit", "config.toml")
}

// Load reads the TOML file at path on top of the defaults. An empty path
// falls back to DefaultPath, and a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %q", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %q", path)
	}

	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case BackendNone, BackendFile, BackendRedis, BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid cache backend %q (must be one of: none, file, redis, mongo)", c.Cache.Backend)
	}
	if c.Export.DPI <= 0 {
		return errors.New(errors.ErrCodeInvalidResolution, "export dpi must be positive, got %d", c.Export.DPI)
	}
	return nil
}

// CacheDir resolves the file backend directory, defaulting to a chartkit
// directory under the user cache dir.
func (c CacheConfig) CacheDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".chartkit-cache"
	}
	return filepath.Join(dir, "chartkit")
}

// OpenCache constructs the configured cache backend.
func OpenCache(ctx context.Context, c CacheConfig) (cache.Cache, error) {
	switch c.Backend {
	case BackendNone, "":
		return cache.NewNullCache(), nil
	case BackendFile:
		return cache.NewFileCache(c.CacheDir())
	case BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
		})
	case BackendMongo:
		return cache.NewMongoCache(ctx, cache.MongoOptions{
			URI:        c.Mongo.URI,
			Database:   c.Mongo.Database,
			Collection: c.Mongo.Collection,
		})
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "invalid cache backend %q", c.Backend)
	}
}
