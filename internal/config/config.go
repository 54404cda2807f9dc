// Package config loads the YAML configuration of the fred command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Cache drivers.
const (
	DriverNone   = "none"
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Config holds all fred command configuration.
type Config struct {
	APIKey  string        `yaml:"api_key"`
	BaseURL string        `yaml:"base_url"`
	Timeout string        `yaml:"timeout"`
	Cache   CacheConfig   `yaml:"cache"`
	Logging LoggingConfig `yaml:"logging"`
}

// CacheConfig selects where raw API responses are kept.
type CacheConfig struct {
	Driver string      `yaml:"driver"` // none, memory, sqlite, redis
	Path   string      `yaml:"path"`   // sqlite database file
	TTL    string      `yaml:"ttl"`
	Redis  RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis cache driver.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// LoggingConfig configures the command logger.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		BaseURL: "https://api.stlouisfed.org",
		Timeout: "15s",
		Cache: CacheConfig{
			Driver: DriverSQLite,
			Path:   defaultCachePath(),
			TTL:    "24h",
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "gofred:",
			},
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// DefaultPath returns the configuration file read when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "gofred.yaml"
	}
	return filepath.Join(dir, "gofred", "config.yaml")
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(".gofred", "cache.db")
	}
	return filepath.Join(dir, "gofred", "cache.db")
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment variables override values from the file.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory if needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	// The file may hold an API key.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	if key := os.Getenv("FRED_API_KEY"); key != "" {
		c.APIKey = key
	}
	if url := os.Getenv("FRED_BASE_URL"); url != "" {
		c.BaseURL = url
	}
	if driver := os.Getenv("FRED_CACHE_DRIVER"); driver != "" {
		c.Cache.Driver = driver
	}
	if path := os.Getenv("FRED_CACHE_PATH"); path != "" {
		c.Cache.Path = path
	}
	if addr := os.Getenv("FRED_REDIS_ADDR"); addr != "" {
		c.Cache.Redis.Addr = addr
	}
	if db := os.Getenv("FRED_REDIS_DB"); db != "" {
		n, err := strconv.Atoi(db)
		if err != nil {
			return fmt.Errorf("FRED_REDIS_DB: %w", err)
		}
		c.Cache.Redis.DB = n
	}
	return nil
}

// Validate reports configuration values that cannot be used.
func (c *Config) Validate() error {
	switch c.Cache.Driver {
	case DriverNone, DriverMemory, DriverRedis:
	case DriverSQLite:
		if c.Cache.Path == "" {
			return fmt.Errorf("cache driver sqlite requires a path")
		}
	default:
		return fmt.Errorf("unknown cache driver %q", c.Cache.Driver)
	}
	if _, err := parseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if _, err := parseDuration(c.Cache.TTL); err != nil {
		return fmt.Errorf("invalid cache ttl: %w", err)
	}
	return nil
}

func parseDuration(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	return time.ParseDuration(s)
}

// GetTimeout returns the HTTP timeout, 15s when unset or invalid.
func (c *Config) GetTimeout() time.Duration {
	d, err := parseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// GetCacheTTL returns how long cached responses stay valid. Zero means forever.
func (c *Config) GetCacheTTL() time.Duration {
	d, err := parseDuration(c.Cache.TTL)
	if err != nil || d < 0 {
		return 0
	}
	return d
}
