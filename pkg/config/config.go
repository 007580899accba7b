// ABOUTME: Configuration management for the application with YAML file and environment variable support
// ABOUTME: Defines configuration structures for server, icon discovery, cache, logging and rate limiting

package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported cache backends
const (
	CacheTypeMemory = "memory"
	CacheTypeRedis  = "redis"
	CacheTypeSQLite = "sqlite"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// Config holds all application configuration
type Config struct {
	// Server contains HTTP server configuration
	Server ServerConfig `yaml:"server"`

	// Icons contains icon discovery limits and domain mapping
	Icons IconsConfig `yaml:"icons"`

	// Cache contains cache configuration
	Cache CacheConfig `yaml:"cache"`

	// Log contains logging configuration
	Log LogConfig `yaml:"log"`

	// RateLimit contains per-client rate limiting configuration
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	// Port is the HTTP server port
	Port string `yaml:"port"`
}

// IconsConfig holds the limits applied to every icon lookup
type IconsConfig struct {
	// Timeout bounds each fetch including its redirects
	Timeout time.Duration `yaml:"timeout"`

	MaxRedirects     int   `yaml:"max_redirects"`
	MaxCandidates    int   `yaml:"max_candidates"`
	MaxLinks         int   `yaml:"max_links"`
	MaxResponseBytes int64 `yaml:"max_response_bytes"`

	// DomainMapping sends lookups for one host to another domain
	DomainMapping map[string]string `yaml:"domain_mapping"`
}

// CacheConfig holds cache backend configuration
type CacheConfig struct {
	// Type specifies the cache backend (memory/redis/sqlite)
	Type string `yaml:"type"`

	// Enabled turns caching of lookups on or off
	Enabled bool `yaml:"enabled"`

	// Hours is how long found icons and misses are kept
	Hours int `yaml:"hours"`

	// Redis contains Redis-specific configuration
	Redis RedisConfig `yaml:"redis"`

	// SQLite contains SQLite-specific configuration
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Address is the Redis server address
	Address string `yaml:"address"`

	// Password is the Redis authentication password
	Password string `yaml:"password"`

	// DB is the Redis database number
	DB int `yaml:"db"`

	// KeyPrefix namespaces every key written by this service
	KeyPrefix string `yaml:"key_prefix"`
}

// SQLiteConfig holds SQLite-specific configuration
type SQLiteConfig struct {
	// Path is the database file
	Path string `yaml:"path"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`

	// Format is text or json
	Format string `yaml:"format"`

	// File, when set, receives logs through a rotating writer instead of stderr
	File string `yaml:"file"`
}

// RateLimitConfig holds per-client rate limiting configuration
type RateLimitConfig struct {
	// Requests allowed per Window; zero disables limiting
	Requests int `yaml:"requests"`

	Window time.Duration `yaml:"window"`
}

// Default returns the configuration used when nothing is overridden
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
		},
		Icons: IconsConfig{
			Timeout:          20 * time.Second,
			MaxRedirects:     2,
			MaxCandidates:    10,
			MaxLinks:         200,
			MaxResponseBytes: 5_000_000,
		},
		Cache: CacheConfig{
			Type:    CacheTypeMemory,
			Enabled: true,
			Hours:   24,
			Redis: RedisConfig{
				Address:   "localhost:6379",
				KeyPrefix: "icons:",
			},
			SQLite: SQLiteConfig{
				Path: "icons_cache.db",
			},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		RateLimit: RateLimitConfig{
			Requests: 100,
			Window:   time.Minute,
		},
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// ICONS_CONFIG_FILE if set, then environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("ICONS_CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// LoadFile builds the configuration from defaults overlaid with a YAML file.
// Environment variables are not consulted.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.mergeFile(path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		if os.IsNotExist(err) {
			return ErrConfigNotFound
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() {
	c.Server.Port = getEnvOrDefault("PORT", c.Server.Port)

	c.Icons.Timeout = getEnvAsDurationOrDefault("ICONS_TIMEOUT", c.Icons.Timeout)
	c.Icons.MaxRedirects = getEnvAsIntOrDefault("ICONS_MAX_REDIRECTS", c.Icons.MaxRedirects)
	c.Icons.MaxCandidates = getEnvAsIntOrDefault("ICONS_MAX_CANDIDATES", c.Icons.MaxCandidates)
	c.Icons.MaxLinks = getEnvAsIntOrDefault("ICONS_MAX_LINKS", c.Icons.MaxLinks)
	c.Icons.MaxResponseBytes = getEnvAsInt64OrDefault("ICONS_MAX_RESPONSE_BYTES", c.Icons.MaxResponseBytes)

	c.Cache.Type = strings.ToLower(getEnvOrDefault("CACHE_TYPE", c.Cache.Type))
	c.Cache.Enabled = getEnvAsBoolOrDefault("CACHE_ENABLED", c.Cache.Enabled)
	c.Cache.Hours = getEnvAsIntOrDefault("CACHE_HOURS", c.Cache.Hours)
	c.Cache.Redis.Address = getEnvOrDefault("REDIS_ADDRESS", c.Cache.Redis.Address)
	c.Cache.Redis.Password = getEnvOrDefault("REDIS_PASSWORD", c.Cache.Redis.Password)
	c.Cache.Redis.DB = getEnvAsIntOrDefault("REDIS_DB", c.Cache.Redis.DB)
	c.Cache.Redis.KeyPrefix = getEnvOrDefault("REDIS_KEY_PREFIX", c.Cache.Redis.KeyPrefix)
	c.Cache.SQLite.Path = getEnvOrDefault("SQLITE_PATH", c.Cache.SQLite.Path)

	c.Log.Level = getEnvOrDefault("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnvOrDefault("LOG_FORMAT", c.Log.Format)
	c.Log.File = getEnvOrDefault("LOG_FILE", c.Log.File)

	c.RateLimit.Requests = getEnvAsIntOrDefault("RATE_LIMIT", c.RateLimit.Requests)
	c.RateLimit.Window = getEnvAsDurationOrDefault("RATE_WINDOW", c.RateLimit.Window)
}

// getEnvOrDefault returns the environment variable value or a default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the environment variable as int or a default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvAsDurationOrDefault accepts Go durations ("20s") or whole seconds ("20")
func getEnvAsDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}
	return defaultValue
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return errors.New("port cannot be empty")
	}

	if c.Icons.Timeout <= 0 {
		return errors.New("icon fetch timeout must be positive")
	}
	if c.Icons.MaxRedirects < 0 {
		return errors.New("max redirects cannot be negative")
	}
	if c.Icons.MaxCandidates < 1 {
		return errors.New("max candidates must be at least 1")
	}
	if c.Icons.MaxLinks < 1 {
		return errors.New("max links must be at least 1")
	}
	if c.Icons.MaxResponseBytes < 1 {
		return errors.New("max response bytes must be at least 1")
	}
	for from, to := range c.Icons.DomainMapping {
		if from == "" || to == "" {
			return errors.New("domain mapping entries cannot be empty")
		}
	}

	switch c.Cache.Type {
	case CacheTypeMemory, CacheTypeRedis, CacheTypeSQLite:
	default:
		return errors.New("cache type must be 'memory', 'redis' or 'sqlite'")
	}
	if c.Cache.Hours < 1 {
		return errors.New("cache hours must be at least 1")
	}
	if c.Cache.Type == CacheTypeRedis && c.Cache.Redis.Address == "" {
		return errors.New("redis address cannot be empty when using redis cache")
	}
	if c.Cache.Type == CacheTypeSQLite && c.Cache.SQLite.Path == "" {
		return errors.New("sqlite path cannot be empty when using sqlite cache")
	}

	if c.RateLimit.Requests < 0 {
		return errors.New("rate limit cannot be negative")
	}
	if c.RateLimit.Requests > 0 && c.RateLimit.Window <= 0 {
		return errors.New("rate window must be positive when rate limiting is enabled")
	}

	return nil
}
