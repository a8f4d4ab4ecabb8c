package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	API      APIConfig      `yaml:"api"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	History  HistoryConfig  `yaml:"history"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// APIConfig holds Genius API settings.
type APIConfig struct {
	BaseURL           string        `yaml:"base_url"`
	AccessToken       string        `yaml:"access_token"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Timeout           time.Duration `yaml:"timeout"`
}

// DatabaseConfig holds SQLite settings. An empty path disables the cache
// and history stores.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CacheConfig holds artist cache settings. A zero TTL disables the cache.
type CacheConfig struct {
	TTL time.Duration `yaml:"ttl"`
}

// HistoryConfig holds lookup history settings.
type HistoryConfig struct {
	Enabled bool `yaml:"enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	FilePath   string `yaml:"file_path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxFiles   int    `yaml:"max_files"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "https://api.genius.com",
			RequestsPerSecond: 5,
			Timeout:           10 * time.Second,
		},
		Cache: CacheConfig{
			TTL: 24 * time.Hour,
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Logging: LoggingConfig{
			Level:      "warn",
			Format:     "text",
			MaxSizeMB:  10,
			MaxFiles:   3,
			MaxAgeDays: 30,
		},
	}
}

// DefaultPath returns the config file location: GL_CONFIG_PATH if set,
// otherwise config.yaml under the user config directory.
func DefaultPath() string {
	if v := os.Getenv("GL_CONFIG_PATH"); v != "" {
		return v
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "geniuslookup", "config.yaml")
}

// Load reads config from a YAML file (if it exists) and overrides with
// environment variables. Environment variables take precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func (c *Config) loadFromFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path comes from the operator
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) loadFromEnv() error {
	// ACCESS_TOKEN is accepted for scripts written against the plain variable.
	if v := os.Getenv("ACCESS_TOKEN"); v != "" {
		c.API.AccessToken = v
	}
	if v := os.Getenv("GL_ACCESS_TOKEN"); v != "" {
		c.API.AccessToken = v
	}
	if v := os.Getenv("GL_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("GL_REQUESTS_PER_SECOND"); v != "" {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("GL_REQUESTS_PER_SECOND: %w", err)
		}
		c.API.RequestsPerSecond = rps
	}
	if v := os.Getenv("GL_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GL_TIMEOUT: %w", err)
		}
		c.API.Timeout = d
	}
	if v := os.Getenv("GL_DB_PATH"); v != "" {
		c.Database.Path = v
	}
	if v := os.Getenv("GL_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("GL_CACHE_TTL: %w", err)
		}
		c.Cache.TTL = d
	}
	if v := os.Getenv("GL_HISTORY"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("GL_HISTORY: %w", err)
		}
		c.History.Enabled = enabled
	}
	if v := os.Getenv("GL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("GL_LOG_FORMAT"); v != "" {
		c.Logging.Format = v
	}
	if v := os.Getenv("GL_LOG_FILE"); v != "" {
		c.Logging.FilePath = v
	}
	return nil
}

func (c *Config) validate() error {
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base url is required")
	}
	if !strings.HasPrefix(c.API.BaseURL, "http://") && !strings.HasPrefix(c.API.BaseURL, "https://") {
		return fmt.Errorf("api base url must be http or https: %q", c.API.BaseURL)
	}
	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("invalid requests per second: %v", c.API.RequestsPerSecond)
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("invalid timeout: %v", c.API.Timeout)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("invalid cache ttl: %v", c.Cache.TTL)
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxFiles < 0 || c.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("log rotation limits must not be negative")
	}
	c.API.AccessToken = strings.TrimSpace(c.API.AccessToken)
	return nil
}

// CacheEnabled reports whether artist payloads should be cached.
func (c *Config) CacheEnabled() bool {
	return c.Database.Path != "" && c.Cache.TTL > 0
}

// HistoryEnabled reports whether lookup runs should be recorded.
func (c *Config) HistoryEnabled() bool {
	return c.Database.Path != "" && c.History.Enabled
}
