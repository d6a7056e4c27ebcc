package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level structure of the YAML configuration file.
type Config struct {
	Backend  string        `yaml:"backend"` // memory | file | sqlite | redis
	LogLevel string        `yaml:"log_level"`
	TTL      time.Duration `yaml:"ttl"` // idle session lifetime, 0 disables eviction
	File     FileConfig    `yaml:"file"`
	SQLite   SQLiteConfig  `yaml:"sqlite"`
	Redis    RedisConfig   `yaml:"redis"`
}

// FileConfig configures the file backend.
type FileConfig struct {
	Dir string `yaml:"dir"`
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr      string `yaml:"addr"` // host:port or redis:// URI
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// DefaultConfig returns a Config populated with sensible defaults. Data
// lives under ~/.resume-session unless the home directory is unknown.
func DefaultConfig() *Config {
	base := ".resume-session"
	if home, err := os.UserHomeDir(); err == nil {
		base = filepath.Join(home, ".resume-session")
	}
	return &Config{
		Backend:  BackendSQLite,
		LogLevel: "warn",
		File:     FileConfig{Dir: filepath.Join(base, "sessions")},
		SQLite:   SQLiteConfig{Path: filepath.Join(base, "sessions.db")},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: defaultRedisKeyPrefix,
		},
	}
}

// LoadConfig reads path over the defaults and applies environment overrides.
// An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &ParseError{Source: "config", Key: path, Err: err}
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if _, err := ParseLogLevel(cfg.LogLevel); err != nil {
		return nil, &ParseError{Source: "config", Key: "log_level", Err: err}
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	c.Backend = getEnv("RESUME_SESSION_BACKEND", c.Backend)
	c.LogLevel = getEnv("RESUME_SESSION_LOG_LEVEL", c.LogLevel)
	c.File.Dir = getEnv("RESUME_SESSION_FILE_DIR", c.File.Dir)
	c.SQLite.Path = getEnv("RESUME_SESSION_SQLITE_PATH", c.SQLite.Path)
	c.Redis.Addr = getEnv("RESUME_SESSION_REDIS_URI", getEnv("REDIS_URI", c.Redis.Addr))
	c.Redis.Password = getEnv("RESUME_SESSION_REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("RESUME_SESSION_REDIS_DB", c.Redis.DB)

	if v := os.Getenv("RESUME_SESSION_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return &ParseError{Source: "config", Key: "RESUME_SESSION_TTL", Err: err}
		}
		c.TTL = ttl
	}
	return nil
}

// WriteConfig writes cfg to path, creating the parent directory.
func WriteConfig(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// StoreOptions translates the config into Store options.
func (c *Config) StoreOptions() []StoreOption {
	if c.TTL > 0 {
		return []StoreOption{WithTTL(c.TTL)}
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
