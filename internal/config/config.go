// Package config handles loading application configuration from environment
// variables. All config is centralized here so no other package reads env
// vars directly. Sensible defaults are provided for development.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// EnvTest is the deployment mode that isolates test fixtures from real
// data. Any other APP_ENV value (including unset) selects normal mode.
const EnvTest = "test"

// Config holds all application configuration. Populated from environment
// variables at startup. Passed to other packages via dependency injection.
type Config struct {
	// Env is the deployment mode: "test" or "normal".
	Env string

	// Port is the HTTP listen port (default: 8080).
	Port int

	// BaseURL is the public-facing URL used for links and redirects.
	BaseURL string

	// Storage holds document and credential file locations.
	Storage StorageConfig

	// Redis holds Redis connection settings.
	Redis RedisConfig

	// Session holds session cookie and lifetime settings.
	Session SessionConfig
}

// StorageConfig holds the filesystem roots the server reads and writes.
// Both paths are derived from the deployment mode so test runs never touch
// real documents, but each can be overridden independently for container
// deployments with mounted volumes.
type StorageConfig struct {
	// DataRoot is the directory holding the document files.
	DataRoot string

	// CredentialsPath is the YAML file mapping usernames to password hashes.
	CredentialsPath string
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	// URL is the Redis connection URL (e.g., "redis://localhost:6379").
	URL string
}

// SessionConfig holds session settings.
type SessionConfig struct {
	// TTL is how long idle sessions survive in Redis.
	TTL time.Duration
}

// Load reads configuration from environment variables with sensible
// defaults. The deployment mode is fixed for the process lifetime; the
// storage roots it selects are never re-evaluated after startup.
func Load() (*Config, error) {
	env := normalizeEnv(getEnv("APP_ENV", "normal"))

	cfg := &Config{
		Env:     env,
		Port:    getEnvInt("PORT", 8080),
		BaseURL: getEnv("BASE_URL", "http://localhost:8080"),

		Storage: StorageConfig{
			DataRoot:        getEnv("DATA_PATH", defaultDataRoot(env)),
			CredentialsPath: getEnv("CREDENTIALS_PATH", defaultCredentialsPath(env)),
		},

		Redis: RedisConfig{
			URL: getEnv("REDIS_URL", "redis://localhost:6379"),
		},

		Session: SessionConfig{
			TTL: getEnvDuration("SESSION_TTL", 720*time.Hour),
		},
	}

	return cfg, nil
}

// IsTest returns true when running in the test deployment mode.
func (c *Config) IsTest() bool {
	return c.Env == EnvTest
}

// normalizeEnv collapses unrecognized modes to "normal". Only "test" is
// meaningful; everything else behaves identically.
func normalizeEnv(env string) string {
	if env == EnvTest {
		return EnvTest
	}
	return "normal"
}

// defaultDataRoot returns the document directory for the given mode.
func defaultDataRoot(env string) string {
	if env == EnvTest {
		return filepath.Join("test", "data")
	}
	return "data"
}

// defaultCredentialsPath returns the credentials file for the given mode.
func defaultCredentialsPath(env string) string {
	if env == EnvTest {
		return filepath.Join("test", "users.yml")
	}
	return "users.yml"
}

// --- Helper functions for reading environment variables ---

// getEnv reads a string env var or returns the default.
func getEnv(key, defaultVal string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return defaultVal
}

// getEnvInt reads an integer env var or returns the default.
func getEnvInt(key string, defaultVal int) int {
	if val, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

// getEnvDuration reads a duration env var (e.g., "720h") or returns the default.
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
