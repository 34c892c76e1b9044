// Package config loads service configuration from the environment.
// A local .env file is honoured for development; real deployments set
// the variables directly.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings, grouped by concern.
type Config struct {
	Service   ServiceConfig
	Logging   LoggingConfig
	Database  DatabaseConfig
	Session   SessionConfig
	Auth      AuthConfig
	Tracing   TracingConfig
	Profiling ProfilingConfig
	Shutdown  ShutdownConfig
}

type ServiceConfig struct {
	Name    string
	Version string
	Env     string
	Port    string
}

type LoggingConfig struct {
	Level string
}

type DatabaseConfig struct {
	URL string
	// PoolSize bounds concurrent connections; requests beyond the bound
	// queue inside pgxpool instead of opening new connections.
	PoolSize        int
	ConnectAttempts int
	ConnectBackoff  time.Duration
	QueryTimeout    time.Duration
}

type SessionConfig struct {
	// Secret signs session tokens. Required; there is no fallback value.
	Secret     string
	CookieName string
	TTL        time.Duration
	// CookieSecure should be true everywhere except plain-HTTP development.
	CookieSecure bool
}

type AuthConfig struct {
	BcryptCost int
}

type TracingConfig struct {
	Enabled    bool
	Endpoint   string
	SampleRate float64
}

type ProfilingConfig struct {
	Enabled  bool
	Endpoint string
}

type ShutdownConfig struct {
	Timeout             time.Duration
	ReadinessDrainDelay time.Duration
}

// minSecretLen is the minimum accepted session secret length in bytes.
const minSecretLen = 32

// Load reads configuration from the environment, applying defaults for
// everything except credentials. Call Validate before using the result.
func Load() *Config {
	// Best effort; absence of a .env file is the normal production case.
	_ = godotenv.Load()

	return &Config{
		Service: ServiceConfig{
			Name:    getEnv("SERVICE_NAME", "kitebank-backend"),
			Version: getEnv("SERVICE_VERSION", "dev"),
			Env:     getEnv("SERVICE_ENV", "development"),
			Port:    getEnv("PORT", "3000"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			URL:             os.Getenv("DATABASE_URL"),
			PoolSize:        getEnvInt("DB_POOL_SIZE", 10),
			ConnectAttempts: getEnvInt("DB_CONNECT_ATTEMPTS", 10),
			ConnectBackoff:  getEnvDuration("DB_CONNECT_BACKOFF", 2*time.Second),
			QueryTimeout:    getEnvDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		},
		Session: SessionConfig{
			Secret:       os.Getenv("SESSION_SECRET"),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "kb_session"),
			TTL:          getEnvDuration("SESSION_TTL", 2*time.Hour),
			CookieSecure: getEnvBool("SESSION_COOKIE_SECURE", false),
		},
		Auth: AuthConfig{
			BcryptCost: getEnvInt("BCRYPT_COST", 10),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvBool("TRACING_ENABLED", false),
			Endpoint:   getEnv("TRACING_ENDPOINT", "localhost:4318"),
			SampleRate: getEnvFloat("TRACING_SAMPLE_RATE", 1.0),
		},
		Profiling: ProfilingConfig{
			Enabled:  getEnvBool("PROFILING_ENABLED", false),
			Endpoint: getEnv("PROFILING_ENDPOINT", "http://localhost:4040"),
		},
		Shutdown: ShutdownConfig{
			Timeout:             getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			ReadinessDrainDelay: getEnvDuration("READINESS_DRAIN_DELAY", 0),
		},
	}
}

// Validate fails closed: the service refuses to start without a database
// URL and a sufficiently long session secret.
func (c *Config) Validate() error {
	if c.Database.URL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.Session.Secret == "" {
		return errors.New("SESSION_SECRET is required")
	}
	if len(c.Session.Secret) < minSecretLen {
		return fmt.Errorf("SESSION_SECRET must be at least %d bytes", minSecretLen)
	}
	if c.Session.TTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	if c.Database.PoolSize < 1 {
		return errors.New("DB_POOL_SIZE must be at least 1")
	}
	if c.Auth.BcryptCost < 4 || c.Auth.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST %d out of range", c.Auth.BcryptCost)
	}
	return nil
}

// GetShutdownTimeoutDuration returns the HTTP server shutdown deadline.
func (c *Config) GetShutdownTimeoutDuration() time.Duration {
	return c.Shutdown.Timeout
}

// GetReadinessDrainDelayDuration returns how long to keep serving after
// the readiness probe starts failing.
func (c *Config) GetReadinessDrainDelayDuration() time.Duration {
	return c.Shutdown.ReadinessDrainDelay
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
