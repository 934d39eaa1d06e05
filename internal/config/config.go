package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
// It is the single source of truth for runtime parameters.
type Config struct {
	Port string
	Env  string

	Purchase PurchaseConfig
	Redis    RedisConfig
	Worker   WorkerConfig
	HTTP     HTTPConfig
	Metrics  MetricsConfig
}

// PurchaseConfig contains purchase engine parameters.
type PurchaseConfig struct {
	ProcessingDelay time.Duration
	SessionIdleTTL  time.Duration
}

// RedisConfig contains Redis connection parameters. An empty Host disables
// the transaction publisher.
type RedisConfig struct {
	Host               string
	Port               string
	Password           string
	DB                 int
	TransactionChannel string
}

// Enabled reports whether a Redis host is configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// WorkerConfig contains interval configuration for background workers.
type WorkerConfig struct {
	SessionSweepInterval time.Duration
}

// HTTPConfig contains transport-level settings.
type HTTPConfig struct {
	AllowedHosts       []string
	SessionCreateLimit int
}

// MetricsConfig toggles the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool
}

// IsProduction reports whether ENV is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load reads configuration from environment variables. If a .env file exists
// in the working directory, it will be loaded first. It returns a populated
// Config or an error with a human-friendly message.
func Load() (*Config, error) {
	// Load .env if present; ignore error if file is missing so that production
	// environments relying solely on real environment variables keep working.
	_ = godotenv.Load()

	cfg := &Config{}

	// Server
	cfg.Port = getEnv("PORT", "8080")
	cfg.Env = getEnv("ENV", "development")

	// Redis
	cfg.Redis = RedisConfig{
		Host:               getEnv("REDIS_HOST", ""),
		Port:               getEnv("REDIS_PORT", "6379"),
		Password:           getEnv("REDIS_PASSWORD", ""),
		DB:                 getEnvInt("REDIS_DB", 0),
		TransactionChannel: getEnv("REDIS_TRANSACTION_CHANNEL", "smartdev:transactions"),
	}

	// HTTP
	cfg.HTTP = HTTPConfig{
		AllowedHosts:       splitList(getEnv("CORS_ALLOWED_HOSTS", "smartdev.ng,localhost")),
		SessionCreateLimit: getEnvInt("SESSION_CREATE_LIMIT", 30),
	}

	cfg.Metrics = MetricsConfig{
		Enabled: getEnvBool("METRICS_ENABLED", true),
	}

	// Durations
	var err error
	if cfg.Purchase.ProcessingDelay, err = parseDurationEnv("PROCESSING_DELAY", "900ms"); err != nil {
		return nil, fmt.Errorf("invalid PROCESSING_DELAY: %w", err)
	}
	if cfg.Purchase.SessionIdleTTL, err = parseDurationEnv("SESSION_IDLE_TTL", "30m"); err != nil {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TTL: %w", err)
	}
	if cfg.Worker.SessionSweepInterval, err = parseDurationEnv("SESSION_SWEEP_INTERVAL", "1m"); err != nil {
		return nil, fmt.Errorf("invalid SESSION_SWEEP_INTERVAL: %w", err)
	}

	if cfg.Purchase.SessionIdleTTL == 0 {
		return nil, errors.New("SESSION_IDLE_TTL must be greater than zero")
	}
	if cfg.Worker.SessionSweepInterval == 0 {
		return nil, errors.New("SESSION_SWEEP_INTERVAL must be greater than zero")
	}
	if cfg.HTTP.SessionCreateLimit <= 0 {
		return nil, errors.New("SESSION_CREATE_LIMIT must be greater than zero")
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default if empty.
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt returns the value of an environment variable as an integer or a default if empty/invalid.
func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return i
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// parseDurationEnv reads an environment variable and parses it as time.Duration.
// If the variable is empty, it falls back to the provided default value.
func parseDurationEnv(key, def string) (time.Duration, error) {
	raw := getEnv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration must be >= 0")
	}
	return d, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
