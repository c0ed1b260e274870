package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Backend  BackendConfig
	Payment  PaymentConfig
	Notify   NotifyConfig
	Logger   LoggerConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// BackendConfig holds settings for the remote hosting backend REST API.
type BackendConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PaymentConfig holds payment-workflow configuration.
type PaymentConfig struct {
	// PublicOrigin is the externally reachable origin of this service,
	// used to build gateway return URLs ({origin}/checkout/{method}-return).
	PublicOrigin    string
	SuccessPath     string
	FailurePath     string
	PollInterval    time.Duration
	PollMaxAttempts int
}

// NotifyConfig holds notification-dispatcher configuration.
type NotifyConfig struct {
	Tick        time.Duration
	BatchSize   int
	MaxAttempts int
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "vpscheckout"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("BACKEND_BASE_URL", ""),
			Timeout: time.Duration(getEnvAsInt("BACKEND_TIMEOUT_MS", 15000)) * time.Millisecond,
		},
		Payment: PaymentConfig{
			PublicOrigin:    getEnv("PAYMENT_PUBLIC_ORIGIN", ""),
			SuccessPath:     getEnv("PAYMENT_SUCCESS_PATH", "/checkout/success"),
			FailurePath:     getEnv("PAYMENT_FAILURE_PATH", "/checkout/failure"),
			PollInterval:    time.Duration(getEnvAsInt("PAYMENT_POLL_INTERVAL_MS", 3000)) * time.Millisecond,
			PollMaxAttempts: getEnvAsInt("PAYMENT_POLL_MAX_ATTEMPTS", 10),
		},
		Notify: NotifyConfig{
			Tick:        time.Duration(getEnvAsInt("NOTIFY_TICK_MS", 2000)) * time.Millisecond,
			BatchSize:   getEnvAsInt("NOTIFY_BATCH_SIZE", 50),
			MaxAttempts: getEnvAsInt("NOTIFY_MAX_ATTEMPTS", 5),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if c.Backend.BaseURL == "" {
		return fmt.Errorf("backend base URL is required")
	}

	if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid backend base URL: %s", c.Backend.BaseURL)
	}

	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend timeout must be positive")
	}

	if c.Payment.PublicOrigin == "" {
		return fmt.Errorf("payment public origin is required")
	}

	if u, err := url.Parse(c.Payment.PublicOrigin); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid payment public origin: %s", c.Payment.PublicOrigin)
	}

	if c.Payment.PollInterval <= 0 {
		return fmt.Errorf("payment poll interval must be positive")
	}

	if c.Payment.PollMaxAttempts < 1 {
		return fmt.Errorf("payment poll max attempts must be at least 1")
	}

	if c.Notify.Tick <= 0 {
		return fmt.Errorf("notify tick must be positive")
	}

	if c.Notify.BatchSize < 1 {
		return fmt.Errorf("notify batch size must be at least 1")
	}

	if c.Notify.MaxAttempts < 1 {
		return fmt.Errorf("notify max attempts must be at least 1")
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
