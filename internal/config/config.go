// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"

	"github.com/JonMunkholm/cleanmind/internal/core"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Backend  BackendConfig
	Server   ServerConfig
	Upload   UploadConfig
	Notify   NotifyConfig
	Session  SessionConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
	Cleaning CleaningConfig
}

// BackendConfig holds settings for the remote cleaning service.
type BackendConfig struct {
	// URL is the base URL of the cleaning backend (default: http://127.0.0.1:8000)
	URL string `env:"BACKEND_URL" envAlt:"API_BASE_URL" default:"http://127.0.0.1:8000"`

	// Timeout bounds a single backend request; 0 disables it (default: 0s)
	Timeout time.Duration `env:"BACKEND_TIMEOUT" default:"0s"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 0 for SSE)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"0s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests; 0 disables it (default: 0s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"0s"`
}

// UploadConfig holds file upload settings.
type UploadConfig struct {
	// MaxFileSize is the maximum allowed file size in bytes (default: 100MB)
	MaxFileSize int64 `env:"UPLOAD_MAX_FILE_SIZE" default:"104857600"`
}

// NotifyConfig holds notification channel settings.
type NotifyConfig struct {
	// Duration is how long a notification stays visible (default: 3s)
	Duration time.Duration `env:"NOTIFY_DURATION" default:"3s"`
}

// SessionConfig holds browser session settings.
type SessionConfig struct {
	// TTL is how long an idle browser session is kept (default: 1h)
	TTL time.Duration `env:"SESSION_TTL" default:"1h"`

	// CleanupInterval is how often expired sessions are purged (default: 10m)
	CleanupInterval time.Duration `env:"SESSION_CLEANUP_INTERVAL" default:"10m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey enables X-API-Key checks on /api routes (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`

	// File optionally mirrors logs to a rotated file
	File string `env:"LOG_FILE"`
}

// CleaningConfig holds the options sent with the clean call.
type CleaningConfig struct {
	// SendOptions sends the options below as the clean request body (default: false)
	SendOptions bool `env:"CLEAN_SEND_OPTIONS" default:"false"`

	DropDuplicates   bool    `env:"CLEAN_DROP_DUPLICATES" default:"true"`
	ImputeMissing    bool    `env:"CLEAN_IMPUTE_MISSING" default:"true"`
	ImputeStrategy   string  `env:"CLEAN_IMPUTE_STRATEGY" default:"median"`
	RemoveOutliers   bool    `env:"CLEAN_REMOVE_OUTLIERS" default:"true"`
	OutlierThreshold float64 `env:"CLEAN_OUTLIER_ZSCORE" default:"3"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Options returns the cleaning options to send with the clean call, or nil
// when the backend defaults should apply.
func (c *CleaningConfig) Options() *core.CleaningOptions {
	if !c.SendOptions {
		return nil
	}
	return &core.CleaningOptions{
		DropDuplicates:         c.DropDuplicates,
		ImputeMissing:          c.ImputeMissing,
		ImputeStrategy:         core.ImputeStrategy(c.ImputeStrategy),
		RemoveOutliers:         c.RemoveOutliers,
		OutlierZScoreThreshold: c.OutlierThreshold,
	}
}
