// Package config provides centralized configuration management for the
// application. It loads configuration from environment variables with
// sensible defaults and validates all settings on startup to fail fast
// on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Session  SessionConfig
	Storage  StorageConfig
	Mail     MailConfig
	Rate     RateLimitConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Real-IP / X-Forwarded-For headers are honored
	TrustedProxies []string `env:"TRUSTED_PROXIES"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL" required:"true"`

	// MaxConns is the maximum number of connections in the pool (default: 20)
	MaxConns int `env:"DB_MAX_CONNS" default:"20"`

	// MinConns is the minimum number of connections to keep open (default: 4)
	MinConns int `env:"DB_MIN_CONNS" default:"4"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// SessionConfig holds login session settings.
type SessionConfig struct {
	// CookieName is the name of the session cookie (default: clubhouse_session)
	CookieName string `env:"SESSION_COOKIE_NAME" default:"clubhouse_session"`

	// TTL is how long a session stays valid (default: 720h, 30 days)
	TTL time.Duration `env:"SESSION_TTL" default:"720h"`

	// SecureCookie marks the cookie Secure; disable only for local HTTP (default: true)
	SecureCookie bool `env:"SESSION_SECURE_COOKIE" default:"true"`
}

// StorageConfig holds file storage settings for the shared file repository
// and player documents.
type StorageConfig struct {
	// UploadDir is the directory where uploaded files are stored (default: uploads)
	UploadDir string `env:"STORAGE_UPLOAD_DIR" default:"uploads"`

	// MaxFileSize is the maximum allowed upload size in bytes (default: 25MB)
	MaxFileSize int64 `env:"STORAGE_MAX_FILE_SIZE" default:"26214400"`

	// AllowedExtensions is the comma-separated allowlist for player documents
	AllowedExtensions []string `env:"STORAGE_ALLOWED_EXTENSIONS" default:"pdf,png,jpg,jpeg,doc,docx"`
}

// MailConfig holds outbound SMTP settings for password reset mail.
type MailConfig struct {
	// Enabled controls whether mail is sent at all (default: false)
	Enabled bool `env:"MAIL_ENABLED" default:"false"`

	// Host is the SMTP server host
	Host string `env:"MAIL_HOST"`

	// Port is the SMTP server port (default: 587)
	Port int `env:"MAIL_PORT" default:"587"`

	// Username authenticates against the SMTP server
	Username string `env:"MAIL_USERNAME"`

	// Password authenticates against the SMTP server
	Password string `env:"MAIL_PASSWORD"`

	// From is the sender address on outbound mail
	From string `env:"MAIL_FROM"`

	// BaseURL is the public URL used to build reset links
	BaseURL string `env:"MAIL_BASE_URL" default:"http://localhost:8080"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
