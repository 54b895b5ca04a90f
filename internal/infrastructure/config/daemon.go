package config

import "time"

// DaemonConfig holds daemon (owner context) configuration
type DaemonConfig struct {
	// Listen address of the websocket gateway (host:port)
	Address string `mapstructure:"address" validate:"required"`

	// PID file location for single-instance enforcement
	PIDFile string `mapstructure:"pid_file"`

	// Per-connection request rate limit
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`
}

// RateLimitConfig holds the token-bucket settings applied to each reader
// connection.
type RateLimitConfig struct {
	Requests float64 `mapstructure:"requests" validate:"min=0"`
	Burst    int     `mapstructure:"burst" validate:"min=0"`
}
