// Package api serves the tickwatch JSON API over the application controller.
package api

import (
	"time"

	"github.com/tphakala/tickwatch/internal/conf"
	"github.com/tphakala/tickwatch/internal/logger"
)

// GetLogger returns the api package logger.
func GetLogger() logger.Logger {
	return logger.Global().Module("api")
}

// Default constants for the HTTP server.
const (
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
	DefaultCacheTTL        = 30 * time.Second

	// DefaultBodyLimit covers a report form; images are not uploaded.
	DefaultBodyLimit = "1M"
)

// Config holds the HTTP server configuration.
type Config struct {
	Listen          string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	BodyLimit       string
	CacheTTL        time.Duration // filtered view cache, 0 disables
	Metrics         bool          // expose /metrics
}

// ConfigFromSettings creates a server Config from settings.
func ConfigFromSettings(settings *conf.Settings) *Config {
	return &Config{
		Listen:          settings.WebServer.Listen,
		ReadTimeout:     DefaultReadTimeout,
		WriteTimeout:    DefaultWriteTimeout,
		IdleTimeout:     DefaultIdleTimeout,
		ShutdownTimeout: DefaultShutdownTimeout,
		BodyLimit:       DefaultBodyLimit,
		CacheTTL:        settings.WebServer.CacheTTL,
		Metrics:         settings.WebServer.Metrics,
	}
}
