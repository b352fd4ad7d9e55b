// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

// Package config provides layered configuration for the Flotilla edge tier
// using Koanf v2: built-in defaults, then an optional YAML config file, then
// environment variables (highest priority).
package config

import "time"

// Config is the root configuration for the edge server.
type Config struct {
	Backend   BackendConfig   `koanf:"backend"`
	Server    ServerConfig    `koanf:"server"`
	Session   SessionConfig   `koanf:"session"`
	CORS      CORSConfig      `koanf:"cors"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Log       LogConfig       `koanf:"log"`
}

// BackendConfig describes the externally-owned fleet backend API.
type BackendConfig struct {
	// BaseURL is the backend API origin, e.g. https://api.fleet.example.
	// It is the one required external setting.
	BaseURL string `koanf:"base_url"`

	// Timeout bounds each outbound backend call.
	Timeout time.Duration `koanf:"timeout"`

	// RateLimit caps outbound requests per second (0 disables the limiter).
	RateLimit float64 `koanf:"rate_limit"`

	// RateBurst is the outbound limiter burst size.
	RateBurst int `koanf:"rate_burst"`

	Breaker BreakerConfig `koanf:"breaker"`
}

// BreakerConfig tunes the circuit breaker guarding the backend client.
// The breaker never retries; when open, calls fail fast with a transport
// error envelope.
type BreakerConfig struct {
	Enabled bool `koanf:"enabled"`

	// MaxFailures is the consecutive-failure count that opens the circuit.
	MaxFailures uint32 `koanf:"max_failures"`

	// OpenTimeout is how long the circuit stays open before probing.
	OpenTimeout time.Duration `koanf:"open_timeout"`
}

// ServerConfig holds the inbound HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	Environment     string        `koanf:"environment"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// StaticDir is the directory the page shell is served from.
	// Empty serves a built-in placeholder; the rendering layer is
	// maintained outside this repository.
	StaticDir string `koanf:"static_dir"`
}

// SessionConfig holds the session cookie settings.
type SessionConfig struct {
	// CookieName is the session cookie name.
	CookieName string `koanf:"cookie_name"`

	// TTL is the session cookie lifetime.
	TTL time.Duration `koanf:"ttl"`
}

// CORSConfig holds the CORS middleware settings.
type CORSConfig struct {
	AllowedOrigins []string `koanf:"allowed_origins"`
}

// RateLimitConfig holds the inbound rate limit settings.
type RateLimitConfig struct {
	// Requests per Window for general API traffic.
	Requests int           `koanf:"requests"`
	Window   time.Duration `koanf:"window"`

	// LoginRequests per LoginWindow for the login endpoint
	// (brute force prevention).
	LoginRequests int           `koanf:"login_requests"`
	LoginWindow   time.Duration `koanf:"login_window"`

	Disabled bool `koanf:"disabled"`
}

// LogConfig holds the logging settings.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in a production-like
// environment. It controls the Secure attribute on the session cookie.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:   "",
			Timeout:   30 * time.Second,
			RateLimit: 0, // Unlimited
			RateBurst: 1,
			Breaker: BreakerConfig{
				Enabled:     true,
				MaxFailures: 5,
				OpenTimeout: 30 * time.Second,
			},
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            4000,
			Environment:     "development",
			ShutdownTimeout: 10 * time.Second,
			StaticDir:       "",
		},
		Session: SessionConfig{
			CookieName: "token",
			TTL:        24 * time.Hour,
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{},
		},
		RateLimit: RateLimitConfig{
			Requests:      100,
			Window:        time.Minute,
			LoginRequests: 5,
			LoginWindow:   5 * time.Minute,
			Disabled:      false,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}
