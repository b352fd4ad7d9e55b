// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

// Package api assembles the edge HTTP surface: the chi router, the auth
// handlers, the proxied resource mounts, and the page routes behind the
// request gate.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/flotilla-app/flotilla/internal/config"
	"github.com/flotilla-app/flotilla/internal/envelope"
)

// ChiMiddleware provides chi-compatible middleware factories built from the
// loaded configuration.
type ChiMiddleware struct {
	cfg  *config.Config
	cors func(http.Handler) http.Handler
}

// NewChiMiddleware builds the middleware factories. CORS origins default to
// empty, which blocks cross-origin browsers until explicitly configured.
func NewChiMiddleware(cfg *config.Config) *ChiMiddleware {
	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           86400,
	})

	return &ChiMiddleware{cfg: cfg, cors: corsHandler}
}

// CORS returns the CORS middleware.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit returns the general per-IP API rate limiter.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limiter(m.cfg.RateLimit.Requests, m.cfg.RateLimit.Window)
}

// RateLimitLogin returns the stricter per-IP limiter for credential
// endpoints (brute force prevention).
func (m *ChiMiddleware) RateLimitLogin() func(http.Handler) http.Handler {
	return m.limiter(m.cfg.RateLimit.LoginRequests, m.cfg.RateLimit.LoginWindow)
}

func (m *ChiMiddleware) limiter(requests int, window time.Duration) func(http.Handler) http.Handler {
	if m.cfg.RateLimit.Disabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		requests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			envelope.WriteError(w, http.StatusTooManyRequests, "too many requests")
		}),
	)
}
