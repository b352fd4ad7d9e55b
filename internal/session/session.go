// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

// Package session reads and writes the single HttpOnly session cookie
// carrying the backend-issued bearer token. The token is opaque to the
// edge tier: it is never parsed, never validated locally, and never
// surfaces in URLs or response bodies.
package session

import (
	"net/http"
	"time"
)

// Config holds the session cookie attributes.
type Config struct {
	// CookieName is the cookie name. The browser UI expects "token".
	CookieName string

	// TTL is the cookie lifetime from issuance.
	TTL time.Duration

	// Secure sets the Secure attribute; enabled in production-like
	// environments where the origin is served over TLS.
	Secure bool
}

// DefaultConfig returns the cookie attributes the fleet UI relies on.
func DefaultConfig() Config {
	return Config{
		CookieName: "token",
		TTL:        24 * time.Hour,
		Secure:     false,
	}
}

// Accessor reads and writes the session credential cookie. It carries no
// per-request state; a single instance is shared by all handlers.
type Accessor struct {
	cfg Config
}

// NewAccessor creates an Accessor, filling zero-value fields from
// DefaultConfig.
func NewAccessor(cfg Config) *Accessor {
	def := DefaultConfig()
	if cfg.CookieName == "" {
		cfg.CookieName = def.CookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = def.TTL
	}
	return &Accessor{cfg: cfg}
}

// Read returns the current session credential, or "" when the cookie is
// absent. Presence is the only thing checked here; an expired or revoked
// token is discovered by the backend on the next proxied call.
func (a *Accessor) Read(r *http.Request) string {
	cookie, err := r.Cookie(a.cfg.CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Issue sets the session cookie with the configured attributes: HttpOnly,
// SameSite strict, whole-origin path, MaxAge from the configured TTL.
func (a *Accessor) Issue(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   a.cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear expires the session cookie. There is no logout endpoint; this is
// used when a proxied call learns from the backend that the credential is
// no longer valid, so the browser stops presenting a dead token.
func (a *Accessor) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.cfg.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// CookieName returns the configured cookie name.
func (a *Accessor) CookieName() string {
	return a.cfg.CookieName
}
