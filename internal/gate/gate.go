// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

// Package gate classifies page paths and decides, before any handler body
// runs, whether a request is allowed through or redirected. The decision
// is computed from the path and the mere presence of a session credential;
// the credential is never validated here. Expired or invalid tokens are
// caught later by individual proxy calls.
package gate

import (
	"fmt"
	"net/http"
	"strings"
)

// Decision is the outcome of classifying one request.
type Decision int

const (
	// Allow lets the request through unchanged.
	Allow Decision = iota

	// RedirectToLogin sends an unauthenticated visitor to the public
	// landing path.
	RedirectToLogin

	// RedirectToDashboard sends an already-authenticated visitor away
	// from the landing page.
	RedirectToDashboard
)

// String implements fmt.Stringer for log output.
func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToDashboard:
		return "redirect-to-dashboard"
	default:
		return "unknown"
	}
}

// Classifier maps path prefixes to gating rules. Paths matching a
// protected prefix require a credential; the landing path redirects away
// when a credential is present; everything else is open. The prefix sets
// are fixed at construction and must be disjoint.
type Classifier struct {
	protected []string
	landing   string
	dashboard string
}

// DefaultClassifier returns the gate for the fleet UI page map:
// /dashboard and /admin-users are protected, / is the landing page.
func DefaultClassifier() *Classifier {
	c, err := NewClassifier([]string{"/dashboard", "/admin-users"}, "/", "/dashboard")
	if err != nil {
		// The built-in page map is disjoint by construction.
		panic(err)
	}
	return c
}

// NewClassifier builds a Classifier from protected prefixes, the public
// landing path and the dashboard root. It rejects overlapping protected
// prefixes and a landing path inside a protected prefix, because an
// overlapping configuration would make the first-match rule ambiguous.
func NewClassifier(protected []string, landing, dashboard string) (*Classifier, error) {
	if landing == "" {
		return nil, fmt.Errorf("landing path must not be empty")
	}
	for i, a := range protected {
		if a == "" || !strings.HasPrefix(a, "/") {
			return nil, fmt.Errorf("protected prefix %q must start with /", a)
		}
		if a != landing && hasPathPrefix(landing, a) {
			return nil, fmt.Errorf("landing path %q overlaps protected prefix %q", landing, a)
		}
		for j, b := range protected {
			if i != j && hasPathPrefix(a, b) {
				return nil, fmt.Errorf("protected prefixes %q and %q overlap", b, a)
			}
		}
	}
	return &Classifier{protected: protected, landing: landing, dashboard: dashboard}, nil
}

// Decide applies the gating rules in order, first match wins:
//
//  1. Protected path without a credential: redirect to login.
//  2. Landing path with a credential: redirect to the dashboard.
//  3. Otherwise: allow.
//
// Unmatched paths default to open. That default is deliberate and must not
// be relied on for access control of future protected pages.
func (c *Classifier) Decide(path string, hasCredential bool) Decision {
	if c.isProtected(path) && !hasCredential {
		return RedirectToLogin
	}
	if path == c.landing && hasCredential {
		return RedirectToDashboard
	}
	return Allow
}

// Middleware enforces the gate in front of page handlers. readCredential
// extracts the session credential from the request; the gate only checks
// that the returned value is non-empty.
func (c *Classifier) Middleware(readCredential func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch c.Decide(r.URL.Path, readCredential(r) != "") {
			case RedirectToLogin:
				http.Redirect(w, r, c.landing, http.StatusSeeOther)
			case RedirectToDashboard:
				http.Redirect(w, r, c.dashboard, http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

func (c *Classifier) isProtected(path string) bool {
	for _, prefix := range c.protected {
		if hasPathPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// hasPathPrefix reports whether path is prefix or lives under it as a path
// segment. "/dashboard-x" is not under "/dashboard"; "/dashboard/cars" is.
func hasPathPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, strings.TrimSuffix(prefix, "/")+"/")
}
