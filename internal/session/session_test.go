// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestReadMissingCookie(t *testing.T) {
	a := NewAccessor(DefaultConfig())
	r := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)

	if got := a.Read(r); got != "" {
		t.Errorf("Read() = %q, want empty", got)
	}
}

func TestReadPresentCookie(t *testing.T) {
	a := NewAccessor(DefaultConfig())
	r := httptest.NewRequest(http.MethodGet, "/api/vehicles", nil)
	r.AddCookie(&http.Cookie{Name: "token", Value: "abc123"})

	if got := a.Read(r); got != "abc123" {
		t.Errorf("Read() = %q, want abc123", got)
	}
}

func TestIssueSetsAttributes(t *testing.T) {
	a := NewAccessor(Config{CookieName: "token", TTL: 24 * time.Hour, Secure: true})
	w := httptest.NewRecorder()

	a.Issue(w, "t1")

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != "token" || c.Value != "t1" {
		t.Errorf("cookie = %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly {
		t.Error("cookie not HttpOnly")
	}
	if !c.Secure {
		t.Error("cookie not Secure")
	}
	if c.SameSite != http.SameSiteStrictMode {
		t.Errorf("SameSite = %v, want Strict", c.SameSite)
	}
	if c.Path != "/" {
		t.Errorf("Path = %q, want /", c.Path)
	}
	if c.MaxAge != int((24 * time.Hour).Seconds()) {
		t.Errorf("MaxAge = %d, want 86400", c.MaxAge)
	}
}

func TestIssueNotSecureInDevelopment(t *testing.T) {
	a := NewAccessor(Config{CookieName: "token", TTL: time.Hour, Secure: false})
	w := httptest.NewRecorder()

	a.Issue(w, "t1")

	if w.Result().Cookies()[0].Secure {
		t.Error("development cookie should not be Secure")
	}
}

func TestClearExpiresCookie(t *testing.T) {
	a := NewAccessor(DefaultConfig())
	w := httptest.NewRecorder()

	a.Clear(w)

	cookies := w.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Value != "" {
		t.Errorf("cleared cookie still carries value %q", c.Value)
	}
	if c.MaxAge >= 0 {
		t.Errorf("MaxAge = %d, want negative", c.MaxAge)
	}
}

func TestNewAccessorDefaults(t *testing.T) {
	a := NewAccessor(Config{})
	if a.CookieName() != "token" {
		t.Errorf("CookieName() = %q, want token", a.CookieName())
	}

	w := httptest.NewRecorder()
	a.Issue(w, "x")
	if got := w.Result().Cookies()[0].MaxAge; got != 86400 {
		t.Errorf("default MaxAge = %d, want 86400", got)
	}
}
