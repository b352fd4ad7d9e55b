// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/flotilla-app/flotilla/internal/backend"
	"github.com/flotilla-app/flotilla/internal/config"
	"github.com/flotilla-app/flotilla/internal/session"
)

// newTestRouter stands up the full route tree against a fake backend.
func newTestRouter(t *testing.T, backendHandler http.HandlerFunc) http.Handler {
	t.Helper()

	srv := httptest.NewServer(backendHandler)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Backend: config.BackendConfig{BaseURL: srv.URL, Timeout: 5 * time.Second},
		Server:  config.ServerConfig{Environment: "development"},
		Session: config.SessionConfig{CookieName: "token", TTL: 24 * time.Hour},
		RateLimit: config.RateLimitConfig{
			Disabled: true,
		},
	}

	client, err := backend.New(cfg.Backend)
	if err != nil {
		t.Fatalf("backend.New() error: %v", err)
	}
	sessions := session.NewAccessor(session.Config{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.IsProduction(),
	})
	return NewRouter(cfg, client, sessions).Handler()
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "token" {
			return c
		}
	}
	return nil
}

func TestLoginIssuesCookieAndStripsToken(t *testing.T) {
	tests := []struct {
		name         string
		upstreamBody string
	}{
		{"flat shape", `{"token":"tok-abc","user":{"email":"a@b.c","role":"admin"}}`},
		{"nested shape", `{"data":{"token":"tok-abc","user":{"email":"a@b.c","role":"admin"}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/auth/login" {
					t.Errorf("backend path = %q", r.URL.Path)
				}
				if r.Header.Get("Authorization") != "" {
					t.Error("login call carried a credential")
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.upstreamBody))
			})

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login",
				strings.NewReader(`{"email":"a@b.c","password":"secret"}`)))

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
			}

			cookie := sessionCookie(t, rec)
			if cookie == nil {
				t.Fatal("no session cookie issued")
			}
			if cookie.Value != "tok-abc" {
				t.Errorf("cookie value = %q", cookie.Value)
			}
			if !cookie.HttpOnly {
				t.Error("cookie is not HttpOnly")
			}

			if strings.Contains(rec.Body.String(), "tok-abc") {
				t.Error("token leaked into the response body")
			}
			var resp struct {
				Success bool `json:"success"`
				User    struct {
					Email string `json:"email"`
				} `json:"user"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("response decode: %v", err)
			}
			if !resp.Success || resp.User.Email != "a@b.c" {
				t.Errorf("response = %s", rec.Body.String())
			}
		})
	}
}

func TestLoginWithoutTokenIs502AndNoCookie(t *testing.T) {
	router := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user":{"email":"a@b.c"}}`))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"a@b.c","password":"secret"}`)))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if sessionCookie(t, rec) != nil {
		t.Error("cookie issued despite missing token")
	}
}

func TestLoginRejectedUpstreamKeepsStatusAndMessage(t *testing.T) {
	router := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid credentials"}`))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"a@b.c","password":"wrong"}`)))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	var env struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("envelope decode: %v", err)
	}
	if env.Error != "invalid credentials" || env.Status != http.StatusUnauthorized {
		t.Errorf("envelope = %+v", env)
	}
	if sessionCookie(t, rec) != nil {
		t.Error("cookie issued on rejected login")
	}
}

func TestLoginValidatesPayloadBeforeDispatch(t *testing.T) {
	called := false
	router := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"not-an-email"}`)))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if called {
		t.Error("backend called with invalid credentials payload")
	}
}

func TestRegisterPassesThrough(t *testing.T) {
	router := newTestRouter(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/register" {
			t.Errorf("backend path = %q", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"email":"new@fleet.example"}`))
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/auth/register",
		strings.NewReader(`{"email":"new@fleet.example","password":"secret"}`)))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
	if rec.Body.String() != `{"email":"new@fleet.example"}` {
		t.Errorf("body = %q, want verbatim passthrough", rec.Body.String())
	}
	if sessionCookie(t, rec) != nil {
		t.Error("register issued a session cookie")
	}
}
