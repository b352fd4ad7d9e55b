// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/flotilla-app/flotilla/internal/backend"
	"github.com/flotilla-app/flotilla/internal/config"
	"github.com/flotilla-app/flotilla/internal/gate"
	"github.com/flotilla-app/flotilla/internal/middleware"
	"github.com/flotilla-app/flotilla/internal/proxy"
	"github.com/flotilla-app/flotilla/internal/session"
)

// Router wires the edge HTTP surface together.
type Router struct {
	cfg      *config.Config
	backend  *backend.Client
	sessions *session.Accessor
	engine   *proxy.Engine
	gate     *gate.Classifier
	chimw    *ChiMiddleware
}

// NewRouter assembles the router from its collaborators.
func NewRouter(cfg *config.Config, client *backend.Client, sessions *session.Accessor) *Router {
	return &Router{
		cfg:      cfg,
		backend:  client,
		sessions: sessions,
		engine:   proxy.NewEngine(client, sessions),
		gate:     gate.DefaultClassifier(),
		chimw:    NewChiMiddleware(cfg),
	}
}

// Handler builds the full route tree.
func (rt *Router) Handler() http.Handler {
	r := chi.NewRouter()

	// Global middleware, order matters: IDs before logging so every line
	// carries a request_id, recoverer outermost of the handlers.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(rt.chimw.CORS())
	r.Use(middleware.RequestLogger)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/live", rt.handleHealthLive)
		r.Get("/ready", rt.handleHealthReady)
	})

	r.Route("/api/auth", func(r chi.Router) {
		r.Use(rt.chimw.RateLimitLogin())
		r.Use(middleware.Prometheus)
		r.Post("/login", rt.handleLogin)
		r.Post("/register", rt.handleRegister)
	})

	r.Group(func(r chi.Router) {
		r.Use(rt.chimw.RateLimit())
		r.Use(middleware.Prometheus)

		for _, res := range proxy.Table() {
			r.Route("/api/"+res.Name, func(r chi.Router) {
				rt.engine.Mount(r, res)
			})
		}

		r.Get("/api/summary/upcoming", rt.handleUpcomingSummary)
	})

	// Page routes sit behind the gate; rendering is a static shell, the
	// data arrives through the proxied API.
	r.Group(func(r chi.Router) {
		r.Use(rt.gate.Middleware(rt.sessions.Read))
		pages := rt.pageHandler()
		r.Get("/", pages)
		r.Get("/dashboard", pages)
		r.Get("/dashboard/*", pages)
		r.Get("/admin-users", pages)
		r.Get("/admin-users/*", pages)
	})

	return r
}

// pageHandler serves the UI shell. With a configured static directory the
// shell comes from disk; otherwise a minimal placeholder keeps the page
// routes and the gate exercisable without frontend assets.
func (rt *Router) pageHandler() http.HandlerFunc {
	if dir := rt.cfg.Server.StaticDir; dir != "" {
		fs := http.FileServer(http.Dir(dir))
		return func(w http.ResponseWriter, r *http.Request) {
			fs.ServeHTTP(w, r)
		}
	}
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<!doctype html><title>Flotilla</title><div id=\"app\"></div>\n"))
	}
}
