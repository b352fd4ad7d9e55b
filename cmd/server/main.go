// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

// Command server runs the Flotilla edge tier: the session-authenticated
// proxy between the fleet browser UI and the backend API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/flotilla-app/flotilla/internal/api"
	"github.com/flotilla-app/flotilla/internal/backend"
	"github.com/flotilla-app/flotilla/internal/config"
	"github.com/flotilla-app/flotilla/internal/logging"
	"github.com/flotilla-app/flotilla/internal/session"
	"github.com/flotilla-app/flotilla/internal/supervisor"
	"github.com/flotilla-app/flotilla/internal/supervisor/services"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("Server exited with error")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Caller: cfg.Log.Caller,
	})

	client, err := backend.New(cfg.Backend)
	if err != nil {
		return fmt.Errorf("building backend client: %w", err)
	}

	sessions := session.NewAccessor(session.Config{
		CookieName: cfg.Session.CookieName,
		TTL:        cfg.Session.TTL,
		Secure:     cfg.IsProduction(),
	})

	router := api.NewRouter(cfg, client, sessions)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: router.Handler(),
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.Add(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().
		Str("addr", addr).
		Str("backend", cfg.Backend.BaseURL).
		Str("environment", cfg.Server.Environment).
		Msg("Flotilla edge server starting")

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logging.Info().Msg("Flotilla edge server stopped")
	return nil
}
