// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

package api

import (
	"net/http"

	"github.com/flotilla-app/flotilla/internal/envelope"
)

// handleHealthLive reports process liveness. It answers as long as the
// server loop is running; it says nothing about the backend.
func (rt *Router) handleHealthLive(w http.ResponseWriter, r *http.Request) {
	envelope.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleHealthReady reports readiness to serve. The edge tier has no local
// dependencies to probe; the backend is checked per-request, not here, so a
// backend outage degrades responses rather than the whole pod.
func (rt *Router) handleHealthReady(w http.ResponseWriter, r *http.Request) {
	envelope.WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
