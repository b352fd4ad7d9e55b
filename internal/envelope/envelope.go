// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

// Package envelope builds the uniform failure shape every edge handler
// returns to the browser: {"error": <message>, "status": <code>}. The
// browser never sees a stack trace or a raw upstream body on failure.
package envelope

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/flotilla-app/flotilla/internal/logging"
)

// Envelope is the uniform failure payload.
type Envelope struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// WriteError sends an error envelope with the given status. message should
// already be a best-effort human-readable string; empty messages are
// replaced with the generic internal message.
func WriteError(w http.ResponseWriter, status int, message string) {
	if message == "" {
		message = "internal server error"
	}
	WriteJSON(w, status, Envelope{Error: message, Status: status})
}

// WriteJSON marshals v and sends it with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// WriteRaw passes pre-encoded JSON through verbatim with the given status.
// Used on the success path, where the backend body is not reshaped.
func WriteRaw(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		logging.Error().Err(err).Msg("Failed to write passthrough response")
	}
}
