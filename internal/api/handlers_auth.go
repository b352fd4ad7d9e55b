// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

package api

import (
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/flotilla-app/flotilla/internal/backend"
	"github.com/flotilla-app/flotilla/internal/envelope"
	"github.com/flotilla-app/flotilla/internal/logging"
	"github.com/flotilla-app/flotilla/internal/validation"
)

// maxAuthBodyBytes bounds the credential payload size.
const maxAuthBodyBytes = 64 << 10 // 64KB

// loginRequest is the credential payload the browser submits.
type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// loginUpstream covers both token shapes the backend has shipped: flat
// token/user at the top level, or the same pair nested under data.
type loginUpstream struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user"`
	Data  struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"user"`
	} `json:"data"`
}

// token returns the bearer token from whichever shape is populated.
func (u *loginUpstream) token() string {
	if u.Token != "" {
		return u.Token
	}
	return u.Data.Token
}

// user returns the user object matching the populated shape.
func (u *loginUpstream) user() json.RawMessage {
	if u.Token != "" {
		return u.User
	}
	return u.Data.User
}

// handleLogin forwards the credentials to the backend, and on success moves
// the issued token out of the response body and into the HttpOnly session
// cookie. The browser never sees the token.
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxAuthBodyBytes))
	if err != nil {
		envelope.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var creds loginRequest
	if err := json.Unmarshal(body, &creds); err != nil {
		envelope.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if verr := validation.ValidateStruct(&creds); verr != nil {
		envelope.WriteError(w, http.StatusBadRequest, verr.Message())
		return
	}

	result, err := rt.backend.Do(r.Context(), backend.Request{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		Body:   body,
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Login backend call failed")
		envelope.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch result.Kind {
	case backend.KindSuccess:
		// fall through below
	case backend.KindUpstreamError:
		message := result.Message
		if message == "" {
			message = "login failed"
		}
		envelope.WriteError(w, result.Status, message)
		return
	default:
		envelope.WriteError(w, http.StatusBadGateway, backend.MalformedUpstreamMessage)
		return
	}

	var upstream loginUpstream
	if err := json.Unmarshal(result.Body, &upstream); err != nil || upstream.token() == "" {
		// A 2xx login with no extractable token is an upstream contract
		// break; no cookie is issued.
		logging.Ctx(r.Context()).Error().Msg("Login succeeded upstream but no token found in response")
		envelope.WriteError(w, http.StatusBadGateway, backend.MalformedUpstreamMessage)
		return
	}

	rt.sessions.Issue(w, upstream.token())

	response := map[string]any{"success": true}
	if user := upstream.user(); len(user) > 0 {
		response["user"] = user
	}
	envelope.WriteJSON(w, http.StatusOK, response)
}

// handleRegister forwards the registration payload with passthrough
// semantics. Registration does not establish a session; the browser logs in
// afterwards.
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxAuthBodyBytes))
	if err != nil {
		envelope.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := rt.backend.Do(r.Context(), backend.Request{
		Method: http.MethodPost,
		Path:   "/api/auth/register",
		Body:   body,
	})
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Register backend call failed")
		envelope.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch result.Kind {
	case backend.KindSuccess:
		envelope.WriteRaw(w, result.Status, result.Body)
	case backend.KindUpstreamError:
		message := result.Message
		if message == "" {
			message = "registration failed"
		}
		envelope.WriteError(w, result.Status, message)
	default:
		envelope.WriteError(w, http.StatusBadGateway, backend.MalformedUpstreamMessage)
	}
}
