// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

// Package proxy is the generic resource proxy engine. One engine instance
// serves every fleet collection from a declarative Resource table: it reads
// the session credential, filters the query against the resource allow-list,
// dispatches exactly one backend call, and translates the classified result
// into either a verbatim passthrough or an error envelope.
package proxy

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/flotilla-app/flotilla/internal/backend"
	"github.com/flotilla-app/flotilla/internal/envelope"
	"github.com/flotilla-app/flotilla/internal/logging"
	"github.com/flotilla-app/flotilla/internal/session"
)

// maxBodyBytes bounds inbound payload size.
const maxBodyBytes = 1 << 20 // 1MB

// Engine proxies resource operations to the fleet backend. It holds no
// per-request state and is shared by every mounted resource.
type Engine struct {
	backend  *backend.Client
	sessions *session.Accessor
}

// NewEngine creates the proxy engine.
func NewEngine(client *backend.Client, sessions *session.Accessor) *Engine {
	return &Engine{backend: client, sessions: sessions}
}

// Mount registers the full operation surface for one resource on a router
// group: list, get, create, update, delete, reactivate.
func (e *Engine) Mount(r chi.Router, res Resource) {
	keyPattern := fmt.Sprintf("/{%s}", res.KeyParam)

	r.Get("/", e.list(res))
	r.Post("/", e.create(res))
	r.Get(keyPattern, e.item(res, http.MethodGet, ""))
	r.Put(keyPattern, e.itemWithBody(res, http.MethodPut))
	r.Delete(keyPattern, e.item(res, http.MethodDelete, ""))
	r.Patch(keyPattern+"/reactivate", e.item(res, http.MethodPatch, "/reactivate"))
}

// list proxies the filtered collection read.
func (e *Engine) list(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e.proxy(w, r, res, backend.Request{
			Method: http.MethodGet,
			Path:   res.BasePath,
			Query:  filterQuery(res.AllowedQuery, r.URL.Query()),
		})
	}
}

// create validates required payload fields before dispatching the POST.
func (e *Engine) create(res Resource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Credential presence is checked before payload shape so an
		// unauthenticated caller learns nothing about validation rules.
		if e.sessions.Read(r) == "" {
			envelope.WriteError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		body, err := readBody(r)
		if err != nil {
			envelope.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if msg := checkRequiredFields(res.RequiredOnCreate, body); msg != "" {
			envelope.WriteError(w, http.StatusBadRequest, msg)
			return
		}

		e.proxy(w, r, res, backend.Request{
			Method: http.MethodPost,
			Path:   res.BasePath,
			Body:   body,
		})
	}
}

// item proxies a single-item operation with no payload. subPath extends the
// item path for action routes like reactivate.
func (e *Engine) item(res Resource, method, subPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, res.KeyParam)
		e.proxy(w, r, res, backend.Request{
			Method: method,
			Path:   res.BasePath + "/" + url.PathEscape(key) + subPath,
		})
	}
}

// itemWithBody proxies a single-item operation that forwards a payload.
func (e *Engine) itemWithBody(res Resource, method string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, res.KeyParam)
		body, err := readBody(r)
		if err != nil {
			envelope.WriteError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		e.proxy(w, r, res, backend.Request{
			Method: method,
			Path:   res.BasePath + "/" + url.PathEscape(key),
			Body:   body,
		})
	}
}

// proxy runs the shared invocation flow: credential check, dispatch,
// classification, response. Every failure mode ends in an envelope; nothing
// escapes to the outer recoverer with a half-written body.
func (e *Engine) proxy(w http.ResponseWriter, r *http.Request, res Resource, req backend.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			logging.Ctx(r.Context()).Error().
				Str("resource", res.Name).
				Interface("panic", rec).
				Msg("Proxy handler panicked")
			envelope.WriteError(w, http.StatusInternalServerError, "internal server error")
		}
	}()

	token := e.sessions.Read(r)
	if token == "" {
		envelope.WriteError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	req.Token = token

	result, err := e.backend.Do(r.Context(), req)
	if err != nil {
		logging.Ctx(r.Context()).Error().
			Err(err).
			Str("resource", res.Name).
			Str("method", req.Method).
			Msg("Backend call failed")
		envelope.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	e.respond(w, r, res, result)
}

// respond translates a classified backend result into the browser response.
func (e *Engine) respond(w http.ResponseWriter, r *http.Request, res Resource, result *backend.Result) {
	switch result.Kind {
	case backend.KindSuccess:
		envelope.WriteRaw(w, result.Status, result.Body)

	case backend.KindUpstreamError:
		// The backend no longer honors this credential; stop the browser
		// from presenting it again.
		if result.Status == http.StatusUnauthorized {
			e.sessions.Clear(w)
		}
		message := result.Message
		if message == "" {
			message = res.DefaultError
		}
		envelope.WriteError(w, result.Status, message)

	default:
		envelope.WriteError(w, http.StatusBadGateway, backend.MalformedUpstreamMessage)
	}
}

// filterQuery copies only allow-listed keys. Key presence is what matters:
// a present-but-empty value means "cleared filter" and is forwarded, an
// absent key stays absent.
func filterQuery(allowed []string, query url.Values) url.Values {
	filtered := url.Values{}
	for _, key := range allowed {
		if query.Has(key) {
			filtered.Set(key, query.Get(key))
		}
	}
	return filtered
}

// checkRequiredFields reports missing or empty create fields as one combined
// message, or "" when the payload is complete.
func checkRequiredFields(required []string, body []byte) string {
	if len(required) == 0 {
		return ""
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "invalid request body"
	}

	var missing []string
	for _, field := range required {
		value, ok := payload[field]
		if !ok {
			missing = append(missing, field+" is required")
			continue
		}
		if s, isString := value.(string); isString && strings.TrimSpace(s) == "" {
			missing = append(missing, field+" is required")
		}
	}
	if len(missing) == 0 {
		return ""
	}
	return strings.Join(missing, "; ")
}

// readBody drains the inbound payload with a size cap.
func readBody(r *http.Request) ([]byte, error) {
	defer func() {
		_ = r.Body.Close()
	}()
	return io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
}
