// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

// Package backend is the outbound HTTP client for the externally-owned
// fleet backend API. It attaches the bearer credential, enforces the
// configured timeout, optionally throttles outbound calls and guards them
// with a circuit breaker, and classifies every response into the shared
// tagged result used by all proxy handlers.
//
// The client never retries: one inbound request maps to at most one
// backend call.
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/flotilla-app/flotilla/internal/config"
	"github.com/flotilla-app/flotilla/internal/logging"
	"github.com/flotilla-app/flotilla/internal/metrics"
)

// maxResponseBytes bounds how much of a backend response is read.
const maxResponseBytes = 10 << 20 // 10MB

// breakerName labels the breaker in logs and metrics.
const breakerName = "fleet-backend"

// Request describes one outbound backend call.
type Request struct {
	// Method is the HTTP method.
	Method string

	// Path is the backend path with path parameters already substituted,
	// e.g. "/api/vehicles/van-1".
	Path string

	// Query carries only allow-listed keys; the proxy engine filters
	// before building a Request.
	Query url.Values

	// Body is an optional JSON payload, forwarded verbatim.
	Body []byte

	// Token is the bearer credential. Empty for the login and register
	// calls, which authenticate with the payload instead.
	Token string
}

// Client issues calls against the fleet backend.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*Result]
}

// New builds a Client from the backend configuration. The base URL is
// validated at config load; an unparseable URL here is a programming error.
func New(cfg config.BackendConfig) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend base URL %q: %w", cfg.BaseURL, err)
	}

	c := &Client{
		baseURL: base,
		http:    &http.Client{Timeout: cfg.Timeout},
	}

	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	if cfg.Breaker.Enabled {
		c.breaker = newBreaker(cfg.Breaker)
	}

	return c, nil
}

// newBreaker configures the circuit breaker. Only transport-level failures
// count against it; upstream 4xx/5xx responses are domain answers, not
// availability signals.
func newBreaker(cfg config.BreakerConfig) *gobreaker.CircuitBreaker[*Result] {
	maxFailures := cfg.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	openTimeout := cfg.OpenTimeout
	if openTimeout <= 0 {
		openTimeout = 30 * time.Second
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	return gobreaker.NewCircuitBreaker[*Result](gobreaker.Settings{
		Name:    breakerName,
		Timeout: openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// Do issues one backend call and classifies the response. A non-nil error
// means no trustworthy backend response exists (transport failure, timeout,
// open breaker); callers turn it into a 500 envelope. Upstream rejections
// and malformed responses come back as a Result, not an error.
func (c *Client) Do(ctx context.Context, req Request) (*Result, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			metrics.RecordBackendFailure("transport")
			return nil, fmt.Errorf("outbound limiter: %w", err)
		}
	}

	if c.breaker == nil {
		return c.roundTrip(ctx, req)
	}

	result, err := c.breaker.Execute(func() (*Result, error) {
		return c.roundTrip(ctx, req)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// roundTrip performs the HTTP exchange and classification.
func (c *Client) roundTrip(ctx context.Context, req Request) (*Result, error) {
	u := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		metrics.RecordBackendFailure("transport")
		return nil, fmt.Errorf("building backend request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	if len(req.Body) > 0 {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.Token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		metrics.RecordBackendFailure("transport")
		return nil, fmt.Errorf("backend request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.RecordBackendFailure("transport")
		return nil, fmt.Errorf("reading backend response: %w", err)
	}

	metrics.RecordBackendRequest(req.Method, resp.StatusCode, time.Since(start))

	result := Classify(resp.StatusCode, resp.Header.Get("Content-Type"), respBody)
	switch result.Kind {
	case KindUpstreamError:
		metrics.RecordBackendFailure("upstream_error")
	case KindMalformed:
		metrics.RecordBackendFailure("malformed")
		logging.Ctx(ctx).Warn().
			Int("status", resp.StatusCode).
			Str("content_type", resp.Header.Get("Content-Type")).
			Str("path", req.Path).
			Msg("Backend returned non-JSON response")
	}
	return result, nil
}
