// Flotilla - Vehicle Fleet Tracking Edge Tier
// Copyright 2026 Flotilla contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/flotilla-app/flotilla

package backend

import (
	"mime"
	"strings"

	"github.com/goccy/go-json"
)

// Kind classifies a backend response. Every proxy handler branches on this
// one classification instead of re-deriving it from status and content type.
type Kind int

const (
	// KindSuccess is a 2xx response with a JSON body; the body is passed
	// through to the browser verbatim.
	KindSuccess Kind = iota

	// KindUpstreamError is a non-2xx response with a structured JSON
	// error body; its status and message are preserved.
	KindUpstreamError

	// KindMalformed is any response whose content type is not JSON, or
	// whose declared-JSON body does not parse. The original status is
	// not trustworthy and is discarded in favor of 502.
	KindMalformed
)

// MalformedUpstreamMessage is the fixed message used when the backend
// responds with something other than JSON.
const MalformedUpstreamMessage = "upstream did not respond correctly"

// Result is one classified backend response.
type Result struct {
	Kind   Kind
	Status int

	// Body holds the verbatim response bytes for KindSuccess.
	Body []byte

	// Message holds the extracted error message for KindUpstreamError.
	// May be empty when the error body carries no usable field; callers
	// substitute their resource-specific default.
	Message string
}

// upstreamError is the error body shape the backend exposes. Either field
// may carry the human-readable message.
type upstreamError struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// Classify turns a raw backend response into a Result.
func Classify(status int, contentType string, body []byte) *Result {
	if !isJSONContentType(contentType) {
		return &Result{Kind: KindMalformed, Status: status, Message: MalformedUpstreamMessage}
	}

	if status >= 200 && status < 300 {
		return &Result{Kind: KindSuccess, Status: status, Body: body}
	}

	var ue upstreamError
	if err := json.Unmarshal(body, &ue); err != nil {
		return &Result{Kind: KindMalformed, Status: status, Message: MalformedUpstreamMessage}
	}
	message := ue.Message
	if message == "" {
		message = ue.Error
	}
	return &Result{Kind: KindUpstreamError, Status: status, Message: message}
}

// isJSONContentType accepts application/json and +json media types.
func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "application/json" || strings.HasSuffix(mediaType, "+json")
}
