package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
)

// Kind classifies an API failure. The session controller branches on this:
// an authoritative rejection clears the session, transient kinds trigger a
// bounded retry, everything else degrades the connection indicator.
type Kind int

const (
	// KindOther covers failures with no specific handling.
	KindOther Kind = iota

	// KindUnauthorized is a 401/403 response: the backend definitively
	// rejected the credential.
	KindUnauthorized

	// KindTimeout means the request hit the client-side deadline.
	KindTimeout

	// KindNetwork means the request never got a response (DNS, refused
	// connection, broken transport).
	KindNetwork

	// KindServer is a 5xx response.
	KindServer
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	default:
		return "other"
	}
}

// APIError is a normalized backend failure.
type APIError struct {
	Kind       Kind
	StatusCode int // 0 when no response arrived
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("api: %s (HTTP %d): %s", e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
}

// ErrLoginThrottled is returned when the client-side login limiter trips
// before any request is sent.
var ErrLoginThrottled = errors.New("apiclient: too many login attempts, slow down")

// KindOf extracts the failure Kind from an error chain, KindOther otherwise.
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindOther
}

// IsUnauthorized reports an authoritative 401/403 rejection.
func IsUnauthorized(err error) bool { return KindOf(err) == KindUnauthorized }

// IsTransient reports a failure where the credential is not necessarily
// invalid: the backend simply could not be reached in time.
func IsTransient(err error) bool {
	k := KindOf(err)
	return k == KindTimeout || k == KindNetwork
}

// classifyTransport maps a transport-level error (no HTTP response) onto an
// APIError. Context deadline and net timeouts become KindTimeout.
func classifyTransport(err error) *APIError {
	if errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Kind: KindTimeout, Message: "request timed out"}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &APIError{Kind: KindTimeout, Message: "request timed out"}
	}

	return &APIError{Kind: KindNetwork, Message: err.Error()}
}

// classifyResponse maps a non-2xx HTTP response onto an APIError. The backend
// sends either {"message": "..."} / {"error": "..."} JSON or a plain string
// body; both are accepted.
func classifyResponse(resp *http.Response, body []byte) *APIError {
	kind := KindOther
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		kind = KindUnauthorized
	case resp.StatusCode >= 500:
		kind = KindServer
	}

	return &APIError{
		Kind:       kind,
		StatusCode: resp.StatusCode,
		Message:    errorMessage(resp, body),
	}
}

func errorMessage(resp *http.Response, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return http.StatusText(resp.StatusCode)
}
