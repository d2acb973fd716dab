package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net"
)

// HTTPError represents an HTTP error response
type HTTPError struct {
	StatusCode int
	Message    string
	// Detail is the backend's structured {"detail": ...} field, if any
	Detail string
}

func newHTTPError(status int, body []byte) *HTTPError {
	return &HTTPError{
		StatusCode: status,
		Message:    string(body),
		Detail:     parseDetail(body),
	}
}

func (e *HTTPError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NetworkError represents a network-level error (connection, timeout, etc.)
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the underlying error is a timeout
func (e *NetworkError) Timeout() bool {
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

const timeoutMessage = "Request timeout. Please check your connection."

// ErrorMessage derives a human-readable message from a connector error:
// the backend detail first, then the transport error text. It returns ""
// when neither is available, leaving the fallback to the caller.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Detail != "" {
			return httpErr.Detail
		}
		return fmt.Sprintf("Request failed with status code %d", httpErr.StatusCode)
	}

	var netErr *NetworkError
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return timeoutMessage
		}
		if netErr.Err != nil {
			return netErr.Err.Error()
		}
		return ""
	}

	return err.Error()
}

// parseDetail extracts {"detail": ...}. String details are returned as is,
// structured ones (FastAPI validation lists) as compact JSON.
func parseDetail(body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if len(body) == 0 || json.Unmarshal(body, &payload) != nil || len(payload.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(payload.Detail, &s); err == nil {
		return s
	}
	if bytes.Equal(payload.Detail, []byte("null")) {
		return ""
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, payload.Detail); err != nil {
		return string(payload.Detail)
	}
	return buf.String()
}
