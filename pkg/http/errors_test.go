package http

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDetail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "string detail", body: `{"detail": "Only PDF files are supported"}`, want: "Only PDF files are supported"},
		{name: "structured detail", body: `{"detail": [ {"loc": ["body"], "msg": "field required"} ]}`, want: `[{"loc":["body"],"msg":"field required"}]`},
		{name: "null detail", body: `{"detail": null}`, want: ""},
		{name: "no detail", body: `{"error": "boom"}`, want: ""},
		{name: "not json", body: `Internal Server Error`, want: ""},
		{name: "empty", body: ``, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDetail([]byte(tt.body)))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "http detail", err: newHTTPError(400, []byte(`{"detail":"Session not found"}`)), want: "Session not found"},
		{name: "http without detail", err: newHTTPError(502, []byte(`bad gateway`)), want: "Request failed with status code 502"},
		{name: "wrapped http", err: fmt.Errorf("chat: %w", newHTTPError(503, []byte(`{"detail":"Model overloaded"}`))), want: "Model overloaded"},
		{name: "timeout", err: &NetworkError{Err: context.DeadlineExceeded}, want: "Request timeout. Please check your connection."},
		{name: "network", err: &NetworkError{Err: errors.New("connection refused")}, want: "connection refused"},
		{name: "empty network", err: &NetworkError{}, want: ""},
		{name: "other", err: errors.New("decode response: EOF"), want: "decode response: EOF"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ErrorMessage(tt.err))
		})
	}
}

func TestHTTPError_Error(t *testing.T) {
	assert.Equal(t, "HTTP 400: bad input", newHTTPError(400, []byte(`{"detail":"bad input"}`)).Error())
	assert.Equal(t, "HTTP 500: oops", newHTTPError(500, []byte(`oops`)).Error())
}
