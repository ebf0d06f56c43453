package client

import (
	"errors"
	"fmt"
	"testing"
)

func TestHTTPError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *HTTPError
		expected string
	}{
		{
			name: "with status text",
			err: &HTTPError{
				StatusCode: 404,
				Status:     "404 Not Found",
				URL:        "https://swapi.dev/api/people?page=99",
			},
			expected: "SWAPI request https://swapi.dev/api/people?page=99 failed: 404 Not Found",
		},
		{
			name: "without status text",
			err: &HTTPError{
				StatusCode: 503,
				URL:        "https://swapi.dev/api/planets?page=1",
			},
			expected: "SWAPI request https://swapi.dev/api/planets?page=1 failed: 503 Service Unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestHTTPError_As(t *testing.T) {
	err := fmt.Errorf("render view: %w", &HTTPError{StatusCode: 500, URL: "x"})

	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatal("errors.As should find *HTTPError in the chain")
	}
	if httpErr.StatusCode != 500 {
		t.Errorf("StatusCode = %d, want 500", httpErr.StatusCode)
	}
}

func TestErrDecode_Is(t *testing.T) {
	err := fmt.Errorf("%w: people page 1: unexpected end of JSON input", ErrDecode)
	if !errors.Is(err, ErrDecode) {
		t.Error("errors.Is should match ErrDecode")
	}
}
