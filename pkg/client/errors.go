package client

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrDecode is returned when a response body is not a valid page envelope.
var ErrDecode = errors.New("decode response")

// HTTPError is returned for any response outside the 2xx range.
// The response body is discarded; no page is returned alongside it.
type HTTPError struct {
	StatusCode int
	Status     string
	URL        string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	status := e.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("SWAPI request %s failed: %s", e.URL, status)
}
