package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnavailable is returned when the server could not be reached at all.
var ErrUnavailable = errors.New("server unavailable")

// Error is a non-2xx answer from the server.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
	return e.Message
}

// StatusCode extracts the HTTP status of err, or 0 when err is not an *Error.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
