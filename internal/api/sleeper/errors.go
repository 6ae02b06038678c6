package sleeper

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidResponse = errors.New("invalid JSON response received")
	ErrValidation      = errors.New("invalid argument")
	ErrNotFound        = errors.New("not found")
)

// APIError is returned for any non-2xx response from the Sleeper API.
type APIError struct {
	StatusCode int
	Endpoint   string
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("sleeper: %s: unexpected status code: %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("sleeper: %s: unexpected status code: %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
