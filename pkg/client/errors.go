package client

import (
	"errors"
	"fmt"
)

// ErrNoSession means no access token is stored; the request failed before
// any network call was made. Recover by logging in.
var ErrNoSession = errors.New("invalid session")

// ErrSessionExpired means a 401 could not be recovered by refreshing; the
// stored credentials were cleared. Recover by logging in again.
var ErrSessionExpired = errors.New("session expired")

// genericDetail is the fallback message when an error body carries no
// usable detail field.
const genericDetail = "não foi possível carregar os dados"

// APIError represents a non-2xx HTTP response from the backend.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Detail)
}

// IsStatus returns true if err (or any wrapped error) is an APIError with
// the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == code
	}
	return false
}

// IsSessionError reports whether err requires re-authentication rather than
// a retry or a form correction.
func IsSessionError(err error) bool {
	return errors.Is(err, ErrNoSession) || errors.Is(err, ErrSessionExpired) || IsStatus(err, 401)
}
