package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every *Error unwraps to exactly one of these, so callers can
// branch with errors.Is without inspecting status codes.
var (
	// ErrAuthenticationRequired is returned before any request is sent when
	// there is no usable session token.
	ErrAuthenticationRequired = errors.New("authentication required, run 'perpusctl login'")
	// ErrSessionExpired is returned on HTTP 401. The session has already been
	// invalidated by the time the caller sees it.
	ErrSessionExpired = errors.New("session expired, run 'perpusctl login' again")
	// ErrForbidden is returned on HTTP 403.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned on HTTP 404.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned when the server rejects a request, either with
	// a 4xx status or with success=false in the envelope.
	ErrValidation = errors.New("request rejected")
	// ErrServer is returned on 5xx responses.
	ErrServer = errors.New("server error")
	// ErrNetwork is returned when the request never completed.
	ErrNetwork = errors.New("network failure")
	// ErrMalformed is returned when a 2xx body cannot be decoded or carries
	// no data where data is required.
	ErrMalformed = errors.New("malformed response")
)

// Error is a failed API call. Status is 0 when no HTTP response was received.
type Error struct {
	Status  int
	Message string
	Kind    error
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("Error %d: %s", e.Status, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// DisplayMessage renders err for a notification line.
func DisplayMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}

// IsSessionError reports whether err means the user has to log in (again).
func IsSessionError(err error) bool {
	return errors.Is(err, ErrAuthenticationRequired) || errors.Is(err, ErrSessionExpired)
}

func kindForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrSessionExpired
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status >= 500:
		return ErrServer
	default:
		return ErrValidation
	}
}
