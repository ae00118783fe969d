package backend

import (
	"errors"
	"fmt"
)

// Classification errors. The client only classifies; translating these into
// user-visible behavior (clearing sessions, redirects, inline messages) is
// the job of the auth gate and the submission workflow.
var (
	// ErrUnauthorized marks a 401: the backend session is invalid or
	// expired. Callers must clear the local session and redirect to login.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks a 403: authenticated but insufficient role. The
	// local session is NOT cleared.
	ErrForbidden = errors.New("forbidden")
)

// RequestError is any other 4xx/5xx, with a best-effort message extracted
// from the response body. Recoverable by retry.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("backend request failed (%d): %s", e.Status, e.Message)
}

// ConnectionError is a network/transport failure: the request may or may
// not have reached the backend. The client never retries; idempotency is
// the backend's responsibility.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return "cannot reach server: " + e.Err.Error()
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// IsUnauthorized reports whether err classifies as a 401.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsForbidden reports whether err classifies as a 403.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}

// IsConnection reports whether err is a transport failure.
func IsConnection(err error) bool {
	var ce *ConnectionError
	return errors.As(err, &ce)
}

// UserMessage renders a classified error as the message shown near a form.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case IsUnauthorized(err):
		return "Your session has expired. Please log in again."
	case IsForbidden(err):
		return "You do not have permission to do that."
	case IsConnection(err):
		return "Can't reach the server. Please try again."
	}
	var re *RequestError
	if errors.As(err, &re) && re.Message != "" {
		return re.Message
	}
	return "Something went wrong. Please try again."
}
