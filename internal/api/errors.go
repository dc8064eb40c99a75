package api

import (
	"errors"
	"fmt"

	"github.com/zabahd4k/bildy/internal/models"
)

var (
	// ErrUnauthenticated means no token was available. The request is never
	// attempted; callers should check the session before acting.
	ErrUnauthenticated = errors.New("not authenticated")

	// ErrNetwork is a transport-level failure before any response arrived.
	ErrNetwork = errors.New("network failure")

	// ErrDecode means the response body was not well-formed for the
	// expected shape.
	ErrDecode = errors.New("malformed response")
)

// StatusError is a non-2xx response from the API. Message is taken from the
// server payload when present, otherwise a per-operation fallback.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Describe converts an error into a message safe to show the user.
// The raw error goes to the log, never to the screen.
func Describe(err error) string {
	var se *StatusError
	var ve *models.ValidationError
	switch {
	case errors.As(err, &se):
		return se.Message
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, ErrUnauthenticated):
		return "You are not logged in."
	case errors.Is(err, ErrDecode):
		return "The server returned an unexpected response."
	case errors.Is(err, ErrNetwork):
		return "Could not reach the server. Try again."
	}
	return "Something went wrong. Try again."
}
