package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRole is returned when an interview is started with a role
	// outside the supported set.
	ErrInvalidRole = errors.New("invalid interview role")

	// ErrSessionEnded is returned by session mutations after End.
	ErrSessionEnded = errors.New("interview session already ended")

	// ErrFollowupLimit is returned when a follow-up is asked past the
	// per-question budget.
	ErrFollowupLimit = errors.New("follow-up limit reached for the active question")
)

// ConfigError reports missing or invalid startup configuration. Fatal: no
// session can be started until it is fixed.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// AuthError reports a rejected credential at the provider boundary. It is
// never retried on a fallback transport.
type AuthError struct {
	Provider string
	Err      error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s authentication failed: %v", e.Provider, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// APIError reports a transport or service failure at the provider boundary.
// The session survives it; the user is asked to try again.
type APIError struct {
	Provider string
	Err      error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }
