package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials aborts a run before any network call is made.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrBadFormat marks malformed time or date input.
	ErrBadFormat = errors.New("bad format")

	// ErrLoginTokens means the login response lacked a token pair.
	ErrLoginTokens = errors.New("login response missing tokens")

	// ErrClassNotFound means no schedule entry matched the requested start time.
	ErrClassNotFound = errors.New("no matching class")

	// ErrNoMembership means the membership list was empty or malformed.
	ErrNoMembership = errors.New("no active membership")

	// ErrClassFull is the upstream's status 516.
	ErrClassFull = errors.New("class is full")
)

// RegistrationError is any other non-200 registration response. Message is
// the upstream's user-facing error when present, otherwise the raw body.
type RegistrationError struct {
	Status  int
	Message string
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration failed (%d): %s", e.Status, e.Message)
}
