package identity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIncomplete is returned before any remote call when a registration
	// field is blank
	ErrIncomplete = errors.New("please complete all fields")
	// ErrTimeout means the call outlived its time bound; its late result is discarded
	ErrTimeout = errors.New("identity call timed out")
	// ErrSuperseded means a newer call started before this one finished
	ErrSuperseded = errors.New("identity call superseded")
)

// RemoteError is an error answer from the identity API. Message carries the
// server's error text, which Describe classifies.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Describe turns an identity error into the message shown to the user
func Describe(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrIncomplete):
		return ErrIncomplete.Error()
	case errors.Is(err, ErrTimeout):
		return "the connection is taking too long. check your internet and try again."
	}

	msg := err.Error()
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "already in use"):
		return "that email is already registered."
	case strings.Contains(lower, "badly formatted"):
		return "the email format is not valid."
	case strings.Contains(lower, "weak-password"), strings.Contains(lower, "weak_password"):
		return "the password is too weak. use at least 6 characters."
	case strings.Contains(lower, "network"):
		return "connection error. check your internet."
	}

	if msg == "" {
		msg = "unknown"
	}
	return fmt.Sprintf("error: %s. try again.", msg)
}
