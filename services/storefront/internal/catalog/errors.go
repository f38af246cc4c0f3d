package catalog

import (
	"errors"
	"fmt"
)

// StatusError is a non-2xx answer from the catalog API. Body is kept verbatim.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("error %d: %s", e.Status, e.Body)
}

// TransportError wraps a failure to reach the catalog or read its answer
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Describe renders err as the message shown to the user
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Error()
	}
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		return transportErr.Error()
	}
	return err.Error()
}
