package identity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"incomplete", ErrIncomplete, "please complete all fields"},
		{"timeout", fmt.Errorf("register: %w", ErrTimeout), "the connection is taking too long. check your internet and try again."},
		{"in use", &RemoteError{Status: 409, Message: "The email address is ALREADY IN USE by another account"}, "that email is already registered."},
		{"bad format", &RemoteError{Status: 400, Message: "the email address is badly formatted"}, "the email format is not valid."},
		{"weak lower", &RemoteError{Status: 400, Message: "weak-password: password should be at least 6 characters"}, "the password is too weak. use at least 6 characters."},
		{"weak upper", errors.New("WEAK_PASSWORD"), "the password is too weak. use at least 6 characters."},
		{"network", errors.New("network error: dial tcp: connection refused"), "connection error. check your internet."},
		{"other", errors.New("quota exceeded"), "error: quota exceeded. try again."},
		{"empty", &RemoteError{Status: 500}, "error: unknown. try again."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Describe(tt.err))
		})
	}
}
