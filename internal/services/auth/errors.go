package auth

import (
	"errors"
	"strings"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("user with that email or username already exists")
	ErrInvalidData        = errors.New("invalid data")
)

// InvalidDataError carries the SSO service's validation details. Fields is
// set when the service reported errors per field.
type InvalidDataError struct {
	Msg    string
	Fields map[string]string
}

func (e *InvalidDataError) Error() string {
	if e.Msg == "" {
		return ErrInvalidData.Error()
	}
	return strings.TrimSpace(e.Msg)
}

func (e *InvalidDataError) Unwrap() error {
	return ErrInvalidData
}
