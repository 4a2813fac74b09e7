package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds shared by services and handlers. Handlers never inspect messages,
// only kinds, so every service error should wrap exactly one of these.
var (
	ErrValidation         = errors.New("validation failed")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidPassword    = errors.New("invalid password")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrTooManyAttempts    = errors.New("too many failed attempts")
)

// AppError pairs an error kind with the message shown to the client.
type AppError struct {
	Kind    error
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Kind
}

// NewError builds an AppError of the given kind.
func NewError(kind error, format string, args ...interface{}) error {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// ValidationError wraps a validator error (ozzo or hand-written) as ErrValidation.
func ValidationError(err error) error {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}
	return &AppError{Kind: ErrValidation, Message: err.Error()}
}

// NotFoundError reports a missing resource by name.
func NotFoundError(resource string) error {
	return &AppError{Kind: ErrNotFound, Message: fmt.Sprintf("%s not found", resource)}
}

// StatusCode maps an error kind to its HTTP status.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, ErrInvalidPassword):
		return http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrTooManyAttempts):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text safe to send to a client. Unauthorized is
// always reported with the same text so callers cannot tell expired from forged.
func PublicMessage(err error) string {
	if errors.Is(err, ErrUnauthorized) {
		return ErrUnauthorized.Error()
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	for _, kind := range []error{ErrValidation, ErrInvalidCredentials, ErrInvalidPassword, ErrNotFound, ErrConflict, ErrTooManyAttempts} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return "internal server error"
}
