package apperrors

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error standardizes application errors with an HTTP mapping.
type Error struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New constructs an Error.
func New(code, message string, status int, details map[string]any) *Error {
	return &Error{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidation reports a malformed field. Always recoverable by resubmission.
func NewValidation(message string, details map[string]any) error {
	return New("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

// NewNotFound reports an identifier that does not resolve within the caller's
// visible scope.
func NewNotFound(resource string, details map[string]any) error {
	return New("NOT_FOUND", fmt.Sprintf("%s not found", resource), http.StatusNotFound, details)
}

func NewUnauthorized(message string) error {
	return New("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return New("FORBIDDEN", message, http.StatusForbidden, nil)
}

// NewConflict reports a logical no-op transition. The API contract surfaces
// these as 400, not 409.
func NewConflict(message string, details map[string]any) error {
	return New("CONFLICT", message, http.StatusBadRequest, details)
}

func NewInternal(err error) error {
	return &Error{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// FromError converts arbitrary errors to *Error, mapping storage row-miss
// errors to NOT_FOUND.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NewNotFound("resource", nil).(*Error)
	}
	return NewInternal(err).(*Error)
}

// IsCode reports whether err carries the given application error code.
func IsCode(err error, code string) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}
