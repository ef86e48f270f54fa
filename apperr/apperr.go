package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrNotFound is returned when a session, product or line item does not exist
	ErrNotFound = errors.New("not found")
	// ErrUnavailable is returned when a complete selection has no matching variant
	ErrUnavailable = errors.New("unavailable")
)

// ValidationError reports user input that must be fixed before retrying.
// Fields lists the offending field names, e.g. ["name", "phone"].
type ValidationError struct {
	Fields []string
	Err    error
}

func (e *ValidationError) Error() string {
	msg := "validation failed"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if len(e.Fields) == 0 {
		return msg
	}
	return fmt.Sprintf("%s: %s", msg, strings.Join(e.Fields, ", "))
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Validation builds a ValidationError around err
func Validation(err error, fields ...string) error {
	return &ValidationError{Fields: fields, Err: err}
}

// TransientError wraps a network or save failure. Application state is left
// as it was, so the same operation can be retried.
type TransientError struct {
	Op  string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Transient wraps err as a TransientError. nil stays nil.
func Transient(op string, err error) error {
	if err == nil {
		return nil
	}
	return &TransientError{Op: op, Err: err}
}

// IsTransient reports whether err carries a TransientError
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}

// IsCanceled reports whether err comes from a canceled or superseded operation.
// Those results are dropped without being shown to the user.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// HTTPStatus maps an error to the status code the admin API responds with
func HTTPStatus(err error) int {
	var ve *ValidationError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &ve):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnavailable):
		return http.StatusConflict
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case IsTransient(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
