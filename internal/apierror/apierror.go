// Package apierror provides standardized error response structures for the API
// and the typed domain errors services return to handlers.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import (
	"errors"
	"net/http"
)

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
	Details map[string]any    `json:"details,omitempty"`
}

func New(msg string) *APIError {
	return &APIError{Message: msg}
}

// WithCause attaches the underlying cause as the "error" field.
func WithCause(msg string, cause error) *APIError {
	e := &APIError{Message: msg}
	if cause != nil {
		e.Error = cause.Error()
	}
	return e
}

// NewValidation wraps multiple field errors.
func NewValidation(fields map[string]string) *APIError {
	return &APIError{Message: "Error de validacion", Error: "validation_failed", Fields: fields}
}

// Kind classifies a domain error so the HTTP layer can pick a status code.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindForbidden
	KindUnauthorized
)

// Status maps a Kind to its HTTP status.
func (k Kind) Status() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// DomainError is returned by services for every expected failure.
type DomainError struct {
	Kind    Kind
	Message string
	Cause   error
	Details map[string]any
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error { return e.Cause }

// WithDetails returns a copy carrying extra structured details
// (dependency counts, offending ids...).
func (e *DomainError) WithDetails(details map[string]any) *DomainError {
	cp := *e
	cp.Details = details
	return &cp
}

func newKind(k Kind, msg string, cause ...error) *DomainError {
	e := &DomainError{Kind: k, Message: msg}
	if len(cause) > 0 {
		e.Cause = cause[0]
	}
	return e
}

func Validation(msg string, cause ...error) *DomainError { return newKind(KindValidation, msg, cause...) }
func Conflict(msg string, cause ...error) *DomainError   { return newKind(KindConflict, msg, cause...) }
func NotFound(msg string, cause ...error) *DomainError   { return newKind(KindNotFound, msg, cause...) }
func Forbidden(msg string, cause ...error) *DomainError  { return newKind(KindForbidden, msg, cause...) }
func Unauthorized(msg string, cause ...error) *DomainError {
	return newKind(KindUnauthorized, msg, cause...)
}

// KindOf reports the Kind of err, KindInternal when err is not a DomainError.
func KindOf(err error) Kind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}

// Is reports whether err is a DomainError of kind k.
func Is(err error, k Kind) bool {
	return err != nil && KindOf(err) == k
}

// FromError builds the response envelope and status for err.
// Internal errors keep the generic message but expose the cause string.
func FromError(err error) (int, *APIError) {
	var de *DomainError
	if errors.As(err, &de) {
		body := &APIError{Message: de.Message, Details: de.Details}
		if de.Cause != nil {
			body.Error = de.Cause.Error()
		}
		return de.Kind.Status(), body
	}
	return http.StatusInternalServerError, WithCause("Error interno del servidor", err)
}
