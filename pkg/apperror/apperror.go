package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError signals malformed input. Surfaced verbatim, never retried.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Validation builds a ValidationError from a format string
func Validation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidTransitionError signals a status transition the state machine does not permit
type InvalidTransitionError struct {
	Entity    string
	From      string
	Attempted string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s in status %s does not permit transition to %s", e.Entity, e.From, e.Attempted)
}

// InvalidTransition builds an InvalidTransitionError
func InvalidTransition(entity, from, attempted string) error {
	return &InvalidTransitionError{Entity: entity, From: from, Attempted: attempted}
}

// AuthorizationError signals the caller lacks a required role
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string { return e.Msg }

// Authorization builds an AuthorizationError
func Authorization(format string, args ...interface{}) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError signals a referenced id does not exist
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// NotFound builds a NotFoundError
func NotFound(entity string, id uint) error {
	return &NotFoundError{Entity: entity, ID: id}
}

// HTTPStatus maps the taxonomy onto HTTP status codes; anything unrecognized is a 500
func HTTPStatus(err error) int {
	var (
		validation *ValidationError
		transition *InvalidTransitionError
		authz      *AuthorizationError
		notFound   *NotFoundError
	)
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &transition):
		return http.StatusConflict
	case errors.As(err, &authz):
		return http.StatusForbidden
	case errors.As(err, &notFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
