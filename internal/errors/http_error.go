package errors

import (
	stderrors "errors"
	"net/http"

	"carrental/internal/repository"
	"carrental/internal/reservation"
	"carrental/internal/service"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int
	Message string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTPError with the given code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{
		Code:    code,
		Message: message,
	}
}

// Helpers for common errors
var (
	ErrBadRequest    = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }
	ErrUnauthorized  = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }
	ErrNotFound      = func(msg string) *HTTPError { return NewHTTPError(http.StatusNotFound, msg) }
	ErrConflict      = func(msg string) *HTTPError { return NewHTTPError(http.StatusConflict, msg) }
	ErrUnprocessable = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnprocessableEntity, msg) }
	ErrInternal      = func() *HTTPError { return NewHTTPError(http.StatusInternalServerError, "internal server error") }
)

// FromError maps domain errors to their HTTP status. Unknown errors become a
// 500 without leaking their message.
func FromError(err error) *HTTPError {
	var httpErr *HTTPError
	switch {
	case stderrors.As(err, &httpErr):
		return httpErr
	case stderrors.Is(err, repository.ErrVehicleNotFound),
		stderrors.Is(err, repository.ErrSessionNotFound):
		return ErrNotFound(err.Error())
	case stderrors.Is(err, reservation.ErrIncompleteStep),
		stderrors.Is(err, reservation.ErrTermsNotAccepted):
		return ErrUnprocessable(err.Error())
	case stderrors.Is(err, reservation.ErrAlreadySubmitted),
		stderrors.Is(err, reservation.ErrNoPreviousStep),
		stderrors.Is(err, service.ErrVehicleUnavailable),
		stderrors.Is(err, repository.ErrAdminExists):
		return ErrConflict(err.Error())
	case stderrors.Is(err, reservation.ErrVehicleRequired),
		stderrors.Is(err, service.ErrInvalidVehicle):
		return ErrBadRequest(err.Error())
	case stderrors.Is(err, service.ErrInvalidCredentials):
		return ErrUnauthorized(err.Error())
	}
	return ErrInternal()
}
