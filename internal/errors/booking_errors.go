package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

var (
	ErrInvalidTransition = stderrors.New("action not allowed in the current booking step")
	ErrSessionNotFound   = stderrors.New("booking session not found")
	ErrEmailDisabled     = stderrors.New("confirmation email is not configured")
)

// ValidationError is a missing or malformed field caught before any network call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ServerError means the booking endpoint rejected the request or could not be reached.
// Status is zero for transport failures and timeouts.
type ServerError struct {
	Status  int
	Message string
	Err     error
}

func (e *ServerError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("booking endpoint unreachable: %s", e.Message)
	}
	return fmt.Sprintf("booking endpoint returned %d: %s", e.Status, e.Message)
}

func (e *ServerError) Unwrap() error {
	return e.Err
}

// UserMessage is the text shown to the visitor after a failed submission.
func (e *ServerError) UserMessage() string {
	return fmt.Sprintf("%s. Please try again, or contact us directly to complete your booking.", e.Message)
}

// EmailDeliveryWarning records a confirmation email that failed after the booking was accepted.
// It never fails the booking.
type EmailDeliveryWarning struct {
	BookingID string
	Err       error
}

func (w *EmailDeliveryWarning) Error() string {
	return fmt.Sprintf("confirmation email for booking %s not sent: %v", w.BookingID, w.Err)
}

func (w *EmailDeliveryWarning) Unwrap() error {
	return w.Err
}

// ToHTTP maps a domain error onto the response the API writes.
func ToHTTP(err error) *HTTPError {
	var httpErr *HTTPError
	if stderrors.As(err, &httpErr) {
		return httpErr
	}
	var validation *ValidationError
	if stderrors.As(err, &validation) {
		return &HTTPError{Code: http.StatusBadRequest, Message: validation.Message, Field: validation.Field}
	}
	var server *ServerError
	if stderrors.As(err, &server) {
		return ErrBadGateway(server.UserMessage())
	}
	switch {
	case stderrors.Is(err, ErrSessionNotFound):
		return ErrNotFound(err.Error())
	case stderrors.Is(err, ErrInvalidTransition):
		return ErrConflict(err.Error())
	}
	return NewHTTPError(http.StatusInternalServerError, "Internal server error")
}
