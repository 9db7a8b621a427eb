package errors

import (
	"encoding/json"
	"net/http"
)

// HTTPError represents an error with an associated HTTP status code.
type HTTPError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Field   string `json:"field,omitempty"`
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
	ErrUnauthorized = func(msg string) *HTTPError { return NewHTTPError(http.StatusUnauthorized, msg) }
	ErrBadRequest   = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadRequest, msg) }
	ErrNotFound     = func(msg string) *HTTPError { return NewHTTPError(http.StatusNotFound, msg) }
	ErrConflict     = func(msg string) *HTTPError { return NewHTTPError(http.StatusConflict, msg) }
	ErrBadGateway   = func(msg string) *HTTPError { return NewHTTPError(http.StatusBadGateway, msg) }
)

// WriteJSON writes e as {"error": ..., "field": ...} with its status code.
func WriteJSON(w http.ResponseWriter, e *HTTPError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Code)
	_ = json.NewEncoder(w).Encode(e)
}
