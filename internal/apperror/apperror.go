package apperror

import "net/http"

// APIError is a status-coded error raised by the service layer and translated
// into an HTTP response by the error-handling middleware. Services never
// swallow failures; everything bubbles up as one of these or a plain error
// (which the middleware treats as a 500).
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

func New(statusCode int, message string) *APIError {
	return &APIError{StatusCode: statusCode, Message: message}
}

func NewBadRequest(message string) *APIError {
	return New(http.StatusBadRequest, message)
}

func NewUnauthorized(message string) *APIError {
	return New(http.StatusUnauthorized, message)
}

func NewForbidden(message string) *APIError {
	return New(http.StatusForbidden, message)
}

func NewNotFound(message string) *APIError {
	return New(http.StatusNotFound, message)
}

func NewNotAcceptable(message string) *APIError {
	return New(http.StatusNotAcceptable, message)
}

func NewConflict(message string) *APIError {
	return New(http.StatusConflict, message)
}

// NewGone marks an expired access token so clients know to refresh.
func NewGone(message string) *APIError {
	return New(http.StatusGone, message)
}

func NewUnprocessableEntity(message string) *APIError {
	return New(http.StatusUnprocessableEntity, message)
}
