package httperr

import "net/http"

// Stable error codes the client is expected to special-case.
const (
	CodeQuotaExceeded     = "QUOTA_EXCEEDED"
	CodeAlreadyCheckedOut = "ALREADY_CHECKED_OUT"
	CodeBookingConflict   = "BOOKING_CONFLICT"
	CodeDuplicatePlate    = "DUPLICATE_PLATE"
	CodeDuplicateEmail    = "DUPLICATE_EMAIL"
)

// Error represents an error with an associated HTTP status code, an optional
// stable machine-readable code, and an optional offending field.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"error"`
}

func (e *Error) Error() string {
	return e.Message
}

// New creates an Error with the given status and message.
func New(status int, message string) *Error {
	return &Error{Status: status, Message: message}
}

// Validation marks a malformed or missing input field.
func Validation(field, message string) *Error {
	return &Error{Status: http.StatusBadRequest, Field: field, Message: message}
}

// Unauthorized is returned when no valid session identity is present.
func Unauthorized(message string) *Error {
	return New(http.StatusUnauthorized, message)
}

// Forbidden is returned on role or ownership mismatches.
func Forbidden(message string) *Error {
	return New(http.StatusForbidden, message)
}

// NotFound is returned when a referenced record does not exist or is
// soft-deleted.
func NotFound(message string) *Error {
	return New(http.StatusNotFound, message)
}

// Conflict carries a stable code so the client can render a specific message.
func Conflict(code, message string) *Error {
	return &Error{Status: http.StatusConflict, Code: code, Message: message}
}

// Internal hides upstream failures behind a generic message.
func Internal() *Error {
	return New(http.StatusInternalServerError, "internal server error")
}
