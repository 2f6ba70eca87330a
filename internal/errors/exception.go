// Package errors defines the service-level error sentinels and their HTTP
// status mapping.
package errors

import (
	"errors"
	"net/http"
)

type Exception struct {
	Message    string
	StatusCode int
}

func (e *Exception) Error() string {
	return e.Message
}

// StatusCode maps a service error to its HTTP status. Unknown errors are
// reported as 500.
func StatusCode(err error) int {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}

// ClientMessage returns the message safe to put in a response envelope.
// Non-Exception errors (driver failures and the like) are masked.
func ClientMessage(err error) string {
	var appErr *Exception
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
