package errors

import "net/http"

var ErrInvalidDuration = &Exception{
	Message:    "invalid duration, want HH:MM:SS",
	StatusCode: http.StatusBadRequest,
}
