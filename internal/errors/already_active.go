package errors

import "net/http"

var ErrAlreadyActive = &Exception{
	Message:    "user already has an active timeline entry",
	StatusCode: http.StatusConflict,
}
