package errors

import "net/http"

var ErrNothingToUpdate = &Exception{
	Message:    "no fields to update",
	StatusCode: http.StatusBadRequest,
}
