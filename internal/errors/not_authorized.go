package errors

import "net/http"

var ErrNotAuthorized = &Exception{
	Message:    "role is not permitted to change tracking state",
	StatusCode: http.StatusForbidden,
}
