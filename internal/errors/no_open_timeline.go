package errors

import "net/http"

var ErrNoOpenTimeline = &Exception{
	Message:    "no open timeline entry to close",
	StatusCode: http.StatusConflict,
}
