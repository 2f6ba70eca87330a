package http

import (
	"log"
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "github.com/UT-B-VIMAL/hrms-backend/internal/errors"
)

// Envelope is the uniform response body for every endpoint.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Success    bool        `json:"success"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data,omitempty"`
	Pagination *Pagination `json:"pagination,omitempty"`
	Error      string      `json:"error,omitempty"`
}

type Pagination struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func ok(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{
		StatusCode: status,
		Success:    true,
		Message:    message,
		Data:       data,
	})
}

func okPaged(c echo.Context, message string, data interface{}, p Pagination) error {
	return c.JSON(http.StatusOK, Envelope{
		StatusCode: http.StatusOK,
		Success:    true,
		Message:    message,
		Data:       data,
		Pagination: &p,
	})
}

// fail maps a service error onto the envelope. Unknown errors are logged
// server-side and masked in the response.
func fail(c echo.Context, err error) error {
	status := apperrors.StatusCode(err)
	if status == http.StatusInternalServerError {
		log.Printf("%s %s: %v", c.Request().Method, c.Request().URL.Path, err)
	}
	message := apperrors.ClientMessage(err)
	return c.JSON(status, Envelope{
		StatusCode: status,
		Success:    false,
		Message:    message,
		Error:      message,
	})
}
