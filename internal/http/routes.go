package http

import (
	"time"

	"github.com/labstack/echo/v4"

	middleware "github.com/UT-B-VIMAL/hrms-backend/internal/http/middlewares"
)

// Register wires the API routes. Every endpoint sits behind bearer auth,
// then the per-user rate limiter.
func Register(e *echo.Echo, h *Handler, jwtSecret string, rateLimitPerMinute int) {
	api := e.Group("/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RateLimiter(rateLimitPerMinute, time.Minute),
	)

	api.POST("/tasks", h.CreateTask)
	api.GET("/tasks", h.ListTasks)
	api.GET("/tasks/:id", h.GetTask)
	api.PUT("/tasks/:id", h.UpdateTask)
	api.GET("/tasks/:id/history", h.TaskHistory)
	api.GET("/tasks/:id/remaining", h.TaskRemaining)
	api.GET("/tasks/:id/subtasks", h.ListSubtasks)

	api.POST("/subtasks", h.CreateSubtask)
	api.GET("/subtasks/:id", h.GetSubtask)
	api.PUT("/subtasks/:id", h.UpdateSubtask)
	api.GET("/subtasks/:id/history", h.SubtaskHistory)

	api.POST("/timeline/status", h.UpdateTimelineStatus)

	api.GET("/reports/employee/:user_id", h.EmployeeReport)
	api.GET("/reports/teamwise", h.TeamwiseProductivity)
}
