package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/UT-B-VIMAL/hrms-backend/internal/constants"
	apperrors "github.com/UT-B-VIMAL/hrms-backend/internal/errors"
	middleware "github.com/UT-B-VIMAL/hrms-backend/internal/http/middlewares"
	"github.com/UT-B-VIMAL/hrms-backend/internal/http/validators"
	repository "github.com/UT-B-VIMAL/hrms-backend/internal/repositories"
	"github.com/UT-B-VIMAL/hrms-backend/internal/services"
)

var errInvalidJSON = &apperrors.Exception{
	Message:    "invalid JSON payload",
	StatusCode: http.StatusBadRequest,
}

type Handler struct {
	taskService    *services.TaskService
	trackerService *services.TrackerService
	reportService  *services.ReportService
	loc            *time.Location
}

func NewHandler(
	taskService *services.TaskService,
	trackerService *services.TrackerService,
	reportService *services.ReportService,
	loc *time.Location,
) *Handler {
	return &Handler{
		taskService:    taskService,
		trackerService: trackerService,
		reportService:  reportService,
		loc:            loc,
	}
}

func (h *Handler) CreateTask(c echo.Context) error {
	var req services.CreateTaskRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, errInvalidJSON)
	}
	if err := validators.ValidateCreateTaskRequest(&req); err != nil {
		return fail(c, err)
	}

	task, err := h.taskService.CreateTask(c.Request().Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, "task created", task)
}

func (h *Handler) GetTask(c echo.Context) error {
	task, err := h.taskService.GetTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "task fetched", task)
}

func (h *Handler) ListTasks(c echo.Context) error {
	filter := repository.ListFilter{
		TeamID: c.QueryParam("team_id"),
		UserID: c.QueryParam("user_id"),
	}
	if v := c.QueryParam("status"); v != "" {
		status, err := strconv.Atoi(v)
		if err != nil || !constants.ItemStatus(status).Valid() {
			return fail(c, apperrors.ErrInvalidStatus)
		}
		filter.Status = &status
	}
	filter.Page, _ = strconv.Atoi(c.QueryParam("page"))
	filter.PerPage, _ = strconv.Atoi(c.QueryParam("per_page"))

	tasks, total, err := h.taskService.ListTasks(c.Request().Context(), filter)
	if err != nil {
		return fail(c, err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	return okPaged(c, "tasks fetched", tasks, Pagination{Page: page, PerPage: perPage, Total: total})
}

// UpdateTask drives the tracking state machine: a payload pairing
// active_status with status is a start/pause/end transition, anything else
// is a plain field update.
func (h *Handler) UpdateTask(c echo.Context) error {
	var req services.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, errInvalidJSON)
	}
	if req.UpdatedBy == "" {
		req.UpdatedBy = middleware.UserID(c)
	}

	task, err := h.trackerService.UpdateTask(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "task updated", task)
}

func (h *Handler) TaskHistory(c echo.Context) error {
	entries, err := h.taskService.TaskHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "task history fetched", entries)
}

func (h *Handler) TaskRemaining(c echo.Context) error {
	remaining, err := h.reportService.RemainingForTask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "remaining hours fetched", remaining)
}

func (h *Handler) CreateSubtask(c echo.Context) error {
	var req services.CreateSubtaskRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, errInvalidJSON)
	}
	if err := validators.ValidateCreateSubtaskRequest(&req); err != nil {
		return fail(c, err)
	}

	subtask, err := h.taskService.CreateSubtask(c.Request().Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, "subtask created", subtask)
}

func (h *Handler) GetSubtask(c echo.Context) error {
	subtask, err := h.taskService.GetSubtask(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "subtask fetched", subtask)
}

func (h *Handler) ListSubtasks(c echo.Context) error {
	subtasks, err := h.taskService.ListSubtasks(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "subtasks fetched", subtasks)
}

func (h *Handler) UpdateSubtask(c echo.Context) error {
	var req services.UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, errInvalidJSON)
	}
	if req.UpdatedBy == "" {
		req.UpdatedBy = middleware.UserID(c)
	}

	subtask, err := h.trackerService.UpdateSubtask(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "subtask updated", subtask)
}

func (h *Handler) SubtaskHistory(c echo.Context) error {
	entries, err := h.taskService.SubtaskHistory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "subtask history fetched", entries)
}

// UpdateTimelineStatus is the explicit start/pause/end entry point.
func (h *Handler) UpdateTimelineStatus(c echo.Context) error {
	var req validators.TimelineStatusRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, errInvalidJSON)
	}
	if err := validators.ValidateTimelineStatusRequest(&req); err != nil {
		return fail(c, err)
	}

	err := h.trackerService.ApplyTimelineAction(
		c.Request().Context(),
		constants.ItemKind(req.Type),
		req.ID,
		middleware.UserID(c),
		constants.TimelineAction(req.Action),
	)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "timeline "+req.Action+" applied", nil)
}

func (h *Handler) EmployeeReport(c echo.Context) error {
	from, to, err := h.dateRange(c)
	if err != nil {
		return fail(c, err)
	}

	report, err := h.reportService.EmployeeWorkReport(c.Request().Context(), c.Param("user_id"), from, to)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "work report fetched", report)
}

func (h *Handler) TeamwiseProductivity(c echo.Context) error {
	rollup, err := h.reportService.TeamwiseProductivity(c.Request().Context())
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "teamwise productivity fetched", rollup)
}

// dateRange reads ?from=&to= (YYYY-MM-DD, local), defaulting to today.
func (h *Handler) dateRange(c echo.Context) (time.Time, time.Time, error) {
	parse := func(v string) (time.Time, error) {
		t, err := time.ParseInLocation("2006-01-02", v, h.loc)
		if err != nil {
			return time.Time{}, &apperrors.Exception{
				Message:    "invalid date, want YYYY-MM-DD",
				StatusCode: http.StatusBadRequest,
			}
		}
		return t, nil
	}

	now := time.Now().In(h.loc)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc)
	to := from

	var err error
	if v := c.QueryParam("from"); v != "" {
		if from, err = parse(v); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if v := c.QueryParam("to"); v != "" {
		if to, err = parse(v); err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	return from, to, nil
}
