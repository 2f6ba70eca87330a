package validators

import (
	"net/http"

	"github.com/UT-B-VIMAL/hrms-backend/internal/constants"
	apperrors "github.com/UT-B-VIMAL/hrms-backend/internal/errors"
	"github.com/UT-B-VIMAL/hrms-backend/internal/services"
)

func required(field string) error {
	return &apperrors.Exception{
		Message:    field + " is required",
		StatusCode: http.StatusBadRequest,
	}
}

func ValidateCreateTaskRequest(r *services.CreateTaskRequest) error {
	if r.Name == "" {
		return required("name")
	}
	if r.UserID == "" {
		return required("user_id")
	}
	if r.TeamID == "" {
		return required("team_id")
	}
	return nil
}

func ValidateCreateSubtaskRequest(r *services.CreateSubtaskRequest) error {
	if r.TaskID == "" {
		return required("task_id")
	}
	if r.Name == "" {
		return required("name")
	}
	if r.UserID == "" {
		return required("user_id")
	}
	return nil
}

// TimelineStatusRequest is the explicit tracking entry point's payload.
type TimelineStatusRequest struct {
	ID     string `json:"id"`
	Action string `json:"action"`
	Type   string `json:"type"`
}

func ValidateTimelineStatusRequest(r *TimelineStatusRequest) error {
	if r.ID == "" {
		return required("id")
	}

	switch constants.TimelineAction(r.Action) {
	case constants.ActionStart, constants.ActionPause, constants.ActionEnd:
	default:
		return &apperrors.Exception{
			Message:    "action must be start, pause or end",
			StatusCode: http.StatusBadRequest,
		}
	}

	switch constants.ItemKind(r.Type) {
	case constants.KindTask, constants.KindSubtask:
	default:
		return &apperrors.Exception{
			Message:    "type must be task or subtask",
			StatusCode: http.StatusBadRequest,
		}
	}

	return nil
}
