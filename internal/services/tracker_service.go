package services

import (
	"context"
	"fmt"
	"time"

	"github.com/UT-B-VIMAL/hrms-backend/internal/constants"
	"github.com/UT-B-VIMAL/hrms-backend/internal/duration"
	apperrors "github.com/UT-B-VIMAL/hrms-backend/internal/errors"
	model "github.com/UT-B-VIMAL/hrms-backend/internal/models"
	"github.com/UT-B-VIMAL/hrms-backend/internal/notify"
	repository "github.com/UT-B-VIMAL/hrms-backend/internal/repositories"
)

// TrackerService drives the task/subtask lifecycle: start/pause/end
// transitions over timeline rows, plain field updates, and the audit trail
// both produce.
type TrackerService struct {
	tasks     *repository.TaskRepository
	subtasks  *repository.SubtaskRepository
	timelines *repository.TimelineRepository
	history   *repository.HistoryRepository
	users     *repository.UserRepository
	notifier  *notify.Publisher
	clock     func() time.Time
}

func NewTrackerService(
	tasks *repository.TaskRepository,
	subtasks *repository.SubtaskRepository,
	timelines *repository.TimelineRepository,
	history *repository.HistoryRepository,
	users *repository.UserRepository,
	notifier *notify.Publisher,
) *TrackerService {
	return &TrackerService{
		tasks:     tasks,
		subtasks:  subtasks,
		timelines: timelines,
		history:   history,
		users:     users,
		notifier:  notifier,
		clock:     time.Now,
	}
}

// UpdateItemRequest carries a partial update. Nil fields are untouched.
// A (ActiveStatus, Status) pair of (1,1), (0,1) or (0,2) is a tracking
// transition; anything else is a plain column update.
type UpdateItemRequest struct {
	Name           *string `json:"name"`
	Status         *int    `json:"status"`
	ActiveStatus   *int    `json:"active_status"`
	UserID         *string `json:"user_id"`
	AssignedUserID *string `json:"assigned_user_id"`
	EstimatedHours *string `json:"estimated_hours"`
	Priority       *string `json:"priority"`
	Description    *string `json:"description"`
	DueDate        *string `json:"due_date"`
	ReopenStatus   *int    `json:"reopen_status"`
	UpdatedBy      string  `json:"updated_by"`
}

// CanTransition centralizes the role gate for tracking transitions: only
// the employee role starts, pauses or ends work.
func CanTransition(role constants.Role, action constants.TimelineAction) bool {
	switch action {
	case constants.ActionStart, constants.ActionPause, constants.ActionEnd:
		return role == constants.RoleEmployee
	}
	return false
}

func transitionFor(req UpdateItemRequest) (constants.TimelineAction, bool) {
	if req.ActiveStatus == nil || req.Status == nil {
		return "", false
	}
	switch {
	case *req.ActiveStatus == 1 && *req.Status == int(constants.StatusInProgress):
		return constants.ActionStart, true
	case *req.ActiveStatus == 0 && *req.Status == int(constants.StatusInProgress):
		return constants.ActionPause, true
	case *req.ActiveStatus == 0 && *req.Status == int(constants.StatusInReview):
		return constants.ActionEnd, true
	}
	return "", false
}

// itemState is the transition-relevant snapshot shared by tasks and
// subtasks, so both flows run through one diff/transition path.
type itemState struct {
	ID               string
	Name             string
	Status           constants.ItemStatus
	ActiveStatus     int
	UserID           string
	AssignedUserID   string
	EstimatedHours   string
	TotalHoursWorked string
	Priority         string
	Description      string
	DueDate          *time.Time
	ReopenStatus     int
	Version          uint
}

func taskState(t *model.Task) itemState {
	return itemState{
		ID: t.ID, Name: t.Name, Status: t.Status, ActiveStatus: t.ActiveStatus,
		UserID: t.UserID, AssignedUserID: t.AssignedUserID,
		EstimatedHours: t.EstimatedHours, TotalHoursWorked: t.TotalHoursWorked,
		Priority: t.Priority, Description: t.Description, DueDate: t.DueDate,
		ReopenStatus: t.ReopenStatus, Version: t.Version,
	}
}

func subtaskState(s *model.Subtask) itemState {
	return itemState{
		ID: s.ID, Name: s.Name, Status: s.Status, ActiveStatus: s.ActiveStatus,
		UserID: s.UserID, AssignedUserID: s.AssignedUserID,
		EstimatedHours: s.EstimatedHours, TotalHoursWorked: s.TotalHoursWorked,
		Priority: s.Priority, Description: s.Description, DueDate: s.DueDate,
		ReopenStatus: s.ReopenStatus, Version: s.Version,
	}
}

// UpdateTask applies a partial update to a task, running any recognized
// tracking transition against the timeline store.
func (s *TrackerService) UpdateTask(ctx context.Context, id string, req UpdateItemRequest) (*model.Task, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyUpdate(ctx, constants.KindTask, taskState(task), repository.TaskRef(id), req,
		func(ctx context.Context) (itemState, error) {
			fresh, err := s.tasks.FindByID(ctx, id)
			if err != nil {
				return itemState{}, err
			}
			return taskState(fresh), nil
		},
		func(ctx context.Context, version uint, updates map[string]interface{}) error {
			return s.tasks.UpdateFields(ctx, id, version, updates)
		},
	); err != nil {
		return nil, err
	}

	return s.tasks.FindByID(ctx, id)
}

// UpdateSubtask is the subtask counterpart of UpdateTask.
func (s *TrackerService) UpdateSubtask(ctx context.Context, id string, req UpdateItemRequest) (*model.Subtask, error) {
	subtask, err := s.subtasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.applyUpdate(ctx, constants.KindSubtask, subtaskState(subtask), repository.SubtaskRef(id), req,
		func(ctx context.Context) (itemState, error) {
			fresh, err := s.subtasks.FindByID(ctx, id)
			if err != nil {
				return itemState{}, err
			}
			return subtaskState(fresh), nil
		},
		func(ctx context.Context, version uint, updates map[string]interface{}) error {
			return s.subtasks.UpdateFields(ctx, id, version, updates)
		},
	); err != nil {
		return nil, err
	}

	return s.subtasks.FindByID(ctx, id)
}

// ApplyTimelineAction is the explicit start/pause/end entry point. It maps
// the action onto the same (active_status, status) pairs the update payload
// carries, so both endpoints share one transition path.
func (s *TrackerService) ApplyTimelineAction(ctx context.Context, kind constants.ItemKind, id, actorID string, action constants.TimelineAction) error {
	var active, status int
	switch action {
	case constants.ActionStart:
		active, status = 1, int(constants.StatusInProgress)
	case constants.ActionPause:
		active, status = 0, int(constants.StatusInProgress)
	case constants.ActionEnd:
		active, status = 0, int(constants.StatusInReview)
	default:
		return apperrors.ErrInvalidStatus
	}

	req := UpdateItemRequest{
		ActiveStatus: &active,
		Status:       &status,
		UpdatedBy:    actorID,
	}

	var err error
	if kind == constants.KindSubtask {
		_, err = s.UpdateSubtask(ctx, id, req)
	} else {
		_, err = s.UpdateTask(ctx, id, req)
	}
	return err
}

func (s *TrackerService) applyUpdate(
	ctx context.Context,
	kind constants.ItemKind,
	state itemState,
	ref repository.ItemRef,
	req UpdateItemRequest,
	reload func(context.Context) (itemState, error),
	persist func(context.Context, uint, map[string]interface{}) error,
) error {
	actor, err := s.users.FindByID(ctx, req.UpdatedBy)
	if err != nil {
		return err
	}

	updates, entries, err := diffFields(state, ref, req)
	if err != nil {
		return err
	}

	action, isTransition := transitionFor(req)
	if !isTransition && len(updates) == 0 {
		return apperrors.ErrNothingToUpdate
	}

	now := s.clock()

	if isTransition {
		if !CanTransition(actor.Role, action) {
			return apperrors.ErrNotAuthorized
		}

		switch action {
		case constants.ActionStart:
			if _, err := s.timelines.Open(ctx, actor.ID, ref, now); err != nil {
				return err
			}
			updates["active_status"] = 1
			entries = append(entries, historyEntry(ref, constants.FlagActiveStatus, "0", "1",
				"time tracking started", req.UpdatedBy))
			if state.Status != constants.StatusInProgress {
				updates["status"] = int(constants.StatusInProgress)
				entries = append(entries, historyEntry(ref, constants.FlagStatus,
					state.Status.String(), constants.StatusInProgress.String(),
					"status changed", req.UpdatedBy))
			}

		case constants.ActionPause, constants.ActionEnd:
			elapsed, err := s.timelines.Close(ctx, actor.ID, ref, now)
			if err != nil {
				return err
			}

			// Close already credited the item and bumped its version;
			// reload before any further column writes.
			fresh, err := reload(ctx)
			if err != nil {
				return err
			}

			reason := "paused"
			if action == constants.ActionEnd {
				reason = "completed"
				updates["status"] = int(constants.StatusInReview)
				entries = append(entries, historyEntry(ref, constants.FlagStatus,
					state.Status.String(), constants.StatusInReview.String(),
					"status changed", req.UpdatedBy))
			}
			entries = append(entries, historyEntry(ref, constants.FlagTimeline,
				state.TotalHoursWorked, fresh.TotalHoursWorked,
				fmt.Sprintf("%s after %s", reason, elapsed), req.UpdatedBy))

			state = fresh
		}
	}

	if len(updates) > 0 {
		if err := persist(ctx, state.Version, updates); err != nil {
			return err
		}
	}

	if err := s.history.Append(ctx, entries); err != nil {
		return err
	}

	if s.notifier != nil && isTransition {
		s.notifier.Publish(ctx, notify.Event{
			Kind:    string(kind),
			ItemID:  state.ID,
			Action:  string(action),
			Message: fmt.Sprintf("%s %s %q", actor.Name, pastTense(action), state.Name),
			ActorID: actor.ID,
		}, state.UserID, state.AssignedUserID)
	}

	return nil
}

// diffFields turns the provided non-transition fields into a column update
// map plus one history entry per actually-changed field. Fields equal to
// the current value are skipped entirely.
func diffFields(state itemState, ref repository.ItemRef, req UpdateItemRequest) (map[string]interface{}, []model.History, error) {
	updates := make(map[string]interface{})
	var entries []model.History

	record := func(flag int, column, oldVal, newVal string, value interface{}) {
		updates[column] = value
		entries = append(entries, historyEntry(ref, flag, oldVal, newVal,
			column+" changed", req.UpdatedBy))
	}

	if req.Name != nil && *req.Name != state.Name {
		record(constants.FlagName, "name", state.Name, *req.Name, *req.Name)
	}
	if req.UserID != nil && *req.UserID != state.UserID {
		record(constants.FlagAssignee, "user_id", state.UserID, *req.UserID, *req.UserID)
	}
	if req.AssignedUserID != nil && *req.AssignedUserID != state.AssignedUserID {
		record(constants.FlagSecondary, "assigned_user_id", state.AssignedUserID, *req.AssignedUserID, *req.AssignedUserID)
	}
	if req.EstimatedHours != nil {
		// Estimates accept "1d 2h" literals under the 8h-workday policy.
		parsed, err := duration.ParseHuman(*req.EstimatedHours, duration.Workday)
		if err != nil {
			return nil, nil, apperrors.ErrInvalidDuration
		}
		if parsed.String() != state.EstimatedHours {
			record(constants.FlagEstimate, "estimated_hours", state.EstimatedHours, parsed.String(), parsed.String())
		}
	}
	if req.Priority != nil && *req.Priority != state.Priority {
		record(constants.FlagPriority, "priority", state.Priority, *req.Priority, *req.Priority)
	}
	if req.Description != nil && *req.Description != state.Description {
		record(constants.FlagDescription, "description", state.Description, *req.Description, *req.Description)
	}
	if req.DueDate != nil {
		due, err := time.Parse("2006-01-02", *req.DueDate)
		if err != nil {
			return nil, nil, &apperrors.Exception{Message: "invalid due_date, want YYYY-MM-DD", StatusCode: 400}
		}
		if state.DueDate == nil || !state.DueDate.Equal(due) {
			oldVal := ""
			if state.DueDate != nil {
				oldVal = state.DueDate.Format("2006-01-02")
			}
			record(constants.FlagDueDate, "due_date", oldVal, *req.DueDate, due)
		}
	}
	if req.ReopenStatus != nil && *req.ReopenStatus != state.ReopenStatus {
		record(constants.FlagReopen, "reopen_status",
			fmt.Sprint(state.ReopenStatus), fmt.Sprint(*req.ReopenStatus), *req.ReopenStatus)
	}

	// Status/active pairs that form a transition are handled by the state
	// machine; a bare status change (e.g. moving to Done after review) is a
	// plain column update.
	if _, isTransition := transitionFor(req); !isTransition && req.Status != nil {
		next := constants.ItemStatus(*req.Status)
		if !next.Valid() {
			return nil, nil, apperrors.ErrInvalidStatus
		}
		if next != state.Status {
			record(constants.FlagStatus, "status", state.Status.String(), next.String(), int(next))
		}
	}

	return updates, entries, nil
}

func historyEntry(ref repository.ItemRef, flag int, oldVal, newVal, description, updatedBy string) model.History {
	return model.History{
		TaskID:      ref.TaskID,
		SubtaskID:   ref.SubtaskID,
		OldValue:    oldVal,
		NewValue:    newVal,
		Description: description,
		StatusFlag:  flag,
		UpdatedBy:   updatedBy,
	}
}

func pastTense(action constants.TimelineAction) string {
	switch action {
	case constants.ActionStart:
		return "started"
	case constants.ActionPause:
		return "paused"
	case constants.ActionEnd:
		return "completed"
	}
	return string(action)
}
