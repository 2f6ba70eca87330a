package services

import (
	"context"

	"github.com/UT-B-VIMAL/hrms-backend/internal/duration"
	apperrors "github.com/UT-B-VIMAL/hrms-backend/internal/errors"
	model "github.com/UT-B-VIMAL/hrms-backend/internal/models"
	repository "github.com/UT-B-VIMAL/hrms-backend/internal/repositories"
)

// TaskService covers the read/create surface the tracking flow presupposes.
type TaskService struct {
	tasks    *repository.TaskRepository
	subtasks *repository.SubtaskRepository
	history  *repository.HistoryRepository
	users    *repository.UserRepository
	teams    *repository.TeamRepository
}

func NewTaskService(
	tasks *repository.TaskRepository,
	subtasks *repository.SubtaskRepository,
	history *repository.HistoryRepository,
	users *repository.UserRepository,
	teams *repository.TeamRepository,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		subtasks: subtasks,
		history:  history,
		users:    users,
		teams:    teams,
	}
}

type CreateTaskRequest struct {
	Name           string `json:"name"`
	Product        string `json:"product"`
	Project        string `json:"project"`
	TeamID         string `json:"team_id"`
	UserID         string `json:"user_id"`
	AssignedUserID string `json:"assigned_user_id"`
	EstimatedHours string `json:"estimated_hours"`
	Priority       string `json:"priority"`
	Description    string `json:"description"`
}

type CreateSubtaskRequest struct {
	TaskID         string `json:"task_id"`
	Name           string `json:"name"`
	TeamID         string `json:"team_id"`
	UserID         string `json:"user_id"`
	AssignedUserID string `json:"assigned_user_id"`
	EstimatedHours string `json:"estimated_hours"`
	Priority       string `json:"priority"`
	Description    string `json:"description"`
}

func (s *TaskService) CreateTask(ctx context.Context, req CreateTaskRequest) (*model.Task, error) {
	estimate, err := s.resolveRefs(ctx, req.UserID, req.TeamID, req.EstimatedHours)
	if err != nil {
		return nil, err
	}

	task := &model.Task{
		Name:           req.Name,
		Product:        req.Product,
		Project:        req.Project,
		TeamID:         req.TeamID,
		UserID:         req.UserID,
		AssignedUserID: req.AssignedUserID,
		EstimatedHours: estimate,
		Priority:       req.Priority,
		Description:    req.Description,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) CreateSubtask(ctx context.Context, req CreateSubtaskRequest) (*model.Subtask, error) {
	// The parent must exist before any of the reference checks matter.
	if _, err := s.tasks.FindByID(ctx, req.TaskID); err != nil {
		return nil, err
	}
	estimate, err := s.resolveRefs(ctx, req.UserID, req.TeamID, req.EstimatedHours)
	if err != nil {
		return nil, err
	}

	subtask := &model.Subtask{
		TaskID:         req.TaskID,
		Name:           req.Name,
		TeamID:         req.TeamID,
		UserID:         req.UserID,
		AssignedUserID: req.AssignedUserID,
		EstimatedHours: estimate,
		Priority:       req.Priority,
		Description:    req.Description,
	}
	if err := s.subtasks.Create(ctx, subtask); err != nil {
		return nil, err
	}
	return subtask, nil
}

// resolveRefs rejects dangling assignee/team references and normalizes the
// estimate ("1d 2h" literals use the 8h workday).
func (s *TaskService) resolveRefs(ctx context.Context, userID, teamID, estimate string) (string, error) {
	if userID != "" {
		if _, err := s.users.FindByID(ctx, userID); err != nil {
			return "", err
		}
	}
	if teamID != "" {
		if _, err := s.teams.FindByID(ctx, teamID); err != nil {
			return "", err
		}
	}
	if estimate == "" {
		return "00:00:00", nil
	}
	parsed, err := duration.ParseHuman(estimate, duration.Workday)
	if err != nil {
		return "", apperrors.ErrInvalidDuration
	}
	return parsed.String(), nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

func (s *TaskService) GetSubtask(ctx context.Context, id string) (*model.Subtask, error) {
	return s.subtasks.FindByID(ctx, id)
}

func (s *TaskService) ListTasks(ctx context.Context, filter repository.ListFilter) ([]model.Task, int64, error) {
	return s.tasks.List(ctx, filter)
}

func (s *TaskService) ListSubtasks(ctx context.Context, taskID string) ([]model.Subtask, error) {
	if _, err := s.tasks.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.subtasks.ListByTask(ctx, taskID)
}

// TaskHistory returns the audit trail, newest first.
func (s *TaskService) TaskHistory(ctx context.Context, taskID string) ([]model.History, error) {
	if _, err := s.tasks.FindByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.history.ListByTask(ctx, taskID)
}

func (s *TaskService) SubtaskHistory(ctx context.Context, subtaskID string) ([]model.History, error) {
	if _, err := s.subtasks.FindByID(ctx, subtaskID); err != nil {
		return nil, err
	}
	return s.history.ListBySubtask(ctx, subtaskID)
}
