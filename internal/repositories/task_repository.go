package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "github.com/UT-B-VIMAL/hrms-backend/internal/errors"
	model "github.com/UT-B-VIMAL/hrms-backend/internal/models"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// ListFilter narrows task listings; zero values mean "no filter".
type ListFilter struct {
	TeamID  string
	UserID  string
	Status  *int
	Page    int
	PerPage int
}

func (f ListFilter) offset() (limit, offset int) {
	limit = f.PerPage
	if limit <= 0 {
		limit = 20
	}
	page := f.Page
	if page <= 0 {
		page = 1
	}
	return limit, (page - 1) * limit
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.EstimatedHours == "" {
		task.EstimatedHours = "00:00:00"
	}
	task.TotalHoursWorked = "00:00:00"
	task.Version = 1
	task.CreatedAt = time.Now().UTC()

	return r.db.WithContext(ctx).Create(task).Error
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).First(&task, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) List(ctx context.Context, filter ListFilter) ([]model.Task, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.Task{})
	if filter.TeamID != "" {
		query = query.Where("team_id = ?", filter.TeamID)
	}
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit, offset := filter.offset()
	var tasks []model.Task
	err := query.Order("created_at desc").Limit(limit).Offset(offset).Find(&tasks).Error
	return tasks, total, err
}

func (r *TaskRepository) ListByTeam(ctx context.Context, teamID string) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Where("team_id = ?", teamID).Find(&tasks).Error
	return tasks, err
}

// UpdateFields applies a column map guarded by the optimistic version check.
// A vanished row and a racing writer both surface as ErrOptimisticLock;
// callers load the row first, so not-found is caught before this point.
func (r *TaskRepository) UpdateFields(ctx context.Context, id string, version uint, updates map[string]interface{}) error {
	updates["version"] = gorm.Expr("version + 1")

	res := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ? AND version = ?", id, version).
		Updates(updates)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrOptimisticLock
	}
	return nil
}
