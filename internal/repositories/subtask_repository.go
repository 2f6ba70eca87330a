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

type SubtaskRepository struct {
	db *gorm.DB
}

func NewSubtaskRepository(db *gorm.DB) *SubtaskRepository {
	return &SubtaskRepository{db: db}
}

func (r *SubtaskRepository) Create(ctx context.Context, subtask *model.Subtask) error {
	if subtask.ID == "" {
		subtask.ID = uuid.NewString()
	}
	if subtask.EstimatedHours == "" {
		subtask.EstimatedHours = "00:00:00"
	}
	subtask.TotalHoursWorked = "00:00:00"
	subtask.Version = 1
	subtask.CreatedAt = time.Now().UTC()

	return r.db.WithContext(ctx).Create(subtask).Error
}

func (r *SubtaskRepository) FindByID(ctx context.Context, id string) (*model.Subtask, error) {
	var subtask model.Subtask
	err := r.db.WithContext(ctx).First(&subtask, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSubtaskNotFound
		}
		return nil, err
	}
	return &subtask, nil
}

func (r *SubtaskRepository) ListByTask(ctx context.Context, taskID string) ([]model.Subtask, error) {
	var subtasks []model.Subtask
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at asc").
		Find(&subtasks).Error
	return subtasks, err
}

func (r *SubtaskRepository) UpdateFields(ctx context.Context, id string, version uint, updates map[string]interface{}) error {
	updates["version"] = gorm.Expr("version + 1")

	res := r.db.WithContext(ctx).Model(&model.Subtask{}).
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
