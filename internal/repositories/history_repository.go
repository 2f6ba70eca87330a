package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	model "github.com/UT-B-VIMAL/hrms-backend/internal/models"
)

// HistoryRepository is append-only; entries are never updated or removed.
type HistoryRepository struct {
	db *gorm.DB
}

func NewHistoryRepository(db *gorm.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

func (r *HistoryRepository) Append(ctx context.Context, entries []model.History) error {
	if len(entries) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		entries[i].CreatedAt = now
	}
	return r.db.WithContext(ctx).Create(&entries).Error
}

// ListByTask returns a task's audit trail, newest first.
func (r *HistoryRepository) ListByTask(ctx context.Context, taskID string) ([]model.History, error) {
	var entries []model.History
	err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at desc").
		Find(&entries).Error
	return entries, err
}

func (r *HistoryRepository) ListBySubtask(ctx context.Context, subtaskID string) ([]model.History, error) {
	var entries []model.History
	err := r.db.WithContext(ctx).
		Where("subtask_id = ?", subtaskID).
		Order("created_at desc").
		Find(&entries).Error
	return entries, err
}
