package model

import (
	"time"

	"gorm.io/gorm"
)

// Timeline is one tracked working interval. A nil EndTime means the interval
// is open. Exactly one of TaskID/SubtaskID is set per row; at most one open
// row may exist per user.
type Timeline struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	UserID    string         `gorm:"size:36;index:idx_timelines_user_open" json:"user_id"`
	TaskID    *string        `gorm:"size:36;index" json:"task_id,omitempty"`
	SubtaskID *string        `gorm:"size:36;index" json:"subtask_id,omitempty"`
	StartTime time.Time      `gorm:"not null;index" json:"start_time"`
	EndTime   *time.Time     `gorm:"index:idx_timelines_user_open" json:"end_time,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// History is one append-only audit record of a field change or lifecycle
// event on a task or subtask. StatusFlag identifies what changed.
type History struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	TaskID      *string        `gorm:"size:36;index" json:"task_id,omitempty"`
	SubtaskID   *string        `gorm:"size:36;index" json:"subtask_id,omitempty"`
	OldValue    string         `json:"old_value"`
	NewValue    string         `json:"new_value"`
	Description string         `json:"description"`
	StatusFlag  int            `gorm:"not null" json:"status_flag"`
	UpdatedBy   string         `gorm:"size:36;not null" json:"updated_by"`
	CreatedAt   time.Time      `json:"created_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
