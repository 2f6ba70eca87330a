package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/UT-B-VIMAL/hrms-backend/internal/constants"
)

// Task is a trackable work item. EstimatedHours and TotalHoursWorked are
// HH:MM:SS literals; TotalHoursWorked only grows while the item is worked.
type Task struct {
	ID               string               `gorm:"primaryKey;size:36" json:"id"`
	Name             string               `gorm:"not null" json:"name"`
	Product          string               `json:"product"`
	Project          string               `json:"project"`
	TeamID           string               `gorm:"size:36;index" json:"team_id"`
	UserID           string               `gorm:"size:36;index" json:"user_id"`
	AssignedUserID   string               `gorm:"size:36" json:"assigned_user_id"`
	EstimatedHours   string               `gorm:"size:16;not null;default:00:00:00" json:"estimated_hours"`
	TotalHoursWorked string               `gorm:"size:16;not null;default:00:00:00" json:"total_hours_worked"`
	Status           constants.ItemStatus `gorm:"not null;default:0" json:"status"`
	ActiveStatus     int                  `gorm:"not null;default:0" json:"active_status"`
	ReopenStatus     int                  `gorm:"not null;default:0" json:"reopen_status"`
	Priority         string               `gorm:"size:16" json:"priority"`
	Description      string               `json:"description"`
	DueDate          *time.Time           `json:"due_date,omitempty"`
	Version          uint                 `gorm:"not null;default:1" json:"version"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	DeletedAt        gorm.DeletedAt       `gorm:"index" json:"-"`
}

// Subtask shares the task shape plus a parent reference. The two are kept
// as separate tables to match the upstream schema.
type Subtask struct {
	ID               string               `gorm:"primaryKey;size:36" json:"id"`
	TaskID           string               `gorm:"size:36;index;not null" json:"task_id"`
	Name             string               `gorm:"not null" json:"name"`
	TeamID           string               `gorm:"size:36;index" json:"team_id"`
	UserID           string               `gorm:"size:36;index" json:"user_id"`
	AssignedUserID   string               `gorm:"size:36" json:"assigned_user_id"`
	EstimatedHours   string               `gorm:"size:16;not null;default:00:00:00" json:"estimated_hours"`
	TotalHoursWorked string               `gorm:"size:16;not null;default:00:00:00" json:"total_hours_worked"`
	Status           constants.ItemStatus `gorm:"not null;default:0" json:"status"`
	ActiveStatus     int                  `gorm:"not null;default:0" json:"active_status"`
	ReopenStatus     int                  `gorm:"not null;default:0" json:"reopen_status"`
	Priority         string               `gorm:"size:16" json:"priority"`
	Description      string               `json:"description"`
	DueDate          *time.Time           `json:"due_date,omitempty"`
	Version          uint                 `gorm:"not null;default:1" json:"version"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
	DeletedAt        gorm.DeletedAt       `gorm:"index" json:"-"`
}
