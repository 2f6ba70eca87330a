package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/UT-B-VIMAL/hrms-backend/internal/constants"
)

// User mirrors the identity provider's view of a person. Rows are read-mostly
// here; provisioning happens upstream.
type User struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;not null" json:"email"`
	Role      constants.Role `gorm:"type:varchar(32);not null" json:"role"`
	TeamID    string         `gorm:"size:36;index" json:"team_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type Team struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
	LeadID    string         `gorm:"size:36" json:"lead_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
