package config

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	model "github.com/UT-B-VIMAL/hrms-backend/internal/models"
)

// NewDatabase opens the configured database and migrates the schema.
// MySQL is the production dialect; sqlite backs local runs and tests.
func NewDatabase(driver, dsn string) *gorm.DB {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	default:
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}

	if err := db.AutoMigrate(
		&model.User{},
		&model.Team{},
		&model.Task{},
		&model.Subtask{},
		&model.Timeline{},
		&model.History{},
	); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	return db
}
