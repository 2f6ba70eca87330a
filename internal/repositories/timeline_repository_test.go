package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/UT-B-VIMAL/hrms-backend/internal/constants"
	apperrors "github.com/UT-B-VIMAL/hrms-backend/internal/errors"
	model "github.com/UT-B-VIMAL/hrms-backend/internal/models"
)

func setupRepoDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Team{},
		&model.Task{},
		&model.Subtask{},
		&model.Timeline{},
		&model.History{},
	)
	if err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(1)

	return db
}

func seedTrackedTask(t *testing.T, db *gorm.DB) {
	t.Helper()
	user := model.User{ID: "emp1", Name: "User emp1", Email: "emp1@example.com", Role: constants.RoleEmployee}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	task := model.Task{ID: "task1", Name: "Task", UserID: "emp1", EstimatedHours: "02:00:00", TotalHoursWorked: "00:00:00", Version: 1}
	if err := db.Create(&task).Error; err != nil {
		t.Fatalf("seed task: %v", err)
	}
}

func taskWorked(t *testing.T, db *gorm.DB, id string) string {
	t.Helper()
	var task model.Task
	if err := db.First(&task, "id = ?", id).Error; err != nil {
		t.Fatalf("load task: %v", err)
	}
	return task.TotalHoursWorked
}

func TestForceCloseCreditsExactlyOnce(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewTimelineRepository(db)
	seedTrackedTask(t, db)

	ctx := context.Background()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	row, err := repo.Open(ctx, "emp1", TaskRef("task1"), start)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	elapsed, closed, err := repo.ForceClose(ctx, row.ID, start.Add(90*time.Minute))
	if err != nil || !closed {
		t.Fatalf("force close: closed=%v err=%v", closed, err)
	}
	if elapsed.String() != "01:30:00" {
		t.Errorf("elapsed = %s, want 01:30:00", elapsed)
	}
	if got := taskWorked(t, db, "task1"); got != "01:30:00" {
		t.Errorf("worked = %s, want 01:30:00", got)
	}

	// Replaying the close, as a sweeper working from a stale listing
	// would, must be a no-op rather than a second credit.
	_, closed, err = repo.ForceClose(ctx, row.ID, start.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("second force close: %v", err)
	}
	if closed {
		t.Error("second force close reported closed=true")
	}
	if got := taskWorked(t, db, "task1"); got != "01:30:00" {
		t.Errorf("worked after replay = %s, time was credited twice", got)
	}
}

func TestCloseAfterForcedCloseFailsWithoutCrediting(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewTimelineRepository(db)
	seedTrackedTask(t, db)

	ctx := context.Background()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	row, err := repo.Open(ctx, "emp1", TaskRef("task1"), start)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, _, err := repo.ForceClose(ctx, row.ID, start.Add(time.Hour)); err != nil {
		t.Fatalf("force close: %v", err)
	}

	// The manual pause lost the race; it must surface the conflict, not
	// stack a second credit on top of the forced one.
	_, err = repo.Close(ctx, "emp1", TaskRef("task1"), start.Add(2*time.Hour))
	if !errors.Is(err, apperrors.ErrNoOpenTimeline) {
		t.Errorf("close after forced close: err = %v, want ErrNoOpenTimeline", err)
	}
	if got := taskWorked(t, db, "task1"); got != "01:00:00" {
		t.Errorf("worked = %s, want the single forced credit of 01:00:00", got)
	}
}

func TestOpenRejectsSecondOpenRow(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewTimelineRepository(db)
	seedTrackedTask(t, db)

	ctx := context.Background()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	if _, err := repo.Open(ctx, "emp1", TaskRef("task1"), now); err != nil {
		t.Fatalf("first open: %v", err)
	}
	if _, err := repo.Open(ctx, "emp1", TaskRef("task1"), now.Add(time.Minute)); !errors.Is(err, apperrors.ErrAlreadyActive) {
		t.Errorf("second open: err = %v, want ErrAlreadyActive", err)
	}

	var open int64
	db.Model(&model.Timeline{}).Where("user_id = ? AND end_time IS NULL", "emp1").Count(&open)
	if open != 1 {
		t.Errorf("open rows = %d, want 1", open)
	}
}

func TestOpenRequiresExistingUser(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewTimelineRepository(db)

	_, err := repo.Open(context.Background(), "ghost", TaskRef("task1"), time.Now())
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("open for unknown user: err = %v, want ErrUserNotFound", err)
	}
}
