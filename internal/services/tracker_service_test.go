package services

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
	repository "github.com/UT-B-VIMAL/hrms-backend/internal/repositories"
)

func setupTestDB(t *testing.T) *gorm.DB {
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

type trackerFixture struct {
	db      *gorm.DB
	tracker *TrackerService
	tasks   *repository.TaskRepository
	history *repository.HistoryRepository
}

func setupTracker(t *testing.T) *trackerFixture {
	t.Helper()
	db := setupTestDB(t)

	tasks := repository.NewTaskRepository(db)
	subtasks := repository.NewSubtaskRepository(db)
	timelines := repository.NewTimelineRepository(db)
	history := repository.NewHistoryRepository(db)
	users := repository.NewUserRepository(db)

	tracker := NewTrackerService(tasks, subtasks, timelines, history, users, nil)
	return &trackerFixture{db: db, tracker: tracker, tasks: tasks, history: history}
}

func seedUser(t *testing.T, db *gorm.DB, id string, role constants.Role) {
	t.Helper()
	user := model.User{ID: id, Name: "User " + id, Email: id + "@example.com", Role: role}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
}

func seedTask(t *testing.T, f *trackerFixture, id, assignee, estimate string) {
	t.Helper()
	task := &model.Task{ID: id, Name: "Task " + id, UserID: assignee, EstimatedHours: estimate}
	if err := f.tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("seed task: %v", err)
	}
}

func intp(v int) *int       { return &v }
func strp(v string) *string { return &v }

func historyCount(t *testing.T, f *trackerFixture, taskID string) int {
	t.Helper()
	entries, err := f.history.ListByTask(context.Background(), taskID)
	if err != nil {
		t.Fatalf("list history: %v", err)
	}
	return len(entries)
}

func TestStartPauseCreditsWorkedTime(t *testing.T) {
	f := setupTracker(t)
	seedUser(t, f.db, "emp1", constants.RoleEmployee)
	seedTask(t, f, "task1", "emp1", "02:00:00")

	ctx := context.Background()
	startAt := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	f.tracker.clock = func() time.Time { return startAt }
	task, err := f.tracker.UpdateTask(ctx, "task1", UpdateItemRequest{
		ActiveStatus: intp(1), Status: intp(1), UpdatedBy: "emp1",
	})
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if task.ActiveStatus != 1 || task.Status != constants.StatusInProgress {
		t.Fatalf("after start: active=%d status=%d", task.ActiveStatus, task.Status)
	}
	if task.TotalHoursWorked != "00:00:00" {
		t.Errorf("start must not credit time, got %s", task.TotalHoursWorked)
	}

	entries, _ := f.history.ListByTask(ctx, "task1")
	foundActive := false
	for _, e := range entries {
		if e.StatusFlag == constants.FlagActiveStatus && e.NewValue == "1" {
			foundActive = true
		}
	}
	if !foundActive {
		t.Error("expected an active_status history entry for the start")
	}

	f.tracker.clock = func() time.Time { return startAt.Add(90 * time.Minute) }
	task, err = f.tracker.UpdateTask(ctx, "task1", UpdateItemRequest{
		ActiveStatus: intp(0), Status: intp(1), UpdatedBy: "emp1",
	})
	if err != nil {
		t.Fatalf("pause: %v", err)
	}
	if task.TotalHoursWorked != "01:30:00" {
		t.Errorf("worked = %s, want 01:30:00", task.TotalHoursWorked)
	}
	if task.ActiveStatus != 0 {
		t.Errorf("active_status = %d, want 0", task.ActiveStatus)
	}
	if task.Status != constants.StatusInProgress {
		t.Errorf("pause must keep status In Progress, got %v", task.Status)
	}
}

func TestStartTwiceIsRejected(t *testing.T) {
	f := setupTracker(t)
	seedUser(t, f.db, "emp1", constants.RoleEmployee)
	seedTask(t, f, "task1", "emp1", "02:00:00")
	seedTask(t, f, "task2", "emp1", "02:00:00")

	ctx := context.Background()
	start := UpdateItemRequest{ActiveStatus: intp(1), Status: intp(1), UpdatedBy: "emp1"}

	if _, err := f.tracker.UpdateTask(ctx, "task1", start); err != nil {
		t.Fatalf("first start: %v", err)
	}

	// The same user may not be active on two items at once.
	if _, err := f.tracker.UpdateTask(ctx, "task2", start); !errors.Is(err, apperrors.ErrAlreadyActive) {
		t.Errorf("second start err = %v, want ErrAlreadyActive", err)
	}

	var open int64
	f.db.Model(&model.Timeline{}).Where("user_id = ? AND end_time IS NULL", "emp1").Count(&open)
	if open != 1 {
		t.Errorf("open timeline rows = %d, want 1", open)
	}
}

func TestTransitionRequiresEmployeeRole(t *testing.T) {
	f := setupTracker(t)
	seedUser(t, f.db, "lead1", constants.RoleTeamLead)
	seedTask(t, f, "task1", "lead1", "02:00:00")

	ctx := context.Background()
	for _, req := range []UpdateItemRequest{
		{ActiveStatus: intp(1), Status: intp(1), UpdatedBy: "lead1"},
		{ActiveStatus: intp(0), Status: intp(1), UpdatedBy: "lead1"},
		{ActiveStatus: intp(0), Status: intp(2), UpdatedBy: "lead1"},
	} {
		if _, err := f.tracker.UpdateTask(ctx, "task1", req); !errors.Is(err, apperrors.ErrNotAuthorized) {
			t.Errorf("transition by team lead: err = %v, want ErrNotAuthorized", err)
		}
	}

	var rows int64
	f.db.Model(&model.Timeline{}).Count(&rows)
	if rows != 0 {
		t.Errorf("timeline rows = %d, want 0 after rejected transitions", rows)
	}
}

func TestPauseWithoutOpenRowFailsLoudly(t *testing.T) {
	f := setupTracker(t)
	seedUser(t, f.db, "emp1", constants.RoleEmployee)
	seedTask(t, f, "task1", "emp1", "02:00:00")

	_, err := f.tracker.UpdateTask(context.Background(), "task1", UpdateItemRequest{
		ActiveStatus: intp(0), Status: intp(1), UpdatedBy: "emp1",
	})
	if !errors.Is(err, apperrors.ErrNoOpenTimeline) {
		t.Errorf("pause without open row: err = %v, want ErrNoOpenTimeline", err)
	}
}

func TestEndClosesRowAndMovesToReview(t *testing.T) {
	f := setupTracker(t)
	seedUser(t, f.db, "emp1", constants.RoleEmployee)
	seedTask(t, f, "task1", "emp1", "02:00:00")

	ctx := context.Background()
	startAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	f.tracker.clock = func() time.Time { return startAt }
	if _, err := f.tracker.UpdateTask(ctx, "task1", UpdateItemRequest{
		ActiveStatus: intp(1), Status: intp(1), UpdatedBy: "emp1",
	}); err != nil {
		t.Fatalf("start: %v", err)
	}

	f.tracker.clock = func() time.Time { return startAt.Add(45 * time.Minute) }
	task, err := f.tracker.UpdateTask(ctx, "task1", UpdateItemRequest{
		ActiveStatus: intp(0), Status: intp(2), UpdatedBy: "emp1",
	})
	if err != nil {
		t.Fatalf("end: %v", err)
	}

	if task.Status != constants.StatusInReview {
		t.Errorf("status = %v, want In Review", task.Status)
	}
	if task.TotalHoursWorked != "00:45:00" {
		t.Errorf("worked = %s, want 00:45:00", task.TotalHoursWorked)
	}

	entries, _ := f.history.ListByTask(ctx, "task1")
	found := false
	for _, e := range entries {
		if e.StatusFlag == constants.FlagTimeline && e.NewValue == "00:45:00" {
			found = true
		}
	}
	if !found {
		t.Error("expected a timeline history entry recording the credited time")
	}
}

func TestNoopUpdateIsRejectedWithoutHistory(t *testing.T) {
	f := setupTracker(t)
	seedUser(t, f.db, "emp1", constants.RoleEmployee)
	seedTask(t, f, "task1", "emp1", "02:00:00")

	ctx := context.Background()
	task, _ := f.tasks.FindByID(ctx, "task1")

	// Every field matches the current row.
	_, err := f.tracker.UpdateTask(ctx, "task1", UpdateItemRequest{
		Name:           &task.Name,
		EstimatedHours: &task.EstimatedHours,
		Description:    &task.Description,
		UpdatedBy:      "emp1",
	})
	if !errors.Is(err, apperrors.ErrNothingToUpdate) {
		t.Errorf("err = %v, want ErrNothingToUpdate", err)
	}
	if n := historyCount(t, f, "task1"); n != 0 {
		t.Errorf("history entries = %d, want 0", n)
	}
}

func TestFieldUpdateLogsOnlyChangedFields(t *testing.T) {
	f := setupTracker(t)
	seedUser(t, f.db, "emp1", constants.RoleEmployee)
	seedUser(t, f.db, "emp2", constants.RoleEmployee)
	seedTask(t, f, "task1", "emp1", "02:00:00")

	ctx := context.Background()
	task, err := f.tracker.UpdateTask(ctx, "task1", UpdateItemRequest{
		UserID:         strp("emp2"),
		EstimatedHours: strp("02:00:00"), // unchanged, must not log
		Priority:       strp("high"),
		UpdatedBy:      "emp1",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if task.UserID != "emp2" || task.Priority != "high" {
		t.Errorf("update not applied: user=%s priority=%s", task.UserID, task.Priority)
	}
	if n := historyCount(t, f, "task1"); n != 2 {
		t.Errorf("history entries = %d, want 2 (assignee, priority)", n)
	}
}

func TestEstimateAcceptsWorkdayLiterals(t *testing.T) {
	f := setupTracker(t)
	seedUser(t, f.db, "emp1", constants.RoleEmployee)
	seedTask(t, f, "task1", "emp1", "00:00:00")

	task, err := f.tracker.UpdateTask(context.Background(), "task1", UpdateItemRequest{
		EstimatedHours: strp("1d 2h"),
		UpdatedBy:      "emp1",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	// Estimates use the 8h business workday, not the calendar day.
	if task.EstimatedHours != "10:00:00" {
		t.Errorf("estimate = %s, want 10:00:00", task.EstimatedHours)
	}
}

func TestSubtaskTransitionFlow(t *testing.T) {
	f := setupTracker(t)
	seedUser(t, f.db, "emp1", constants.RoleEmployee)
	seedTask(t, f, "task1", "emp1", "04:00:00")

	subtasks := repository.NewSubtaskRepository(f.db)
	sub := &model.Subtask{ID: "sub1", TaskID: "task1", Name: "Subtask", UserID: "emp1", EstimatedHours: "01:00:00"}
	if err := subtasks.Create(context.Background(), sub); err != nil {
		t.Fatalf("seed subtask: %v", err)
	}

	ctx := context.Background()
	startAt := time.Date(2026, 3, 2, 14, 0, 0, 0, time.UTC)

	f.tracker.clock = func() time.Time { return startAt }
	if err := f.tracker.ApplyTimelineAction(ctx, constants.KindSubtask, "sub1", "emp1", constants.ActionStart); err != nil {
		t.Fatalf("start: %v", err)
	}

	f.tracker.clock = func() time.Time { return startAt.Add(20 * time.Minute) }
	if err := f.tracker.ApplyTimelineAction(ctx, constants.KindSubtask, "sub1", "emp1", constants.ActionEnd); err != nil {
		t.Fatalf("end: %v", err)
	}

	fresh, _ := subtasks.FindByID(ctx, "sub1")
	if fresh.TotalHoursWorked != "00:20:00" {
		t.Errorf("worked = %s, want 00:20:00", fresh.TotalHoursWorked)
	}
	if fresh.Status != constants.StatusInReview {
		t.Errorf("status = %v, want In Review", fresh.Status)
	}
}

func TestUpdateUnknownActorFails(t *testing.T) {
	f := setupTracker(t)
	seedUser(t, f.db, "emp1", constants.RoleEmployee)
	seedTask(t, f, "task1", "emp1", "02:00:00")

	_, err := f.tracker.UpdateTask(context.Background(), "task1", UpdateItemRequest{
		Priority:  strp("high"),
		UpdatedBy: "ghost",
	})
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		t.Errorf("err = %v, want ErrUserNotFound", err)
	}
}
