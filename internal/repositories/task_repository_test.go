package repository

import (
	"context"
	"errors"
	"net/http"
	"testing"

	apperrors "github.com/UT-B-VIMAL/hrms-backend/internal/errors"
	model "github.com/UT-B-VIMAL/hrms-backend/internal/models"
)

func TestUpdateFieldsRejectsStaleVersion(t *testing.T) {
	db := setupRepoDB(t)
	repo := NewTaskRepository(db)

	ctx := context.Background()
	task := &model.Task{ID: "task1", Name: "Draft", UserID: "emp1", EstimatedHours: "01:00:00"}
	if err := repo.Create(ctx, task); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := repo.UpdateFields(ctx, "task1", 1, map[string]interface{}{"name": "First writer"}); err != nil {
		t.Fatalf("first update: %v", err)
	}

	// A second writer still holding version 1 must conflict, not clobber.
	err := repo.UpdateFields(ctx, "task1", 1, map[string]interface{}{"name": "Second writer"})
	if !errors.Is(err, apperrors.ErrOptimisticLock) {
		t.Fatalf("stale update: err = %v, want ErrOptimisticLock", err)
	}
	if code := apperrors.StatusCode(err); code != http.StatusConflict {
		t.Errorf("status = %d, want 409", code)
	}

	fresh, err := repo.FindByID(ctx, "task1")
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if fresh.Name != "First writer" {
		t.Errorf("name = %q, stale writer must not win", fresh.Name)
	}
	if fresh.Version != 2 {
		t.Errorf("version = %d, want 2", fresh.Version)
	}
}
