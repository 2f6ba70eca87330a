package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/UT-B-VIMAL/hrms-backend/internal/duration"
	apperrors "github.com/UT-B-VIMAL/hrms-backend/internal/errors"
	model "github.com/UT-B-VIMAL/hrms-backend/internal/models"
)

// TimelineRepository owns the open/close lifecycle of tracked intervals.
// Opening and closing both run inside a transaction so the one-open-row-
// per-user invariant and the close+credit sequence cannot interleave.
type TimelineRepository struct {
	db *gorm.DB
}

func NewTimelineRepository(db *gorm.DB) *TimelineRepository {
	return &TimelineRepository{db: db}
}

// ItemRef points a timeline row at its owning task or subtask. Exactly one
// field is set.
type ItemRef struct {
	TaskID    *string
	SubtaskID *string
}

// TaskRef builds a reference to a task.
func TaskRef(id string) ItemRef {
	return ItemRef{TaskID: &id}
}

// SubtaskRef builds a reference to a subtask.
func SubtaskRef(id string) ItemRef {
	return ItemRef{SubtaskID: &id}
}

// Open starts tracking for the user on the referenced item. Fails with
// ErrAlreadyActive when any open row exists for the user, on any item.
func (r *TimelineRepository) Open(ctx context.Context, userID string, ref ItemRef, now time.Time) (*model.Timeline, error) {
	row := &model.Timeline{
		ID:        uuid.NewString(),
		UserID:    userID,
		TaskID:    ref.TaskID,
		SubtaskID: ref.SubtaskID,
		StartTime: now,
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Lock the user row so two concurrent starts serialize: under
		// MySQL's snapshot reads a plain count would let both pass the
		// open-row check. SQLite strips the locking clause and relies on
		// its single writer instead.
		var owner model.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&owner, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrUserNotFound
			}
			return err
		}

		var open int64
		if err := tx.Model(&model.Timeline{}).
			Where("user_id = ? AND end_time IS NULL", userID).
			Count(&open).Error; err != nil {
			return err
		}
		if open > 0 {
			return apperrors.ErrAlreadyActive
		}
		return tx.Create(row).Error
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// Close ends the user's open row on the referenced item, credits the
// elapsed time to the item and clears its active flag, all in one
// transaction. Fails with ErrNoOpenTimeline when no matching open row
// exists.
func (r *TimelineRepository) Close(ctx context.Context, userID string, ref ItemRef, now time.Time) (duration.Duration, error) {
	var elapsed duration.Duration

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx.Where("user_id = ? AND end_time IS NULL", userID)
		if ref.TaskID != nil {
			query = query.Where("task_id = ?", *ref.TaskID)
		}
		if ref.SubtaskID != nil {
			query = query.Where("subtask_id = ?", *ref.SubtaskID)
		}

		var row model.Timeline
		if err := query.First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNoOpenTimeline
			}
			return err
		}

		elapsed = duration.FromTime(now.Sub(row.StartTime))

		// The close is conditional on the row still being open: if a
		// concurrent closer (the sweeper, typically) won the race, zero
		// rows match and nothing may be credited twice.
		res := tx.Model(&model.Timeline{}).
			Where("id = ? AND end_time IS NULL", row.ID).
			Update("end_time", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.ErrNoOpenTimeline
		}

		return creditItem(tx, ref, elapsed)
	})
	if err != nil {
		return 0, err
	}
	return elapsed, nil
}

// ForceClose closes a specific row if it is still open, crediting its
// elapsed time. Returns closed=false when a concurrent closer got there
// first; that is not an error for the sweeper.
func (r *TimelineRepository) ForceClose(ctx context.Context, rowID string, now time.Time) (duration.Duration, bool, error) {
	var (
		elapsed duration.Duration
		closed  bool
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.Timeline
		if err := tx.Where("id = ? AND end_time IS NULL", rowID).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		elapsed = duration.FromTime(now.Sub(row.StartTime))

		// Same conditional close as the manual path; losing the race is
		// expected here, not an error.
		res := tx.Model(&model.Timeline{}).
			Where("id = ? AND end_time IS NULL", row.ID).
			Update("end_time", now)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}

		closed = true
		return creditItem(tx, ItemRef{TaskID: row.TaskID, SubtaskID: row.SubtaskID}, elapsed)
	})
	if err != nil {
		return 0, false, err
	}
	return elapsed, closed, nil
}

// ListOpenBefore returns open rows whose start falls before to, however
// long ago.
func (r *TimelineRepository) ListOpenBefore(ctx context.Context, to time.Time) ([]model.Timeline, error) {
	var rows []model.Timeline
	err := r.db.WithContext(ctx).
		Where("end_time IS NULL AND start_time < ?", to).
		Order("start_time asc").
		Find(&rows).Error
	return rows, err
}

// ListClosedForUser returns the user's finished intervals in [from, to).
func (r *TimelineRepository) ListClosedForUser(ctx context.Context, userID string, from, to time.Time) ([]model.Timeline, error) {
	var rows []model.Timeline
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND end_time IS NOT NULL AND start_time >= ? AND start_time < ?", userID, from, to).
		Order("start_time asc").
		Find(&rows).Error
	return rows, err
}

// FindOpenByUser returns the user's open row, or nil when none exists.
func (r *TimelineRepository) FindOpenByUser(ctx context.Context, userID string) (*model.Timeline, error) {
	var row model.Timeline
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND end_time IS NULL", userID).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// creditItem folds elapsed time into the owning item's worked total and
// clears its active flag. Runs inside the caller's transaction.
func creditItem(tx *gorm.DB, ref ItemRef, elapsed duration.Duration) error {
	switch {
	case ref.TaskID != nil:
		var task model.Task
		if err := tx.First(&task, "id = ?", *ref.TaskID).Error; err != nil {
			return err
		}
		worked, err := duration.Parse(task.TotalHoursWorked)
		if err != nil {
			return err
		}
		return tx.Model(&model.Task{}).
			Where("id = ?", task.ID).
			Updates(map[string]interface{}{
				"total_hours_worked": worked.Add(elapsed).String(),
				"active_status":      0,
				"version":            gorm.Expr("version + 1"),
			}).Error
	case ref.SubtaskID != nil:
		var subtask model.Subtask
		if err := tx.First(&subtask, "id = ?", *ref.SubtaskID).Error; err != nil {
			return err
		}
		worked, err := duration.Parse(subtask.TotalHoursWorked)
		if err != nil {
			return err
		}
		return tx.Model(&model.Subtask{}).
			Where("id = ?", subtask.ID).
			Updates(map[string]interface{}{
				"total_hours_worked": worked.Add(elapsed).String(),
				"active_status":      0,
				"version":            gorm.Expr("version + 1"),
			}).Error
	}
	return errors.New("timeline row references neither task nor subtask")
}
