package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-manager/internal/model"
)

// TaskRepository handles task storage for the reminder engine.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListPendingWithOwner returns pending tasks whose reminder has not gone out
// yet, with the owning user preloaded. A task whose owner row is gone comes
// back with Owner == nil; the caller skips it.
func (r *TaskRepository) ListPendingWithOwner(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).
		Preload("Owner").
		Where("status = ? AND (reminder_sent = ? OR daily_reminder = ?)",
			model.StatusPending, false, true).
		Order("due_date, created_at").
		Find(&tasks).Error
	if err != nil {
		return nil, fmt.Errorf("list pending tasks: %w", err)
	}
	return tasks, nil
}

// ArchivePastDue flips pending tasks due before the given instant to
// archived in one bulk update. Daily-reminder tasks are exempt. Returns the
// number of rows changed; re-running with the same cutoff changes nothing.
func (r *TaskRepository) ArchivePastDue(ctx context.Context, before time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("status = ? AND due_date < ? AND daily_reminder = ?", model.StatusPending, before, false).
		Update("status", model.StatusArchived)
	if res.Error != nil {
		return 0, fmt.Errorf("archive past-due tasks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// SetReminderSent records that the one-shot reminder for a task went out.
func (r *TaskRepository) SetReminderSent(ctx context.Context, taskID string, sent bool) error {
	if err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ?", taskID).
		Update("reminder_sent", sent).Error; err != nil {
		return fmt.Errorf("set reminder sent: %w", err)
	}
	return nil
}

// SetLastReminderOn records the local date a daily-reminder task last fired.
func (r *TaskRepository) SetLastReminderOn(ctx context.Context, taskID, day string) error {
	if err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ?", taskID).
		Update("last_reminder_on", day).Error; err != nil {
		return fmt.Errorf("set last reminder date: %w", err)
	}
	return nil
}

// UpdateStatus moves a task to the given status and keeps the Completed
// flag consistent with it.
func (r *TaskRepository) UpdateStatus(ctx context.Context, taskID, status string) error {
	updates := map[string]interface{}{
		"status":    status,
		"completed": status == model.StatusCompleted,
	}
	if err := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ?", taskID).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("update task status: %w", err)
	}
	return nil
}

// AutoCompletePastDue marks pending, non-recurring tasks due at or before
// now as completed and flags them as auto-completed. Returns the number of
// rows changed.
func (r *TaskRepository) AutoCompletePastDue(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("status = ? AND completed = ? AND due_date <= ? AND daily_reminder = ?",
			model.StatusPending, false, now, false).
		Updates(map[string]interface{}{
			"status":         model.StatusCompleted,
			"completed":      true,
			"auto_completed": true,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("auto-complete past-due tasks: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ListAllWithOwner returns every task with its owner preloaded, for the
// data repair sweep.
func (r *TaskRepository) ListAllWithOwner(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Preload("Owner").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (r *TaskRepository) FindByID(ctx context.Context, taskID string) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Preload("Owner").First(&task, "id = ?", taskID).Error; err != nil {
		return nil, fmt.Errorf("find task: %w", err)
	}
	return &task, nil
}
