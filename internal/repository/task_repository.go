package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/utkarshdhiman48/remindit48-bot/internal/domain"
	"github.com/utkarshdhiman48/remindit48-bot/internal/model"
)

// TaskRepository handles CRUD for reminders. All operations are scoped
// to one user; within a user, a task's sequence is its date-key rows
// ordered by insertion (row id). Positional mutations read and write
// inside one transaction so a concurrent change cannot shift the
// position in between.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Append adds a task to the end of its date-key sequence.
func (r *TaskRepository) Append(ctx context.Context, userID uint, task *model.Task) error {
	task.UserID = userID
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListByUser returns every task of the user in sequence order.
func (r *TaskRepository) ListByUser(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ListByDateKey returns the ordered sequence stored under a day-month
// key. The year is ignored at this level; callers decide which tasks
// qualify for a given target year.
func (r *TaskRepository) ListByDateKey(ctx context.Context, userID uint, key string) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND date_key = ?", userID, key).
		Order("id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks of date: %w", err)
	}
	return tasks, nil
}

// DeleteAt removes the task at the 0-based position within the
// date-key's sequence. Returns false when the position is out of range.
// There is no renumbering step: the next read reflects the shortened
// sequence.
func (r *TaskRepository) DeleteAt(ctx context.Context, userID uint, key string, position int) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tasks []model.Task
		if err := tx.Where("user_id = ? AND date_key = ?", userID, key).
			Order("id ASC").
			Find(&tasks).Error; err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		if position < 0 || position >= len(tasks) {
			return nil
		}
		if err := tx.Delete(&model.Task{}, tasks[position].ID).Error; err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		deleted = true
		return nil
	})
	return deleted, err
}

// UpdateAt merges the supplied draft fields onto the task at the
// 0-based position within the date-key's sequence. Nil draft fields are
// left untouched. Returns false when the position is out of range.
func (r *TaskRepository) UpdateAt(ctx context.Context, userID uint, key string, position int, draft domain.Draft) (bool, error) {
	updated := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var tasks []model.Task
		if err := tx.Where("user_id = ? AND date_key = ?", userID, key).
			Order("id ASC").
			Find(&tasks).Error; err != nil {
			return fmt.Errorf("list tasks: %w", err)
		}
		if position < 0 || position >= len(tasks) {
			return nil
		}

		task := tasks[position]
		if draft.Date != nil {
			task.SetDate(*draft.Date)
		}
		if draft.Subject != nil {
			task.Subject = *draft.Subject
		}
		if draft.Description != nil {
			task.Description = *draft.Description
		}

		if err := tx.Save(&task).Error; err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		updated = true
		return nil
	})
	return updated, err
}
