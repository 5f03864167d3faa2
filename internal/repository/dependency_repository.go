package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"task-planner/internal/model"
)

// DependencyRepository maintains the blocker -> blocked edge table.
type DependencyRepository struct {
	db *gorm.DB
}

func NewDependencyRepository(db *gorm.DB) *DependencyRepository {
	return &DependencyRepository{db: db}
}

func (r *DependencyRepository) Create(ctx context.Context, dep *model.TaskDependency) error {
	if err := r.db.WithContext(ctx).Create(dep).Error; err != nil {
		return fmt.Errorf("create dependency: %w", err)
	}
	return nil
}

// Delete removes the edge if present. Deleting a missing edge is not an
// error.
func (r *DependencyRepository) Delete(ctx context.Context, taskID, blockerID uint) error {
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND blocker_id = ?", taskID, blockerID).
		Delete(&model.TaskDependency{}).Error; err != nil {
		return fmt.Errorf("delete dependency: %w", err)
	}
	return nil
}

func (r *DependencyRepository) Exists(ctx context.Context, taskID, blockerID uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.TaskDependency{}).
		Where("task_id = ? AND blocker_id = ?", taskID, blockerID).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("check dependency: %w", err)
	}
	return n > 0, nil
}

// Blockers returns the tasks blocking taskID, in insertion order.
func (r *DependencyRepository) Blockers(ctx context.Context, taskID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Joins("JOIN task_dependencies ON task_dependencies.blocker_id = tasks.id").
		Where("task_dependencies.task_id = ?", taskID).
		Order("task_dependencies.created_at ASC, task_dependencies.blocker_id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list blockers: %w", err)
	}
	return tasks, nil
}

// BlockedTasks returns the tasks that blockerID is blocking.
func (r *DependencyRepository) BlockedTasks(ctx context.Context, blockerID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Joins("JOIN task_dependencies ON task_dependencies.task_id = tasks.id").
		Where("task_dependencies.blocker_id = ?", blockerID).
		Order("task_dependencies.created_at ASC, task_dependencies.task_id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list blocked tasks: %w", err)
	}
	return tasks, nil
}

// IncompleteBlockerCount counts the remaining unfinished blockers of a
// task.
func (r *DependencyRepository) IncompleteBlockerCount(ctx context.Context, taskID uint) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.TaskDependency{}).
		Joins("JOIN tasks ON tasks.id = task_dependencies.blocker_id").
		Where("task_dependencies.task_id = ? AND tasks.is_completed = ?", taskID, false).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count incomplete blockers: %w", err)
	}
	return int(n), nil
}
