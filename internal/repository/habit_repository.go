package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-planner/internal/model"
)

// HabitRepository stores per-day habit completion events.
type HabitRepository struct {
	db *gorm.DB
}

func NewHabitRepository(db *gorm.DB) *HabitRepository {
	return &HabitRepository{db: db}
}

func (r *HabitRepository) Create(ctx context.Context, completion *model.HabitCompletion) error {
	if err := r.db.WithContext(ctx).Create(completion).Error; err != nil {
		return fmt.Errorf("create habit completion: %w", err)
	}
	return nil
}

// ListSince returns completions for a habit from `since` on, oldest
// first.
func (r *HabitRepository) ListSince(ctx context.Context, taskID uint, since time.Time) ([]model.HabitCompletion, error) {
	var completions []model.HabitCompletion
	if err := r.db.WithContext(ctx).
		Where("task_id = ? AND completed_at >= ?", taskID, since).
		Order("completed_at ASC, id ASC").
		Find(&completions).Error; err != nil {
		return nil, fmt.Errorf("list habit completions: %w", err)
	}
	return completions, nil
}

// CompletedBetween reports whether the habit already has a completion in
// [from, to].
func (r *HabitRepository) CompletedBetween(ctx context.Context, taskID uint, from, to time.Time) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.HabitCompletion{}).
		Where("task_id = ? AND completed_at >= ? AND completed_at <= ?", taskID, from, to).
		Count(&n).Error; err != nil {
		return false, fmt.Errorf("check habit completion: %w", err)
	}
	return n > 0, nil
}
