package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"task-planner/internal/model"
)

// LogRepository appends and reads activity log rows. Rows are never
// updated or deleted here; deletion only happens via task cascade.
type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

func (r *LogRepository) Append(ctx context.Context, entry *model.TaskLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("append log: %w", err)
	}
	return nil
}

func (r *LogRepository) ForTask(ctx context.Context, taskID uint) ([]model.TaskLog, error) {
	var logs []model.TaskLog
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("created_at ASC, id ASC").
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	return logs, nil
}

// Recent returns the newest rows across all tasks, for the activity feed.
func (r *LogRepository) Recent(ctx context.Context, limit int) ([]model.TaskLog, error) {
	var logs []model.TaskLog
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("recent logs: %w", err)
	}
	return logs, nil
}
