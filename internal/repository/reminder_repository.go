package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-planner/internal/model"
)

// ReminderRepository manages task reminders.
type ReminderRepository struct {
	db *gorm.DB
}

func NewReminderRepository(db *gorm.DB) *ReminderRepository {
	return &ReminderRepository{db: db}
}

func (r *ReminderRepository) Create(ctx context.Context, reminder *model.Reminder) error {
	if err := r.db.WithContext(ctx).Create(reminder).Error; err != nil {
		return fmt.Errorf("create reminder: %w", err)
	}
	return nil
}

func (r *ReminderRepository) ByID(ctx context.Context, id uint) (*model.Reminder, error) {
	var reminder model.Reminder
	if err := r.db.WithContext(ctx).First(&reminder, id).Error; err != nil {
		return nil, err
	}
	return &reminder, nil
}

func (r *ReminderRepository) ForTask(ctx context.Context, taskID uint) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("remind_at ASC, id ASC").
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("list reminders: %w", err)
	}
	return reminders, nil
}

// DueUnsent returns unsent reminders due at or before now, with the
// owning task materialized.
func (r *ReminderRepository) DueUnsent(ctx context.Context, now time.Time) ([]model.Reminder, error) {
	var reminders []model.Reminder
	if err := r.db.WithContext(ctx).
		Preload("Task").
		Where("sent = ? AND remind_at <= ?", false, now).
		Order("remind_at ASC, id ASC").
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("list due reminders: %w", err)
	}
	return reminders, nil
}

func (r *ReminderRepository) MarkSent(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Model(&model.Reminder{}).
		Where("id = ?", id).
		Update("sent", true).Error; err != nil {
		return fmt.Errorf("mark reminder sent: %w", err)
	}
	return nil
}

func (r *ReminderRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Reminder{}, id).Error; err != nil {
		return fmt.Errorf("delete reminder: %w", err)
	}
	return nil
}
