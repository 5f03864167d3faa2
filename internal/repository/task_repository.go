package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"task-planner/internal/model"
)

// Date-window tags accepted by TaskFilter.
const (
	WindowToday     = "today"
	WindowUpcoming  = "upcoming"
	WindowNext7Days = "next-7-days"
	WindowAll       = "all"
)

// TaskFilter narrows task listings. Zero value means "everything".
type TaskFilter struct {
	ListID  *uint
	LabelID *uint
	Window  string
}

// TaskRepository handles CRUD for tasks and their label associations.
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

// ByID loads a task with labels and reminders materialized. Returns
// gorm.ErrRecordNotFound when the task does not exist.
func (r *TaskRepository) ByID(ctx context.Context, id uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Preload("Labels").
		Preload("Reminders").
		First(&task, id).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List returns tasks matching the filter, newest first, with labels and
// reminders materialized.
func (r *TaskRepository) List(ctx context.Context, filter TaskFilter) ([]model.Task, error) {
	q := r.db.WithContext(ctx).Model(&model.Task{}).
		Preload("Labels").
		Preload("Reminders")

	if filter.ListID != nil {
		q = q.Where("tasks.list_id = ?", *filter.ListID)
	}
	if filter.LabelID != nil {
		q = q.Joins("JOIN task_labels ON task_labels.task_id = tasks.id AND task_labels.label_id = ?", *filter.LabelID)
	}

	now := time.Now()
	dayStart := startOfDay(now)
	switch filter.Window {
	case WindowToday:
		q = q.Where("tasks.due_date >= ? AND tasks.due_date <= ?", dayStart, endOfDay(now))
	case WindowUpcoming:
		q = q.Where("tasks.due_date >= ?", dayStart)
	case WindowNext7Days:
		q = q.Where("tasks.due_date >= ? AND tasks.due_date <= ?", dayStart, now.AddDate(0, 0, 7))
	}

	var tasks []model.Task
	if err := q.Order("tasks.created_at DESC, tasks.id DESC").Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// Subtasks returns the children of a task, oldest first.
func (r *TaskRepository) Subtasks(ctx context.Context, parentID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("created_at ASC, id ASC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	return tasks, nil
}

// Apply writes the given column updates to one task.
func (r *TaskRepository) Apply(ctx context.Context, id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", id).
		Updates(updates).Error; err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return nil
}

// ReplaceLabels swaps the task's label set wholesale.
func (r *TaskRepository) ReplaceLabels(ctx context.Context, taskID uint, labelIDs []uint) error {
	db := r.db.WithContext(ctx)
	if err := db.Exec("DELETE FROM task_labels WHERE task_id = ?", taskID).Error; err != nil {
		return fmt.Errorf("clear task labels: %w", err)
	}
	for _, labelID := range labelIDs {
		if err := db.Exec("INSERT OR IGNORE INTO task_labels (task_id, label_id) VALUES (?, ?)", taskID, labelID).Error; err != nil {
			return fmt.Errorf("attach label %d: %w", labelID, err)
		}
	}
	return nil
}

// Delete removes a task; FK cascades take its subtasks, logs, reminders,
// label associations and dependency edges along.
func (r *TaskRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&model.Task{}, id).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// CountCompleted returns the number of completed tasks overall.
func (r *TaskRepository) CountCompleted(ctx context.Context) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("is_completed = ?", true).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count completed: %w", err)
	}
	return int(n), nil
}

// CountCompletedBetween returns completions with completed_at inside
// [from, to].
func (r *TaskRepository) CountCompletedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("is_completed = ? AND completed_at >= ? AND completed_at <= ?", true, from, to).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count completed between: %w", err)
	}
	return int(n), nil
}

// ListAll returns every task without preloads, for analytics sweeps.
func (r *TaskRepository) ListAll(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list all tasks: %w", err)
	}
	return tasks, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
