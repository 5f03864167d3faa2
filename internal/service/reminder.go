package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"
	"time"

	"gorm.io/gorm"

	"task-planner/internal/model"
	"task-planner/internal/repository"
)

// ReminderService manages task reminders and builds the agenda summary
// shown by the consuming surface. Delivery beyond marking a reminder
// sent is someone else's job.
type ReminderService struct {
	store    *repository.Store
	activity *ActivityService
}

func NewReminderService(store *repository.Store) *ReminderService {
	return &ReminderService{store: store, activity: NewActivityService(store)}
}

// Add attaches a reminder to a task and logs reminder_added.
func (s *ReminderService) Add(ctx context.Context, taskID uint, at time.Time) (*model.Reminder, error) {
	if _, err := s.store.Tasks.ByID(ctx, taskID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %d not found", taskID)
		}
		return nil, err
	}

	reminder := model.Reminder{TaskID: taskID, RemindAt: at}
	if err := s.store.Reminders.Create(ctx, &reminder); err != nil {
		return nil, err
	}

	id := taskID
	s.activity.Record(ctx, &id, model.ActionReminderAdded, fmt.Sprintf("Reminder set for %s", at.Format("2006-01-02 15:04")))
	return &reminder, nil
}

// Remove deletes a reminder and logs reminder_removed on its task.
// Removing a vanished reminder is a no-op.
func (s *ReminderService) Remove(ctx context.Context, id uint) error {
	reminder, err := s.store.Reminders.ByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.store.Reminders.Delete(ctx, id); err != nil {
		return err
	}
	taskID := reminder.TaskID
	s.activity.Record(ctx, &taskID, model.ActionReminderRemoved, "Reminder removed")
	return nil
}

func (s *ReminderService) ForTask(ctx context.Context, taskID uint) ([]model.Reminder, error) {
	return s.store.Reminders.ForTask(ctx, taskID)
}

// ProcessDue flips every due unsent reminder to sent and logs
// reminder_due on its task. Returns the processed reminders so the
// caller can announce them.
func (s *ReminderService) ProcessDue(ctx context.Context, now time.Time) ([]model.Reminder, error) {
	due, err := s.store.Reminders.DueUnsent(ctx, now)
	if err != nil {
		return nil, err
	}

	for _, reminder := range due {
		if err := s.store.Reminders.MarkSent(ctx, reminder.ID); err != nil {
			return nil, err
		}
		taskID := reminder.TaskID
		s.activity.Record(ctx, &taskID, model.ActionReminderDue, fmt.Sprintf("Reminder due at %s", reminder.RemindAt.Format("2006-01-02 15:04")))
	}
	return due, nil
}

// AgendaSummary renders an HTML digest of overdue, due-today and
// upcoming tasks.
func (s *ReminderService) AgendaSummary(ctx context.Context, now time.Time) (string, error) {
	tasks, err := s.store.Tasks.List(ctx, repository.TaskFilter{})
	if err != nil {
		return "", err
	}

	var overdue, today, upcoming []model.Task
	dayEnd := endOfDay(now)
	for _, task := range tasks {
		if task.IsCompleted || task.DueDate == nil {
			continue
		}
		due := *task.DueDate
		switch {
		case due.Before(now):
			overdue = append(overdue, task)
		case !due.After(dayEnd):
			today = append(today, task)
		case due.Before(now.AddDate(0, 0, 7)):
			upcoming = append(upcoming, task)
		}
	}

	var b strings.Builder
	b.WriteString("📋 <b>Agenda</b>\n")
	b.WriteString(fmt.Sprintf("🗓 %s\n", now.Format("Mon, 02 Jan 2006")))

	writeSection := func(header string, items []model.Task) {
		b.WriteString("\n" + header + "\n")
		if len(items) == 0 {
			b.WriteString("— nothing here\n")
			return
		}
		for _, task := range items {
			b.WriteString(formatAgendaLine(task, now))
		}
	}

	writeSection("⚠️ <b>Overdue</b>", overdue)
	writeSection("🔥 <b>Today</b>", today)
	writeSection("⏳ <b>Next 7 days</b>", upcoming)

	return strings.TrimSpace(b.String()), nil
}

func formatAgendaLine(task model.Task, now time.Time) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("• %s", html.EscapeString(strings.TrimSpace(task.Title))))
	if task.Priority != "" && task.Priority != model.PriorityNone {
		b.WriteString(fmt.Sprintf(" <i>(%s)</i>", task.Priority))
	}
	if task.DueDate != nil {
		due := task.DueDate.In(now.Location())
		b.WriteString(fmt.Sprintf(" — %s", due.Format("02 Jan")))
	}
	b.WriteByte('\n')
	return b.String()
}
