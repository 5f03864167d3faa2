package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"task-planner/internal/model"
	"task-planner/internal/repository"
)

// TaskInput is the structured payload for creating a task. Free-text
// parsing happens upstream; this layer only ever sees structured fields.
type TaskInput struct {
	Title           string
	Description     string
	Priority        string
	ListID          *uint
	DueDate         *time.Time
	Deadline        *time.Time
	IsRecurring     bool
	RecurringRule   string
	ParentID        *uint
	EstimateMinutes *int
	ActualMinutes   *int
	EnergyLevel     string
	Context         string
	IsHabit         bool
	LabelIDs        []uint
}

// TaskPatch carries optional field updates. Nil pointer fields are left
// unchanged; the Clear* flags null out the matching nullable column.
// LabelIDs nil leaves labels untouched, empty replaces with none.
type TaskPatch struct {
	Title           *string
	Description     *string
	Priority        *string
	DueDate         *time.Time
	ClearDueDate    bool
	Deadline        *time.Time
	ClearDeadline   bool
	IsRecurring     *bool
	RecurringRule   *string
	ListID          *uint
	ClearListID     bool
	EstimateMinutes *int
	ActualMinutes   *int
	EnergyLevel     *string
	Context         *string
	LabelIDs        []uint
}

func (p TaskPatch) changes(now time.Time) map[string]interface{} {
	updates := map[string]interface{}{}
	if p.Title != nil {
		updates["title"] = *p.Title
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	if p.Priority != nil {
		updates["priority"] = *p.Priority
	}
	if p.ClearDueDate {
		updates["due_date"] = nil
	} else if p.DueDate != nil {
		updates["due_date"] = *p.DueDate
	}
	if p.ClearDeadline {
		updates["deadline"] = nil
	} else if p.Deadline != nil {
		updates["deadline"] = *p.Deadline
	}
	if p.IsRecurring != nil {
		updates["is_recurring"] = *p.IsRecurring
	}
	if p.RecurringRule != nil {
		updates["recurring_rule"] = *p.RecurringRule
	}
	if p.ClearListID {
		updates["list_id"] = nil
	} else if p.ListID != nil {
		updates["list_id"] = *p.ListID
	}
	if p.EstimateMinutes != nil {
		updates["estimate_minutes"] = *p.EstimateMinutes
	}
	if p.ActualMinutes != nil {
		updates["actual_minutes"] = *p.ActualMinutes
	}
	if p.EnergyLevel != nil {
		updates["energy_level"] = *p.EnergyLevel
	}
	if p.Context != nil {
		updates["context"] = *p.Context
	}
	// A labels-only patch carries no column field but is still a
	// mutation, so the timestamp moves for it too.
	if len(updates) > 0 || p.LabelIDs != nil {
		updates["updated_at"] = now
	}
	return updates
}

// TaskService is the lifecycle orchestrator. Every composite write runs
// inside one store transaction so partial application (a completion
// without its XP, an expansion without its original) is never visible.
type TaskService struct {
	store          *repository.Store
	suggester      Suggester
	recurrence     RecurrenceService
	suggestTimeout time.Duration
	now            func() time.Time
}

func NewTaskService(store *repository.Store, suggester Suggester) *TaskService {
	return &TaskService{
		store:          store,
		suggester:      suggester,
		suggestTimeout: 3 * time.Second,
		now:            time.Now,
	}
}

// Create persists a new task with its labels and a "created" log entry.
// When neither list nor labels were given, the suggestion collaborator
// may fill them in as defaults; explicit values always win.
func (s *TaskService) Create(ctx context.Context, input TaskInput) (*model.Task, error) {
	var created *model.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := s.createWithDefaults(ctx, tx, input)
		if err != nil {
			return err
		}
		created = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// createWithDefaults is the full create path on one store handle:
// validate, fill suggestion defaults when neither list nor labels were
// given, persist. Callers already inside a transaction pass their tx so
// every read and write stays on it.
func (s *TaskService) createWithDefaults(ctx context.Context, tx *repository.Store, input TaskInput) (*model.Task, error) {
	if err := normalizeInput(&input); err != nil {
		return nil, err
	}
	if input.ListID == nil && len(input.LabelIDs) == 0 {
		suggestion := s.suggest(ctx, tx, input.Title)
		input.ListID = suggestion.ListID
		input.LabelIDs = suggestion.LabelIDs
	}
	return createTask(ctx, tx, input, s.now())
}

// Update applies a patch. A vanished task is a silent no-op: UI-driven
// double-clicks are expected, not exceptional. Labels, when present in
// the patch, are replaced wholesale.
func (s *TaskService) Update(ctx context.Context, id uint, patch TaskPatch) error {
	return s.store.Transaction(ctx, func(tx *repository.Store) error {
		prev, err := tx.Tasks.ByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		if err := tx.Tasks.Apply(ctx, id, patch.changes(s.now())); err != nil {
			return err
		}
		if patch.LabelIDs != nil {
			if err := tx.Tasks.ReplaceLabels(ctx, id, patch.LabelIDs); err != nil {
				return err
			}
		}

		NewActivityService(tx).RecordChange(ctx, id, *prev, patch)
		return nil
	})
}

// Delete removes a task. Cascades take its subtasks, reminders, label
// associations, dependency edges and log rows; the log history is gone
// with it, by design.
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	return s.store.Tasks.Delete(ctx, id)
}

// ToggleCompletion is the central composite operation. The completing
// edge expands recurrence, persists the completion, logs it, signals
// dependents and awards XP, all in one transaction. The uncompleting
// edge only clears the state and logs; no side effects fire.
func (s *TaskService) ToggleCompletion(ctx context.Context, id uint, completed bool) (*model.Task, error) {
	var out *model.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.ByID(ctx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if task.IsCompleted == completed {
			out = task
			return nil
		}

		now := s.now()
		activity := NewActivityService(tx)

		if !completed {
			updates := map[string]interface{}{
				"is_completed": false,
				"completed_at": nil,
				"updated_at":   now,
			}
			if err := tx.Tasks.Apply(ctx, id, updates); err != nil {
				return err
			}
			activity.Record(ctx, &task.ID, model.ActionUncompleted, "Task marked incomplete")
			task.IsCompleted = false
			task.CompletedAt = nil
			task.UpdatedAt = now
			out = task
			return nil
		}

		// Expansion runs before the completion write; both succeed or
		// the whole toggle fails.
		if task.IsRecurring && strings.TrimSpace(task.RecurringRule) != "" {
			if err := s.expandRecurring(ctx, tx, task, now); err != nil {
				return err
			}
		}

		updates := map[string]interface{}{
			"is_completed": true,
			"completed_at": now,
			"updated_at":   now,
		}
		if err := tx.Tasks.Apply(ctx, id, updates); err != nil {
			return err
		}
		activity.Record(ctx, &task.ID, model.ActionCompleted, "Task completed")
		task.IsCompleted = true
		task.CompletedAt = &now
		task.UpdatedAt = now

		if err := NewDependencyService(tx).NotifyBlockerCompleted(ctx, *task); err != nil {
			return err
		}

		if task.IsHabit {
			if err := NewHabitService(tx).RecordCompletion(ctx, task.ID, now); err != nil {
				return err
			}
		}

		if _, err := NewGamificationService(tx).AddXP(ctx, XPForCompletion(task.Priority)); err != nil {
			return err
		}

		out = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSubtask creates a child task under parentID with no list, and
// logs subtask_created on the parent.
func (s *TaskService) CreateSubtask(ctx context.Context, parentID uint, title string) (*model.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	if _, err := s.store.Tasks.ByID(ctx, parentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("parent task %d not found", parentID)
		}
		return nil, err
	}

	input := TaskInput{Title: title, Priority: model.PriorityNone, ParentID: &parentID}
	var created *model.Task
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		task, err := createTask(ctx, tx, input, s.now())
		if err != nil {
			return err
		}
		created = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// UpdateSubtask flips a subtask's completion state. Subtasks stay out
// of the XP/recurrence/dependency flow.
func (s *TaskService) UpdateSubtask(ctx context.Context, id uint, completed bool) error {
	now := s.now()
	updates := map[string]interface{}{
		"is_completed": completed,
		"updated_at":   now,
	}
	if completed {
		updates["completed_at"] = now
	} else {
		updates["completed_at"] = nil
	}
	return s.store.Tasks.Apply(ctx, id, updates)
}

// DeleteSubtask removes a subtask like any other task.
func (s *TaskService) DeleteSubtask(ctx context.Context, id uint) error {
	return s.store.Tasks.Delete(ctx, id)
}

// Task returns one task with labels, reminders and blockers
// materialized, or nil when it does not exist.
func (s *TaskService) Task(ctx context.Context, id uint) (*model.Task, error) {
	task, err := s.store.Tasks.ByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	task.Blockers, err = s.store.Dependencies.Blockers(ctx, id)
	if err != nil {
		return nil, err
	}
	return task, nil
}

// Tasks lists tasks matching the filter, fully enriched so the consumer
// never needs a second call.
func (s *TaskService) Tasks(ctx context.Context, filter repository.TaskFilter) ([]model.Task, error) {
	tasks, err := s.store.Tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		tasks[i].Blockers, err = s.store.Dependencies.Blockers(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

// Subtasks lists the children of a task.
func (s *TaskService) Subtasks(ctx context.Context, parentID uint) ([]model.Task, error) {
	return s.store.Tasks.Subtasks(ctx, parentID)
}

// expandRecurring materializes the next occurrence of a recurring task
// being completed. No next occurrence (exhausted or invalid rule) means
// no new task, and the completion proceeds regardless. The new task
// goes through the normal create path, suggestion defaults included.
func (s *TaskService) expandRecurring(ctx context.Context, tx *repository.Store, task *model.Task, now time.Time) error {
	anchor := now
	if task.DueDate != nil {
		anchor = *task.DueDate
	}
	next, ok := s.recurrence.NextOccurrence(task.RecurringRule, anchor, now)
	if !ok {
		return nil
	}

	labelIDs := make([]uint, 0, len(task.Labels))
	for _, label := range task.Labels {
		labelIDs = append(labelIDs, label.ID)
	}

	input := TaskInput{
		Title:           task.Title,
		Description:     task.Description,
		Priority:        task.Priority,
		ListID:          task.ListID,
		DueDate:         &next,
		Deadline:        task.Deadline,
		IsRecurring:     true,
		RecurringRule:   task.RecurringRule,
		EstimateMinutes: task.EstimateMinutes,
		EnergyLevel:     task.EnergyLevel,
		Context:         task.Context,
		IsHabit:         task.IsHabit,
		LabelIDs:        labelIDs,
	}
	_, err := s.createWithDefaults(ctx, tx, input)
	return err
}

// suggest consults the collaborator under a bounded context. Candidate
// lists and labels are read through the caller's store handle so a
// surrounding transaction sees its own writes. Any failure degrades to
// an empty suggestion.
func (s *TaskService) suggest(ctx context.Context, tx *repository.Store, title string) Suggestion {
	if s.suggester == nil || strings.TrimSpace(title) == "" {
		return Suggestion{}
	}

	lists, err := tx.Lists.List(ctx)
	if err != nil {
		log.Printf("[warn] suggestion lists: %v", err)
		return Suggestion{}
	}
	labels, err := tx.Labels.List(ctx)
	if err != nil {
		log.Printf("[warn] suggestion labels: %v", err)
		return Suggestion{}
	}

	suggestCtx, cancel := context.WithTimeout(ctx, s.suggestTimeout)
	defer cancel()

	suggestion, err := s.suggester.Suggest(suggestCtx, title, lists, labels)
	if err != nil {
		log.Printf("[warn] suggestion for %q: %v", title, err)
		return Suggestion{}
	}
	return suggestion
}

// normalizeInput enforces the recurrence invariants: a habit is always
// recurring (defaulting to a daily rule), a non-recurring task carries
// no rule, and a recurring one must have one.
func normalizeInput(input *TaskInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if input.Priority == "" {
		input.Priority = model.PriorityNone
	}
	if input.IsHabit {
		input.IsRecurring = true
		if strings.TrimSpace(input.RecurringRule) == "" {
			input.RecurringRule = "FREQ=DAILY"
		}
	}
	if !input.IsRecurring {
		input.RecurringRule = ""
	} else if strings.TrimSpace(input.RecurringRule) == "" {
		return fmt.Errorf("recurring task requires a recurrence rule")
	}
	return nil
}

// createTask is the shared create path: persist, attach labels, log
// "created", and log subtask_created on the parent for child tasks.
func createTask(ctx context.Context, tx *repository.Store, input TaskInput, now time.Time) (*model.Task, error) {
	task := model.Task{
		ListID:          input.ListID,
		Title:           input.Title,
		Description:     input.Description,
		Priority:        input.Priority,
		DueDate:         input.DueDate,
		Deadline:        input.Deadline,
		IsRecurring:     input.IsRecurring,
		RecurringRule:   input.RecurringRule,
		ParentID:        input.ParentID,
		EstimateMinutes: input.EstimateMinutes,
		ActualMinutes:   input.ActualMinutes,
		EnergyLevel:     input.EnergyLevel,
		Context:         input.Context,
		IsHabit:         input.IsHabit,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := tx.Tasks.Create(ctx, &task); err != nil {
		return nil, err
	}

	if len(input.LabelIDs) > 0 {
		if err := tx.Tasks.ReplaceLabels(ctx, task.ID, input.LabelIDs); err != nil {
			return nil, err
		}
	}

	activity := NewActivityService(tx)
	id := task.ID
	activity.Record(ctx, &id, model.ActionCreated, "Task created")
	if input.ParentID != nil {
		activity.Record(ctx, input.ParentID, model.ActionSubtaskCreated, fmt.Sprintf("Subtask added: %q", input.Title))
	}

	return &task, nil
}
