package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"task-planner/internal/model"
	"task-planner/internal/repository"
)

// ActivityService appends audit rows for task mutations. Logging is
// best-effort: failures are reported to the process log and swallowed,
// so a primary mutation can never fail because its audit row did.
type ActivityService struct {
	store *repository.Store
}

func NewActivityService(store *repository.Store) *ActivityService {
	return &ActivityService{store: store}
}

// Record writes a single structural entry. taskID nil marks a
// system-level entry.
func (s *ActivityService) Record(ctx context.Context, taskID *uint, action, details string) {
	entry := model.TaskLog{TaskID: taskID, Action: action, Details: details}
	if err := s.store.Logs.Append(ctx, &entry); err != nil {
		log.Printf("[warn] activity log %s: %v", action, err)
	}
}

// RecordChange diffs a patch against the task's previous state and
// writes one "updated" row holding every changed tracked field,
// newline-joined. A patch that changes nothing writes nothing.
func (s *ActivityService) RecordChange(ctx context.Context, taskID uint, prev model.Task, patch TaskPatch) {
	lines := diffLines(prev, patch)
	if len(lines) == 0 {
		return
	}
	id := taskID
	s.Record(ctx, &id, model.ActionUpdated, strings.Join(lines, "\n"))
}

// Tracked fields: title, description, priority, due date, deadline,
// recurrence flag, list, labels. List and label lines stay generic to
// avoid name lookups on the mutation path.
func diffLines(prev model.Task, patch TaskPatch) []string {
	var lines []string

	if patch.Title != nil && *patch.Title != prev.Title {
		lines = append(lines, fmt.Sprintf("Title changed from %q to %q", prev.Title, *patch.Title))
	}
	if patch.Description != nil && *patch.Description != prev.Description {
		lines = append(lines, "Description updated")
	}
	if patch.Priority != nil && *patch.Priority != prev.Priority {
		lines = append(lines, fmt.Sprintf("Priority changed from %s to %s", prev.Priority, *patch.Priority))
	}
	if line, changed := dateDiff("Due date", prev.DueDate, patch.DueDate, patch.ClearDueDate); changed {
		lines = append(lines, line)
	}
	if line, changed := dateDiff("Deadline", prev.Deadline, patch.Deadline, patch.ClearDeadline); changed {
		lines = append(lines, line)
	}
	if patch.IsRecurring != nil && *patch.IsRecurring != prev.IsRecurring {
		if *patch.IsRecurring {
			lines = append(lines, "Recurring enabled")
		} else {
			lines = append(lines, "Recurring disabled")
		}
	}
	if listChanged(prev.ListID, patch) {
		lines = append(lines, "List changed")
	}
	if patch.LabelIDs != nil && !sameLabelSet(prev.Labels, patch.LabelIDs) {
		lines = append(lines, "Labels updated")
	}

	return lines
}

func dateDiff(field string, prev *time.Time, next *time.Time, clear bool) (string, bool) {
	switch {
	case clear:
		if prev == nil {
			return "", false
		}
		return fmt.Sprintf("%s cleared (was %s)", field, prev.Format("2006-01-02")), true
	case next == nil:
		return "", false
	case prev == nil:
		return fmt.Sprintf("%s set to %s", field, next.Format("2006-01-02")), true
	case prev.Equal(*next):
		return "", false
	default:
		return fmt.Sprintf("%s changed from %s to %s", field, prev.Format("2006-01-02"), next.Format("2006-01-02")), true
	}
}

func listChanged(prev *uint, patch TaskPatch) bool {
	switch {
	case patch.ClearListID:
		return prev != nil
	case patch.ListID == nil:
		return false
	case prev == nil:
		return true
	default:
		return *prev != *patch.ListID
	}
}

func sameLabelSet(prev []model.Label, next []uint) bool {
	if len(prev) != len(next) {
		return false
	}
	have := make(map[uint]bool, len(prev))
	for _, label := range prev {
		have[label.ID] = true
	}
	for _, id := range next {
		if !have[id] {
			return false
		}
	}
	return true
}
