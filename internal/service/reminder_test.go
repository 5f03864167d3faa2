package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-planner/internal/model"
)

func TestAddReminderLogsOnTask(t *testing.T) {
	store := newTestStore(t)
	tasks := NewTaskService(store, nil)
	reminders := NewReminderService(store)
	ctx := context.Background()

	task, err := tasks.Create(ctx, TaskInput{Title: "Call dentist"})
	require.NoError(t, err)

	at := time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)
	reminder, err := reminders.Add(ctx, task.ID, at)
	require.NoError(t, err)
	assert.False(t, reminder.Sent)

	logs, err := store.Logs.ForTask(ctx, task.ID)
	require.NoError(t, err)
	var found bool
	for _, entry := range logs {
		if entry.Action == model.ActionReminderAdded {
			found = true
			assert.Contains(t, entry.Details, "2026-09-01 10:00")
		}
	}
	assert.True(t, found)
}

func TestAddReminderToMissingTaskFails(t *testing.T) {
	store := newTestStore(t)
	reminders := NewReminderService(store)

	_, err := reminders.Add(context.Background(), 404, time.Now())
	assert.Error(t, err)
}

func TestRemoveReminderIsIdempotent(t *testing.T) {
	store := newTestStore(t)
	tasks := NewTaskService(store, nil)
	reminders := NewReminderService(store)
	ctx := context.Background()

	task, err := tasks.Create(ctx, TaskInput{Title: "With reminder"})
	require.NoError(t, err)
	reminder, err := reminders.Add(ctx, task.ID, time.Now().Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, reminders.Remove(ctx, reminder.ID))
	require.NoError(t, reminders.Remove(ctx, reminder.ID))

	remaining, err := reminders.ForTask(ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	logs, err := store.Logs.ForTask(ctx, task.ID)
	require.NoError(t, err)
	removals := 0
	for _, entry := range logs {
		if entry.Action == model.ActionReminderRemoved {
			removals++
		}
	}
	assert.Equal(t, 1, removals, "the second remove is a no-op")
}

func TestProcessDueMarksSentOnce(t *testing.T) {
	store := newTestStore(t)
	tasks := NewTaskService(store, nil)
	reminders := NewReminderService(store)
	ctx := context.Background()

	task, err := tasks.Create(ctx, TaskInput{Title: "Ping me"})
	require.NoError(t, err)

	now := time.Now()
	_, err = reminders.Add(ctx, task.ID, now.Add(-time.Minute))
	require.NoError(t, err)
	_, err = reminders.Add(ctx, task.ID, now.Add(time.Hour))
	require.NoError(t, err)

	due, err := reminders.ProcessDue(ctx, now)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, task.ID, due[0].TaskID)
	assert.Equal(t, "Ping me", due[0].Task.Title)

	// Already-sent reminders never come back.
	due, err = reminders.ProcessDue(ctx, now)
	require.NoError(t, err)
	assert.Empty(t, due)

	logs, err := store.Logs.ForTask(ctx, task.ID)
	require.NoError(t, err)
	dueLogs := 0
	for _, entry := range logs {
		if entry.Action == model.ActionReminderDue {
			dueLogs++
		}
	}
	assert.Equal(t, 1, dueLogs)
}

func TestAgendaSummaryBucketsByDueDate(t *testing.T) {
	store := newTestStore(t)
	tasks := NewTaskService(store, nil)
	reminders := NewReminderService(store)
	ctx := context.Background()

	now := time.Now()
	overdue := now.Add(-2 * time.Hour)
	laterToday := now.Add(time.Hour)
	inThreeDays := now.AddDate(0, 0, 3)

	_, err := tasks.Create(ctx, TaskInput{Title: "Late one", DueDate: &overdue})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, TaskInput{Title: "Today one", DueDate: &laterToday, Priority: model.PriorityHigh})
	require.NoError(t, err)
	_, err = tasks.Create(ctx, TaskInput{Title: "Soon one", DueDate: &inThreeDays})
	require.NoError(t, err)
	done, err := tasks.Create(ctx, TaskInput{Title: "Done one", DueDate: &laterToday})
	require.NoError(t, err)
	_, err = tasks.ToggleCompletion(ctx, done.ID, true)
	require.NoError(t, err)

	summary, err := reminders.AgendaSummary(ctx, now)
	require.NoError(t, err)

	assert.Contains(t, summary, "Late one")
	assert.Contains(t, summary, "Today one")
	assert.Contains(t, summary, "Soon one")
	assert.NotContains(t, summary, "Done one")
	assert.Contains(t, summary, "Overdue")
	assert.Contains(t, summary, "high")
}

func TestAgendaSummaryEscapesTitles(t *testing.T) {
	store := newTestStore(t)
	tasks := NewTaskService(store, nil)
	reminders := NewReminderService(store)
	ctx := context.Background()

	due := time.Now().Add(time.Hour)
	_, err := tasks.Create(ctx, TaskInput{Title: "Fix <b> tag", DueDate: &due})
	require.NoError(t, err)

	summary, err := reminders.AgendaSummary(ctx, time.Now())
	require.NoError(t, err)
	assert.Contains(t, summary, "Fix &lt;b&gt; tag")
}
