package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-planner/internal/model"
	"task-planner/internal/repository"
)

const weeklyReviewTemplate = `[
  {
    "title": "Weekly review",
    "priority": "high",
    "dueDate": "tomorrow",
    "subtasks": [
      {"title": "Empty inbox"},
      {"title": "Plan next week", "subtasks": [{"title": "Pick top three"}]}
    ]
  },
  {"title": "Tidy desk"}
]`

func TestTemplateCreateRequiresName(t *testing.T) {
	store := newTestStore(t)
	templates := NewTemplateService(store, NewTaskService(store, nil))

	_, err := templates.Create(context.Background(), "", weeklyReviewTemplate)
	assert.Error(t, err)
}

// Storage accepts anything; malformed content surfaces at instantiation.
func TestInstantiateRejectsMalformedContent(t *testing.T) {
	store := newTestStore(t)
	tasks := NewTaskService(store, nil)
	templates := NewTemplateService(store, tasks)
	ctx := context.Background()

	for name, content := range map[string]string{
		"not json":         "not json",
		"untitled node":    `[{"title": "  "}]`,
		"untitled subtask": `[{"title": "ok", "subtasks": [{"title": ""}]}]`,
	} {
		tpl, err := templates.Create(ctx, name, content)
		require.NoError(t, err, name)

		_, err = templates.Instantiate(ctx, tpl.ID, nil)
		assert.Error(t, err, name)
	}

	all, err := tasks.Tasks(ctx, repository.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, all, "nothing may be created from a rejected template")
}

func TestInstantiateBuildsTaskTree(t *testing.T) {
	store := newTestStore(t)
	tasks := NewTaskService(store, nil)
	templates := NewTemplateService(store, tasks)
	ctx := context.Background()

	tpl, err := templates.Create(ctx, "Weekly review", weeklyReviewTemplate)
	require.NoError(t, err)

	created, err := templates.Instantiate(ctx, tpl.ID, nil)
	require.NoError(t, err)
	require.Len(t, created, 2, "only top-level tasks are returned")
	assert.Equal(t, "Weekly review", created[0].Title)
	assert.Equal(t, model.PriorityHigh, created[0].Priority)
	assert.Equal(t, "Tidy desk", created[1].Title)

	children, err := tasks.Subtasks(ctx, created[0].ID)
	require.NoError(t, err)
	require.Len(t, children, 2)

	var planID uint
	for _, child := range children {
		assert.Nil(t, child.ListID, "subtasks never carry a list")
		if child.Title == "Plan next week" {
			planID = child.ID
		}
	}
	require.NotZero(t, planID)

	grandchildren, err := tasks.Subtasks(ctx, planID)
	require.NoError(t, err)
	require.Len(t, grandchildren, 1)
	assert.Equal(t, "Pick top three", grandchildren[0].Title)
}

func TestInstantiateSubstitutesDateTokens(t *testing.T) {
	store := newTestStore(t)
	tasks := NewTaskService(store, nil)
	templates := NewTemplateService(store, tasks)
	ctx := context.Background()

	tpl, err := templates.Create(ctx, "Weekly review", weeklyReviewTemplate)
	require.NoError(t, err)

	created, err := templates.Instantiate(ctx, tpl.ID, nil)
	require.NoError(t, err)

	require.NotNil(t, created[0].DueDate)
	wantDay := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	assert.Equal(t, wantDay, created[0].DueDate.Format("2006-01-02"))
	assert.Nil(t, created[1].DueDate)
}

func TestInstantiateListOverrideAppliesToTopLevelOnly(t *testing.T) {
	store := newTestStore(t)
	tasks := NewTaskService(store, nil)
	lists := NewListService(store)
	templates := NewTemplateService(store, tasks)
	ctx := context.Background()

	target, err := lists.Create(ctx, "Routines", "#10b981", "repeat")
	require.NoError(t, err)

	tpl, err := templates.Create(ctx, "Weekly review", weeklyReviewTemplate)
	require.NoError(t, err)

	created, err := templates.Instantiate(ctx, tpl.ID, &target.ID)
	require.NoError(t, err)
	for _, task := range created {
		require.NotNil(t, task.ListID)
		assert.Equal(t, target.ID, *task.ListID)
	}

	children, err := tasks.Subtasks(ctx, created[0].ID)
	require.NoError(t, err)
	for _, child := range children {
		assert.Nil(t, child.ListID)
	}
}

func TestInstantiateGoesThroughCreatePath(t *testing.T) {
	store := newTestStore(t)
	tasks := NewTaskService(store, nil)
	templates := NewTemplateService(store, tasks)
	ctx := context.Background()

	tpl, err := templates.Create(ctx, "Weekly review", weeklyReviewTemplate)
	require.NoError(t, err)
	created, err := templates.Instantiate(ctx, tpl.ID, nil)
	require.NoError(t, err)

	// Every materialized task has a created log; parents additionally
	// have subtask_created rows.
	logs, err := store.Logs.ForTask(ctx, created[0].ID)
	require.NoError(t, err)
	actions := map[string]int{}
	for _, entry := range logs {
		actions[entry.Action]++
	}
	assert.Equal(t, 1, actions[model.ActionCreated])
	assert.Equal(t, 2, actions[model.ActionSubtaskCreated])
}

// abortingSuggester cancels the surrounding context on its second call,
// so the second top-level task of a template fails to persist after the
// first one already succeeded.
type abortingSuggester struct {
	cancel context.CancelFunc
	calls  int
}

func (a *abortingSuggester) Suggest(context.Context, string, []model.List, []model.Label) (Suggestion, error) {
	a.calls++
	if a.calls == 2 {
		a.cancel()
	}
	return Suggestion{}, nil
}

func TestInstantiateIsAtomic(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	tasks := NewTaskService(store, &abortingSuggester{cancel: cancel})
	templates := NewTemplateService(store, tasks)

	tpl, err := templates.Create(ctx, "Pair", `[
		{"title": "first", "subtasks": [{"title": "first child"}]},
		{"title": "second"}
	]`)
	require.NoError(t, err)

	_, err = templates.Instantiate(ctx, tpl.ID, nil)
	require.Error(t, err)

	// A failure partway through materialization leaves nothing behind,
	// not a half-created tree.
	all, err := tasks.Tasks(context.Background(), repository.TaskFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestTemplateUpdateReplacesContent(t *testing.T) {
	store := newTestStore(t)
	tasks := NewTaskService(store, nil)
	templates := NewTemplateService(store, tasks)
	ctx := context.Background()

	tpl, err := templates.Create(ctx, "Routine", `[{"title": "old"}]`)
	require.NoError(t, err)
	require.NoError(t, templates.Update(ctx, tpl.ID, "Routine", `[{"title": "new"}]`))

	created, err := templates.Instantiate(ctx, tpl.ID, nil)
	require.NoError(t, err)
	require.Len(t, created, 1)
	assert.Equal(t, "new", created[0].Title)
}
