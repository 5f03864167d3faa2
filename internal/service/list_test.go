package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-planner/internal/repository"
)

func TestListSlugsAreUniquified(t *testing.T) {
	store := newTestStore(t)
	lists := NewListService(store)
	ctx := context.Background()

	first, err := lists.Create(ctx, "Side Projects", "#aaa", "")
	require.NoError(t, err)
	assert.Equal(t, "side-projects", first.Slug)

	second, err := lists.Create(ctx, "Side Projects", "#bbb", "")
	require.NoError(t, err)
	assert.Equal(t, "side-projects-2", second.Slug)

	third, err := lists.Create(ctx, "Side Projects", "#ccc", "")
	require.NoError(t, err)
	assert.Equal(t, "side-projects-3", third.Slug)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "work", slugify("Work"))
	assert.Equal(t, "side-projects", slugify("  Side Projects "))
	assert.Equal(t, "q3-okrs", slugify("Q3 OKRs"))
	assert.Equal(t, "list", slugify("???"), "nothing slug-worthy falls back")
}

func TestListCreateRequiresName(t *testing.T) {
	store := newTestStore(t)
	lists := NewListService(store)

	_, err := lists.Create(context.Background(), "  ", "#fff", "")
	assert.Error(t, err)
}

func TestBySlugMissingReturnsNil(t *testing.T) {
	store := newTestStore(t)
	lists := NewListService(store)

	list, err := lists.BySlug(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, list)
}

func TestDeleteListCascadesToTasks(t *testing.T) {
	store := newTestStore(t)
	lists := NewListService(store)
	tasks := NewTaskService(store, nil)
	ctx := context.Background()

	list, err := lists.Create(ctx, "Doomed", "#000", "")
	require.NoError(t, err)
	task, err := tasks.Create(ctx, TaskInput{Title: "Goes with it", ListID: &list.ID})
	require.NoError(t, err)
	survivor, err := tasks.Create(ctx, TaskInput{Title: "Listless"})
	require.NoError(t, err)

	require.NoError(t, lists.Delete(ctx, list.ID))

	gone, err := tasks.Task(ctx, task.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	remaining, err := tasks.Tasks(ctx, repository.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, survivor.ID, remaining[0].ID)
}

func TestListUpdateLeavesBlankFieldsAlone(t *testing.T) {
	store := newTestStore(t)
	lists := NewListService(store)
	ctx := context.Background()

	list, err := lists.Create(ctx, "Reading", "#123456", "book")
	require.NoError(t, err)

	require.NoError(t, lists.Update(ctx, list.ID, "", "#654321", ""))

	all, err := lists.Lists(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Reading", all[0].Name)
	assert.Equal(t, "#654321", all[0].Color)
	assert.Equal(t, "book", all[0].Icon)
}
