package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"task-planner/internal/model"
)

func TestStatsLazyInit(t *testing.T) {
	store := newTestStore(t)
	gamification := NewGamificationService(store)
	ctx := context.Background()

	stats, err := gamification.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.XP)
	assert.Equal(t, 1, stats.Level)

	// Repeated access returns the same row, not a second one.
	again, err := gamification.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats.ID, again.ID)
}

func TestAddXPRejectsNonPositiveAmounts(t *testing.T) {
	store := newTestStore(t)
	gamification := NewGamificationService(store)
	ctx := context.Background()

	_, err := gamification.AddXP(ctx, 0)
	assert.Error(t, err)
	_, err = gamification.AddXP(ctx, -5)
	assert.Error(t, err)
}

func TestAddXPIsMonotonic(t *testing.T) {
	store := newTestStore(t)
	gamification := NewGamificationService(store)
	ctx := context.Background()

	prev := 0
	for _, amount := range []int{10, 25, 1, 300, 50} {
		result, err := gamification.AddXP(ctx, amount)
		require.NoError(t, err)
		assert.Greater(t, result.NewXP, prev)
		prev = result.NewXP
	}
}

func TestLevelForXPIsMonotoneAndDeterministic(t *testing.T) {
	assert.Equal(t, 1, LevelForXP(0))
	assert.Equal(t, 1, LevelForXP(99))
	assert.Equal(t, 2, LevelForXP(100))
	assert.Equal(t, 3, LevelForXP(400))

	prev := 0
	for xp := 0; xp <= 5000; xp += 37 {
		level := LevelForXP(xp)
		assert.GreaterOrEqual(t, level, prev)
		assert.Equal(t, level, LevelForXP(xp), "same XP must always yield the same level")
		prev = level
	}
}

func TestAddXPReportsLevelUp(t *testing.T) {
	store := newTestStore(t)
	gamification := NewGamificationService(store)
	ctx := context.Background()

	result, err := gamification.AddXP(ctx, 50)
	require.NoError(t, err)
	assert.False(t, result.LeveledUp)

	result, err = gamification.AddXP(ctx, 60)
	require.NoError(t, err)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, 2, result.NewLevel)
}

func TestAchievementUnlocksExactlyOnce(t *testing.T) {
	store := newSeededStore(t)
	tasks := NewTaskService(store, nil)
	gamification := NewGamificationService(store)
	ctx := context.Background()

	task, err := tasks.Create(ctx, TaskInput{Title: "Only task"})
	require.NoError(t, err)
	_, err = tasks.ToggleCompletion(ctx, task.ID, true)
	require.NoError(t, err)

	// first_steps (1 completion) is now satisfied; re-evaluating many
	// times must not unlock it again.
	for i := 0; i < 5; i++ {
		require.NoError(t, gamification.CheckAchievements(ctx))
	}

	unlocks, err := store.Stats.Unlocks(ctx)
	require.NoError(t, err)
	seen := map[string]int{}
	for _, unlock := range unlocks {
		seen[unlock.AchievementID]++
	}
	assert.Equal(t, 1, seen["first_steps"])
}

func TestAchievementRewardXPApplied(t *testing.T) {
	store := newSeededStore(t)
	tasks := NewTaskService(store, nil)
	ctx := context.Background()

	task, err := tasks.Create(ctx, TaskInput{Title: "Rewarding", Priority: model.PriorityNone})
	require.NoError(t, err)
	_, err = tasks.ToggleCompletion(ctx, task.ID, true)
	require.NoError(t, err)

	stats, err := store.Stats.GetOrInit(ctx)
	require.NoError(t, err)
	// 10 base + 25 first_steps reward.
	assert.Equal(t, 35, stats.XP)

	// The unlock leaves a system log entry with no task reference.
	logs, err := store.Logs.Recent(ctx, 20)
	require.NoError(t, err)
	var found bool
	for _, entry := range logs {
		if entry.Action == model.ActionAchievementUnlocked {
			found = true
			assert.Nil(t, entry.TaskID)
			assert.Contains(t, entry.Details, "First Steps")
		}
	}
	assert.True(t, found)
}

func TestStreakAchievementUsesStatsCounter(t *testing.T) {
	store := newSeededStore(t)
	gamification := NewGamificationService(store)
	ctx := context.Background()

	stats, err := store.Stats.GetOrInit(ctx)
	require.NoError(t, err)
	stats.CurrentStreak = 7
	require.NoError(t, store.Stats.Save(ctx, stats))

	require.NoError(t, gamification.CheckAchievements(ctx))

	unlocked, err := store.Stats.UnlockedIDs(ctx)
	require.NoError(t, err)
	assert.True(t, unlocked["week_streak"])
	assert.False(t, unlocked["month_streak"])
}
