package service

import (
	"context"
	"time"

	"task-planner/internal/model"
	"task-planner/internal/repository"
)

// HabitService records habit completion events and keeps the streak
// counters on the stats row fresh.
type HabitService struct {
	store *repository.Store
}

func NewHabitService(store *repository.Store) *HabitService {
	return &HabitService{store: store}
}

// RecordCompletion stores a completion for the habit's local day (once
// per day) and refreshes the stats streaks.
func (s *HabitService) RecordCompletion(ctx context.Context, taskID uint, at time.Time) error {
	already, err := s.store.Habits.CompletedBetween(ctx, taskID, startOfDay(at), endOfDay(at))
	if err != nil {
		return err
	}
	if !already {
		completion := model.HabitCompletion{TaskID: taskID, CompletedAt: at}
		if err := s.store.Habits.Create(ctx, &completion); err != nil {
			return err
		}
	}

	current, _, err := s.Streak(ctx, taskID, at)
	if err != nil {
		return err
	}

	stats, err := s.store.Stats.GetOrInit(ctx)
	if err != nil {
		return err
	}
	stats.CurrentStreak = current
	if current > stats.LongestStreak {
		stats.LongestStreak = current
	}
	return s.store.Stats.Save(ctx, stats)
}

// Streak computes the current and best run of consecutive days for a
// habit over the trailing year. Multiple completions on one day count
// once; the current streak survives as long as its last day is today or
// yesterday.
func (s *HabitService) Streak(ctx context.Context, taskID uint, now time.Time) (current, best int, err error) {
	completions, err := s.store.Habits.ListSince(ctx, taskID, now.AddDate(-1, 0, 0))
	if err != nil {
		return 0, 0, err
	}
	if len(completions) == 0 {
		return 0, 0, nil
	}

	today := startOfDay(now)
	var run int
	var last time.Time

	for _, completion := range completions {
		day := startOfDay(completion.CompletedAt)
		switch {
		case last.IsZero():
			run = 1
		case day.Equal(last):
			continue
		case int(day.Sub(last).Hours()/24) == 1:
			run++
		default:
			if run > best {
				best = run
			}
			run = 1
		}
		last = day

		if int(today.Sub(day).Hours()/24) <= 1 {
			current = run
		}
	}
	if run > best {
		best = run
	}
	return current, best, nil
}

// Habits lists every task flagged as a habit.
func (s *HabitService) Habits(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.store.Tasks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	habits := tasks[:0]
	for _, task := range tasks {
		if task.IsHabit {
			habits = append(habits, task)
		}
	}
	return habits, nil
}
