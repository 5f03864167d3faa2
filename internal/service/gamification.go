package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"task-planner/internal/model"
	"task-planner/internal/repository"
)

// Completion XP: a flat base plus a priority bonus.
const (
	baseCompletionXP    = 10
	mediumPriorityBonus = 5
	highPriorityBonus   = 10
)

// XPForCompletion returns the award for completing a task.
func XPForCompletion(priority string) int {
	switch priority {
	case model.PriorityHigh:
		return baseCompletionXP + highPriorityBonus
	case model.PriorityMedium:
		return baseCompletionXP + mediumPriorityBonus
	default:
		return baseCompletionXP
	}
}

// LevelForXP maps experience to a level: 100 XP reaches level 2, each
// further level costs quadratically more. Monotone and deterministic.
func LevelForXP(xp int) int {
	if xp <= 0 {
		return 1
	}
	return int(math.Sqrt(float64(xp)/100)) + 1
}

// XPResult describes the outcome of one earn event.
type XPResult struct {
	NewXP     int
	NewLevel  int
	LeveledUp bool
}

// GamificationService tracks XP and level on the singleton stats row
// and evaluates achievements after every earn event.
type GamificationService struct {
	store    *repository.Store
	activity *ActivityService
	now      func() time.Time
}

func NewGamificationService(store *repository.Store) *GamificationService {
	return &GamificationService{store: store, activity: NewActivityService(store), now: time.Now}
}

// Stats returns the singleton stats row, creating it on first access.
func (s *GamificationService) Stats(ctx context.Context) (*model.UserStats, error) {
	return s.store.Stats.GetOrInit(ctx)
}

// AddXP applies a positive earn event and then evaluates achievements,
// which may award more XP on top. The returned result reflects the
// direct award only.
func (s *GamificationService) AddXP(ctx context.Context, amount int) (XPResult, error) {
	if amount <= 0 {
		return XPResult{}, fmt.Errorf("xp amount must be positive, got %d", amount)
	}

	result, err := s.applyXP(ctx, amount)
	if err != nil {
		return XPResult{}, err
	}
	if err := s.CheckAchievements(ctx); err != nil {
		return XPResult{}, err
	}
	return result, nil
}

func (s *GamificationService) applyXP(ctx context.Context, amount int) (XPResult, error) {
	stats, err := s.store.Stats.GetOrInit(ctx)
	if err != nil {
		return XPResult{}, err
	}

	prevLevel := stats.Level
	stats.XP += amount
	stats.Level = LevelForXP(stats.XP)
	if err := s.store.Stats.Save(ctx, stats); err != nil {
		return XPResult{}, err
	}

	return XPResult{
		NewXP:     stats.XP,
		NewLevel:  stats.Level,
		LeveledUp: stats.Level > prevLevel,
	}, nil
}

// CheckAchievements unlocks every satisfied achievement exactly once.
// Reward XP can itself satisfy further conditions, so evaluation
// iterates to a fixed point instead of recursing; the pass cap and the
// unlock-once primary key guarantee termination.
func (s *GamificationService) CheckAchievements(ctx context.Context) error {
	achievements, err := s.store.Stats.Achievements(ctx)
	if err != nil {
		return err
	}

	for pass := 0; pass <= len(achievements); pass++ {
		unlocked, err := s.store.Stats.UnlockedIDs(ctx)
		if err != nil {
			return err
		}

		now := s.now()
		totalDone, err := s.store.Tasks.CountCompleted(ctx)
		if err != nil {
			return err
		}
		doneToday, err := s.store.Tasks.CountCompletedBetween(ctx, startOfDay(now), endOfDay(now))
		if err != nil {
			return err
		}
		stats, err := s.store.Stats.GetOrInit(ctx)
		if err != nil {
			return err
		}

		unlockedAny := false
		for _, a := range achievements {
			if unlocked[a.ID] {
				continue
			}

			var value int
			switch a.ConditionType {
			case model.ConditionCountTotal:
				value = totalDone
			case model.ConditionCountDaily:
				value = doneToday
			case model.ConditionStreak:
				value = stats.CurrentStreak
			default:
				continue
			}
			if value < a.Threshold {
				continue
			}

			inserted, err := s.store.Stats.Unlock(ctx, a.ID)
			if err != nil {
				return err
			}
			if !inserted {
				continue
			}
			unlockedAny = true

			if a.XPReward > 0 {
				if _, err := s.applyXP(ctx, a.XPReward); err != nil {
					return err
				}
			}
			s.activity.Record(ctx, nil, model.ActionAchievementUnlocked, fmt.Sprintf("Achievement unlocked: %s", a.Name))
		}

		if !unlockedAny {
			break
		}
	}
	return nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
