package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"task-planner/internal/model"
)

// StatsRepository owns the singleton stats row and the achievement
// tables. GetOrInit follows the upsert-on-first-access pattern.
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetOrInit returns the stats row, creating it with XP 0 / level 1 on
// first access. Idempotent.
func (r *StatsRepository) GetOrInit(ctx context.Context) (*model.UserStats, error) {
	var stats model.UserStats
	db := r.db.WithContext(ctx)
	err := db.First(&stats, model.UserStatsID).Error
	switch {
	case err == nil:
		return &stats, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		stats = model.UserStats{ID: model.UserStatsID, XP: 0, Level: 1}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&stats).Error; err != nil {
			return nil, fmt.Errorf("init stats: %w", err)
		}
		// Re-read in case a concurrent init won the insert.
		if err := db.First(&stats, model.UserStatsID).Error; err != nil {
			return nil, fmt.Errorf("reload stats: %w", err)
		}
		return &stats, nil
	default:
		return nil, fmt.Errorf("load stats: %w", err)
	}
}

func (r *StatsRepository) Save(ctx context.Context, stats *model.UserStats) error {
	if err := r.db.WithContext(ctx).Save(stats).Error; err != nil {
		return fmt.Errorf("save stats: %w", err)
	}
	return nil
}

// Achievements returns the full catalog.
func (r *StatsRepository) Achievements(ctx context.Context) ([]model.Achievement, error) {
	var achievements []model.Achievement
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&achievements).Error; err != nil {
		return nil, fmt.Errorf("list achievements: %w", err)
	}
	return achievements, nil
}

// UnlockedIDs returns the set of already-unlocked achievement ids.
func (r *StatsRepository) UnlockedIDs(ctx context.Context) (map[string]bool, error) {
	var rows []model.UserAchievement
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list unlocks: %w", err)
	}
	unlocked := make(map[string]bool, len(rows))
	for _, row := range rows {
		unlocked[row.AchievementID] = true
	}
	return unlocked, nil
}

// Unlocks returns unlock rows with their achievements, newest first.
func (r *StatsRepository) Unlocks(ctx context.Context) ([]model.UserAchievement, error) {
	var rows []model.UserAchievement
	if err := r.db.WithContext(ctx).
		Preload("Achievement").
		Order("unlocked_at DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list unlocks: %w", err)
	}
	return rows, nil
}

// Unlock inserts the unlock row and reports whether this call won the
// insert. The primary key keeps every achievement at one unlock at most.
func (r *StatsRepository) Unlock(ctx context.Context, achievementID string) (bool, error) {
	row := model.UserAchievement{AchievementID: achievementID, UnlockedAt: time.Now()}
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
	if res.Error != nil {
		return false, fmt.Errorf("unlock achievement %q: %w", achievementID, res.Error)
	}
	return res.RowsAffected > 0, nil
}
