package model

import "time"

// UserStatsID keys the singleton stats row for the single profile.
const UserStatsID uint = 1

// UserStats is the gamification ledger: experience, derived level and
// habit streak counters. Created lazily on first access.
type UserStats struct {
	ID            uint `gorm:"primaryKey"`
	XP            int  `gorm:"default:0"`
	Level         int  `gorm:"default:1"`
	CurrentStreak int  `gorm:"default:0"`
	LongestStreak int  `gorm:"default:0"`
	LastLoginAt   *time.Time
	UpdatedAt     time.Time
}

// Achievement condition kinds.
const (
	ConditionCountTotal = "count_total"
	ConditionCountDaily = "count_daily"
	ConditionStreak     = "streak"
)

// Achievement is a catalog row; unlock state lives in UserAchievement.
type Achievement struct {
	ID            string `gorm:"primaryKey"`
	Name          string
	Description   string
	Icon          string
	ConditionType string
	Threshold     int
	XPReward      int
}

// UserAchievement records a one-time unlock. The primary key is what
// makes repeated evaluation idempotent.
type UserAchievement struct {
	AchievementID string       `gorm:"primaryKey"`
	Achievement   *Achievement `gorm:"constraint:OnDelete:CASCADE"`
	UnlockedAt    time.Time
}
