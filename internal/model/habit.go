package model

import "time"

// HabitCompletion is one completion event for a habit task. Streaks are
// computed over these rows bucketed by local day.
type HabitCompletion struct {
	ID          uint  `gorm:"primaryKey"`
	TaskID      uint  `gorm:"index"`
	Task        *Task `gorm:"constraint:OnDelete:CASCADE"`
	CompletedAt time.Time
}
