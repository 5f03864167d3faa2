package model

import "time"

// Log action tags. One tag per kind of structural change; field-level
// edits share the single "updated" tag.
const (
	ActionCreated             = "created"
	ActionUpdated             = "updated"
	ActionCompleted           = "completed"
	ActionUncompleted         = "uncompleted"
	ActionSubtaskCreated      = "subtask_created"
	ActionDependencyAdded     = "dependency_added"
	ActionDependencyRemoved   = "dependency_removed"
	ActionBlockerCompleted    = "blocker_completed"
	ActionReminderAdded       = "reminder_added"
	ActionReminderRemoved     = "reminder_removed"
	ActionReminderDue         = "reminder_due"
	ActionAchievementUnlocked = "achievement_unlocked"
)

// TaskLog is an append-only audit row. TaskID is nil for system entries
// such as achievement unlocks; rows are never mutated after insert and
// only disappear when their task is deleted.
type TaskLog struct {
	ID        uint  `gorm:"primaryKey"`
	TaskID    *uint `gorm:"index"`
	Task      *Task `gorm:"constraint:OnDelete:CASCADE"`
	Action    string
	Details   string
	CreatedAt time.Time
}
