package model

import "time"

// Reminder is a point-in-time nudge owned by a task.
type Reminder struct {
	ID        uint `gorm:"primaryKey"`
	TaskID    uint `gorm:"index"`
	Task      *Task
	RemindAt  time.Time
	Sent      bool `gorm:"default:false"`
	CreatedAt time.Time
}
