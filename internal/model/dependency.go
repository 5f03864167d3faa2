package model

import "time"

// TaskDependency marks TaskID as blocked by BlockerID. Rows vanish with
// either endpoint.
type TaskDependency struct {
	TaskID    uint  `gorm:"primaryKey;autoIncrement:false"`
	BlockerID uint  `gorm:"primaryKey;autoIncrement:false"`
	Task      *Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	Blocker   *Task `gorm:"foreignKey:BlockerID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}
