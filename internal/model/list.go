package model

import "time"

// List groups tasks by area. Slug is the stable handle the UI routes on.
// Deleting a list cascades to its tasks.
type List struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string
	Color     string `gorm:"default:#000000"`
	Icon      string
	Slug      string `gorm:"uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
	Tasks     []Task `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE"`
}
