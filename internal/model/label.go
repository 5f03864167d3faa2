package model

// Label is a flat tag attached to tasks through the task_labels table.
type Label struct {
	ID    uint `gorm:"primaryKey"`
	Name  string
	Color string `gorm:"default:#000000"`
	Icon  string
}
