package model

import "time"

// Template stores a serialized task tree for repeated instantiation.
// Content is a JSON array of TemplateNode.
type Template struct {
	ID        uint `gorm:"primaryKey"`
	Name      string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TemplateNode is one task in a template tree. DueDate holds either an
// ISO date (2006-01-02) or one of the placeholder tokens "today",
// "tomorrow", "next-week" substituted at instantiation time. Nodes are
// validated when instantiated, not when stored.
type TemplateNode struct {
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	Priority        string         `json:"priority,omitempty"`
	DueDate         string         `json:"dueDate,omitempty"`
	EstimateMinutes *int           `json:"estimateMinutes,omitempty"`
	Subtasks        []TemplateNode `json:"subtasks,omitempty"`
}
