package model

import "time"

// Task priorities, ordered from least to most urgent.
const (
	PriorityNone   = "none"
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Energy levels a task can be tagged with.
const (
	EnergyHigh   = "high"
	EnergyMedium = "medium"
	EnergyLow    = "low"
)

// Contexts describing where a task can be done.
const (
	ContextComputer = "computer"
	ContextPhone    = "phone"
	ContextErrands  = "errands"
	ContextMeeting  = "meeting"
	ContextHome     = "home"
	ContextAnywhere = "anywhere"
)

// Task is a single item in the planner. Subtasks are ordinary tasks with a
// ParentID and no list. A habit is always recurring.
type Task struct {
	ID              uint  `gorm:"primaryKey"`
	ListID          *uint `gorm:"index"`
	Title           string
	Description     string
	Priority        string `gorm:"default:none"`
	DueDate         *time.Time
	Deadline        *time.Time
	IsCompleted     bool `gorm:"default:false"`
	CompletedAt     *time.Time
	IsRecurring     bool `gorm:"default:false"`
	RecurringRule   string
	ParentID        *uint `gorm:"index"`
	EstimateMinutes *int
	ActualMinutes   *int
	EnergyLevel     string
	Context         string
	IsHabit         bool `gorm:"default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Subtasks  []Task     `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE"`
	Labels    []Label    `gorm:"many2many:task_labels;constraint:OnDelete:CASCADE"`
	Reminders []Reminder `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`

	// Blockers holds the tasks this one is blocked by, in the order the
	// dependencies were added. Populated on reads, not stored directly.
	Blockers []Task `gorm:"-"`
}
