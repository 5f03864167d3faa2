package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles every repository over one gorm handle so composite
// operations can run all their sub-steps on a single transaction.
type Store struct {
	db *gorm.DB

	Lists        *ListRepository
	Labels       *LabelRepository
	Tasks        *TaskRepository
	Logs         *LogRepository
	Dependencies *DependencyRepository
	Reminders    *ReminderRepository
	Templates    *TemplateRepository
	Stats        *StatsRepository
	Habits       *HabitRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Lists:        NewListRepository(db),
		Labels:       NewLabelRepository(db),
		Tasks:        NewTaskRepository(db),
		Logs:         NewLogRepository(db),
		Dependencies: NewDependencyRepository(db),
		Reminders:    NewReminderRepository(db),
		Templates:    NewTemplateRepository(db),
		Stats:        NewStatsRepository(db),
		Habits:       NewHabitRepository(db),
	}
}

// Transaction runs fn against a store bound to one transaction. Nested
// calls reuse the surrounding transaction (gorm savepoints).
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// DB exposes the underlying handle for callers that need raw access.
func (s *Store) DB() *gorm.DB { return s.db }
