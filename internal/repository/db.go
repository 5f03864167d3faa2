package repository

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"task-planner/internal/model"
)

// NewDB opens a SQLite database, runs migrations and seeds baseline data.
func NewDB(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "task_planner.db"
	}

	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: dbLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	if err := Seed(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the schema and turns on FK enforcement, which SQLite
// leaves off by default. Cascade deletes depend on it.
func Migrate(db *gorm.DB) error {
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return fmt.Errorf("enable foreign keys: %w", err)
	}
	if err := db.AutoMigrate(
		&model.List{},
		&model.Label{},
		&model.Task{},
		&model.Reminder{},
		&model.TaskLog{},
		&model.TaskDependency{},
		&model.Template{},
		&model.UserStats{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.HabitCompletion{},
	); err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}

var defaultLists = []model.List{
	{Name: "Inbox", Slug: "inbox", Color: "#3b82f6", Icon: "inbox"},
}

var defaultLabels = []model.Label{
	{Name: "Work", Color: "#ef4444"},
	{Name: "Personal", Color: "#10b981"},
	{Name: "Urgent", Color: "#f59e0b"},
}

var defaultAchievements = []model.Achievement{
	{ID: "first_steps", Name: "First Steps", Description: "Complete your first task", Icon: "🌱", ConditionType: model.ConditionCountTotal, Threshold: 1, XPReward: 25},
	{ID: "getting_started", Name: "Getting Started", Description: "Complete 10 tasks", Icon: "🚀", ConditionType: model.ConditionCountTotal, Threshold: 10, XPReward: 50},
	{ID: "task_master", Name: "Task Master", Description: "Complete 50 tasks", Icon: "🏆", ConditionType: model.ConditionCountTotal, Threshold: 50, XPReward: 100},
	{ID: "centurion", Name: "Centurion", Description: "Complete 100 tasks", Icon: "💯", ConditionType: model.ConditionCountTotal, Threshold: 100, XPReward: 250},
	{ID: "productive_day", Name: "Productive Day", Description: "Complete 5 tasks in one day", Icon: "⚡", ConditionType: model.ConditionCountDaily, Threshold: 5, XPReward: 30},
	{ID: "unstoppable", Name: "Unstoppable", Description: "Complete 10 tasks in one day", Icon: "🔥", ConditionType: model.ConditionCountDaily, Threshold: 10, XPReward: 75},
	{ID: "week_streak", Name: "On a Roll", Description: "Keep a 7-day habit streak", Icon: "📅", ConditionType: model.ConditionStreak, Threshold: 7, XPReward: 100},
	{ID: "month_streak", Name: "Habit Forged", Description: "Keep a 30-day habit streak", Icon: "🗓", ConditionType: model.ConditionStreak, Threshold: 30, XPReward: 500},
}

// Seed inserts the inbox list, default labels and the achievement catalog.
// Safe to run on every start.
func Seed(db *gorm.DB) error {
	for _, list := range defaultLists {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&list).Error; err != nil {
			return fmt.Errorf("seed list %q: %w", list.Slug, err)
		}
	}

	var labelCount int64
	if err := db.Model(&model.Label{}).Count(&labelCount).Error; err != nil {
		return fmt.Errorf("count labels: %w", err)
	}
	if labelCount == 0 {
		for _, label := range defaultLabels {
			if err := db.Create(&label).Error; err != nil {
				return fmt.Errorf("seed label %q: %w", label.Name, err)
			}
		}
	}

	for _, a := range defaultAchievements {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&a).Error; err != nil {
			return fmt.Errorf("seed achievement %q: %w", a.ID, err)
		}
	}

	return nil
}

// ensureDirForSQLite creates the parent dir for a SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
