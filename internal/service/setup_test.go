package service

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"task-planner/internal/repository"
)

// newTestStore opens a fresh in-memory database per test. The pool is
// capped at one connection so ":memory:" stays a single database.
func newTestStore(t *testing.T) *repository.Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repository.Migrate(db))
	return repository.NewStore(db)
}

// newSeededStore also loads the default lists, labels and achievements.
func newSeededStore(t *testing.T) *repository.Store {
	t.Helper()
	store := newTestStore(t)
	require.NoError(t, repository.Seed(store.DB()))
	return store
}
