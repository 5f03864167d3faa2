package service

import (
	"context"
	"errors"
	"fmt"

	"task-planner/internal/model"
	"task-planner/internal/repository"
)

var (
	// ErrSelfDependency rejects a task blocking itself.
	ErrSelfDependency = errors.New("task cannot depend on itself")
	// ErrCircularDependency rejects an edge whose direct reverse
	// already exists.
	ErrCircularDependency = errors.New("circular dependency")
)

// DependencyService maintains the blocker graph and the informational
// signals around it. Blocking is advisory: nothing here gates a task's
// completion.
type DependencyService struct {
	store    *repository.Store
	activity *ActivityService
}

func NewDependencyService(store *repository.Store) *DependencyService {
	return &DependencyService{store: store, activity: NewActivityService(store)}
}

// AddDependency records that taskID is blocked by blockerID. Only the
// direct reverse edge is rejected as circular; longer transitive cycles
// (A->B->C->A) pass this check.
func (s *DependencyService) AddDependency(ctx context.Context, taskID, blockerID uint) error {
	if taskID == blockerID {
		return ErrSelfDependency
	}

	reverse, err := s.store.Dependencies.Exists(ctx, blockerID, taskID)
	if err != nil {
		return err
	}
	if reverse {
		return ErrCircularDependency
	}

	dep := model.TaskDependency{TaskID: taskID, BlockerID: blockerID}
	if err := s.store.Dependencies.Create(ctx, &dep); err != nil {
		return err
	}

	id := taskID
	s.activity.Record(ctx, &id, model.ActionDependencyAdded, fmt.Sprintf("Dependency added: blocked by task #%d", blockerID))
	return nil
}

// RemoveDependency drops the edge if present. Removing a missing edge
// is a no-op, not an error.
func (s *DependencyService) RemoveDependency(ctx context.Context, taskID, blockerID uint) error {
	if err := s.store.Dependencies.Delete(ctx, taskID, blockerID); err != nil {
		return err
	}
	id := taskID
	s.activity.Record(ctx, &id, model.ActionDependencyRemoved, fmt.Sprintf("Dependency removed: no longer blocked by task #%d", blockerID))
	return nil
}

// Blockers returns the tasks blocking taskID in insertion order.
func (s *DependencyService) Blockers(ctx context.Context, taskID uint) ([]model.Task, error) {
	return s.store.Dependencies.Blockers(ctx, taskID)
}

// BlockedTasks returns the tasks that blockerID blocks.
func (s *DependencyService) BlockedTasks(ctx context.Context, blockerID uint) ([]model.Task, error) {
	return s.store.Dependencies.BlockedTasks(ctx, blockerID)
}

// NotifyBlockerCompleted logs a blocker_completed entry on every task
// the completed blocker was blocking. The message gains the unblocked
// suffix when no incomplete blockers remain. Called after the blocker's
// completion has been persisted; purely informational.
func (s *DependencyService) NotifyBlockerCompleted(ctx context.Context, blocker model.Task) error {
	blocked, err := s.store.Dependencies.BlockedTasks(ctx, blocker.ID)
	if err != nil {
		return err
	}

	for _, task := range blocked {
		remaining, err := s.store.Dependencies.IncompleteBlockerCount(ctx, task.ID)
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("Blocker %q completed.", blocker.Title)
		if remaining == 0 {
			msg += " Task is now unblocked!"
		}
		id := task.ID
		s.activity.Record(ctx, &id, model.ActionBlockerCompleted, msg)
	}
	return nil
}
