package service

import (
	"context"
	"time"

	"task-planner/internal/model"
	"task-planner/internal/repository"
)

// DayCount is one day's created/completed tally.
type DayCount struct {
	Date      string
	Created   int
	Completed int
}

// AnalyticsSnapshot is a read-only rollup over the task table.
type AnalyticsSnapshot struct {
	TotalTasks     int
	CompletedTasks int
	CompletionRate int
	PriorityCounts map[string]int
	Days           []DayCount
	AvgEstimate    int
	AvgActual      int
}

// AnalyticsService computes dashboard rollups. Pure reads, no side
// effects.
type AnalyticsService struct {
	store *repository.Store
}

func NewAnalyticsService(store *repository.Store) *AnalyticsService {
	return &AnalyticsService{store: store}
}

// Snapshot tallies totals, priority distribution, per-day activity over
// the trailing `days` window, and estimate accuracy.
func (s *AnalyticsService) Snapshot(ctx context.Context, days int) (*AnalyticsSnapshot, error) {
	tasks, err := s.store.Tasks.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	snap := AnalyticsSnapshot{
		TotalTasks:     len(tasks),
		PriorityCounts: map[string]int{},
	}
	for _, task := range tasks {
		if task.IsCompleted {
			snap.CompletedTasks++
		}
		priority := task.Priority
		if priority == "" {
			priority = model.PriorityNone
		}
		snap.PriorityCounts[priority]++
	}
	if snap.TotalTasks > 0 {
		snap.CompletionRate = snap.CompletedTasks * 100 / snap.TotalTasks
	}

	now := time.Now()
	for i := days - 1; i >= 0; i-- {
		day := now.AddDate(0, 0, -i)
		dayStart := startOfDay(day)
		dayEnd := endOfDay(day)

		var count DayCount
		count.Date = day.Format("Jan 2")
		for _, task := range tasks {
			if !task.CreatedAt.Before(dayStart) && !task.CreatedAt.After(dayEnd) {
				count.Created++
			}
			if task.CompletedAt != nil && !task.CompletedAt.Before(dayStart) && !task.CompletedAt.After(dayEnd) {
				count.Completed++
			}
		}
		snap.Days = append(snap.Days, count)
	}

	var withTime, estSum, actSum int
	for _, task := range tasks {
		if task.EstimateMinutes != nil && task.ActualMinutes != nil {
			withTime++
			estSum += *task.EstimateMinutes
			actSum += *task.ActualMinutes
		}
	}
	if withTime > 0 {
		snap.AvgEstimate = estSum / withTime
		snap.AvgActual = actSum / withTime
	}

	return &snap, nil
}
