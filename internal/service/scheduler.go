package service

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// SchedulerService owns the background clock: the reminder poll and the
// daily agenda announcement both hang off one cron instance.
type SchedulerService struct {
	cron *cron.Cron
}

func NewSchedulerService(loc *time.Location) *SchedulerService {
	return &SchedulerService{
		cron: cron.New(cron.WithLocation(loc), cron.WithSeconds()),
	}
}

// ScheduleInterval runs job repeatedly with the given delay between
// runs. Sub-second intervals round up to cron's one-second floor.
func (s *SchedulerService) ScheduleInterval(interval time.Duration, job func()) (cron.EntryID, error) {
	if interval <= 0 {
		return 0, fmt.Errorf("interval must be positive, got %s", interval)
	}
	return s.cron.Schedule(cron.Every(interval), cron.FuncJob(job)), nil
}

// ScheduleDaily runs job once a day at the wall-clock time given as
// "HH:MM" in the scheduler's location.
func (s *SchedulerService) ScheduleDaily(at string, job func()) (cron.EntryID, error) {
	clock, err := time.Parse("15:04", at)
	if err != nil {
		return 0, fmt.Errorf("daily time %q: %w", at, err)
	}
	return s.cron.AddFunc(fmt.Sprintf("0 %d %d * * *", clock.Minute(), clock.Hour()), job)
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

// Stop halts scheduling and waits for any in-flight job to return.
func (s *SchedulerService) Stop() {
	done := s.cron.Stop()
	<-done.Done()
}
