package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleDailyAcceptsWallClockTimes(t *testing.T) {
	scheduler := NewSchedulerService(time.Local)
	for _, at := range []string{"00:00", "08:00", "23:59"} {
		_, err := scheduler.ScheduleDaily(at, func() {})
		require.NoError(t, err, at)
	}
}

func TestScheduleDailyRejectsGarbage(t *testing.T) {
	scheduler := NewSchedulerService(time.Local)
	for _, raw := range []string{"", "8", "8:0:0", "24:00", "12:60", "ab:cd"} {
		_, err := scheduler.ScheduleDaily(raw, func() {})
		assert.Error(t, err, raw)
	}
}

func TestScheduleIntervalRejectsNonPositive(t *testing.T) {
	scheduler := NewSchedulerService(time.Local)
	_, err := scheduler.ScheduleInterval(0, func() {})
	assert.Error(t, err)
	_, err = scheduler.ScheduleInterval(-time.Minute, func() {})
	assert.Error(t, err)
}
