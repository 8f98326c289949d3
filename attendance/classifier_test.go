package attendance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campus/attendance-engine/attendance"
)

// Default schedule: clock-in 08:00 + 15 min grace, lunch return 14:00 + 10 min.

func TestClassify_ClockIn_WithinGrace_OnTime(t *testing.T) {
	// GIVEN: Scheduled arrival 08:00 with a 15-minute grace window
	// WHEN: Clocking in at 08:14
	// THEN: On time

	cfg := attendance.DefaultClockConfiguration()
	assert.False(t, attendance.Classify(cfg, attendance.KindClockIn, at(t, "08:14")))
}

func TestClassify_ClockIn_DeadlineInstant_OnTime(t *testing.T) {
	// GIVEN: The grace deadline is exactly 08:15
	// WHEN: Clocking in at 08:15:00 sharp
	// THEN: Still on time; only strictly-after is late

	cfg := attendance.DefaultClockConfiguration()
	assert.False(t, attendance.Classify(cfg, attendance.KindClockIn, at(t, "08:15:00")))
	assert.True(t, attendance.Classify(cfg, attendance.KindClockIn, at(t, "08:15:01")))
}

func TestClassify_ClockIn_AfterGrace_Late(t *testing.T) {
	cfg := attendance.DefaultClockConfiguration()
	assert.True(t, attendance.Classify(cfg, attendance.KindClockIn, at(t, "08:16")))
	assert.True(t, attendance.Classify(cfg, attendance.KindClockIn, at(t, "11:45")))
}

func TestClassify_LunchIn_AgainstLunchReturnDeadline(t *testing.T) {
	// GIVEN: Scheduled lunch return 14:00 with a 10-minute grace window
	// THEN: 14:10 is on time, 14:11 is late

	cfg := attendance.DefaultClockConfiguration()
	assert.False(t, attendance.Classify(cfg, attendance.KindLunchIn, at(t, "14:10")))
	assert.True(t, attendance.Classify(cfg, attendance.KindLunchIn, at(t, "14:11")))
}

func TestClassify_DepartureKinds_NeverLate(t *testing.T) {
	// GIVEN: Any time of day, however extreme
	// WHEN: Classifying LunchOut and ClockOut
	// THEN: Departures carry no punctuality penalty

	cfg := attendance.DefaultClockConfiguration()
	assert.False(t, attendance.Classify(cfg, attendance.KindLunchOut, at(t, "23:59")))
	assert.False(t, attendance.Classify(cfg, attendance.KindClockOut, at(t, "23:59")))
}

func TestClassify_ZeroGrace_ScheduledTimeIsDeadline(t *testing.T) {
	// GIVEN: A configuration with no grace window
	// THEN: The scheduled minute itself is the last on-time instant

	cfg := attendance.DefaultClockConfiguration()
	cfg.GraceClockInMinutes = 0

	assert.False(t, attendance.Classify(cfg, attendance.KindClockIn, at(t, "08:00:00")))
	assert.True(t, attendance.Classify(cfg, attendance.KindClockIn, at(t, "08:00:01")))
}
