package attendance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus/attendance-engine/attendance"
	"github.com/campus/attendance-engine/attendance/store"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// workDay is the fixed calendar day most tests run on.
var workDay = attendance.Day{Year: 2026, Month: time.March, DayOfMonth: 2}

// at builds a timestamp on workDay from "15:04" or "15:04:05".
func at(t *testing.T, clock string) time.Time {
	t.Helper()
	layout := "15:04"
	if len(clock) == len("15:04:05") {
		layout = "15:04:05"
	}
	parsed, err := time.Parse(layout, clock)
	require.NoError(t, err)
	return time.Date(workDay.Year, workDay.Month, workDay.DayOfMonth,
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, time.UTC)
}

// ev builds a ledger event on workDay.
func ev(t *testing.T, kind attendance.EventKind, clock string, late bool, seq int) attendance.AttendanceEvent {
	t.Helper()
	return attendance.AttendanceEvent{
		ID:         attendance.EventID("ev-" + string(kind)),
		InternID:   "intern-1",
		Kind:       kind,
		Timestamp:  at(t, clock),
		IsLate:     late,
		RecordedBy: attendance.SelfActor(),
		Seq:        seq,
	}
}

// =============================================================================
// KIND STATE MACHINE
// =============================================================================

func TestValidNextKinds_FollowsDailyOrder(t *testing.T) {
	// GIVEN: The fixed kind order ClockIn -> LunchOut -> LunchIn -> ClockOut
	// THEN: Each state offers exactly its legal successors

	assert.Equal(t, []attendance.EventKind{attendance.KindClockIn},
		attendance.ValidNextKinds(""))
	assert.Equal(t, []attendance.EventKind{attendance.KindLunchOut, attendance.KindClockOut},
		attendance.ValidNextKinds(attendance.KindClockIn))
	assert.Equal(t, []attendance.EventKind{attendance.KindLunchIn},
		attendance.ValidNextKinds(attendance.KindLunchOut))
	assert.Equal(t, []attendance.EventKind{attendance.KindClockOut},
		attendance.ValidNextKinds(attendance.KindLunchIn))
	assert.Nil(t, attendance.ValidNextKinds(attendance.KindClockOut),
		"clock-out closes the day")
}

func TestValidateNextKind_EmptyDay_OnlyClockIn(t *testing.T) {
	// GIVEN: No events recorded today
	// WHEN: Submitting each kind as the first event
	// THEN: Only ClockIn is accepted

	err := attendance.ValidateNextKind("intern-1", workDay, nil, attendance.KindClockIn)
	assert.NoError(t, err)

	for _, kind := range []attendance.EventKind{
		attendance.KindLunchOut, attendance.KindLunchIn, attendance.KindClockOut,
	} {
		err := attendance.ValidateNextKind("intern-1", workDay, nil, kind)
		assert.ErrorIs(t, err, attendance.ErrOutOfOrder, "kind %s before clock-in", kind)

		var ooo *attendance.OutOfOrderError
		require.ErrorAs(t, err, &ooo)
		assert.Equal(t, kind, ooo.Attempted)
		assert.Equal(t, attendance.EventKind(""), ooo.LastKind)
	}
}

func TestValidateNextKind_LunchPairIsOptional(t *testing.T) {
	// GIVEN: A day with only a ClockIn
	// WHEN: Clocking out directly, skipping the lunch pair
	// THEN: The clock-out is accepted

	events := []attendance.AttendanceEvent{ev(t, attendance.KindClockIn, "08:05", false, 0)}
	err := attendance.ValidateNextKind("intern-1", workDay, events, attendance.KindClockOut)
	assert.NoError(t, err)
}

func TestValidateNextKind_LunchInWithoutLunchOut_Rejected(t *testing.T) {
	// GIVEN: A day with only a ClockIn
	// WHEN: Submitting LunchIn without a prior LunchOut
	// THEN: Rejected as out of order, reporting the valid successors

	events := []attendance.AttendanceEvent{ev(t, attendance.KindClockIn, "08:05", false, 0)}
	err := attendance.ValidateNextKind("intern-1", workDay, events, attendance.KindLunchIn)

	var ooo *attendance.OutOfOrderError
	require.ErrorAs(t, err, &ooo)
	assert.Equal(t, attendance.KindClockIn, ooo.LastKind)
	assert.Equal(t, []attendance.EventKind{attendance.KindLunchOut, attendance.KindClockOut}, ooo.ValidKinds)
}

func TestValidateNextKind_ResubmitLastKind_DuplicateKind(t *testing.T) {
	// GIVEN: A day whose last event is a ClockIn
	// WHEN: A retry resubmits ClockIn
	// THEN: DuplicateKind, distinguishable from a plain ordering error

	events := []attendance.AttendanceEvent{ev(t, attendance.KindClockIn, "08:05", false, 0)}
	err := attendance.ValidateNextKind("intern-1", workDay, events, attendance.KindClockIn)

	assert.ErrorIs(t, err, attendance.ErrDuplicateKind)
	assert.NotErrorIs(t, err, attendance.ErrOutOfOrder)
}

func TestValidateNextKind_AfterClockOut_DayClosed(t *testing.T) {
	// GIVEN: A day closed by a ClockOut
	// WHEN: Submitting anything afterwards, including a ClockOut retry
	// THEN: DayClosed wins, even over the duplicate-kind check

	events := []attendance.AttendanceEvent{
		ev(t, attendance.KindClockIn, "08:05", false, 0),
		ev(t, attendance.KindClockOut, "16:30", false, 1),
	}

	for _, kind := range []attendance.EventKind{
		attendance.KindClockIn, attendance.KindLunchOut, attendance.KindLunchIn, attendance.KindClockOut,
	} {
		err := attendance.ValidateNextKind("intern-1", workDay, events, kind)
		assert.ErrorIs(t, err, attendance.ErrDayClosed, "kind %s after close", kind)
	}
}

// =============================================================================
// LEDGER APPEND
// =============================================================================

func TestLedger_Append_FullSequence(t *testing.T) {
	// GIVEN: An empty ledger
	// WHEN: Appending a full valid day in order
	// THEN: All four events land, in recorded order

	ctx := context.Background()
	ledger := attendance.NewLedger(store.NewMemory())

	sequence := []attendance.AttendanceEvent{
		ev(t, attendance.KindClockIn, "08:05", false, 0),
		ev(t, attendance.KindLunchOut, "13:00", false, 1),
		ev(t, attendance.KindLunchIn, "13:30", false, 2),
		ev(t, attendance.KindClockOut, "16:30", false, 3),
	}
	for _, e := range sequence {
		require.NoError(t, ledger.Append(ctx, e))
	}

	events, err := ledger.DayEvents(ctx, "intern-1", workDay)
	require.NoError(t, err)
	require.Len(t, events, 4)
	for i, e := range events {
		assert.Equal(t, sequence[i].Kind, e.Kind)
	}
}

func TestLedger_Append_RejectsWithoutSideEffects(t *testing.T) {
	// GIVEN: A ledger holding a single ClockIn
	// WHEN: An invalid append is attempted
	// THEN: The ledger is unchanged

	ctx := context.Background()
	ledger := attendance.NewLedger(store.NewMemory())
	require.NoError(t, ledger.Append(ctx, ev(t, attendance.KindClockIn, "08:05", false, 0)))

	err := ledger.Append(ctx, ev(t, attendance.KindLunchIn, "13:30", false, 1))
	assert.ErrorIs(t, err, attendance.ErrOutOfOrder)

	events, err := ledger.DayEvents(ctx, "intern-1", workDay)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}
