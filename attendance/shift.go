/*
shift.go - Shift assembly and worked-hours calculation

PURPOSE:
  Converts a day's completed event set into net worked hours and a day
  status. Runs exactly when a ClockOut is appended for a day that has a
  ClockIn.

CALCULATION:
  rawSpan   = ClockOut - ClockIn
  lunchSpan = LunchIn - LunchOut   (only when the pair is complete)
  hours     = max(0, rawSpan - lunchSpan) / 1h, rounded half-up to 2 dp

DAY STATUS:
  Late       - any event that day is late
  Complete   - otherwise, workedHours >= 4
  Incomplete - otherwise

SEE ALSO:
  - ledger.go: Guarantees the event sequence shape this file relies on
  - engine.go: Credits the hours to the profile inside the transaction
*/
package attendance

import "github.com/shopspring/decimal"

// Day status requires at least this many net hours to count as complete.
var completeDayHours = decimal.NewFromInt(4)

var secondsPerHour = decimal.NewFromInt(3600)

// WorkedHours computes net worked hours for a day's events: the clock-in
// to clock-out span minus the lunch interval, floored at zero and rounded
// half-up to two decimal places. Returns zero when the day has no
// ClockIn/ClockOut pair.
func WorkedHours(events []AttendanceEvent) decimal.Decimal {
	var clockIn, clockOut, lunchOut, lunchIn *AttendanceEvent
	for i := range events {
		ev := &events[i]
		switch ev.Kind {
		case KindClockIn:
			clockIn = ev
		case KindClockOut:
			clockOut = ev
		case KindLunchOut:
			lunchOut = ev
		case KindLunchIn:
			lunchIn = ev
		}
	}

	if clockIn == nil || clockOut == nil {
		return decimal.Zero
	}

	rawSeconds := clockOut.Timestamp.Sub(clockIn.Timestamp).Seconds()
	lunchSeconds := 0.0
	if lunchOut != nil && lunchIn != nil {
		lunchSeconds = lunchIn.Timestamp.Sub(lunchOut.Timestamp).Seconds()
	}

	net := decimal.NewFromFloat(rawSeconds - lunchSeconds)
	if net.IsNegative() {
		net = decimal.Zero
	}

	// Round is half away from zero, which for a non-negative span is
	// exactly the required round-half-up.
	return net.Div(secondsPerHour).Round(2)
}

// AssembleDay builds the derived DayRecord for one intern's day.
func AssembleDay(internID InternID, date Day, events []AttendanceEvent) DayRecord {
	record := DayRecord{
		InternID: internID,
		Date:     date,
		Events:   events,
		Status:   DayOpen,
	}

	if !record.Closed() {
		return record
	}

	record.WorkedHours = WorkedHours(events)
	record.Status = DayIncomplete
	if record.WorkedHours.GreaterThanOrEqual(completeDayHours) {
		record.Status = DayComplete
	}
	for _, ev := range events {
		if ev.IsLate {
			record.Status = DayLate
			break
		}
	}
	return record
}
