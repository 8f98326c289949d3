/*
classifier.go - Tardiness classification

PURPOSE:
  Pure decision: given the schedule policy, an event kind and its
  server-assigned timestamp, is the event late? Only punctuality of
  arrival events is penalized: ClockIn against the scheduled arrival,
  LunchIn against the scheduled lunch return. LunchOut and ClockOut are
  never late.

EVALUATION TIME:
  The classifier runs once, at the moment of append. The boolean is
  stored on the event and never recomputed, so schedule changes do not
  rewrite history.

SEE ALSO:
  - config.go: Scheduled times and grace windows
  - policy.go: Consumes IsLate to drive violation counters
*/
package attendance

import "time"

// Classify reports whether an event of the given kind at the given moment
// is late under cfg. The deadline is the scheduled time plus its grace
// window, anchored to the event's own calendar day; strictly after the
// deadline is late, the deadline instant itself is on time.
func Classify(cfg ClockConfiguration, kind EventKind, at time.Time) bool {
	switch kind {
	case KindClockIn:
		deadline := cfg.ScheduledClockIn.
			AddMinutes(cfg.GraceClockInMinutes).
			On(DayOf(at), at.Location())
		return at.After(deadline)
	case KindLunchIn:
		deadline := cfg.ScheduledLunchReturn.
			AddMinutes(cfg.GraceLunchReturnMinutes).
			On(DayOf(at), at.Location())
		return at.After(deadline)
	default:
		return false
	}
}
