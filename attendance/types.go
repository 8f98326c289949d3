/*
Package attendance provides the canonical attendance time-tracking engine.

PURPOSE:
  This package contains the single source of truth for intern clock events:
  recording arrivals, lunch breaks and departures, classifying punctuality
  against the configured schedule, converting a completed day into worked
  hours, and enforcing the violation policies that change an intern's
  eligibility status.

KEY CONCEPTS IN THIS FILE (types.go):
  - EventKind: The four clock actions and their fixed daily ordering
  - AttendanceEvent: An immutable ledger entry for one clock action
  - DayRecord: A derived view of one intern's calendar day
  - InternProfile: The externally-owned record the engine mutates
  - Status: A closed tagged variant replacing free-form status strings

DESIGN PRINCIPLES:
  1. Immutability: Events are written once, never edited or deleted
  2. Precision: Uses decimal.Decimal for hour accounting
  3. Type Safety: Strong typing for IDs and enumerations
  4. Single authority: Timestamps and lateness come from the server only

SEE ALSO:
  - ledger.go: Ordering validation for event sequences
  - classifier.go: Lateness classification
  - shift.go: Worked-hours calculation
  - policy.go: Violation counters and status transitions
*/
package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type InternID string
type EventID string
type GuardID string

// =============================================================================
// EVENT KIND - The four clock actions, in their fixed daily order
// =============================================================================

type EventKind string

const (
	KindClockIn  EventKind = "clock_in"
	KindLunchOut EventKind = "lunch_out"
	KindLunchIn  EventKind = "lunch_in"
	KindClockOut EventKind = "clock_out"
)

// IsValid reports whether k is one of the four known kinds.
func (k EventKind) IsValid() bool {
	switch k {
	case KindClockIn, KindLunchOut, KindLunchIn, KindClockOut:
		return true
	}
	return false
}

// =============================================================================
// ACTOR - Who submitted the clock action (audit only, never affects rules)
// =============================================================================

type ActorRole string

const (
	ActorSelf  ActorRole = "self"
	ActorGuard ActorRole = "guard"
)

// Actor identifies the front door a clock action came through.
// GuardID is set only when Role is ActorGuard.
type Actor struct {
	Role    ActorRole
	GuardID GuardID
}

func SelfActor() Actor            { return Actor{Role: ActorSelf} }
func GuardActor(id GuardID) Actor { return Actor{Role: ActorGuard, GuardID: id} }

// =============================================================================
// ATTENDANCE EVENT - Immutable ledger entry
// =============================================================================

// AttendanceEvent is a single timestamped clock action.
//
// INVARIANTS:
//   - Created exactly once by the engine; never mutated afterwards.
//   - Timestamp is server-assigned; clients never supply it.
//   - IsLate is classified at creation and never recomputed, so a later
//     configuration change does not retroactively reclassify history.
type AttendanceEvent struct {
	ID         EventID
	InternID   InternID
	Kind       EventKind
	Timestamp  time.Time
	IsLate     bool
	RecordedBy Actor

	// Seq is the zero-based position of the event within its day.
	Seq int
}

// Day returns the calendar day the event belongs to.
func (e AttendanceEvent) Day() Day { return DayOf(e.Timestamp) }

// =============================================================================
// DAY RECORD - Derived view of one intern's calendar day
// =============================================================================

type DayStatus string

const (
	DayOpen       DayStatus = "open"
	DayComplete   DayStatus = "complete"
	DayIncomplete DayStatus = "incomplete"
	DayLate       DayStatus = "late"
)

// DayRecord is derived from the day's events; it is never persisted
// separately. Status is DayOpen until a ClockOut closes the day.
type DayRecord struct {
	InternID    InternID
	Date        Day
	Events      []AttendanceEvent
	Status      DayStatus
	WorkedHours decimal.Decimal
}

// Closed reports whether the day has recorded its ClockOut.
func (d DayRecord) Closed() bool {
	return len(d.Events) > 0 && d.Events[len(d.Events)-1].Kind == KindClockOut
}

// =============================================================================
// STATUS - Closed tagged variant for intern eligibility
// =============================================================================

type StatusCode string

const (
	StatusNotEnabled StatusCode = "not_enabled"
	StatusActive     StatusCode = "active"
	StatusBlocked    StatusCode = "blocked"
	StatusFinalized  StatusCode = "finalized"
)

type StatusReason string

const (
	ReasonExcessTardiness StatusReason = "excess_tardiness"
	ReasonExcessAbsence   StatusReason = "excess_absence"
	ReasonExcessWarnings  StatusReason = "excess_warnings"
	ReasonHoursCompleted  StatusReason = "hours_completed"
	ReasonEarlyWithdrawal StatusReason = "early_withdrawal"
)

// Status is the intern's eligibility state. Reason is set only for
// Blocked and Finalized. Transitions into Blocked/Finalized are
// one-directional; reactivation is an administrative action outside
// this engine.
type Status struct {
	Code   StatusCode
	Reason StatusReason
}

func NotEnabledStatus() Status              { return Status{Code: StatusNotEnabled} }
func ActiveStatus() Status                  { return Status{Code: StatusActive} }
func BlockedStatus(r StatusReason) Status   { return Status{Code: StatusBlocked, Reason: r} }
func FinalizedStatus(r StatusReason) Status { return Status{Code: StatusFinalized, Reason: r} }

// IsActive reports whether clock actions are currently permitted.
func (s Status) IsActive() bool { return s.Code == StatusActive }

// Terminal reports whether the status can no longer change automatically.
func (s Status) Terminal() bool {
	return s.Code == StatusBlocked || s.Code == StatusFinalized
}

func (s Status) String() string {
	if s.Reason == "" {
		return string(s.Code)
	}
	return string(s.Code) + "(" + string(s.Reason) + ")"
}

// =============================================================================
// INTERN PROFILE - Externally-owned record, engine mutates a subset
// =============================================================================

// InternProfile is owned by the profile-management collaborator. The
// engine mutates only the violation counters, CompletedHours and Status,
// and always inside the same transaction that appends the triggering
// event.
//
// INVARIANT: CompletedHours only increases, and only via the hour
// calculator on day completion.
type InternProfile struct {
	ID       InternID
	FullName string
	Status   Status

	RequiredHours  decimal.Decimal
	CompletedHours decimal.Decimal

	TardinessEntryCount int
	TardinessLunchCount int
	AbsenceCount        int
	WarningCount        int
}

// =============================================================================
// SUMMARY - Read model returned by the engine
// =============================================================================

// Summary is the attendance view of a profile: progress plus counters.
type Summary struct {
	InternID       InternID
	Status         Status
	RequiredHours  decimal.Decimal
	CompletedHours decimal.Decimal

	TardinessEntryCount int
	TardinessLunchCount int
	AbsenceCount        int
	WarningCount        int
}
