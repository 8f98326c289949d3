/*
ledger.go - Append-only event ledger with ordering enforcement

PURPOSE:
  The ledger is the immutable record of clock events. Per intern and
  calendar day, the kind sequence must be a prefix of

      ClockIn -> LunchOut -> LunchIn -> ClockOut

  with the lunch pair optional as a pair but never individually skippable
  out of order. A ClockOut closes the day permanently.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete. EVER.
  2. ORDERED: Timestamps strictly increase within a day, and the kind
     state machine above decides the only acceptable next kind.
  3. IDEMPOTENT RETRIES: Resubmitting the last kind fails DuplicateKind
     without side effects, so a retry after a dropped response is safe.

VALIDATION IS PURE:
  ValidNextKinds and ValidateNextKind are pure functions over the day's
  existing events. The engine calls them inside its transaction so that
  the check and the append see the same state; the store's unique index
  on (intern, day, kind) backs the same invariant at the database level.

SEE ALSO:
  - store.go: Persistence interfaces the ledger writes through
  - engine.go: Runs validation + append under the per-intern-day lock
*/
package attendance

import "context"

// =============================================================================
// KIND STATE MACHINE
// =============================================================================

// ValidNextKinds returns the kinds acceptable after the given last kind.
// An empty last kind means the day has no events yet; a nil result means
// the day is closed.
func ValidNextKinds(last EventKind) []EventKind {
	switch last {
	case "":
		return []EventKind{KindClockIn}
	case KindClockIn:
		return []EventKind{KindLunchOut, KindClockOut}
	case KindLunchOut:
		return []EventKind{KindLunchIn}
	case KindLunchIn:
		return []EventKind{KindClockOut}
	default: // KindClockOut
		return nil
	}
}

// ValidateNextKind checks whether kind may follow the day's existing
// events. Returns ErrDayClosed, ErrDuplicateKind, or an OutOfOrderError;
// nil means the append may proceed.
func ValidateNextKind(internID InternID, date Day, events []AttendanceEvent, kind EventKind) error {
	var last EventKind
	if len(events) > 0 {
		last = events[len(events)-1].Kind
	}

	valid := ValidNextKinds(last)
	if valid == nil {
		return ErrDayClosed
	}
	for _, v := range valid {
		if v == kind {
			return nil
		}
	}
	if kind == last {
		return ErrDuplicateKind
	}
	return &OutOfOrderError{
		InternID:   internID,
		Date:       date,
		LastKind:   last,
		Attempted:  kind,
		ValidKinds: valid,
	}
}

// =============================================================================
// LEDGER - Validated append over an EventStore
// =============================================================================

// Ledger wraps an EventStore with the ordering invariant. The engine
// embeds the same validation in its transaction; this standalone wrapper
// exists for read paths and for callers that manage their own atomicity.
type Ledger struct {
	store EventStore
}

func NewLedger(store EventStore) *Ledger {
	return &Ledger{store: store}
}

// Append validates the event against the day's recorded sequence and
// persists it. The event must carry its server-assigned timestamp and
// classification already.
func (l *Ledger) Append(ctx context.Context, ev AttendanceEvent) error {
	events, err := l.store.DayEvents(ctx, ev.InternID, ev.Day())
	if err != nil {
		return err
	}
	if err := ValidateNextKind(ev.InternID, ev.Day(), events, ev.Kind); err != nil {
		return err
	}
	return l.store.AppendEvent(ctx, ev)
}

// DayEvents returns the day's events in recorded order. Read-only.
func (l *Ledger) DayEvents(ctx context.Context, internID InternID, date Day) ([]AttendanceEvent, error) {
	return l.store.DayEvents(ctx, internID, date)
}
