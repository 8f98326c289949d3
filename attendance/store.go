/*
store.go - Persistence interfaces for events and profiles

PURPOSE:
  Defines the boundary between the engine and its storage. Events are
  append-only; profiles are the externally-owned records whose counters
  the engine mutates. The transactional store lets the engine append an
  event and save the profile as one atomic unit, so a crash can never
  leave hours credited without the triggering event, or vice versa.

APPEND-ONLY CONTRACT:
  EventStore has AppendEvent and reads. No update, no delete. The store
  must reject a second event with the same (intern, day, kind) with
  ErrDuplicateKind even if a racing writer slipped past validation.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite (same patterns apply to PostgreSQL)
  - attendance/store: In-memory, for tests and development

SEE ALSO:
  - ledger.go: Validated appends
  - engine.go: WithTx orchestration
*/
package attendance

import "context"

// =============================================================================
// EVENT STORE - Append-only event persistence
// =============================================================================

type EventStore interface {
	// AppendEvent persists an event. Must fail with ErrDuplicateKind if an
	// event with the same (InternID, Day, Kind) already exists.
	AppendEvent(ctx context.Context, ev AttendanceEvent) error

	// DayEvents returns the events for (internID, date) ordered by Seq.
	DayEvents(ctx context.Context, internID InternID, date Day) ([]AttendanceEvent, error)

	// EventsInRange returns the intern's events with Day in [from, to],
	// ordered by day then Seq.
	EventsInRange(ctx context.Context, internID InternID, from, to Day) ([]AttendanceEvent, error)
}

// =============================================================================
// PROFILE STORE - Externally-owned intern records
// =============================================================================

type ProfileStore interface {
	// LoadProfile returns the profile or ErrInternNotFound.
	LoadProfile(ctx context.Context, internID InternID) (InternProfile, error)

	// SaveProfile writes the profile back.
	SaveProfile(ctx context.Context, profile InternProfile) error
}

// =============================================================================
// COMBINED + TRANSACTIONAL STORES
// =============================================================================

// Store is the full persistence surface the engine operates on.
type Store interface {
	EventStore
	ProfileStore
}

// TxStore adds atomicity. WithTx executes fn against a transactional view
// of the store: if fn returns an error every write inside it is rolled
// back, including profile saves triggered by status transitions.
type TxStore interface {
	Store

	WithTx(ctx context.Context, fn func(Store) error) error
}
