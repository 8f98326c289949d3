/*
engine.go - The attendance engine API surface

PURPOSE:
  Single server-owned implementation both front doors call. RecordEvent
  is the only write path for clock events: it assigns the timestamp,
  validates ordering, classifies lateness, credits hours on day close and
  runs the violation policy - all under a per-(intern, day) lock and
  inside one store transaction.

CONCURRENCY MODEL:
  Each (intern, day) ledger is a serialization boundary. Lock acquisition
  waits a bounded time and then fails ErrBusy rather than deadlocking.
  Different interns proceed independently. There is no cancellation
  concept beyond the context plumbed into storage; each call is a single
  atomic unit of work.

ATOMICITY:
  Event append and profile mutation happen in the same WithTx. If the
  profile cannot be saved (e.g. while flipping to Finalized), the event
  append rolls back with it - the engine performs no partial writes.

SEE ALSO:
  - ledger.go: Ordering state machine
  - policy.go: Counter limits and status transitions
  - shift.go: Worked-hours calculation on day close
*/
package attendance

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// ENGINE
// =============================================================================

const defaultLockWait = 2 * time.Second

// Engine is the canonical attendance engine. Safe for concurrent use.
type Engine struct {
	store  TxStore
	cfg    ClockConfiguration
	policy ViolationPolicy

	locks    *keyedLock
	lockWait time.Duration
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock overrides the server clock. Tests use this; production code
// never supplies timestamps from outside.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithLockWait bounds how long RecordEvent waits on a contended
// (intern, day) lock before failing ErrBusy.
func WithLockWait(d time.Duration) Option {
	return func(e *Engine) { e.lockWait = d }
}

// NewEngine creates the engine over a transactional store.
func NewEngine(store TxStore, cfg ClockConfiguration, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("clock configuration: %w", err)
	}

	e := &Engine{
		store:    store,
		cfg:      cfg,
		policy:   NewViolationPolicy(cfg),
		locks:    newKeyedLock(),
		lockWait: defaultLockWait,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns the loaded clock configuration. Read-only.
func (e *Engine) Config() ClockConfiguration { return e.cfg }

// Now returns the engine's current time. Callers use it to resolve
// "today" consistently with the timestamps the engine assigns.
func (e *Engine) Now() time.Time { return e.now() }

// =============================================================================
// RECORD EVENT - The single write path for clock actions
// =============================================================================

// RecordResult is what both front doors get back: the created event and
// the day/intern state after the append.
type RecordResult struct {
	Event        AttendanceEvent
	DayStatus    DayStatus
	WorkedHours  decimal.Decimal // non-zero only when this event closed the day
	InternStatus Status
}

// RecordEvent records one clock action for the intern's current day.
// The engine is the sole timestamp authority: "today" and the event time
// come from the server clock, never from the caller.
func (e *Engine) RecordEvent(ctx context.Context, internID InternID, kind EventKind, actor Actor) (RecordResult, error) {
	if !kind.IsValid() {
		return RecordResult{}, fmt.Errorf("unknown event kind %q: %w", kind, ErrOutOfOrder)
	}

	now := e.now()
	today := DayOf(now)

	if !e.locks.acquire(lockKey(internID, today), e.lockWait) {
		return RecordResult{}, ErrBusy
	}
	defer e.locks.release(lockKey(internID, today))

	var result RecordResult
	err := e.store.WithTx(ctx, func(s Store) error {
		profile, err := loadProfile(ctx, s, internID)
		if err != nil {
			return err
		}
		if !profile.Status.IsActive() {
			return &AccountNotActiveError{InternID: internID, Status: profile.Status}
		}

		events, err := s.DayEvents(ctx, internID, today)
		if err != nil {
			return fmt.Errorf("loading day events: %w", err)
		}
		if err := ValidateNextKind(internID, today, events, kind); err != nil {
			return err
		}

		ev := AttendanceEvent{
			ID:         EventID(uuid.NewString()),
			InternID:   internID,
			Kind:       kind,
			Timestamp:  now,
			IsLate:     Classify(e.cfg, kind, now),
			RecordedBy: actor,
			Seq:        len(events),
		}
		if err := s.AppendEvent(ctx, ev); err != nil {
			return err
		}

		e.policy.ApplyEvent(&profile, ev)

		events = append(events, ev)
		record := AssembleDay(internID, today, events)
		if record.Closed() {
			profile.CompletedHours = profile.CompletedHours.Add(record.WorkedHours)
			e.policy.ApplyHours(&profile)
		}

		if err := s.SaveProfile(ctx, profile); err != nil {
			return fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
		}

		result = RecordResult{
			Event:        ev,
			DayStatus:    record.Status,
			WorkedHours:  record.WorkedHours,
			InternStatus: profile.Status,
		}
		return nil
	})
	if err != nil {
		return RecordResult{}, err
	}
	return result, nil
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// GetDayEvents returns the ordered events for (internID, date).
// Read-only, restartable, finite.
func (e *Engine) GetDayEvents(ctx context.Context, internID InternID, date Day) ([]AttendanceEvent, error) {
	return e.store.DayEvents(ctx, internID, date)
}

// GetInternAttendanceSummary returns hours progress, counters and status.
func (e *Engine) GetInternAttendanceSummary(ctx context.Context, internID InternID) (Summary, error) {
	profile, err := loadProfile(ctx, e.store, internID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		InternID:            profile.ID,
		Status:              profile.Status,
		RequiredHours:       profile.RequiredHours,
		CompletedHours:      profile.CompletedHours,
		TardinessEntryCount: profile.TardinessEntryCount,
		TardinessLunchCount: profile.TardinessLunchCount,
		AbsenceCount:        profile.AbsenceCount,
		WarningCount:        profile.WarningCount,
	}, nil
}

// GetAttendanceLog returns one DayRecord per day with events in
// [from, to], most recent day last.
func (e *Engine) GetAttendanceLog(ctx context.Context, internID InternID, from, to Day) ([]DayRecord, error) {
	events, err := e.store.EventsInRange(ctx, internID, from, to)
	if err != nil {
		return nil, err
	}

	var records []DayRecord
	var day Day
	var dayEvents []AttendanceEvent
	flush := func() {
		if len(dayEvents) > 0 {
			records = append(records, AssembleDay(internID, day, dayEvents))
		}
	}
	for _, ev := range events {
		if ev.Day() != day {
			flush()
			day = ev.Day()
			dayEvents = nil
		}
		dayEvents = append(dayEvents, ev)
	}
	flush()
	return records, nil
}

// =============================================================================
// COLLABORATOR OPERATIONS - Counters not driven by clock events
// =============================================================================

// RecordAbsence increments the absence counter on behalf of the profile
// collaborator and applies the violation policy atomically.
func (e *Engine) RecordAbsence(ctx context.Context, internID InternID) (Summary, error) {
	return e.adjustProfile(ctx, internID, e.policy.ApplyAbsence)
}

// RecordWarning increments the warning counter on behalf of the profile
// collaborator and applies the violation policy atomically.
func (e *Engine) RecordWarning(ctx context.Context, internID InternID) (Summary, error) {
	return e.adjustProfile(ctx, internID, e.policy.ApplyWarning)
}

func (e *Engine) adjustProfile(ctx context.Context, internID InternID, apply func(*InternProfile)) (Summary, error) {
	err := e.store.WithTx(ctx, func(s Store) error {
		profile, err := loadProfile(ctx, s, internID)
		if err != nil {
			return err
		}
		apply(&profile)
		if err := s.SaveProfile(ctx, profile); err != nil {
			return fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
		}
		return nil
	})
	if err != nil {
		return Summary{}, err
	}
	return e.GetInternAttendanceSummary(ctx, internID)
}

func loadProfile(ctx context.Context, s ProfileStore, internID InternID) (InternProfile, error) {
	profile, err := s.LoadProfile(ctx, internID)
	if errors.Is(err, ErrInternNotFound) {
		return InternProfile{}, err
	}
	if err != nil {
		return InternProfile{}, fmt.Errorf("%w: %v", ErrProfileUnavailable, err)
	}
	return profile, nil
}

// =============================================================================
// KEYED LOCK - Bounded-wait serialization per (intern, day)
// =============================================================================

func lockKey(internID InternID, date Day) string {
	return string(internID) + "@" + date.String()
}

// keyedLock is a set of single-slot locks addressed by key. Acquire
// waits at most the given duration. Entries accumulate per intern-day;
// the population is bounded by interns x active days in a process
// lifetime, which is small enough not to warrant eviction.
type keyedLock struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newKeyedLock() *keyedLock {
	return &keyedLock{slots: make(map[string]chan struct{})}
}

func (l *keyedLock) acquire(key string, wait time.Duration) bool {
	l.mu.Lock()
	slot, ok := l.slots[key]
	if !ok {
		slot = make(chan struct{}, 1)
		l.slots[key] = slot
	}
	l.mu.Unlock()

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case slot <- struct{}{}:
		return true
	case <-timer.C:
		return false
	}
}

func (l *keyedLock) release(key string) {
	l.mu.Lock()
	slot := l.slots[key]
	l.mu.Unlock()
	<-slot
}
