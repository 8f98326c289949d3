/*
Package sqlite provides a SQLite-backed implementation of the storage
interfaces.

PURPOSE:
  Implements attendance.Store and attendance.TxStore using SQLite. In
  production, the same patterns apply to PostgreSQL - only minor SQL
  dialect differences.

APPEND-ONLY ENFORCEMENT:
  No UPDATE or DELETE statements touch attendance_events. The unique
  index on (intern_id, work_day, kind) backs the ledger's ordering
  validation at the database level: even if a racing writer slipped past
  in-process checks, the second event of a kind cannot land.

KEY TABLES:
  attendance_events: Immutable per-intern, per-day clock event ledger
  intern_profiles:   Externally-owned records (status, hours, counters)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time, better crash
  recovery.

USAGE:
  store, err := sqlite.New("./data/attendance.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - attendance/store.go: Interface definitions
  - attendance/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/campus/attendance-engine/attendance"
)

// Store implements attendance.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Clock events (append-only ledger)
	CREATE TABLE IF NOT EXISTS attendance_events (
		id TEXT PRIMARY KEY,
		intern_id TEXT NOT NULL,
		work_day TEXT NOT NULL,
		seq INTEGER NOT NULL,
		kind TEXT NOT NULL,
		occurred_at TEXT NOT NULL,
		is_late BOOLEAN NOT NULL,
		recorded_by TEXT NOT NULL,
		guard_id TEXT,
		created_at TEXT NOT NULL
	);

	-- CRITICAL: one event of each kind per intern per day. This is the
	-- database-level backstop for the ledger's ordering validation.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_events_unique_kind
		ON attendance_events(intern_id, work_day, kind);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_events_unique_seq
		ON attendance_events(intern_id, work_day, seq);

	-- Intern profiles (engine mutates counters, hours and status)
	CREATE TABLE IF NOT EXISTS intern_profiles (
		id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		status_code TEXT NOT NULL,
		status_reason TEXT,
		required_hours TEXT NOT NULL,
		completed_hours TEXT NOT NULL,
		tardiness_entry_count INTEGER NOT NULL DEFAULT 0,
		tardiness_lunch_count INTEGER NOT NULL DEFAULT 0,
		absence_count INTEGER NOT NULL DEFAULT 0,
		warning_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type querier interface {
	execer
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// EVENT STORE (attendance.EventStore interface)
// =============================================================================

// AppendEvent adds an event to the ledger.
func (s *Store) AppendEvent(ctx context.Context, ev attendance.AttendanceEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return appendEvent(ctx, s.db, ev)
}

func appendEvent(ctx context.Context, db execer, ev attendance.AttendanceEvent) error {
	query := `
		INSERT INTO attendance_events
		(id, intern_id, work_day, seq, kind, occurred_at, is_late, recorded_by, guard_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.ExecContext(ctx, query,
		ev.ID,
		ev.InternID,
		ev.Day().String(),
		ev.Seq,
		ev.Kind,
		ev.Timestamp.Format(time.RFC3339Nano),
		ev.IsLate,
		ev.RecordedBy.Role,
		nullString(string(ev.RecordedBy.GuardID)),
		time.Now().UTC().Format(time.RFC3339),
	)

	if err != nil {
		if isUniqueConstraintError(err) {
			return attendance.ErrDuplicateKind
		}
		return fmt.Errorf("failed to append event: %w", err)
	}

	return nil
}

// DayEvents returns the events for (internID, date) in recorded order.
func (s *Store) DayEvents(ctx context.Context, internID attendance.InternID, date attendance.Day) ([]attendance.AttendanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return dayEvents(ctx, s.db, internID, date)
}

func dayEvents(ctx context.Context, db querier, internID attendance.InternID, date attendance.Day) ([]attendance.AttendanceEvent, error) {
	query := `
		SELECT id, intern_id, kind, occurred_at, is_late, recorded_by, guard_id, seq
		FROM attendance_events
		WHERE intern_id = ? AND work_day = ?
		ORDER BY seq ASC
	`

	return queryEvents(ctx, db, query, internID, date.String())
}

// EventsInRange returns the intern's events with work day in [from, to].
func (s *Store) EventsInRange(ctx context.Context, internID attendance.InternID, from, to attendance.Day) ([]attendance.AttendanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return eventsInRange(ctx, s.db, internID, from, to)
}

func eventsInRange(ctx context.Context, db querier, internID attendance.InternID, from, to attendance.Day) ([]attendance.AttendanceEvent, error) {
	query := `
		SELECT id, intern_id, kind, occurred_at, is_late, recorded_by, guard_id, seq
		FROM attendance_events
		WHERE intern_id = ? AND work_day >= ? AND work_day <= ?
		ORDER BY work_day ASC, seq ASC
	`

	return queryEvents(ctx, db, query, internID, from.String(), to.String())
}

func queryEvents(ctx context.Context, db querier, query string, args ...any) ([]attendance.AttendanceEvent, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []attendance.AttendanceEvent
	for rows.Next() {
		ev, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}

	return events, rows.Err()
}

func scanEvent(rows *sql.Rows) (attendance.AttendanceEvent, error) {
	var (
		ev         attendance.AttendanceEvent
		occurredAt string
		role       string
		guardID    sql.NullString
	)

	err := rows.Scan(&ev.ID, &ev.InternID, &ev.Kind, &occurredAt, &ev.IsLate, &role, &guardID, &ev.Seq)
	if err != nil {
		return ev, fmt.Errorf("failed to scan event: %w", err)
	}

	ev.Timestamp, err = time.Parse(time.RFC3339Nano, occurredAt)
	if err != nil {
		return ev, fmt.Errorf("failed to parse event timestamp: %w", err)
	}
	ev.RecordedBy = attendance.Actor{
		Role:    attendance.ActorRole(role),
		GuardID: attendance.GuardID(guardID.String),
	}

	return ev, nil
}

// =============================================================================
// PROFILE STORE (attendance.ProfileStore interface)
// =============================================================================

// LoadProfile retrieves a profile, or attendance.ErrInternNotFound.
func (s *Store) LoadProfile(ctx context.Context, internID attendance.InternID) (attendance.InternProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return loadProfile(ctx, s.db, internID)
}

func loadProfile(ctx context.Context, db querier, internID attendance.InternID) (attendance.InternProfile, error) {
	var (
		p            attendance.InternProfile
		statusReason sql.NullString
		requiredStr  string
		completedStr string
	)

	err := db.QueryRowContext(ctx, `
		SELECT id, full_name, status_code, status_reason, required_hours, completed_hours,
		       tardiness_entry_count, tardiness_lunch_count, absence_count, warning_count
		FROM intern_profiles WHERE id = ?
	`, internID).Scan(
		&p.ID, &p.FullName, &p.Status.Code, &statusReason, &requiredStr, &completedStr,
		&p.TardinessEntryCount, &p.TardinessLunchCount, &p.AbsenceCount, &p.WarningCount,
	)

	if err == sql.ErrNoRows {
		return attendance.InternProfile{}, attendance.ErrInternNotFound
	}
	if err != nil {
		return attendance.InternProfile{}, fmt.Errorf("failed to load profile: %w", err)
	}

	p.Status.Reason = attendance.StatusReason(statusReason.String)
	p.RequiredHours, err = decimal.NewFromString(requiredStr)
	if err != nil {
		return attendance.InternProfile{}, fmt.Errorf("failed to parse required hours: %w", err)
	}
	p.CompletedHours, err = decimal.NewFromString(completedStr)
	if err != nil {
		return attendance.InternProfile{}, fmt.Errorf("failed to parse completed hours: %w", err)
	}

	return p, nil
}

// SaveProfile upserts a profile.
func (s *Store) SaveProfile(ctx context.Context, p attendance.InternProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return saveProfile(ctx, s.db, p)
}

func saveProfile(ctx context.Context, db execer, p attendance.InternProfile) error {
	query := `
		INSERT INTO intern_profiles
		(id, full_name, status_code, status_reason, required_hours, completed_hours,
		 tardiness_entry_count, tardiness_lunch_count, absence_count, warning_count,
		 created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			full_name = excluded.full_name,
			status_code = excluded.status_code,
			status_reason = excluded.status_reason,
			required_hours = excluded.required_hours,
			completed_hours = excluded.completed_hours,
			tardiness_entry_count = excluded.tardiness_entry_count,
			tardiness_lunch_count = excluded.tardiness_lunch_count,
			absence_count = excluded.absence_count,
			warning_count = excluded.warning_count,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339)
	_, err := db.ExecContext(ctx, query,
		p.ID, p.FullName, p.Status.Code, nullString(string(p.Status.Reason)),
		p.RequiredHours.String(), p.CompletedHours.String(),
		p.TardinessEntryCount, p.TardinessLunchCount, p.AbsenceCount, p.WarningCount,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// =============================================================================
// TRANSACTIONAL STORE (attendance.TxStore interface)
// =============================================================================

// WithTx executes a function within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(store attendance.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{tx: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

type txStore struct {
	tx *sql.Tx
}

func (ts *txStore) AppendEvent(ctx context.Context, ev attendance.AttendanceEvent) error {
	return appendEvent(ctx, ts.tx, ev)
}

func (ts *txStore) DayEvents(ctx context.Context, internID attendance.InternID, date attendance.Day) ([]attendance.AttendanceEvent, error) {
	return dayEvents(ctx, ts.tx, internID, date)
}

func (ts *txStore) EventsInRange(ctx context.Context, internID attendance.InternID, from, to attendance.Day) ([]attendance.AttendanceEvent, error) {
	return eventsInRange(ctx, ts.tx, internID, from, to)
}

func (ts *txStore) LoadProfile(ctx context.Context, internID attendance.InternID) (attendance.InternProfile, error) {
	return loadProfile(ctx, ts.tx, internID)
}

func (ts *txStore) SaveProfile(ctx context.Context, p attendance.InternProfile) error {
	return saveProfile(ctx, ts.tx, p)
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueConstraintError(err error) bool {
	return err != nil && (strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key"))
}
