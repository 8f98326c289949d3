// Package store provides in-memory Store implementations for tests and
// development.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/campus/attendance-engine/attendance"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	events   map[dayKey][]attendance.AttendanceEvent
	profiles map[attendance.InternID]attendance.InternProfile
}

type dayKey struct {
	InternID attendance.InternID
	Date     attendance.Day
}

func NewMemory() *Memory {
	return &Memory{
		events:   make(map[dayKey][]attendance.AttendanceEvent),
		profiles: make(map[attendance.InternID]attendance.InternProfile),
	}
}

// AppendEvent adds a single event. Append-only; rejects a duplicate kind
// for the same intern and day like the database unique index would.
func (m *Memory) AppendEvent(_ context.Context, ev attendance.AttendanceEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.appendLocked(ev)
}

func (m *Memory) appendLocked(ev attendance.AttendanceEvent) error {
	k := dayKey{InternID: ev.InternID, Date: ev.Day()}
	for _, existing := range m.events[k] {
		if existing.Kind == ev.Kind {
			return attendance.ErrDuplicateKind
		}
	}
	m.events[k] = append(m.events[k], ev)
	return nil
}

func (m *Memory) DayEvents(_ context.Context, internID attendance.InternID, date attendance.Day) ([]attendance.AttendanceEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	k := dayKey{InternID: internID, Date: date}
	result := make([]attendance.AttendanceEvent, len(m.events[k]))
	copy(result, m.events[k])
	return result, nil
}

func (m *Memory) EventsInRange(_ context.Context, internID attendance.InternID, from, to attendance.Day) ([]attendance.AttendanceEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var result []attendance.AttendanceEvent
	for k, events := range m.events {
		if k.InternID != internID {
			continue
		}
		if k.Date.Before(from) || k.Date.After(to) {
			continue
		}
		result = append(result, events...)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Day() != result[j].Day() {
			return result[i].Day().Before(result[j].Day())
		}
		return result[i].Seq < result[j].Seq
	})
	return result, nil
}

func (m *Memory) LoadProfile(_ context.Context, internID attendance.InternID) (attendance.InternProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profile, ok := m.profiles[internID]
	if !ok {
		return attendance.InternProfile{}, attendance.ErrInternNotFound
	}
	return profile, nil
}

func (m *Memory) SaveProfile(_ context.Context, profile attendance.InternProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[profile.ID] = profile
	return nil
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with transaction support.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn within a transaction, simulated with a snapshot and
// rollback on error.
func (tm *TxMemory) WithTx(ctx context.Context, fn func(attendance.Store) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	snapshot := tm.snapshot()
	view := &txMemoryView{parent: tm}

	if err := fn(view); err != nil {
		tm.restore(snapshot)
		return err
	}
	return nil
}

func (tm *TxMemory) snapshot() memorySnapshot {
	eventsCopy := make(map[dayKey][]attendance.AttendanceEvent)
	for k, v := range tm.events {
		eventsCopy[k] = append([]attendance.AttendanceEvent{}, v...)
	}
	profilesCopy := make(map[attendance.InternID]attendance.InternProfile)
	for k, v := range tm.profiles {
		profilesCopy[k] = v
	}
	return memorySnapshot{events: eventsCopy, profiles: profilesCopy}
}

func (tm *TxMemory) restore(s memorySnapshot) {
	tm.events = s.events
	tm.profiles = s.profiles
}

type memorySnapshot struct {
	events   map[dayKey][]attendance.AttendanceEvent
	profiles map[attendance.InternID]attendance.InternProfile
}

// txMemoryView operates on the parent's maps directly while the parent's
// lock is held; WithTx restores the snapshot if fn fails.
type txMemoryView struct {
	parent *TxMemory
}

func (tv *txMemoryView) AppendEvent(_ context.Context, ev attendance.AttendanceEvent) error {
	return tv.parent.appendLocked(ev)
}

func (tv *txMemoryView) DayEvents(_ context.Context, internID attendance.InternID, date attendance.Day) ([]attendance.AttendanceEvent, error) {
	k := dayKey{InternID: internID, Date: date}
	return tv.parent.events[k], nil
}

func (tv *txMemoryView) EventsInRange(_ context.Context, internID attendance.InternID, from, to attendance.Day) ([]attendance.AttendanceEvent, error) {
	var result []attendance.AttendanceEvent
	for k, events := range tv.parent.events {
		if k.InternID != internID || k.Date.Before(from) || k.Date.After(to) {
			continue
		}
		result = append(result, events...)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Day() != result[j].Day() {
			return result[i].Day().Before(result[j].Day())
		}
		return result[i].Seq < result[j].Seq
	})
	return result, nil
}

func (tv *txMemoryView) LoadProfile(_ context.Context, internID attendance.InternID) (attendance.InternProfile, error) {
	profile, ok := tv.parent.profiles[internID]
	if !ok {
		return attendance.InternProfile{}, attendance.ErrInternNotFound
	}
	return profile, nil
}

func (tv *txMemoryView) SaveProfile(_ context.Context, profile attendance.InternProfile) error {
	tv.parent.profiles[profile.ID] = profile
	return nil
}
