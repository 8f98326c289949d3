/*
handlers_test.go - HTTP-level tests for the attendance API

Tests drive the full stack: router -> handlers -> engine -> SQLite
(:memory:), with the engine clock pinned so lateness is deterministic.
*/
package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus/attendance-engine/attendance"
	"github.com/campus/attendance-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type testServer struct {
	router http.Handler
	clock  *time.Time
}

// newTestServer pins the engine clock to 08:05 on 2026-03-02 (within the
// 08:15 grace deadline) and serves over SQLite :memory:.
func newTestServer(t *testing.T) *testServer {
	t.Helper()

	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	now := time.Date(2026, time.March, 2, 8, 5, 0, 0, time.UTC)
	ts := &testServer{clock: &now}

	engine, err := attendance.NewEngine(st, attendance.DefaultClockConfiguration(),
		attendance.WithClock(func() time.Time { return *ts.clock }))
	require.NoError(t, err)

	ts.router = NewRouter(NewHandler(engine, st), zerolog.Nop())
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, headers map[string]string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) registerIntern(t *testing.T, id string) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/api/interns", nil, CreateInternRequest{
		ID: id, FullName: "Ada Quinn", RequiredHours: "480",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// =============================================================================
// INTERN REGISTRATION
// =============================================================================

func TestAPI_CreateIntern(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/interns", nil, CreateInternRequest{
		ID: "intern-1", FullName: "Ada Quinn", RequiredHours: "480",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	intern := decodeJSON[InternDTO](t, rec)
	assert.Equal(t, "intern-1", intern.ID)
	assert.Equal(t, "active", intern.Status.Code)
	assert.Equal(t, "480.00", intern.RequiredHours)

	// Re-registering the same ID conflicts.
	rec = ts.do(t, http.MethodPost, "/api/interns", nil, CreateInternRequest{
		ID: "intern-1", FullName: "Ada Quinn", RequiredHours: "480",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_CreateIntern_InvalidHours(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/interns", nil, CreateInternRequest{
		ID: "intern-1", RequiredHours: "lots",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/interns", nil, CreateInternRequest{
		ID: "intern-1", RequiredHours: "-3",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_GetIntern(t *testing.T) {
	ts := newTestServer(t)
	ts.registerIntern(t, "intern-1")

	rec := ts.do(t, http.MethodGet, "/api/interns/intern-1", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/interns/ghost", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// SELF-SERVICE CLOCK
// =============================================================================

func TestAPI_SelfClock_RequiresIdentityHeader(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/attendance/self/clock", nil,
		SelfClockRequest{Kind: "clock_in"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_SelfClock_RecordsEvent(t *testing.T) {
	// GIVEN: A registered intern clocking in at 08:05, inside the grace
	// THEN: 201 with the created event, on time, day still open

	ts := newTestServer(t)
	ts.registerIntern(t, "intern-1")
	headers := map[string]string{"X-Intern-ID": "intern-1"}

	rec := ts.do(t, http.MethodPost, "/api/attendance/self/clock", headers,
		SelfClockRequest{Kind: "clock_in"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeJSON[RecordResponseDTO](t, rec)
	assert.Equal(t, "clock_in", resp.Event.Kind)
	assert.Equal(t, "intern-1", resp.Event.InternID)
	assert.Equal(t, "self", resp.Event.RecordedBy)
	assert.False(t, resp.Event.IsLate)
	assert.Equal(t, "open", resp.DayStatus)
	assert.Equal(t, "active", resp.InternStatus.Code)
}

func TestAPI_SelfClock_RetryConflicts(t *testing.T) {
	ts := newTestServer(t)
	ts.registerIntern(t, "intern-1")
	headers := map[string]string{"X-Intern-ID": "intern-1"}

	rec := ts.do(t, http.MethodPost, "/api/attendance/self/clock", headers,
		SelfClockRequest{Kind: "clock_in"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/attendance/self/clock", headers,
		SelfClockRequest{Kind: "clock_in"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_SelfClock_OutOfOrderConflicts(t *testing.T) {
	ts := newTestServer(t)
	ts.registerIntern(t, "intern-1")
	headers := map[string]string{"X-Intern-ID": "intern-1"}

	rec := ts.do(t, http.MethodPost, "/api/attendance/self/clock", headers,
		SelfClockRequest{Kind: "lunch_in"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPI_SelfClock_UnknownKind(t *testing.T) {
	ts := newTestServer(t)
	ts.registerIntern(t, "intern-1")
	headers := map[string]string{"X-Intern-ID": "intern-1"}

	rec := ts.do(t, http.MethodPost, "/api/attendance/self/clock", headers,
		SelfClockRequest{Kind: "nap_out"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_SelfClock_UnknownInternNotFound(t *testing.T) {
	ts := newTestServer(t)
	headers := map[string]string{"X-Intern-ID": "ghost"}

	rec := ts.do(t, http.MethodPost, "/api/attendance/self/clock", headers,
		SelfClockRequest{Kind: "clock_in"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_SelfClock_DisabledAccountForbidden(t *testing.T) {
	ts := newTestServer(t)

	enabled := false
	rec := ts.do(t, http.MethodPost, "/api/interns", nil, CreateInternRequest{
		ID: "intern-1", FullName: "Ada Quinn", RequiredHours: "480", Enabled: &enabled,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/attendance/self/clock",
		map[string]string{"X-Intern-ID": "intern-1"},
		SelfClockRequest{Kind: "clock_in"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

// =============================================================================
// GUARD CLOCK
// =============================================================================

func TestAPI_GuardClock_AuditsGuard(t *testing.T) {
	// GIVEN: A guard submitting a clock-in for a looked-up intern
	// THEN: The event records the guard identity, rules unchanged

	ts := newTestServer(t)
	ts.registerIntern(t, "intern-1")

	rec := ts.do(t, http.MethodPost, "/api/attendance/guard/clock",
		map[string]string{"X-Guard-ID": "guard-7"},
		GuardClockRequest{InternID: "intern-1", Kind: "clock_in"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	resp := decodeJSON[RecordResponseDTO](t, rec)
	assert.Equal(t, "guard", resp.Event.RecordedBy)
	assert.Equal(t, "guard-7", resp.Event.GuardID)
}

func TestAPI_GuardClock_RequiresGuardHeaderAndInternID(t *testing.T) {
	ts := newTestServer(t)
	ts.registerIntern(t, "intern-1")

	rec := ts.do(t, http.MethodPost, "/api/attendance/guard/clock", nil,
		GuardClockRequest{InternID: "intern-1", Kind: "clock_in"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/api/attendance/guard/clock",
		map[string]string{"X-Guard-ID": "guard-7"},
		GuardClockRequest{Kind: "clock_in"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// READS AND COUNTERS
// =============================================================================

func TestAPI_DayEventsAndSummary(t *testing.T) {
	ts := newTestServer(t)
	ts.registerIntern(t, "intern-1")
	headers := map[string]string{"X-Intern-ID": "intern-1"}

	rec := ts.do(t, http.MethodPost, "/api/attendance/self/clock", headers,
		SelfClockRequest{Kind: "clock_in"})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Date defaults to the engine's today.
	rec = ts.do(t, http.MethodGet, "/api/interns/intern-1/events", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	events := decodeJSON[[]EventDTO](t, rec)
	require.Len(t, events, 1)
	assert.Equal(t, "clock_in", events[0].Kind)

	rec = ts.do(t, http.MethodGet, "/api/interns/intern-1/events?date=2020-01-01", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeJSON[[]EventDTO](t, rec))

	rec = ts.do(t, http.MethodGet, "/api/interns/intern-1/events?date=someday", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/interns/intern-1/summary", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeJSON[SummaryDTO](t, rec)
	assert.Equal(t, "0.00", summary.CompletedHours)
	assert.Equal(t, "480.00", summary.RequiredHours)
	assert.Equal(t, "active", summary.Status.Code)
}

func TestAPI_Log_ClosedDayCarriesHours(t *testing.T) {
	ts := newTestServer(t)
	ts.registerIntern(t, "intern-1")
	headers := map[string]string{"X-Intern-ID": "intern-1"}

	rec := ts.do(t, http.MethodPost, "/api/attendance/self/clock", headers,
		SelfClockRequest{Kind: "clock_in"})
	require.Equal(t, http.StatusCreated, rec.Code)

	*ts.clock = ts.clock.Add(4 * time.Hour)
	rec = ts.do(t, http.MethodPost, "/api/attendance/self/clock", headers,
		SelfClockRequest{Kind: "clock_out"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/api/interns/intern-1/log?from=2026-03-01&to=2026-03-03", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	log := decodeJSON[[]DayRecordDTO](t, rec)
	require.Len(t, log, 1)
	assert.Equal(t, "2026-03-02", log[0].Date)
	assert.Equal(t, "complete", log[0].Status)
	assert.Equal(t, "4.00", log[0].WorkedHours)
	assert.Len(t, log[0].Events, 2)

	rec = ts.do(t, http.MethodGet, "/api/interns/intern-1/log?from=2026-03-03&to=2026-03-01", nil, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_AbsenceAndWarning(t *testing.T) {
	ts := newTestServer(t)
	ts.registerIntern(t, "intern-1")

	rec := ts.do(t, http.MethodPost, "/api/interns/intern-1/absences", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decodeJSON[SummaryDTO](t, rec)
	assert.Equal(t, 1, summary.AbsenceCount)

	rec = ts.do(t, http.MethodPost, "/api/interns/intern-1/warnings", nil, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summary = decodeJSON[SummaryDTO](t, rec)
	assert.Equal(t, 1, summary.WarningCount)

	rec = ts.do(t, http.MethodPost, "/api/interns/ghost/absences", nil, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_Healthz(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/healthz", nil, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
