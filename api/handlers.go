/*
handlers.go - HTTP handlers for the attendance engine

PURPOSE:
  Exposes the attendance engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Clock (two front doors over one engine):
    POST /api/attendance/self/clock   Self-service clock action
    POST /api/attendance/guard/clock  Guard-assisted clock action

  Intern reads:
    GET  /api/interns/{id}            Profile
    GET  /api/interns/{id}/events     Events for one day
    GET  /api/interns/{id}/summary    Hours, counters, status
    GET  /api/interns/{id}/log        DayRecords over a range

  Intern management:
    POST /api/interns                 Register a profile
    POST /api/interns/{id}/absences   Record an absence
    POST /api/interns/{id}/warnings   Record a warning

ERROR HANDLING:
  Engine errors map to HTTP status by taxonomy:
  - 400: Malformed input (bad JSON, bad date, unknown kind shape)
  - 401: Missing identity header
  - 403: Account not active
  - 404: Intern not found
  - 409: Ordering rejections (out of order, duplicate kind, day closed)
  - 503: Lock contention (Retry-After set; safe to retry)
  - 500: Everything else

SECURITY NOTE:
  Identity arrives via X-Intern-ID / X-Guard-ID headers set by the
  authenticating proxy. The handlers trust those headers; there is no
  in-process authentication.

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/campus/attendance-engine/attendance"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Engine *attendance.Engine
	Store  attendance.TxStore
}

// NewHandler creates a new handler over the engine and its store.
func NewHandler(engine *attendance.Engine, store attendance.TxStore) *Handler {
	return &Handler{Engine: engine, Store: store}
}

// =============================================================================
// CLOCK HANDLERS - Two front doors, one write path
// =============================================================================

// ClockSelf records a clock action for the authenticated intern.
// POST /api/attendance/self/clock
func (h *Handler) ClockSelf(w http.ResponseWriter, r *http.Request) {
	internID := strings.TrimSpace(r.Header.Get("X-Intern-ID"))
	if internID == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-Intern-ID header", nil)
		return
	}

	var req SelfClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	h.recordClock(w, r, attendance.InternID(internID), attendance.EventKind(req.Kind), attendance.SelfActor())
}

// ClockGuard records a clock action on behalf of an intern the guard
// looked up. The guard's identity is audited on the event.
// POST /api/attendance/guard/clock
func (h *Handler) ClockGuard(w http.ResponseWriter, r *http.Request) {
	guardID := strings.TrimSpace(r.Header.Get("X-Guard-ID"))
	if guardID == "" {
		writeError(w, http.StatusUnauthorized, "Missing X-Guard-ID header", nil)
		return
	}

	var req GuardClockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.InternID) == "" {
		writeError(w, http.StatusBadRequest, "intern_id is required", nil)
		return
	}

	h.recordClock(w, r, attendance.InternID(req.InternID), attendance.EventKind(req.Kind), attendance.GuardActor(attendance.GuardID(guardID)))
}

func (h *Handler) recordClock(w http.ResponseWriter, r *http.Request, internID attendance.InternID, kind attendance.EventKind, actor attendance.Actor) {
	if !kind.IsValid() {
		writeError(w, http.StatusBadRequest, "Unknown event kind", nil)
		return
	}

	result, err := h.Engine.RecordEvent(r.Context(), internID, kind, actor)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	resp := RecordResponseDTO{
		Event:        toEventDTO(result.Event),
		DayStatus:    string(result.DayStatus),
		InternStatus: toStatusDTO(result.InternStatus),
	}
	if !result.WorkedHours.IsZero() || result.DayStatus != attendance.DayOpen {
		resp.WorkedHours = result.WorkedHours.StringFixed(2)
	}
	writeJSON(w, http.StatusCreated, resp)
}

// =============================================================================
// READ HANDLERS
// =============================================================================

// GetDayEvents returns the ordered events for one intern and day.
// GET /api/interns/{id}/events?date=2026-03-02 (date defaults to today)
func (h *Handler) GetDayEvents(w http.ResponseWriter, r *http.Request) {
	internID := attendance.InternID(chi.URLParam(r, "id"))

	date := attendance.DayOf(h.Engine.Now())
	if raw := r.URL.Query().Get("date"); raw != "" {
		parsed, err := attendance.ParseDay(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid date, want YYYY-MM-DD", err)
			return
		}
		date = parsed
	}

	events, err := h.Engine.GetDayEvents(r.Context(), internID, date)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventDTOs(events))
}

// GetSummary returns hours progress, counters and status.
// GET /api/interns/{id}/summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	internID := attendance.InternID(chi.URLParam(r, "id"))

	summary, err := h.Engine.GetInternAttendanceSummary(r.Context(), internID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// GetLog returns one DayRecord per day in [from, to].
// GET /api/interns/{id}/log?from=2026-03-01&to=2026-03-31
func (h *Handler) GetLog(w http.ResponseWriter, r *http.Request) {
	internID := attendance.InternID(chi.URLParam(r, "id"))

	to := attendance.DayOf(h.Engine.Now())
	from := attendance.DayOf(h.Engine.Now().AddDate(0, 0, -30))
	var err error
	if raw := r.URL.Query().Get("from"); raw != "" {
		if from, err = attendance.ParseDay(raw); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid from date, want YYYY-MM-DD", err)
			return
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if to, err = attendance.ParseDay(raw); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid to date, want YYYY-MM-DD", err)
			return
		}
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "Range end precedes start", nil)
		return
	}

	records, err := h.Engine.GetAttendanceLog(r.Context(), internID, from, to)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	dtos := make([]DayRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toDayRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// INTERN MANAGEMENT
// =============================================================================

// CreateIntern registers a profile. The engine never creates profiles on
// its own; this is the profile collaborator's entry point.
// POST /api/interns
func (h *Handler) CreateIntern(w http.ResponseWriter, r *http.Request) {
	var req CreateInternRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		writeError(w, http.StatusBadRequest, "id is required", nil)
		return
	}
	required, err := decimal.NewFromString(req.RequiredHours)
	if err != nil || required.IsNegative() {
		writeError(w, http.StatusBadRequest, "required_hours must be a non-negative decimal", err)
		return
	}

	status := attendance.ActiveStatus()
	if req.Enabled != nil && !*req.Enabled {
		status = attendance.NotEnabledStatus()
	}

	profile := attendance.InternProfile{
		ID:            attendance.InternID(req.ID),
		FullName:      req.FullName,
		Status:        status,
		RequiredHours: required,
	}

	err = h.Store.WithTx(r.Context(), func(s attendance.Store) error {
		if _, err := s.LoadProfile(r.Context(), profile.ID); err == nil {
			return errProfileExists
		} else if !errors.Is(err, attendance.ErrInternNotFound) {
			return err
		}
		return s.SaveProfile(r.Context(), profile)
	})
	if errors.Is(err, errProfileExists) {
		writeError(w, http.StatusConflict, "Intern already registered", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to register intern", err)
		return
	}

	writeJSON(w, http.StatusCreated, toInternDTO(profile))
}

var errProfileExists = errors.New("profile already exists")

// GetIntern returns the registered profile.
// GET /api/interns/{id}
func (h *Handler) GetIntern(w http.ResponseWriter, r *http.Request) {
	internID := attendance.InternID(chi.URLParam(r, "id"))

	profile, err := h.Store.LoadProfile(r.Context(), internID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toInternDTO(profile))
}

// RecordAbsence increments the absence counter and applies policy.
// POST /api/interns/{id}/absences
func (h *Handler) RecordAbsence(w http.ResponseWriter, r *http.Request) {
	internID := attendance.InternID(chi.URLParam(r, "id"))

	summary, err := h.Engine.RecordAbsence(r.Context(), internID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// RecordWarning increments the warning counter and applies policy.
// POST /api/interns/{id}/warnings
func (h *Handler) RecordWarning(w http.ResponseWriter, r *http.Request) {
	internID := attendance.InternID(chi.URLParam(r, "id"))

	summary, err := h.Engine.RecordWarning(r.Context(), internID)
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

func toInternDTO(p attendance.InternProfile) InternDTO {
	return InternDTO{
		ID:            string(p.ID),
		FullName:      p.FullName,
		Status:        toStatusDTO(p.Status),
		RequiredHours: p.RequiredHours.StringFixed(2),
	}
}

// =============================================================================
// ERROR MAPPING AND JSON HELPERS
// =============================================================================

// ErrorResponse is the JSON shape of every error reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// writeEngineError maps the engine's error taxonomy onto HTTP status
// codes. Ordering rejections are conflicts, not server failures.
func writeEngineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, attendance.ErrBusy):
		w.Header().Set("Retry-After", "1")
		writeError(w, http.StatusServiceUnavailable, "Attendance record busy, retry shortly", err)
	case attendance.IsNotFound(err):
		writeError(w, http.StatusNotFound, "Intern not found", nil)
	case errors.Is(err, attendance.ErrAccountNotActive):
		writeError(w, http.StatusForbidden, "Account not active", err)
	case attendance.IsClientError(err):
		writeError(w, http.StatusConflict, "Clock action rejected", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
