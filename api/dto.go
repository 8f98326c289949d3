/*
dto.go - Request/response shapes for the HTTP API

PURPOSE:
  Wire types are kept separate from domain types so the JSON contract
  can stay stable while the engine evolves. Timestamps are RFC3339;
  hours are fixed-point strings rendered from decimal.Decimal.

SEE ALSO:
  - handlers.go: Conversion between domain and DTOs
*/
package api

import (
	"time"

	"github.com/campus/attendance-engine/attendance"
)

// =============================================================================
// REQUESTS
// =============================================================================

// SelfClockRequest is the self-service clock action. Identity comes from
// the authenticated session (X-Intern-ID), never from the body.
type SelfClockRequest struct {
	Kind string `json:"kind"`
}

// GuardClockRequest is the guard-assisted clock action: the guard looks
// the intern up explicitly and submits on their behalf.
type GuardClockRequest struct {
	InternID string `json:"intern_id"`
	Kind     string `json:"kind"`
}

type CreateInternRequest struct {
	ID            string `json:"id"`
	FullName      string `json:"full_name"`
	RequiredHours string `json:"required_hours"`
	Enabled       *bool  `json:"enabled,omitempty"` // default true
}

// =============================================================================
// RESPONSES
// =============================================================================

type EventDTO struct {
	ID         string `json:"id"`
	InternID   string `json:"intern_id"`
	Kind       string `json:"kind"`
	Timestamp  string `json:"timestamp"`
	IsLate     bool   `json:"is_late"`
	RecordedBy string `json:"recorded_by"`
	GuardID    string `json:"guard_id,omitempty"`
	Seq        int    `json:"seq"`
}

type StatusDTO struct {
	Code   string `json:"code"`
	Reason string `json:"reason,omitempty"`
}

type RecordResponseDTO struct {
	Event        EventDTO  `json:"event"`
	DayStatus    string    `json:"day_status"`
	WorkedHours  string    `json:"worked_hours,omitempty"`
	InternStatus StatusDTO `json:"intern_status"`
}

type SummaryDTO struct {
	InternID            string    `json:"intern_id"`
	Status              StatusDTO `json:"status"`
	RequiredHours       string    `json:"required_hours"`
	CompletedHours      string    `json:"completed_hours"`
	TardinessEntryCount int       `json:"tardiness_entry_count"`
	TardinessLunchCount int       `json:"tardiness_lunch_count"`
	AbsenceCount        int       `json:"absence_count"`
	WarningCount        int       `json:"warning_count"`
}

type DayRecordDTO struct {
	Date        string     `json:"date"`
	Status      string     `json:"status"`
	WorkedHours string     `json:"worked_hours"`
	Events      []EventDTO `json:"events"`
}

type InternDTO struct {
	ID            string    `json:"id"`
	FullName      string    `json:"full_name"`
	Status        StatusDTO `json:"status"`
	RequiredHours string    `json:"required_hours"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toEventDTO(ev attendance.AttendanceEvent) EventDTO {
	return EventDTO{
		ID:         string(ev.ID),
		InternID:   string(ev.InternID),
		Kind:       string(ev.Kind),
		Timestamp:  ev.Timestamp.Format(time.RFC3339),
		IsLate:     ev.IsLate,
		RecordedBy: string(ev.RecordedBy.Role),
		GuardID:    string(ev.RecordedBy.GuardID),
		Seq:        ev.Seq,
	}
}

func toEventDTOs(events []attendance.AttendanceEvent) []EventDTO {
	dtos := make([]EventDTO, len(events))
	for i, ev := range events {
		dtos[i] = toEventDTO(ev)
	}
	return dtos
}

func toStatusDTO(s attendance.Status) StatusDTO {
	return StatusDTO{Code: string(s.Code), Reason: string(s.Reason)}
}

func toSummaryDTO(s attendance.Summary) SummaryDTO {
	return SummaryDTO{
		InternID:            string(s.InternID),
		Status:              toStatusDTO(s.Status),
		RequiredHours:       s.RequiredHours.StringFixed(2),
		CompletedHours:      s.CompletedHours.StringFixed(2),
		TardinessEntryCount: s.TardinessEntryCount,
		TardinessLunchCount: s.TardinessLunchCount,
		AbsenceCount:        s.AbsenceCount,
		WarningCount:        s.WarningCount,
	}
}

func toDayRecordDTO(r attendance.DayRecord) DayRecordDTO {
	return DayRecordDTO{
		Date:        r.Date.String(),
		Status:      string(r.Status),
		WorkedHours: r.WorkedHours.StringFixed(2),
		Events:      toEventDTOs(r.Events),
	}
}
