/*
errors.go - Centralized error taxonomy for the attendance engine

PURPOSE:
  All engine error types in one place. Validation errors are detected
  before any write, so a failed call never leaves partial state behind.

ERROR CATEGORIES:
  1. Ordering errors  - OutOfOrder, DuplicateKind, DayClosed
  2. Eligibility      - AccountNotActive
  3. Contention       - Busy (the only class callers should auto-retry)
  4. Collaborators    - InternNotFound, ProfileUnavailable

USAGE:
  if errors.Is(err, attendance.ErrDuplicateKind) {
      // safe no-op from the caller's perspective, a retry already landed
  }

SEE ALSO:
  - ledger.go: Produces the ordering errors
  - engine.go: Produces Busy and collaborator errors
*/
package attendance

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrOutOfOrder is returned when the submitted kind is not a valid
	// successor of the last recorded kind for the day.
	ErrOutOfOrder = errors.New("clock event out of order")

	// ErrDuplicateKind is returned when the submitted kind equals the last
	// recorded kind. A client retry after a dropped response lands here,
	// which is what makes retries safe.
	ErrDuplicateKind = errors.New("clock event kind already recorded today")

	// ErrDayClosed is returned once a ClockOut exists: no further events
	// are accepted for that date.
	ErrDayClosed = errors.New("day already closed by clock-out")

	// ErrAccountNotActive is returned when the intern's status forbids
	// clocking.
	ErrAccountNotActive = errors.New("account not active")

	// ErrBusy is returned when the per-intern-day lock could not be
	// acquired within the bounded wait. Retryable.
	ErrBusy = errors.New("attendance record busy, retry")

	// ErrInternNotFound is returned when no profile exists for the intern.
	ErrInternNotFound = errors.New("intern not found")

	// ErrProfileUnavailable is returned when the profile store fails.
	// Surfaced to the caller, never retried automatically by the engine.
	ErrProfileUnavailable = errors.New("intern profile unavailable")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// OutOfOrderError reports which kind was attempted against which ledger
// state, and what would have been accepted instead.
type OutOfOrderError struct {
	InternID   InternID
	Date       Day
	LastKind   EventKind // empty when the day has no events yet
	Attempted  EventKind
	ValidKinds []EventKind
}

func (e *OutOfOrderError) Error() string {
	if e.LastKind == "" {
		return fmt.Sprintf("out of order: %s before clock-in on %s", e.Attempted, e.Date)
	}
	return fmt.Sprintf("out of order: %s after %s on %s (valid: %v)",
		e.Attempted, e.LastKind, e.Date, e.ValidKinds)
}

func (e *OutOfOrderError) Unwrap() error { return ErrOutOfOrder }

// AccountNotActiveError carries the status that blocked the clock action.
type AccountNotActiveError struct {
	InternID InternID
	Status   Status
}

func (e *AccountNotActiveError) Error() string {
	return fmt.Sprintf("account not active: intern %s is %s", e.InternID, e.Status)
}

func (e *AccountNotActiveError) Unwrap() error { return ErrAccountNotActive }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if the error might succeed on retry.
// Busy is the only retryable class; everything else is terminal for the
// request.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrBusy)
}

// IsClientError returns true if the error is a business-rule rejection of
// the caller's input rather than a system failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrOutOfOrder) ||
		errors.Is(err, ErrDuplicateKind) ||
		errors.Is(err, ErrDayClosed) ||
		errors.Is(err, ErrAccountNotActive)
}

// IsNotFound returns true if the error indicates a missing intern.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrInternNotFound)
}
