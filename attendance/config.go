package attendance

import "fmt"

// =============================================================================
// CLOCK CONFIGURATION - Static schedule policy
// =============================================================================

// ClockConfiguration is the site schedule and violation limits. It is
// loaded once at startup and read-only afterwards; changing it does not
// retroactively reclassify events already on the ledger (IsLate is frozen
// at append time).
type ClockConfiguration struct {
	// Scheduled times of day.
	ScheduledClockIn     ClockTime
	ScheduledLunchReturn ClockTime

	// Grace windows in minutes before an arrival counts as late.
	GraceClockInMinutes     int
	GraceLunchReturnMinutes int

	// Violation limits. A counter strictly exceeding its limit finalizes
	// the internship.
	MaxEntryTardiness int
	MaxLunchTardiness int
	MaxAbsences       int
	MaxWarnings       int
}

// DefaultClockConfiguration returns the institutional defaults:
// arrival by 08:00 (15 min grace), lunch return by 14:00 (10 min grace),
// at most 5 late arrivals, 5 late lunch returns, 3 absences, 3 warnings.
func DefaultClockConfiguration() ClockConfiguration {
	return ClockConfiguration{
		ScheduledClockIn:        MustClockTime("08:00"),
		ScheduledLunchReturn:    MustClockTime("14:00"),
		GraceClockInMinutes:     15,
		GraceLunchReturnMinutes: 10,
		MaxEntryTardiness:       5,
		MaxLunchTardiness:       5,
		MaxAbsences:             3,
		MaxWarnings:             3,
	}
}

// Validate rejects configurations that could never classify sensibly.
func (c ClockConfiguration) Validate() error {
	if c.ScheduledClockIn >= c.ScheduledLunchReturn {
		return fmt.Errorf("scheduled clock-in %s must precede lunch return %s",
			c.ScheduledClockIn, c.ScheduledLunchReturn)
	}
	if c.GraceClockInMinutes < 0 || c.GraceLunchReturnMinutes < 0 {
		return fmt.Errorf("grace windows must be non-negative")
	}
	if c.MaxEntryTardiness < 0 || c.MaxLunchTardiness < 0 || c.MaxAbsences < 0 || c.MaxWarnings < 0 {
		return fmt.Errorf("violation limits must be non-negative")
	}
	return nil
}
