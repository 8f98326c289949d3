package attendance

import (
	"fmt"
	"time"
)

// =============================================================================
// DAY - Calendar date (single-site, single time zone)
// =============================================================================

// Day is a calendar date. It is comparable and safe to use as a map key,
// which makes it the natural half of the (InternID, Day) ledger key.
type Day struct {
	Year       int
	Month      time.Month
	DayOfMonth int
}

// DayOf returns the calendar day of t in t's location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{Year: y, Month: m, DayOfMonth: d}
}

// ParseDay parses "2006-01-02".
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q: %w", s, err)
	}
	return DayOf(t), nil
}

func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.DayOfMonth)
}

// Start returns midnight at the start of the day in loc.
func (d Day) Start(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.DayOfMonth, 0, 0, 0, 0, loc)
}

func (d Day) Before(other Day) bool {
	return d.Start(time.UTC).Before(other.Start(time.UTC))
}

func (d Day) After(other Day) bool { return other.Before(d) }

func (d Day) IsZero() bool { return d == Day{} }

// =============================================================================
// CLOCK TIME - Time of day on the site schedule
// =============================================================================

// ClockTime is a time of day expressed as minutes since midnight.
// Schedule policy ("arrive by 08:00, back from lunch by 14:00") is a
// time-of-day concern, independent of any particular date.
type ClockTime int

// ParseClockTime parses "15:04".
func ParseClockTime(s string) (ClockTime, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return ClockTime(t.Hour()*60 + t.Minute()), nil
}

// MustClockTime parses "15:04" and panics on failure. For constants.
func MustClockTime(s string) ClockTime {
	c, err := ParseClockTime(s)
	if err != nil {
		panic(err)
	}
	return c
}

// AddMinutes shifts the clock time forward. Used to apply grace windows.
func (c ClockTime) AddMinutes(m int) ClockTime { return c + ClockTime(m) }

// On anchors the clock time to a concrete calendar day in loc.
func (c ClockTime) On(d Day, loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.DayOfMonth, int(c)/60, int(c)%60, 0, 0, loc)
}

func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}
