package roster

import "time"

// =============================================================================
// DAY - Day-granularity time point (UTC midnight)
// =============================================================================

// Day is a calendar day. All comparisons and arithmetic normalize to UTC
// midnight first, so values built from timestamps with a time-of-day still
// compare correctly and daylight-saving boundaries cannot shift a day.
type Day struct {
	Time time.Time
}

// Constructors
func NewDay(year int, month time.Month, day int) Day {
	return Day{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DayOf truncates an arbitrary timestamp to its UTC calendar day.
func DayOf(t time.Time) Day {
	u := t.UTC()
	return NewDay(u.Year(), u.Month(), u.Day())
}

// ParseDay parses an ISO date (YYYY-MM-DD).
func ParseDay(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, err
	}
	return DayOf(t), nil
}

// Today returns the current wall-clock day. The calculators never call this
// themselves; callers inject "today" explicitly so results stay reproducible.
func Today() Day {
	return DayOf(time.Now())
}

// Comparison
func (d Day) Before(other Day) bool        { return d.normalize().Before(other.normalize()) }
func (d Day) Equal(other Day) bool         { return d.normalize().Equal(other.normalize()) }
func (d Day) After(other Day) bool         { return d.normalize().After(other.normalize()) }
func (d Day) BeforeOrEqual(other Day) bool { return d.Before(other) || d.Equal(other) }
func (d Day) AfterOrEqual(other Day) bool  { return d.After(other) || d.Equal(other) }

func (d Day) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d Day) AddDays(n int) Day   { return Day{Time: d.normalize().AddDate(0, 0, n)} }
func (d Day) AddMonths(n int) Day { return Day{Time: d.normalize().AddDate(0, n, 0)} }

// Properties
func (d Day) Year() int             { return d.Time.Year() }
func (d Day) Month() time.Month     { return d.Time.Month() }
func (d Day) DayOfMonth() int       { return d.Time.Day() }
func (d Day) Weekday() time.Weekday { return d.normalize().Weekday() }
func (d Day) IsZero() bool          { return d.Time.IsZero() }

func (d Day) String() string { return d.normalize().Format("2006-01-02") }

// Key returns the ISO date string, used as a map key by callers that index
// facts by calendar day.
func (d Day) Key() string { return d.String() }

// =============================================================================
// DAY UTILITIES
// =============================================================================

// DaysBetween returns the whole-day offset from one day to another.
// Negative when to precedes from. Exact because both ends are UTC midnight.
func DaysBetween(from, to Day) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

func StartOfMonth(year int, month time.Month) Day { return NewDay(year, month, 1) }

func EndOfMonth(year int, month time.Month) Day {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Day{Time: t}
}

// MonthDays returns every calendar day of the month, in order.
func MonthDays(year int, month time.Month) []Day {
	var days []Day
	current := StartOfMonth(year, month)
	end := EndOfMonth(year, month)
	for current.BeforeOrEqual(end) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// DaysInRange returns every day in [from, to] inclusive. Empty when to
// precedes from.
func DaysInRange(from, to Day) []Day {
	var days []Day
	current := from
	for current.BeforeOrEqual(to) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}
