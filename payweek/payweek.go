/*
Package payweek implements the pay-week calendar engine.

PURPOSE:
  The system settles wages against a fixed 7-day accounting period: the
  pay week runs Thursday through the following Wednesday. This package
  computes that week for any reference date and enforces the navigation
  and marking rules built on top of it.

KEY CONCEPTS:
  - Date: a calendar day with no time component, always UTC midnight
  - Week: the 7 consecutive Dates of one pay week, Thursday first
  - Navigation: the manager can browse at most one week past the current
    week, and can only step backward while ahead of the current week

UTC DAY BOUNDARIES:
  Every Date is normalized to midnight UTC before any arithmetic or
  comparison. Mixing local-time and UTC day boundaries produces
  off-by-one weeks around DST transitions, so local time never enters
  this package.

SEE ALSO:
  - attendance: marks day-types against Dates from this package
  - payout: reduces a Week's marks into a payable amount
*/
package payweek

import "time"

// =============================================================================
// DATE - Calendar day, UTC, no time component
// =============================================================================

// Date is a calendar day. The embedded time is always midnight UTC.
type Date struct {
	t time.Time
}

// NewDate builds a Date from calendar components.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates any instant to its UTC calendar day.
func DateOf(t time.Time) Date {
	u := t.UTC()
	return NewDate(u.Year(), u.Month(), u.Day())
}

// Today returns the current UTC calendar day.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) IsZero() bool           { return d.t.IsZero() }

// Arithmetic and properties
func (d Date) AddDays(n int) Date        { return Date{t: d.t.AddDate(0, 0, n)} }
func (d Date) Weekday() time.Weekday     { return d.t.Weekday() }
func (d Date) Time() time.Time           { return d.t }
func (d Date) String() string            { return d.t.Format("2006-01-02") }

// =============================================================================
// WEEK - One pay week, Thursday through Wednesday
// =============================================================================

// DaysPerWeek is the length of the pay week.
const DaysPerWeek = 7

// Week holds the 7 consecutive days of a pay week in display order:
// Thu, Fri, Sat, Sun, Mon, Tue, Wed.
type Week [DaysPerWeek]Date

// Start returns the week's Thursday.
func (w Week) Start() Date { return w[0] }

// End returns the week's Wednesday.
func (w Week) End() Date { return w[DaysPerWeek-1] }

// Contains reports whether d falls inside the week.
func (w Week) Contains(d Date) bool {
	return !d.Before(w.Start()) && !d.After(w.End())
}

// WeekOf returns the pay week containing ref.
//
// With Sunday=0..Saturday=6, a Thursday (4) starts its own week; Friday
// and Saturday look back 1 and 2 days; Sunday through Wednesday look
// back across the weekend to the previous Thursday.
func WeekOf(ref Date) Week {
	dow := int(ref.Weekday())
	var offset int
	if dow >= int(time.Thursday) {
		offset = dow - int(time.Thursday)
	} else {
		offset = dow + 3
	}

	var w Week
	start := ref.AddDays(-offset)
	for i := range w {
		w[i] = start.AddDays(i)
	}
	return w
}

// CurrentWeek returns the pay week containing today (UTC).
func CurrentWeek() Week {
	return WeekOf(Today())
}

// =============================================================================
// NAVIGATION & MARKING POLICY
// =============================================================================

// CanNavigateBack reports whether the view at the given week start may
// step one week into the past. Backward navigation only returns toward
// the present: it is allowed while the displayed week starts strictly
// after the current week. The range query itself is unrestricted; this
// is a navigation policy, not a data policy.
func CanNavigateBack(weekStart, today Date) bool {
	return weekStart.After(WeekOf(today).Start())
}

// CanNavigateForward reports whether the view at the given week start
// may step one week ahead. Forward navigation reaches at most one week
// beyond the current week.
func CanNavigateForward(weekStart, today Date) bool {
	return weekStart.Before(WeekOf(today).Start().AddDays(DaysPerWeek))
}

// IsFuture reports whether d is strictly after today. Attendance may
// never be marked on a future day.
func IsFuture(d, today Date) bool {
	return d.After(today)
}
