package timesheet

import "time"

// Period identifies a preset reporting window relative to a reference date.
type Period string

const (
	PeriodCurrentWeek  Period = "current_week"
	PeriodLastWeek     Period = "last_week"
	PeriodCurrentMonth Period = "current_month"
	PeriodLastMonth    Period = "last_month"
)

// Wire and display formats used at the HTTP boundary.
const (
	DateFormat    = "2006-01-02"
	TimeFormat    = "15:04"
	DisplayFormat = "02-Jan-2006"
)

// DateRange is an inclusive span of calendar dates. Both bounds are
// normalised to midnight UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days covered by the range.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Contains reports whether the given date falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Resolve maps a period selector and a reference date to an inclusive date
// range and a display label. Weeks run Monday to Sunday. An unrecognised
// selector resolves to the current week; the permissive fallback is
// deliberate policy, not an error.
func Resolve(period Period, today time.Time) (DateRange, string) {
	ref := DateOf(today)

	switch period {
	case PeriodLastWeek:
		start := startOfWeek(ref).AddDate(0, 0, -7)
		r := DateRange{Start: start, End: start.AddDate(0, 0, 6)}
		return r, weekLabel(r)
	case PeriodCurrentMonth:
		start := startOfMonth(ref)
		r := DateRange{Start: start, End: start.AddDate(0, 1, 0).AddDate(0, 0, -1)}
		return r, start.Format("January 2006")
	case PeriodLastMonth:
		start := startOfMonth(ref).AddDate(0, -1, 0)
		r := DateRange{Start: start, End: start.AddDate(0, 1, 0).AddDate(0, 0, -1)}
		return r, start.Format("January 2006")
	case PeriodCurrentWeek:
		fallthrough
	default:
		start := startOfWeek(ref)
		r := DateRange{Start: start, End: start.AddDate(0, 0, 6)}
		return r, weekLabel(r)
	}
}

// DateOf strips the time-of-day component, yielding midnight UTC of the
// same calendar date.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func startOfWeek(date time.Time) time.Time {
	// Monday is the start of the week. In Go, Monday == 1, Sunday == 0.
	offset := (int(date.Weekday()) + 6) % 7
	return date.AddDate(0, 0, -offset)
}

func startOfMonth(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func weekLabel(r DateRange) string {
	return r.Start.Format(DisplayFormat) + " to " + r.End.Format(DisplayFormat)
}
