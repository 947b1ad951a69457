package timesheet

import "time"

// Entry is the minimal view of a time entry the calendar assembler needs.
// Callers convert their richer records into this shape.
type Entry struct {
	ID         string
	Date       time.Time
	TotalHours *float64
}

// CalendarDay describes a single date within a resolved period, carrying
// the identifier of the entry recorded for that date when one exists.
type CalendarDay struct {
	Date      time.Time
	Weekday   string
	DayNumber string
	MonthName string
	EntryID   string
}

// Calendar is the assembled view of a period: one day per date in the
// range plus derived totals over the entries that fall inside it.
type Calendar struct {
	Days              []CalendarDay
	TotalHours        float64
	DaysWorked        int
	AvgPerCalendarDay float64
	AvgPerWorkedDay   float64
}

// BuildCalendar produces one CalendarDay for every date in the inclusive
// range, slotting entries by exact calendar date, and computes the period
// totals. Entries outside the range are ignored.
func BuildCalendar(r DateRange, entries []Entry) Calendar {
	byDate := make(map[time.Time]Entry, len(entries))
	for _, entry := range entries {
		byDate[DateOf(entry.Date)] = entry
	}

	numDays := r.Days()
	cal := Calendar{Days: make([]CalendarDay, 0, numDays)}

	var total float64
	worked := 0
	for date := r.Start; !date.After(r.End); date = date.AddDate(0, 0, 1) {
		day := CalendarDay{
			Date:      date,
			Weekday:   date.Format("Mon"),
			DayNumber: date.Format("02"),
			MonthName: date.Format("Jan"),
		}
		if entry, ok := byDate[date]; ok {
			day.EntryID = entry.ID
			if entry.TotalHours != nil {
				total += *entry.TotalHours
				worked++
			}
		}
		cal.Days = append(cal.Days, day)
	}

	cal.TotalHours = round2(total)
	cal.DaysWorked = worked
	if numDays > 0 {
		cal.AvgPerCalendarDay = round1(total / float64(numDays))
	}
	if worked > 0 {
		cal.AvgPerWorkedDay = round1(total / float64(worked))
	}
	return cal
}
