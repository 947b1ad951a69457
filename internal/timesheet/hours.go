package timesheet

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrEndNotAfterStart is returned when an entry's end time is not strictly
// after its start time.
var ErrEndNotAfterStart = errors.New("timesheet: end time must be after start time")

// TimeOfDay is a clock time expressed as minutes since midnight.
type TimeOfDay int

// ParseTimeOfDay parses a wire-format clock time such as "09:30".
func ParseTimeOfDay(value string) (TimeOfDay, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("timesheet: invalid time %q", value)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("timesheet: invalid time %q", value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("timesheet: invalid time %q", value)
	}
	return TimeOfDay(hour*60 + minute), nil
}

// String renders the time in wire format.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// ComputeTotalHours derives the worked hours for a single entry: the span
// between start and end minus the break, clamped at zero and rounded to two
// decimal places. The result is nil while the end time is unset. A break
// longer than the span clamps the result to zero rather than going negative.
func ComputeTotalHours(start TimeOfDay, end *TimeOfDay, breakMinutes int) (*float64, error) {
	if end == nil {
		return nil, nil
	}
	if *end <= start {
		return nil, ErrEndNotAfterStart
	}

	worked := int(*end-start) - breakMinutes
	if worked < 0 {
		worked = 0
	}
	hours := round2(float64(worked) / 60)
	return &hours, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
