package timesheet

import (
	"errors"
	"testing"
)

func mustTime(t *testing.T, value string) TimeOfDay {
	t.Helper()
	tod, err := ParseTimeOfDay(value)
	if err != nil {
		t.Fatalf("ParseTimeOfDay(%q): %v", value, err)
	}
	return tod
}

func TestParseTimeOfDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		input   string
		want    TimeOfDay
		wantErr bool
	}{
		{input: "09:00", want: 540},
		{input: "00:00", want: 0},
		{input: "23:59", want: 23*60 + 59},
		{input: " 17:30 ", want: 17*60 + 30},
		{input: "24:00", wantErr: true},
		{input: "12:60", wantErr: true},
		{input: "9am", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tc := range cases {
		got, err := ParseTimeOfDay(tc.input)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("ParseTimeOfDay(%q): expected error, got %v", tc.input, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q): %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseTimeOfDay(%q) = %d, want %d", tc.input, got, tc.want)
		}
	}
}

func TestTimeOfDay_String(t *testing.T) {
	t.Parallel()

	if got := TimeOfDay(540).String(); got != "09:00" {
		t.Fatalf("String() = %q, want %q", got, "09:00")
	}
	if got := TimeOfDay(17*60 + 5).String(); got != "17:05" {
		t.Fatalf("String() = %q, want %q", got, "17:05")
	}
}

func TestComputeTotalHours(t *testing.T) {
	t.Parallel()

	end := mustTime(t, "17:30")
	got, err := ComputeTotalHours(mustTime(t, "09:00"), &end, 30)
	if err != nil {
		t.Fatalf("ComputeTotalHours: %v", err)
	}
	if got == nil || *got != 8.0 {
		t.Fatalf("ComputeTotalHours = %v, want 8.0", got)
	}
}

func TestComputeTotalHours_RoundsToTwoDecimals(t *testing.T) {
	t.Parallel()

	end := mustTime(t, "09:50")
	got, err := ComputeTotalHours(mustTime(t, "09:00"), &end, 0)
	if err != nil {
		t.Fatalf("ComputeTotalHours: %v", err)
	}
	if got == nil || *got != 0.83 {
		t.Fatalf("ComputeTotalHours = %v, want 0.83", got)
	}
}

func TestComputeTotalHours_BreakClampsToZero(t *testing.T) {
	t.Parallel()

	end := mustTime(t, "09:15")
	got, err := ComputeTotalHours(mustTime(t, "09:00"), &end, 30)
	if err != nil {
		t.Fatalf("ComputeTotalHours: %v", err)
	}
	if got == nil || *got != 0.0 {
		t.Fatalf("ComputeTotalHours = %v, want 0.0 (clamped)", got)
	}
}

func TestComputeTotalHours_AbsentWithoutEnd(t *testing.T) {
	t.Parallel()

	got, err := ComputeTotalHours(mustTime(t, "09:00"), nil, 30)
	if err != nil {
		t.Fatalf("ComputeTotalHours: %v", err)
	}
	if got != nil {
		t.Fatalf("ComputeTotalHours = %v, want absent", *got)
	}
}

func TestComputeTotalHours_RejectsEndNotAfterStart(t *testing.T) {
	t.Parallel()

	for _, endValue := range []string{"09:00", "08:30"} {
		end := mustTime(t, endValue)
		_, err := ComputeTotalHours(mustTime(t, "09:00"), &end, 0)
		if !errors.Is(err, ErrEndNotAfterStart) {
			t.Fatalf("end=%s: expected ErrEndNotAfterStart, got %v", endValue, err)
		}
	}
}
