package plan

import (
	"testing"
	"time"
)

func TestWeekDays(t *testing.T) {
	tests := []struct {
		name     string
		startDay string
		zone     string
		want     []string
	}{
		{
			name:     "plainWeek",
			startDay: "2026-08-24",
			zone:     "UTC",
			want: []string{
				"2026-08-24", "2026-08-25", "2026-08-26", "2026-08-27",
				"2026-08-28", "2026-08-29", "2026-08-30",
			},
		},
		{
			name:     "acrossSpringDSTTransition",
			startDay: "2026-03-08",
			zone:     "America/New_York",
			want: []string{
				"2026-03-08", "2026-03-09", "2026-03-10", "2026-03-11",
				"2026-03-12", "2026-03-13", "2026-03-14",
			},
		},
		{
			name:     "acrossFallDSTTransition",
			startDay: "2026-10-31",
			zone:     "America/New_York",
			want: []string{
				"2026-10-31", "2026-11-01", "2026-11-02", "2026-11-03",
				"2026-11-04", "2026-11-05", "2026-11-06",
			},
		},
		{
			name:     "acrossMonthBoundary",
			startDay: "2026-02-26",
			zone:     "UTC",
			want: []string{
				"2026-02-26", "2026-02-27", "2026-02-28", "2026-03-01",
				"2026-03-02", "2026-03-03", "2026-03-04",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := time.LoadLocation(tt.zone)
			if err != nil {
				t.Fatalf("LoadLocation(%q) error: %v", tt.zone, err)
			}

			days, err := WeekDays(tt.startDay, loc)
			if err != nil {
				t.Fatalf("WeekDays() error: %v", err)
			}

			if len(days) != 7 {
				t.Fatalf("WeekDays() returned %d days, want 7", len(days))
			}
			for i, day := range days {
				if day != tt.want[i] {
					t.Errorf("WeekDays()[%d] = %q, want %q", i, day, tt.want[i])
				}
			}

			seen := make(map[string]bool)
			for _, day := range days {
				if seen[day] {
					t.Errorf("WeekDays() returned duplicate day %q", day)
				}
				seen[day] = true
			}
		})
	}
}

func TestWeekDaysInvalidStart(t *testing.T) {
	tests := []struct {
		name     string
		startDay string
	}{
		{name: "empty", startDay: ""},
		{name: "notADate", startDay: "next monday"},
		{name: "wrongFormat", startDay: "24-08-2026"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := WeekDays(tt.startDay, time.UTC); err == nil {
				t.Errorf("WeekDays(%q) expected error, got nil", tt.startDay)
			}
		})
	}
}

func TestValidDayKey(t *testing.T) {
	tests := []struct {
		day  string
		want bool
	}{
		{"2026-08-24", true},
		{"2026-02-29", false},
		{"2026-8-24", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.day, func(t *testing.T) {
			if got := ValidDayKey(tt.day); got != tt.want {
				t.Errorf("ValidDayKey(%q) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}
