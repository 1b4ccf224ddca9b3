package plan

import (
	"fmt"
	"time"
)

// WeekDays returns the 7 consecutive calendar-day keys starting at
// startDay, inclusive. Days are advanced with calendar arithmetic
// rather than 24h offsets, so the window stays correct across DST
// transitions.
func WeekDays(startDay string, loc *time.Location) ([]string, error) {
	if loc == nil {
		loc = time.Local
	}

	start, err := time.ParseInLocation(DayKeyFormat, startDay, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid start day %q: %w", startDay, err)
	}

	days := make([]string, 7)
	for i := 0; i < 7; i++ {
		days[i] = start.AddDate(0, 0, i).Format(DayKeyFormat)
	}
	return days, nil
}

// TodayKey returns the current calendar-day key in loc.
func TodayKey(loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc).Format(DayKeyFormat)
}

// ValidDayKey reports whether day parses as a YYYY-MM-DD calendar date.
func ValidDayKey(day string) bool {
	_, err := time.Parse(DayKeyFormat, day)
	return err == nil
}
