package snapshot

import "time"

// WeekStart returns the Monday opening the ISO week that contains t, at
// midnight UTC.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)

	offset := (int(day.Weekday()) + 6) % 7

	return day.AddDate(0, 0, -offset)
}

// PeriodEnd is the Sunday closing the week that starts at start.
func PeriodEnd(start time.Time) time.Time {
	return start.AddDate(0, 0, 6)
}
