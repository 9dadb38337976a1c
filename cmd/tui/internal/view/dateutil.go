package view

import (
	"time"

	"github.com/MrJamesThe3rd/costline/internal/snapshot"
)

// Period is a reporting week relative to today.
type Period int

const (
	PeriodThisWeek      Period = 0
	PeriodLastWeek      Period = 1
	PeriodTwoWeeksAgo   Period = 2
	PeriodThreeWeeksAgo Period = 3
)

func (p Period) String() string {
	switch p {
	case PeriodThisWeek:
		return "This Week"
	case PeriodLastWeek:
		return "Last Week"
	case PeriodTwoWeeksAgo:
		return "Two Weeks Ago"
	case PeriodThreeWeeksAgo:
		return "Three Weeks Ago"
	}

	return "Unknown"
}

// Start returns the Monday opening the period as seen from now.
func (p Period) Start(now time.Time) time.Time {
	return snapshot.WeekStart(now.AddDate(0, 0, -7*int(p)))
}

// PeriodLabel renders a week as "2024-03-11 .. 2024-03-17".
func PeriodLabel(start time.Time) string {
	return FormatDate(start) + " .. " + FormatDate(snapshot.PeriodEnd(start))
}
