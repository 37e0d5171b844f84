package analytics

import (
	"moneypilot/internal/core"
)

// Bucket keys and labels for the three supported granularities. Keys are
// stable identifiers used for grouping; labels are what the charts render
// and, for week/month grouping, also the sort key (see timeseries.go).

// dayKey returns the calendar-date key, YYYY-MM-DD.
func dayKey(d core.Date) string {
	return d.Format("2006-01-02")
}

// dayLabel returns the long form used by the daily expense chart.
func dayLabel(d core.Date) string {
	return d.Format("Jan 02, 2006")
}

// weekStart returns the Monday of the week containing d. Weeks start on
// Monday, not Sunday.
func weekStart(d core.Date) core.Date {
	offset := (int(d.Weekday()) + 6) % 7
	return core.Date{Time: d.AddDate(0, 0, -offset)}
}

// weekKey returns the Monday of d's week as YYYY-MM-DD.
func weekKey(d core.Date) string {
	return dayKey(weekStart(d))
}

// weekLabel returns the Monday's short date, e.g. "Jan 06".
func weekLabel(d core.Date) string {
	return weekStart(d).Format("Jan 02")
}

// monthKey returns YYYY-MM.
func monthKey(d core.Date) string {
	return d.Format("2006-01")
}

// monthLabel returns e.g. "Jan 2024".
func monthLabel(d core.Date) string {
	return d.Format("Jan 2006")
}
