package calendar

import (
	"sort"
	"time"
)

// UpcomingEvents returns events occurring on or after today, sorted ascending
// by date. The sort is stable so same-date events keep their insertion order.
// Records whose dates do not parse are skipped.
func UpcomingEvents(today time.Time, records []EventRecord) []UpcomingEvent {
	day := truncateToDay(today)
	var upcoming []UpcomingEvent
	for _, rec := range records {
		eventDate, err := time.Parse(DateLayout, rec.Date)
		if err != nil {
			continue
		}
		if !eventDate.Before(day) {
			upcoming = append(upcoming, UpcomingEvent{Date: eventDate, Event: rec})
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].Date.Before(upcoming[j].Date)
	})
	return upcoming
}

// truncateToDay drops the time-of-day component so "today" comparisons are
// inclusive of events happening later today.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
