package calendar

import "time"

// TodaysBirthdays scans records and returns those whose stored month and day
// equal today's, annotated with age computed as today.year - stored.year.
// Records whose dates do not parse are skipped, never fatal. Input order is
// preserved.
//
// A Feb 29 birthday matches only in leap years: on a non-leap year today's
// (month, day) is never (2, 29), so the record simply produces no match that
// year.
func TodaysBirthdays(today time.Time, records []BirthdayRecord) []BirthdayMatch {
	var matches []BirthdayMatch
	for _, rec := range records {
		bday, err := time.Parse(DateLayout, rec.Date)
		if err != nil {
			continue
		}
		if bday.Day() == today.Day() && bday.Month() == today.Month() {
			matches = append(matches, BirthdayMatch{
				BirthdayRecord: rec,
				Age:            today.Year() - bday.Year(),
			})
		}
	}
	return matches
}
