package calendar

import "time"

// DateLayout is the on-disk date format for birthdays and events.
const DateLayout = "2006-01-02"

// BirthdayRecord is a stored birthday. Only the month and day of Date drive
// recurrence matching; the year is used solely to compute an age.
type BirthdayRecord struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Date         string `json:"date"`
}

// BirthdayMatch is a BirthdayRecord that falls on "today", annotated with the
// age the person turns.
type BirthdayMatch struct {
	BirthdayRecord
	Age int `json:"age"`
}

// EventRecord is a one-off scheduled event. No recurrence.
type EventRecord struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

// UpcomingEvent pairs an event with its parsed occurrence date.
type UpcomingEvent struct {
	Date  time.Time   `json:"date"`
	Event EventRecord `json:"event"`
}

// Document is the root of the persisted JSON file.
type Document struct {
	Birthdays []BirthdayRecord `json:"birthdays"`
	Events    []EventRecord    `json:"events"`
}

func emptyDocument() Document {
	return Document{Birthdays: []BirthdayRecord{}, Events: []EventRecord{}}
}
