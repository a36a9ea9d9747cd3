package models

import "time"

// DateLayout is the wire and display format for calendar dates
const DateLayout = "2006-01-02"

// DateOf truncates t to its calendar date, expressed as UTC midnight.
// All stored dates use this representation so comparisons ignore zones.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
