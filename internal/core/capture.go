package core

import "time"

// Capture holds the crawl-time fields stamped on every row of a run.
// All fields derive from the single timestamp At.
type Capture struct {
	At      time.Time
	Week    int
	Month   int
	Quarter int
	Year    int
}

// NewCapture derives the temporal fields from t. Week is the ISO-8601 week number.
func NewCapture(t time.Time) Capture {
	_, week := t.ISOWeek()
	month := int(t.Month())
	return Capture{
		At:      t,
		Week:    week,
		Month:   month,
		Quarter: QuarterOf(month),
		Year:    t.Year(),
	}
}

// QuarterOf maps a month (1-12) to its calendar quarter.
func QuarterOf(month int) int {
	return (month-1)/3 + 1
}
