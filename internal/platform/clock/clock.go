package clock

import "time"

// Clock abstracts time to keep accrual logic deterministic in tests.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// DateString renders t as the calendar-day key (YYYY-MM-DD) used for
// day-rollover detection and daily tracker records.
func DateString(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// SameDay reports whether both instants fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	return DateString(a) == DateString(b)
}
