// Package congress holds the calendar arithmetic and source URLs for
// U.S. Congress legislative data.
package congress

import (
	"fmt"
	"time"
)

const (
	firstYear           = 1787
	sessionsPerCongress = 2
)

// Session identifies one session of a Congress.
type Session struct {
	Year     int
	Congress int
	Number   int
}

// SessionForYear returns the Congress and session sitting in year. Odd
// years open a new Congress (session 1), even years are its session 2.
func SessionForYear(year int) Session {
	offset := year - firstYear
	s := Session{
		Year:     year,
		Congress: offset / sessionsPerCongress,
		Number:   1,
	}
	if offset%sessionsPerCongress != 0 {
		s.Number = 2
	}
	return s
}

func (s Session) String() string {
	return fmt.Sprintf("%s Congress, session %d", Ordinal(s.Congress), s.Number)
}

// Ordinal formats n as "1st", "2nd", "116th".
func Ordinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// Days returns every calendar day of year up to and including until.
func Days(year int, until time.Time) []time.Time {
	var out []time.Time
	day := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	limit := time.Date(until.Year(), until.Month(), until.Day(), 0, 0, 0, 0, time.UTC)
	for day.Year() == year && !day.After(limit) {
		out = append(out, day)
		day = day.AddDate(0, 0, 1)
	}
	return out
}
