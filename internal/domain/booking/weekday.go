package booking

import (
	"fmt"
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday,
}

// ParseWeekday accepts full or three-letter English day names, case-insensitive.
func ParseWeekday(s string) (time.Weekday, error) {
	if w, ok := weekdayNames[strings.ToLower(strings.TrimSpace(s))]; ok {
		return w, nil
	}
	return 0, fmt.Errorf("unknown weekday %q", s)
}

// NextDate returns the next occurrence of w strictly after from, at midnight
// in from's location. When from already falls on w the result is a full week
// out; today is never returned.
func NextDate(w time.Weekday, from time.Time) time.Time {
	delta := (int(w) - int(from.Weekday()) + 7) % 7
	if delta == 0 {
		delta = 7
	}
	y, m, d := from.AddDate(0, 0, delta).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, from.Location())
}
