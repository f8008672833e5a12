package booking

import (
	"fmt"
	"time"
)

// ParseClock parses a zero-padded 24-hour "HH:MM" string. time.Parse alone
// is too lenient here (it accepts "6:00"), and the upstream schedule matches
// times verbatim, so the input format is enforced strictly.
func ParseClock(s string) (hour, minute int, err error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, 0, fmt.Errorf("%w: %q is not zero-padded HH:MM", ErrBadFormat, s)
	}
	t, perr := time.Parse("15:04", s)
	if perr != nil {
		return 0, 0, fmt.Errorf("%w: %q is not zero-padded HH:MM", ErrBadFormat, s)
	}
	return t.Hour(), t.Minute(), nil
}
