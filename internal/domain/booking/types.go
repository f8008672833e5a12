package booking

import "time"

// Session holds the tokens returned by the Arbox login exchange. It lives in
// memory for the duration of one run and is read-only after creation.
type Session struct {
	Token        string
	RefreshToken string

	// Optional ids the login payload sometimes carries.
	UserID           int64
	MembershipUserID int64
}

// Target is one class occurrence to book: a calendar day plus the desired
// local start time, scoped to a box/location and a membership plan.
type Target struct {
	Date           time.Time // calendar day, midnight in the run's time zone
	StartTime      string    // "HH:MM", matched verbatim against the schedule
	BoxID          int
	LocationID     int
	MembershipType int
}

// ScheduleMatch identifies a class found on the schedule. BoxID is the
// owning box reported by the schedule entry, which may differ from the
// configured one.
type ScheduleMatch struct {
	ScheduleID int64
	BoxID      int
}

// Result is the outcome of one booking attempt. Err is nil on success.
type Result struct {
	Date             string // YYYY-MM-DD
	StartTime        string
	ScheduleID       int64
	MembershipUserID int64
	Err              error
}

func (r Result) Booked() bool { return r.Err == nil }
