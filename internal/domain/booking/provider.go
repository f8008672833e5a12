package booking

import (
	"context"
	"time"
)

// Provider is the upstream booking platform as seen by the orchestration
// flow: login once, then per target resolve a class, resolve the caller's
// membership, and submit the registration.
type Provider interface {
	Login(ctx context.Context, email, password string) (Session, error)
	FindClass(ctx context.Context, s Session, date time.Time, startTime string, locationID, boxID int) (ScheduleMatch, error)
	MembershipUserID(ctx context.Context, s Session, boxID, membershipType int) (int64, error)
	Register(ctx context.Context, s Session, scheduleID, membershipUserID int64) (payload string, err error)
}

// Notifier delivers best-effort push notifications. Implementations must
// never let delivery failures reach the caller.
type Notifier interface {
	Notify(ctx context.Context, title, message string)
}
