package usecases

import (
	"context"

	"github.com/om-ka/crossfit-registration/internal/domain/booking"
)

// EnrollClass books one class occurrence: resolve the schedule entry,
// resolve the caller's membership for the owning box, submit the
// registration. Membership is resolved against the box the schedule entry
// reports, which can differ from the configured one.
type EnrollClass struct {
	Provider booking.Provider
}

func (u EnrollClass) Execute(ctx context.Context, s booking.Session, t booking.Target) (booking.Result, error) {
	if _, _, err := booking.ParseClock(t.StartTime); err != nil {
		return booking.Result{}, err
	}

	match, err := u.Provider.FindClass(ctx, s, t.Date, t.StartTime, t.LocationID, t.BoxID)
	if err != nil {
		return booking.Result{}, err
	}

	membershipID, err := u.Provider.MembershipUserID(ctx, s, match.BoxID, t.MembershipType)
	if err != nil {
		return booking.Result{}, err
	}

	if _, err := u.Provider.Register(ctx, s, match.ScheduleID, membershipID); err != nil {
		return booking.Result{}, err
	}

	return booking.Result{
		Date:             t.Date.Format("2006-01-02"),
		StartTime:        t.StartTime,
		ScheduleID:       match.ScheduleID,
		MembershipUserID: membershipID,
	}, nil
}
