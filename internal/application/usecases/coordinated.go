package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/om-ka/crossfit-registration/internal/config"
	"github.com/om-ka/crossfit-registration/internal/domain/booking"
	"github.com/om-ka/crossfit-registration/internal/scheduler"
)

// CoordinatedRun is the whole orchestrated flow: wait for the registration
// window to open, log in once, then book the next occurrence of every
// configured weekday. A failure on one target is recorded and notified but
// never stops the remaining targets; errors before the target loop abort
// the run.
type CoordinatedRun struct {
	Config   config.Config
	Provider booking.Provider
	Notifier booking.Notifier
	Gate     *scheduler.Gate
	Logger   *slog.Logger
	Location *time.Location

	Now func() time.Time
}

// Execute returns one Result per valid configured weekday.
func (u CoordinatedRun) Execute(ctx context.Context) ([]booking.Result, error) {
	now := u.now()
	u.Notifier.Notify(ctx, "Arbox run started",
		fmt.Sprintf("Time check %s (waiting for %s)", now.Format("2006-01-02 15:04:05"), u.Config.RunTime))

	if u.Gate != nil {
		if err := u.Gate.Wait(ctx); err != nil {
			return nil, err
		}
	}

	if u.Config.Email == "" || u.Config.Password == "" {
		return nil, fmt.Errorf("%w: set ARBOX_USER_EMAIL and ARBOX_USER_PASSWORD", booking.ErrMissingCredentials)
	}

	u.Logger.Info("logging in", "email", u.Config.Email)
	session, err := u.Provider.Login(ctx, u.Config.Email, u.Config.Password)
	if err != nil {
		return nil, err
	}

	enroll := EnrollClass{Provider: u.Provider}
	targets := u.targets()
	results := make([]booking.Result, 0, len(targets))
	booked := 0

	for _, t := range targets {
		res, err := enroll.Execute(ctx, session, t)
		if err != nil {
			date := t.Date.Format("2006-01-02")
			u.Logger.Error("registration failed", "date", date, "start", t.StartTime, "err", err)
			u.Notifier.Notify(ctx, "Arbox run failed", fmt.Sprintf("%s %s: %v", date, t.StartTime, err))
			results = append(results, booking.Result{Date: date, StartTime: t.StartTime, Err: err})
			continue
		}
		booked++
		u.Logger.Info("registered", "date", res.Date, "start", res.StartTime,
			"schedule_id", res.ScheduleID, "membership_id", res.MembershipUserID)
		u.Notifier.Notify(ctx, "Arbox run succeeded",
			fmt.Sprintf("Registered for %s %s (schedule_id=%d, membership_id=%d)",
				res.Date, res.StartTime, res.ScheduleID, res.MembershipUserID))
		results = append(results, res)
	}

	if booked == 0 {
		u.Notifier.Notify(ctx, "Arbox run completed", "No registrations were created.")
	}
	return results, nil
}

// targets maps the configured weekday names to their next future dates.
// Unknown names are skipped with a warning, not fatal.
func (u CoordinatedRun) targets() []booking.Target {
	today := u.now()
	var ts []booking.Target
	for _, day := range u.Config.BookingDays {
		w, err := booking.ParseWeekday(day)
		if err != nil {
			u.Logger.Warn("skipping unknown weekday", "day", day)
			continue
		}
		ts = append(ts, booking.Target{
			Date:           booking.NextDate(w, today),
			StartTime:      u.Config.StartTime,
			BoxID:          u.Config.BoxID,
			LocationID:     u.Config.LocationID,
			MembershipType: u.Config.MembershipType,
		})
	}
	return ts
}

func (u CoordinatedRun) now() time.Time {
	loc := u.Location
	if loc == nil {
		loc = time.Local
	}
	if u.Now != nil {
		return u.Now().In(loc)
	}
	return time.Now().In(loc)
}
