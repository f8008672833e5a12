package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/om-ka/crossfit-registration/internal/domain/booking"
)

// Scheduler is the timer-trigger adapter: it ticks on a fixed interval and
// fires the booking flow when the clock is within ±Window of RunTime, at
// most once per day. The flow itself still waits on its own Gate, so the
// trigger is expected to land a little early.
type Scheduler struct {
	RunTime  string // "HH:MM"
	Window   time.Duration
	Location *time.Location
	Interval time.Duration
	Logger   *slog.Logger

	// Trigger runs one coordinated booking flow.
	Trigger func(ctx context.Context) error

	Now func() time.Time // tests override this

	lastRun string // date of the last triggered run, YYYY-MM-DD
}

func (s *Scheduler) Run(ctx context.Context) error {
	interval := s.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	// kick immediately
	if err := s.tick(ctx); err != nil {
		s.Logger.Error("triggered run failed", "err", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := s.tick(ctx); err != nil {
				s.Logger.Error("triggered run failed", "err", err)
			}
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) error {
	now := s.now()
	target, err := s.targetFor(now)
	if err != nil {
		return err
	}

	delta := target.Sub(now)
	if delta < 0 {
		delta = -delta
	}
	if delta > s.Window {
		return nil
	}

	today := now.Format("2006-01-02")
	if s.lastRun == today {
		return nil
	}
	s.lastRun = today

	s.Logger.Info("within run window, starting booking flow",
		"now", now.Format("15:04:05"), "target", target.Format("15:04:05"))
	return s.Trigger(ctx)
}

func (s *Scheduler) targetFor(now time.Time) (time.Time, error) {
	hour, minute, err := booking.ParseClock(s.RunTime)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location()), nil
}

func (s *Scheduler) now() time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	if s.Now != nil {
		return s.Now().In(loc)
	}
	return time.Now().In(loc)
}
