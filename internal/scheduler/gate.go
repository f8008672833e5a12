package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/om-ka/crossfit-registration/internal/domain/booking"
)

// Gate blocks until a target wall-clock instant, polling the clock in small
// fixed increments. It notifies once when waiting starts, once after a
// minute of waiting, and once when the target is seconds away; a Gate that
// has already released returns immediately and stays silent.
type Gate struct {
	Target   string // "HH:MM", zero-padded 24h
	Location *time.Location
	Notifier booking.Notifier

	// Poll, StillAfter and AlmostBefore default to 1s, 60s and 5s.
	Poll         time.Duration
	StillAfter   time.Duration
	AlmostBefore time.Duration

	// Now and Sleep default to the real clock.
	Now   func() time.Time
	Sleep func(time.Duration)

	startedSent bool
	stillSent   bool
	almostSent  bool
}

// Wait returns once current local time has reached or passed Target today.
// A target that is already in the past returns immediately.
func (g *Gate) Wait(ctx context.Context) error {
	hour, minute, err := booking.ParseClock(g.Target)
	if err != nil {
		return err
	}

	now := g.now()
	target := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, g.loc())

	g.notifyOnce(ctx, &g.startedSent, "Arbox waiting",
		fmt.Sprintf("Started waiting for %s. Now %s (target %s)",
			g.Target, now.Format("15:04:05"), target.Format("15:04:05")))

	start := now
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		now = g.now()
		if !now.Before(target) {
			return nil
		}

		elapsed := now.Sub(start)
		remaining := target.Sub(now)

		if elapsed >= g.stillAfter() {
			g.notifyOnce(ctx, &g.stillSent, "Arbox waiting",
				fmt.Sprintf("Still waiting (60s elapsed). Now %s (target %s)",
					now.Format("15:04:05"), target.Format("15:04:05")))
		}
		if remaining <= g.almostBefore() {
			g.notifyOnce(ctx, &g.almostSent, "Arbox almost ready",
				fmt.Sprintf("Registering in %ds! (target %s)",
					int(remaining.Seconds()), target.Format("15:04:05")))
		}

		g.sleep(g.poll())
	}
}

func (g *Gate) notifyOnce(ctx context.Context, sent *bool, title, message string) {
	if *sent || g.Notifier == nil {
		return
	}
	*sent = true
	g.Notifier.Notify(ctx, title, message)
}

func (g *Gate) loc() *time.Location {
	if g.Location != nil {
		return g.Location
	}
	return time.Local
}

func (g *Gate) now() time.Time {
	if g.Now != nil {
		return g.Now().In(g.loc())
	}
	return time.Now().In(g.loc())
}

func (g *Gate) sleep(d time.Duration) {
	if g.Sleep != nil {
		g.Sleep(d)
		return
	}
	time.Sleep(d)
}

func (g *Gate) poll() time.Duration {
	if g.Poll > 0 {
		return g.Poll
	}
	return time.Second
}

func (g *Gate) stillAfter() time.Duration {
	if g.StillAfter > 0 {
		return g.StillAfter
	}
	return 60 * time.Second
}

func (g *Gate) almostBefore() time.Duration {
	if g.AlmostBefore > 0 {
		return g.AlmostBefore
	}
	return 5 * time.Second
}
