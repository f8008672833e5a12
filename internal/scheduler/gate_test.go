package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/om-ka/crossfit-registration/internal/domain/booking"
)

// notifyRecorder captures requested notifications without any network calls.
type notifyRecorder struct {
	mu     sync.Mutex
	titles []string
	msgs   []string
}

func (r *notifyRecorder) Notify(_ context.Context, title, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.titles = append(r.titles, title)
	r.msgs = append(r.msgs, message)
}

// fakeClock advances by step on every Sleep call.
type fakeClock struct {
	now  time.Time
	step time.Duration

	sleeps int
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(time.Duration) {
	c.sleeps++
	c.now = c.now.Add(c.step)
}

func newGate(clock *fakeClock, rec *notifyRecorder, target string) *Gate {
	return &Gate{
		Target:   target,
		Location: time.UTC,
		Notifier: rec,
		Now:      clock.Now,
		Sleep:    clock.Sleep,
	}
}

func TestGateWaitsUntilTarget(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 14, 14, 59, 50, 0, time.UTC), step: time.Second}
	rec := &notifyRecorder{}
	g := newGate(clock, rec, "15:00")

	require.NoError(t, g.Wait(context.Background()))
	assert.False(t, clock.now.Before(time.Date(2024, 3, 14, 15, 0, 0, 0, time.UTC)))
	// started immediately, almost-ready at <=5s remaining; never 60s elapsed
	require.Equal(t, []string{"Arbox waiting", "Arbox almost ready"}, rec.titles)
}

func TestGateMilestonesFireOnce(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 14, 14, 57, 0, 0, time.UTC), step: time.Second}
	rec := &notifyRecorder{}
	g := newGate(clock, rec, "15:00")

	require.NoError(t, g.Wait(context.Background()))
	require.Equal(t, []string{"Arbox waiting", "Arbox waiting", "Arbox almost ready"}, rec.titles)
	assert.Contains(t, rec.msgs[0], "Started waiting for 15:00")
	assert.Contains(t, rec.msgs[1], "Still waiting")
	assert.Contains(t, rec.msgs[2], "Registering in")
}

func TestGatePastTargetReturnsImmediately(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 14, 16, 30, 0, 0, time.UTC), step: time.Second}
	rec := &notifyRecorder{}
	g := newGate(clock, rec, "15:00")

	require.NoError(t, g.Wait(context.Background()))
	assert.Zero(t, clock.sleeps)
	// the started notice still goes out, but no after-the-fact milestones
	require.Equal(t, []string{"Arbox waiting"}, rec.titles)
}

func TestGateSecondWaitIsSilentNoop(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 14, 14, 59, 58, 0, time.UTC), step: time.Second}
	rec := &notifyRecorder{}
	g := newGate(clock, rec, "15:00")

	require.NoError(t, g.Wait(context.Background()))
	sent := len(rec.titles)
	sleeps := clock.sleeps

	require.NoError(t, g.Wait(context.Background()))
	assert.Equal(t, sent, len(rec.titles))
	assert.Equal(t, sleeps, clock.sleeps)
}

func TestGateRejectsMalformedTarget(t *testing.T) {
	for _, bad := range []string{"6:00", "25:00", "0600", "noon", ""} {
		clock := &fakeClock{now: time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC), step: time.Second}
		g := newGate(clock, &notifyRecorder{}, bad)
		err := g.Wait(context.Background())
		require.ErrorIs(t, err, booking.ErrBadFormat, "target %q", bad)
	}
}

func TestGateHonorsContextCancel(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 3, 14, 10, 0, 0, 0, time.UTC), step: time.Second}
	g := newGate(clock, &notifyRecorder{}, "15:00")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, g.Wait(ctx), context.Canceled)
}
