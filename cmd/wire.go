package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/om-ka/crossfit-registration/internal/application/usecases"
	"github.com/om-ka/crossfit-registration/internal/arbox"
	"github.com/om-ka/crossfit-registration/internal/config"
	"github.com/om-ka/crossfit-registration/internal/domain/booking"
	"github.com/om-ka/crossfit-registration/internal/logger"
	"github.com/om-ka/crossfit-registration/internal/notify"
	"github.com/om-ka/crossfit-registration/internal/scheduler"
)

type app struct {
	cfg      config.Config
	loc      *time.Location
	log      *slog.Logger
	provider booking.Provider
	notifier booking.Notifier
}

func wireApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	log := logger.Load()
	return &app{
		cfg:      cfg,
		loc:      loc,
		log:      log,
		provider: arbox.New(cfg.APIBaseURL),
		notifier: notify.NewAlertzy(cfg.AlertzyKey, log),
	}, nil
}

// runOnce executes one coordinated run, notifying on fatal errors so the
// trigger layer can mark the invocation failed. The gate is rebuilt per
// invocation; its milestone notifications are scoped to a single run.
func (a *app) runOnce(ctx context.Context) error {
	run := usecases.CoordinatedRun{
		Config:   a.cfg,
		Provider: a.provider,
		Notifier: a.notifier,
		Gate: &scheduler.Gate{
			Target:   a.cfg.RunTime,
			Location: a.loc,
			Notifier: a.notifier,
		},
		Logger:   a.log,
		Location: a.loc,
	}

	results, err := run.Execute(ctx)
	if err != nil {
		a.notifier.Notify(ctx, "Arbox run failed", err.Error())
		return err
	}
	for _, r := range results {
		if r.Booked() {
			fmt.Fprintf(os.Stdout, "booked %s %s (schedule_id=%d, membership_id=%d)\n",
				r.Date, r.StartTime, r.ScheduleID, r.MembershipUserID)
		} else {
			fmt.Fprintf(os.Stdout, "failed %s %s: %v\n", r.Date, r.StartTime, r.Err)
		}
	}
	return nil
}
