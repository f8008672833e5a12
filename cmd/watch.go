package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/om-ka/crossfit-registration/internal/scheduler"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var intervalSeconds int

	c := &cobra.Command{
		Use:   "watch",
		Short: "Run as a daemon, firing the booking flow inside the daily run window",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := wireApp()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			s := &scheduler.Scheduler{
				RunTime:  app.cfg.RunTime,
				Window:   app.cfg.RunWindow,
				Location: app.loc,
				Interval: time.Duration(intervalSeconds) * time.Second,
				Logger:   app.log,
				Trigger:  app.runOnce,
			}

			app.log.Info("watching for run window",
				"run_time", app.cfg.RunTime, "window", app.cfg.RunWindow.String(), "tz", app.cfg.Timezone)

			if err := s.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	c.Flags().IntVar(&intervalSeconds, "interval-seconds", 30, "window check interval seconds")
	return c
}
