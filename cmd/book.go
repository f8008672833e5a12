package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/om-ka/crossfit-registration/internal/application/usecases"
	"github.com/om-ka/crossfit-registration/internal/domain/booking"
	"github.com/spf13/cobra"
)

func newBookCmd() *cobra.Command {
	var (
		dateStr string
		timeStr string
	)

	c := &cobra.Command{
		Use:   "book",
		Short: "Book a single class right now, without waiting for the run time",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := wireApp()
			if err != nil {
				return err
			}

			date, err := time.ParseInLocation("2006-01-02", dateStr, app.loc)
			if err != nil {
				return fmt.Errorf("%w: --date %q is not YYYY-MM-DD", booking.ErrBadFormat, dateStr)
			}
			startTime := timeStr
			if startTime == "" {
				startTime = app.cfg.StartTime
			}
			if _, _, err := booking.ParseClock(startTime); err != nil {
				return err
			}
			if app.cfg.Email == "" || app.cfg.Password == "" {
				return fmt.Errorf("%w: set ARBOX_USER_EMAIL and ARBOX_USER_PASSWORD", booking.ErrMissingCredentials)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			session, err := app.provider.Login(ctx, app.cfg.Email, app.cfg.Password)
			if err != nil {
				return err
			}

			enroll := usecases.EnrollClass{Provider: app.provider}
			res, err := enroll.Execute(ctx, session, booking.Target{
				Date:           date,
				StartTime:      startTime,
				BoxID:          app.cfg.BoxID,
				LocationID:     app.cfg.LocationID,
				MembershipType: app.cfg.MembershipType,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "booked %s %s (schedule_id=%d, membership_id=%d)\n",
				res.Date, res.StartTime, res.ScheduleID, res.MembershipUserID)
			return nil
		},
	}

	c.Flags().StringVar(&dateStr, "date", "", "class date YYYY-MM-DD")
	c.Flags().StringVar(&timeStr, "time", "", "class start time HH:MM (defaults to the configured start time)")

	_ = c.MarkFlagRequired("date")
	return c
}
