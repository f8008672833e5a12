package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Wait for the registration window to open, then book every configured weekday",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := wireApp()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			return app.runOnce(ctx)
		},
	}
}
