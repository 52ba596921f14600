package cli

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nhle/casebot/internal/notify"
)

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the background deadline notifier until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			sched := notify.NewScheduler(app.Store, app.Transport, notify.Config{
				ChannelID: app.Config.Channels.Notifications,
				Window:    app.Config.Window(),
				Interval:  app.Config.PollInterval(),
			}, app.Log)

			app.Log.Info().
				Str("channel", app.Config.Channels.Notifications).
				Dur("window", app.Config.Window()).
				Dur("interval", app.Config.PollInterval()).
				Msg("deadline notifier started")

			sched.Start(ctx)
			<-ctx.Done()
			sched.Stop()

			fmt.Println("casebot stopped")
			return nil
		},
	}
}
