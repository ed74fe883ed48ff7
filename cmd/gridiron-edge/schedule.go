package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/gridiron-edge/internal/scheduler"
)

func newScheduleCmd() *cobra.Command {
	var runNow bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the daily aggregation on the configured cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			repos, err := openRepositories(ctx)
			if err != nil {
				return err
			}
			defer repos.Close()

			sched := scheduler.NewScheduler(newEdgeService(repos), cfg, log)

			if runNow {
				resp, path, err := sched.RunOnce(ctx)
				if err != nil {
					return err
				}
				log.WithFields(logrus.Fields{"run_id": resp.RunID, "path": path}).Info("Initial aggregation exported")
			}

			if err := sched.ScheduleDaily(); err != nil {
				return err
			}
			if err := sched.Start(); err != nil {
				return err
			}
			log.WithField("next_run", sched.GetNextRun()).Info("Waiting for schedule")

			<-ctx.Done()
			return sched.Stop()
		},
	}

	cmd.Flags().BoolVar(&runNow, "run-now", false, "Run one aggregation immediately before scheduling")
	return cmd
}
