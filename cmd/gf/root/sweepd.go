package root

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rreidmcg/guildfit/internal/scheduler"
)

func newSweepdCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweepd",
		Short: "Run the daily atrophy sweep scheduler until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cfg, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			sched := scheduler.New(svc, newLogger(cfg))
			if err := sched.Start(cfg.SweepHour); err != nil {
				return err
			}
			defer sched.Stop()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			<-sigChan
			return nil
		},
	}
}
