package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rreidmcg/guildfit/internal/ui"
)

func newFreezeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "freeze <user-id>",
		Short: "Spend a streak freeze to cover today's inactivity",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("user-id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.UseStreakFreeze(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.Success {
				fmt.Fprintln(out, ui.Bad.Render("no streak freezes available"))
				return nil
			}
			fmt.Fprintln(out, ui.Good.Render(ui.IconFreeze+" streak freeze used — today counts as active"))
			fmt.Fprintln(out, ui.LabelValue("Remaining", res.RemainingFreezes))
			return nil
		},
	}
}
