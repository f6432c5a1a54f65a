package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rreidmcg/guildfit/internal/ui"
)

func newAtrophyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "atrophy",
		Short: "XP decay for inactive users",
	}
	cmd.AddCommand(newAtrophyRunCmd(), newAtrophyStatusCmd())
	return cmd
}

func newAtrophyRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run one decay sweep over all inactive users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.ProcessAtrophy(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.LabelValue("Scanned", res.Scanned))
			fmt.Fprintln(out, ui.LabelValue("Decayed", res.Decayed))
			for _, f := range res.Failures {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" "+f.UserID+": "+f.Err.Error()))
			}
			return nil
		},
	}
}

func newAtrophyStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <user-id>",
		Short: "Show a user's atrophy risk",
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

			st, err := svc.GetUserAtrophyStatus(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.LabelValue("Days inactive", st.DaysInactive))
			fmt.Fprintln(out, ui.LabelValue("Immune", st.HasImmunity))
			if st.ImmunityEndsOn != "" {
				fmt.Fprintln(out, ui.LabelValue("Immunity ends", st.ImmunityEndsOn))
			}
			fmt.Fprintln(out, ui.LabelValue("At risk", st.IsAtRisk))
			return nil
		},
	}
}
