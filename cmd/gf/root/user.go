package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rreidmcg/guildfit/internal/engine"
	"github.com/rreidmcg/guildfit/internal/ui"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserCreateCmd(), newUserListCmd())
	return cmd
}

func newUserCreateCmd() *cobra.Command {
	var timezone string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a user (starts with a 7-day atrophy grace period)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
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

			u, err := svc.CreateUser(ctx, engine.CreateUserInput{Name: args[0], Timezone: timezone})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" user created"))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("ID", u.ID))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Immunity until", *u.AtrophyImmunityUntil))
			return nil
		},
	}

	cmd.Flags().StringVar(&timezone, "timezone", "", "IANA timezone (defaults to server-local)")
	return cmd
}

func newUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			users, err := svc.UserRepo().ListAll(ctx)
			if err != nil {
				return err
			}
			for _, u := range users {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  lvl %d  %d XP\n",
					ui.Muted.Render(u.ID), u.Name, u.Level, u.Experience)
			}
			return nil
		},
	}
}
