package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rreidmcg/guildfit/internal/engine"
	"github.com/rreidmcg/guildfit/internal/tui"
	"github.com/rreidmcg/guildfit/internal/ui"
)

func newQuestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "quest",
		Short: "Daily quests (hydration, steps, protein, sleep)",
	}
	cmd.AddCommand(newQuestToggleCmd(), newQuestBoardCmd())
	return cmd
}

func newQuestToggleCmd() *cobra.Command {
	var uncheck bool

	cmd := &cobra.Command{
		Use:   "toggle <user-id> <quest>",
		Short: "Mark a daily quest done (or undone with --uncheck)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("user-id and quest are required")
			}
			if !engine.QuestType(args[1]).IsValid() {
				return fmt.Errorf("quest must be one of: hydration, steps, protein, sleep")
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

			res, err := svc.ToggleDailyQuest(ctx, args[0], engine.QuestType(args[1]), !uncheck)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %d/4 quests done today\n", ui.Key.Render("Progress:"), res.Progress.QuestsDone())
			if res.XPGranted {
				fmt.Fprintln(out, ui.Gold.Render(ui.IconTrophy+fmt.Sprintf(" all quests complete: +%d XP", engine.AllQuestsBonusXP)))
			}
			if res.FreezeGranted {
				fmt.Fprintln(out, ui.Good.Render(ui.IconFreeze+" streak freeze earned"))
			}
			if res.XPRevoked {
				fmt.Fprintln(out, ui.Warn.Render(fmt.Sprintf("quest bonus revoked (-%d XP)", engine.AllQuestsBonusXP)))
			}
			if res.FreezeRevoked {
				fmt.Fprintln(out, ui.Warn.Render("streak freeze revoked"))
			}
			fmt.Fprintln(out, ui.LabelValue("Streak", res.CurrentStreak))
			return nil
		},
	}

	cmd.Flags().BoolVar(&uncheck, "uncheck", false, "mark the quest as not done")
	return cmd
}

func newQuestBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board <user-id>",
		Short: "Interactive daily quest board",
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
			return tui.RunBoard(ctx, svc, args[0])
		},
	}
}
