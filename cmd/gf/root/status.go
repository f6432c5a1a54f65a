package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rreidmcg/guildfit/internal/engine"
	"github.com/rreidmcg/guildfit/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <user-id>",
		Short: "Show a user's progression, streak and atrophy risk",
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

			u, err := svc.UserRepo().Get(ctx, args[0])
			if err != nil {
				return err
			}
			if u == nil {
				return engine.ErrUserNotFound
			}

			nextReq := engine.CharacterXPForLevel(u.Level + 1)
			prevReq := engine.CharacterXPForLevel(u.Level)
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, u.Name))
			fmt.Fprintln(out, ui.LabelValue("Level", u.Level))
			fmt.Fprintf(out, "%s %s %s\n", ui.Key.Render("XP:"),
				ui.ProgressBar(u.Experience-prevReq, nextReq-prevReq, 24),
				ui.Muted.Render(fmt.Sprintf("%d (next at %d)", u.Experience, nextReq)))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render("📊 Stats"))
			fmt.Fprintf(out, "- %s STR: lvl %d (xp %d)\n", ui.IconFlex, u.Strength, u.StrengthXP)
			fmt.Fprintf(out, "- %s STA: lvl %d (xp %d)\n", ui.IconRun, u.Stamina, u.StaminaXP)
			fmt.Fprintf(out, "- %s AGI: lvl %d (xp %d)\n", ui.IconBolt, u.Agility, u.AgilityXP)
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconFire+" Streak"))
			fmt.Fprintln(out, ui.LabelValue("Current", u.CurrentStreak))
			fmt.Fprintln(out, ui.LabelValue("Freezes", u.StreakFreezeCount))
			fmt.Fprintln(out, "")

			st, err := svc.GetUserAtrophyStatus(ctx, u.ID)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, ui.H2.Render(ui.IconSkull+" Atrophy"))
			fmt.Fprintln(out, ui.LabelValue("Days inactive", st.DaysInactive))
			switch {
			case st.HasImmunity:
				fmt.Fprintln(out, "- "+ui.Good.Render("immune")+" "+ui.Muted.Render("until "+st.ImmunityEndsOn))
			case st.IsAtRisk:
				fmt.Fprintln(out, "- "+ui.Bad.Render("at risk")+" "+ui.Muted.Render("(work out or finish 2 quests today)"))
			default:
				fmt.Fprintln(out, "- "+ui.Good.Render("safe"))
			}
			return nil
		},
	}
	return cmd
}
