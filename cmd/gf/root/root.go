package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rreidmcg/guildfit/internal/ui"
)

const Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:           "gf",
	Short:         "Guildfit — fitness tracking with RPG progression",
	Long:          "Guildfit turns logged workouts into validated XP, stat levels, daily quests and streaks — and decays them when you slack.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newUserCmd(),
		newStatusCmd(),
		newWorkoutCmd(),
		newQuestCmd(),
		newAtrophyCmd(),
		newFreezeCmd(),
		newSweepdCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
