package root

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rreidmcg/guildfit/internal/engine"
	"github.com/rreidmcg/guildfit/internal/ui"
)

// workoutFile is the JSON shape accepted by `gf workout log --file`.
type workoutFile struct {
	DurationMinutes int     `json:"duration_minutes"`
	BodyweightLbs   float64 `json:"bodyweight_lbs"`
	RPE             float64 `json:"rpe"`
	Exercises       []struct {
		Name     string `json:"name"`
		Category string `json:"category"`
		Sets     []struct {
			Reps            int     `json:"reps"`
			DurationSeconds int     `json:"duration_seconds"`
			WeightLbs       float64 `json:"weight_lbs"`
			Completed       bool    `json:"completed"`
		} `json:"sets"`
	} `json:"exercises"`
}

func newWorkoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "workout",
		Short: "Log workouts",
	}
	cmd.AddCommand(newWorkoutLogCmd())
	return cmd
}

func newWorkoutLogCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "log <user-id>",
		Short: "Validate a reported session and award XP",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("user-id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(file)
			if err != nil {
				return fmt.Errorf("read workout file: %w", err)
			}
			var wf workoutFile
			if err := json.Unmarshal(data, &wf); err != nil {
				return fmt.Errorf("parse workout file: %w", err)
			}

			performances := make([]engine.ExercisePerformance, 0, len(wf.Exercises))
			for _, ex := range wf.Exercises {
				p := engine.ExercisePerformance{
					Name:     ex.Name,
					Category: engine.ExerciseCategory(ex.Category),
				}
				for _, set := range ex.Sets {
					p.Sets = append(p.Sets, engine.SetPerformance{
						Reps:            set.Reps,
						DurationSeconds: set.DurationSeconds,
						WeightLbs:       set.WeightLbs,
						Completed:       set.Completed,
					})
				}
				performances = append(performances, p)
			}

			ctx := context.Background()
			svc, _, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.CompleteWorkout(ctx, args[0], performances, wf.DurationMinutes, wf.BodyweightLbs, wf.RPE)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			v := res.Awarded.Validation
			if !v.IsValid {
				fmt.Fprintln(out, ui.Bad.Render(ui.IconError+" this session could not be validated"))
				for _, e := range v.ValidationErrors {
					fmt.Fprintln(out, "- "+e)
				}
				return nil
			}

			fmt.Fprintln(out, ui.Good.Render(ui.IconDone+" workout logged"))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d (str %d / sta %d / agi %d)",
				res.Awarded.XPTotal, res.Awarded.XPStrength, res.Awarded.XPStamina, res.Awarded.XPAgility)))
			fmt.Fprintln(out, ui.LabelValue("Multiplier", fmt.Sprintf("%.2f", v.XPMultiplier)))
			for _, r := range v.SuspiciousReasons {
				fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" "+r))
			}
			if res.LevelUp {
				fmt.Fprintf(out, "%s %d → %d\n", ui.BadgeLevelUp, res.LevelBefore, res.LevelAfter)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "JSON file describing the session")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
