package engine

import (
	"fmt"
	"math"
)

type ExerciseCategory string

const (
	CategoryStrength    ExerciseCategory = "strength"
	CategoryCardio      ExerciseCategory = "cardio"
	CategoryCore        ExerciseCategory = "core"
	CategoryPlyometric  ExerciseCategory = "plyometric"
	CategoryBalance     ExerciseCategory = "balance"
	CategoryFlexibility ExerciseCategory = "flexibility"
)

// SetPerformance is one reported set. Rep-based categories fill Reps,
// time-based categories fill DurationSeconds.
type SetPerformance struct {
	Reps            int
	DurationSeconds int
	WeightLbs       float64
	Completed       bool
}

// ExercisePerformance is one exercise within a reported session.
type ExercisePerformance struct {
	Name     string
	Category ExerciseCategory
	Sets     []SetPerformance
}

// ValidationConfig holds the plausibility tunables.
type ValidationConfig struct {
	MinWorkoutDuration int // minutes
	MaxWorkoutDuration int // minutes
	MinRPE             float64
	MaxRPE             float64

	MinCompletedSets int

	// Minimum plausible work per completed set: reps for rep-based
	// categories, seconds for time-based ones.
	MinWorkPerSet map[ExerciseCategory]int

	MaxWeightBodyweightRatio float64
	RestSecondsPerSet        float64
	RPEConsistencyWindow     float64
}

func DefaultValidationConfig() ValidationConfig {
	return ValidationConfig{
		MinWorkoutDuration: 5,
		MaxWorkoutDuration: 300,
		MinRPE:             1,
		MaxRPE:             10,
		MinCompletedSets:   1,
		MinWorkPerSet: map[ExerciseCategory]int{
			CategoryStrength:    1,
			CategoryCardio:      30,
			CategoryCore:        5,
			CategoryPlyometric:  3,
			CategoryBalance:     10,
			CategoryFlexibility: 15,
		},
		MaxWeightBodyweightRatio: 3.0,
		RestSecondsPerSet:        75,
		RPEConsistencyWindow:     3,
	}
}

// ValidationResult is a normal return value, never an error: hard-bound
// failures reject (IsValid=false, zero XP), soft findings only discount.
type ValidationResult struct {
	IsValid           bool
	ValidationErrors  []string
	XPMultiplier      float64
	SuspiciousReasons []string
}

const (
	minXPMultiplier = 0.1
	maxXPMultiplier = 2.0

	// sets-per-minute to 1-10 intensity: one set per five minutes
	// saturates the scale.
	intensityPerSetRate = 50.0

	cleanSessionBonus       = 1.2
	cleanSessionMinDuration = 30

	shortSetPenalty    = 0.7
	heavyWeightPenalty = 0.8
	rpeMismatchPenalty = 0.85
	tooFastPenalty     = 0.6
	noSetsPenalty      = 0.9
)

func isTimeBased(cat ExerciseCategory) bool {
	switch cat {
	case CategoryCardio, CategoryBalance, CategoryFlexibility:
		return true
	default:
		return false
	}
}

// setWorkSeconds estimates the time spent performing one completed set.
func setWorkSeconds(cat ExerciseCategory, set SetPerformance) float64 {
	if isTimeBased(cat) {
		return float64(set.DurationSeconds)
	}
	perRep := 3.0
	switch cat {
	case CategoryCore:
		perRep = 2.0
	case CategoryPlyometric:
		perRep = 1.5
	}
	return float64(set.Reps) * perRep
}

func setWorkAmount(cat ExerciseCategory, set SetPerformance) int {
	if isTimeBased(cat) {
		return set.DurationSeconds
	}
	return set.Reps
}

// ValidateWorkout applies all plausibility stages to a reported session and
// produces the confidence multiplier for the raw XP. All checks run even after
// a hard bound fires, for diagnostic completeness.
func ValidateWorkout(cfg ValidationConfig, performances []ExercisePerformance, durationMinutes int, bodyweightLbs float64, reportedRPE float64) ValidationResult {
	res := ValidationResult{IsValid: true, XPMultiplier: 1.0}
	confidence := 1.0

	// Hard bounds.
	if durationMinutes < cfg.MinWorkoutDuration {
		res.IsValid = false
		res.ValidationErrors = append(res.ValidationErrors,
			fmt.Sprintf("duration %d min is below the %d min minimum", durationMinutes, cfg.MinWorkoutDuration))
	}
	if durationMinutes > cfg.MaxWorkoutDuration {
		res.IsValid = false
		res.ValidationErrors = append(res.ValidationErrors,
			fmt.Sprintf("duration %d min exceeds the %d min maximum", durationMinutes, cfg.MaxWorkoutDuration))
	}
	if reportedRPE < cfg.MinRPE || reportedRPE > cfg.MaxRPE {
		res.IsValid = false
		res.ValidationErrors = append(res.ValidationErrors,
			fmt.Sprintf("RPE %.0f is outside the %.0f-%.0f range", reportedRPE, cfg.MinRPE, cfg.MaxRPE))
	}

	// Per-exercise soft checks.
	totalCompletedSets := 0
	var estimatedWorkSeconds float64
	for _, ex := range performances {
		completed := 0
		for _, set := range ex.Sets {
			if set.Completed {
				completed++
			}
		}
		if completed < cfg.MinCompletedSets {
			res.SuspiciousReasons = append(res.SuspiciousReasons,
				fmt.Sprintf("%s: only %d completed sets", ex.Name, completed))
			confidence *= noSetsPenalty
			continue
		}
		totalCompletedSets += completed

		minWork := cfg.MinWorkPerSet[ex.Category]
		for _, set := range ex.Sets {
			if !set.Completed {
				continue
			}
			estimatedWorkSeconds += setWorkSeconds(ex.Category, set) + cfg.RestSecondsPerSet

			if work := setWorkAmount(ex.Category, set); work < minWork {
				res.SuspiciousReasons = append(res.SuspiciousReasons,
					fmt.Sprintf("%s: set work %d below minimum %d", ex.Name, work, minWork))
				confidence *= shortSetPenalty
			}
			if set.WeightLbs > 0 && bodyweightLbs > 0 && set.WeightLbs > cfg.MaxWeightBodyweightRatio*bodyweightLbs {
				res.SuspiciousReasons = append(res.SuspiciousReasons,
					fmt.Sprintf("%s: weight %.0f lbs exceeds %.0fx bodyweight", ex.Name, set.WeightLbs, cfg.MaxWeightBodyweightRatio))
				confidence *= heavyWeightPenalty
			}
		}
	}

	// Intensity vs reported RPE.
	rpeDelta := 0.0
	if durationMinutes > 0 && totalCompletedSets > 0 {
		setsPerMinute := float64(totalCompletedSets) / float64(durationMinutes)
		intensity := clampFloat(setsPerMinute*intensityPerSetRate, 1, 10)
		expectedRPE := clampFloat(intensity*0.8+1, 1, 10)
		rpeDelta = math.Abs(reportedRPE - expectedRPE)
		if rpeDelta > cfg.RPEConsistencyWindow {
			res.SuspiciousReasons = append(res.SuspiciousReasons,
				fmt.Sprintf("reported RPE %.0f inconsistent with estimated intensity (expected ~%.1f)", reportedRPE, expectedRPE))
			confidence *= rpeMismatchPenalty
		}
	}

	// Temporal plausibility.
	if estimatedWorkSeconds > 0 {
		actualSeconds := float64(durationMinutes) * 60
		if actualSeconds < 0.5*estimatedWorkSeconds {
			res.SuspiciousReasons = append(res.SuspiciousReasons,
				fmt.Sprintf("duration %d min too fast for reported volume (need ~%.0f min)", durationMinutes, estimatedWorkSeconds/60))
			confidence *= tooFastPenalty
		}
	}

	res.XPMultiplier = clampFloat(confidence, minXPMultiplier, maxXPMultiplier)
	if totalCompletedSets > 0 && durationMinutes >= cleanSessionMinDuration && rpeDelta <= 1 && len(res.SuspiciousReasons) == 0 {
		res.XPMultiplier = math.Min(maxXPMultiplier, res.XPMultiplier*cleanSessionBonus)
	}
	return res
}

const lbsToKg = 0.453592

// activityFromSet converts one completed set into an allocation input.
func activityFromSet(cat ExerciseCategory, set SetPerformance, bodyweightKg, rpe float64) ActivityInput {
	a := ActivityInput{
		BodyweightKg: bodyweightKg,
		RPE:          rpe,
	}
	switch cat {
	case CategoryStrength, CategoryCore:
		a.MovementType = MovementResistance
		a.Sets = 1
		a.Reps = set.Reps
		a.LoadKg = set.WeightLbs * lbsToKg
		a.IntervalSeconds = set.DurationSeconds
	case CategoryCardio:
		a.MovementType = MovementCardio
		a.Minutes = float64(set.DurationSeconds) / 60
	default:
		a.MovementType = MovementSkill
		if set.DurationSeconds > 0 {
			a.Minutes = float64(set.DurationSeconds) / 60
		} else {
			// Rep-based skill work (plyometric): estimate time from reps.
			a.Minutes = float64(set.Reps) * 2.0 / 60
		}
	}
	return a
}

// ValidatedXP is the final XP award for a session: the allocation output
// scaled by the confidence multiplier, with the validation detail attached.
type ValidatedXP struct {
	XPTotal    int
	XPStrength int
	XPStamina  int
	XPAgility  int
	Validation ValidationResult
}

// CalculateValidatedXP is the single entry point a session-completion caller
// should use. Hard-bound failures reject outright: zero XP, no partial credit.
func CalculateValidatedXP(cfg ValidationConfig, performances []ExercisePerformance, durationMinutes int, bodyweightLbs float64, reportedRPE float64) ValidatedXP {
	validation := ValidateWorkout(cfg, performances, durationMinutes, bodyweightLbs, reportedRPE)
	if !validation.IsValid {
		return ValidatedXP{Validation: validation}
	}

	bodyweightKg := bodyweightLbs * lbsToKg
	var activities []ActivityInput
	for _, ex := range performances {
		for _, set := range ex.Sets {
			if !set.Completed {
				continue
			}
			activities = append(activities, activityFromSet(ex.Category, set, bodyweightKg, reportedRPE))
		}
	}

	raw := AllocateSessionXP(activities)
	m := validation.XPMultiplier
	// Each field scales independently; minor drift between total and the sum
	// of channels from rounding is acceptable.
	return ValidatedXP{
		XPTotal:    int(math.Round(float64(raw.Total) * m)),
		XPStrength: int(math.Round(float64(raw.Strength) * m)),
		XPStamina:  int(math.Round(float64(raw.Stamina) * m)),
		XPAgility:  int(math.Round(float64(raw.Agility) * m)),
		Validation: validation,
	}
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
