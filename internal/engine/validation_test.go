package engine

import (
	"strings"
	"testing"
)

func benchPress(sets int, reps int, weightLbs float64) ExercisePerformance {
	ex := ExercisePerformance{Name: "Bench Press", Category: CategoryStrength}
	for i := 0; i < sets; i++ {
		ex.Sets = append(ex.Sets, SetPerformance{Reps: reps, WeightLbs: weightLbs, Completed: true})
	}
	return ex
}

func TestValidateDurationFloor(t *testing.T) {
	cfg := DefaultValidationConfig()
	res := ValidateWorkout(cfg, []ExercisePerformance{benchPress(3, 8, 100)}, 3, 180, 7)
	if res.IsValid {
		t.Fatalf("3 min workout must be invalid")
	}
	if len(res.ValidationErrors) == 0 {
		t.Fatalf("expected a validation error")
	}
}

func TestValidateMultiplierBounds(t *testing.T) {
	cfg := DefaultValidationConfig()

	inputs := []struct {
		perfs    []ExercisePerformance
		duration int
		bw       float64
		rpe      float64
	}{
		{nil, 60, 180, 5},
		{[]ExercisePerformance{benchPress(3, 8, 100)}, 40, 180, 7},
		{[]ExercisePerformance{benchPress(50, 1, 900)}, 6, 150, 10}, // everything suspicious
		{[]ExercisePerformance{benchPress(1, 0, 0)}, 30, 180, 1},
		{[]ExercisePerformance{benchPress(4, 10, 135)}, 45, 180, 8}, // clean bonus path
	}
	for i, in := range inputs {
		res := ValidateWorkout(cfg, in.perfs, in.duration, in.bw, in.rpe)
		if res.XPMultiplier < 0.1 || res.XPMultiplier > 2.0 {
			t.Fatalf("case %d: multiplier %v out of [0.1, 2.0]", i, res.XPMultiplier)
		}
	}
}

func TestValidateImplausibleWeight(t *testing.T) {
	cfg := DefaultValidationConfig()
	res := ValidateWorkout(cfg, []ExercisePerformance{benchPress(3, 5, 700)}, 40, 180, 8)
	if !res.IsValid {
		t.Fatalf("soft checks must not invalidate: %+v", res)
	}
	found := false
	for _, r := range res.SuspiciousReasons {
		if strings.Contains(r, "bodyweight") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a bodyweight-ratio flag, got %v", res.SuspiciousReasons)
	}
	if res.XPMultiplier >= 1.0 {
		t.Fatalf("implausible weight should discount, got %v", res.XPMultiplier)
	}
}

func TestValidateTooFast(t *testing.T) {
	cfg := DefaultValidationConfig()
	// 20 heavy sets crammed into 6 minutes.
	res := ValidateWorkout(cfg, []ExercisePerformance{benchPress(20, 10, 135)}, 6, 180, 9)
	found := false
	for _, r := range res.SuspiciousReasons {
		if strings.Contains(r, "too fast") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a too-fast flag, got %v", res.SuspiciousReasons)
	}
}

func TestCalculateValidatedXPTypicalSession(t *testing.T) {
	cfg := DefaultValidationConfig()
	out := CalculateValidatedXP(cfg, []ExercisePerformance{benchPress(3, 8, 100)}, 40, 180, 7)

	v := out.Validation
	if !v.IsValid {
		t.Fatalf("expected valid session: %+v", v)
	}
	if len(v.SuspiciousReasons) != 0 {
		t.Fatalf("expected no suspicious flags, got %v", v.SuspiciousReasons)
	}
	if v.XPMultiplier < 1.0 || v.XPMultiplier > 1.2 {
		t.Fatalf("multiplier %v, want within [1.0, 1.2]", v.XPMultiplier)
	}
	if out.XPTotal <= 0 {
		t.Fatalf("expected positive XP, got %+v", out)
	}
	if out.XPStrength <= out.XPStamina || out.XPStrength <= out.XPAgility {
		t.Fatalf("strength should dominate a resistance session: %+v", out)
	}
}

func TestCalculateValidatedXPRejection(t *testing.T) {
	cfg := DefaultValidationConfig()
	out := CalculateValidatedXP(cfg, []ExercisePerformance{benchPress(3, 8, 100)}, 2, 180, 15)

	if out.Validation.IsValid {
		t.Fatalf("expected rejection")
	}
	if len(out.Validation.ValidationErrors) != 2 {
		t.Fatalf("expected 2 validation errors (duration, RPE), got %v", out.Validation.ValidationErrors)
	}
	if out.XPTotal != 0 || out.XPStrength != 0 || out.XPStamina != 0 || out.XPAgility != 0 {
		t.Fatalf("rejected session must award zero XP, got %+v", out)
	}
}

func TestValidateCleanSessionBonus(t *testing.T) {
	cfg := DefaultValidationConfig()
	// Enough density for the expected RPE to land near the report.
	perfs := []ExercisePerformance{benchPress(12, 8, 135)}
	res := ValidateWorkout(cfg, perfs, 45, 180, 9)
	if !res.IsValid || len(res.SuspiciousReasons) != 0 {
		t.Fatalf("expected a clean session: %+v", res)
	}
	if res.XPMultiplier <= 1.0 {
		t.Fatalf("clean long session should earn the bonus, got %v", res.XPMultiplier)
	}
}

func TestValidateNoBonusWithoutSets(t *testing.T) {
	cfg := DefaultValidationConfig()
	// A long in-range session with no completed work raises no flags, but it
	// has not earned the clean-session bonus either.
	res := ValidateWorkout(cfg, nil, 60, 180, 5)
	if !res.IsValid {
		t.Fatalf("empty session within bounds should pass validation: %+v", res)
	}
	if res.XPMultiplier != 1.0 {
		t.Fatalf("multiplier=%v, want 1.0 for a session with no sets", res.XPMultiplier)
	}
}
