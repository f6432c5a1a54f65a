package engine

import "math"

// Progression curves. Both the reward path and the atrophy path must derive
// levels through these two curves and nothing else; level fields are a pure
// function of the matching XP pool.
//
// Early levels are cheap, late levels expensive: floor((level-1)^exponent * coef).

const (
	// CharCurveExponent / CharCurveCoef define the character-level curve.
	CharCurveExponent = 1.8
	CharCurveCoef     = 82.0

	// StatCurveExponent / StatCurveCoef define the per-stat curve
	// (strength, stamina, agility share one tuning).
	StatCurveExponent = 2.0
	StatCurveCoef     = 100.0
)

func xpForLevel(level int, exponent, coef float64) int {
	if level <= 1 {
		return 0
	}
	return int(math.Floor(math.Pow(float64(level-1), exponent) * coef))
}

// levelForXP returns the highest level L >= 1 such that xp >= xpForLevel(L).
// The floor/exponent combination is not cleanly invertible in integers, so the
// level is found by exponential search followed by binary search.
func levelForXP(xp int, exponent, coef float64) int {
	if xp <= 0 {
		return 1
	}

	low := 1
	high := 2
	for xpForLevel(high, exponent, coef) <= xp {
		low = high
		high *= 2
		if high > 1_000_000 {
			break
		}
	}

	for low+1 < high {
		mid := low + (high-low)/2
		if xpForLevel(mid, exponent, coef) <= xp {
			low = mid
		} else {
			high = mid
		}
	}
	return low
}

// CharacterXPForLevel returns the total XP threshold for the given character level.
func CharacterXPForLevel(level int) int {
	return xpForLevel(level, CharCurveExponent, CharCurveCoef)
}

// CharacterLevelForXP returns the character level for the given total XP.
func CharacterLevelForXP(xp int) int {
	return levelForXP(xp, CharCurveExponent, CharCurveCoef)
}

// StatXPForLevel returns the XP threshold for the given stat level.
func StatXPForLevel(level int) int {
	return xpForLevel(level, StatCurveExponent, StatCurveCoef)
}

// StatLevelForXP returns the stat level for the given stat XP pool.
func StatLevelForXP(xp int) int {
	return levelForXP(xp, StatCurveExponent, StatCurveCoef)
}
