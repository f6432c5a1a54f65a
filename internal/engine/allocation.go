package engine

import "math"

type MovementType string

const (
	MovementResistance MovementType = "resistance"
	MovementCardio     MovementType = "cardio"
	MovementSkill      MovementType = "skill"
)

// ActivityInput describes one completed set (resistance) or one continuous
// effort (cardio/skill).
type ActivityInput struct {
	MovementType MovementType

	// Resistance fields.
	Sets            int
	Reps            int
	LoadKg          float64
	IntervalSeconds int

	// Cardio/skill field.
	Minutes float64

	BodyweightKg float64
	RPE          float64 // 1-10, 0 means unreported
}

// SessionXP is a raw XP split across the three stat channels.
// Total is always exactly Strength + Stamina + Agility.
type SessionXP struct {
	Total    int
	Strength int
	Stamina  int
	Agility  int
}

const (
	resistanceXPPerKg  = 0.05
	cardioXPPerMinute  = 2.0
	skillXPPerMinute   = 1.5
	unloadedBodyweight = 0.5 // effective load fraction for unloaded movements
)

// channel split per movement type; strength and stamina shares are explicit,
// agility takes the remainder.
var channelSplits = map[MovementType]struct{ str, sta float64 }{
	MovementResistance: {0.70, 0.20},
	MovementCardio:     {0.10, 0.75},
	MovementSkill:      {0.15, 0.25},
}

func rpeFactor(rpe float64) float64 {
	if rpe <= 0 {
		rpe = 5 // unreported effort is treated as moderate
	}
	if rpe > 10 {
		rpe = 10
	}
	return 0.5 + rpe*0.1
}

func activityRawXP(a ActivityInput) float64 {
	switch a.MovementType {
	case MovementResistance:
		if a.Sets <= 0 || a.Reps <= 0 {
			return 0
		}
		load := a.LoadKg
		if load <= 0 {
			load = a.BodyweightKg * unloadedBodyweight
		}
		return float64(a.Sets*a.Reps) * load * resistanceXPPerKg * rpeFactor(a.RPE)
	case MovementCardio:
		if a.Minutes <= 0 {
			return 0
		}
		return a.Minutes * cardioXPPerMinute * rpeFactor(a.RPE)
	case MovementSkill:
		if a.Minutes <= 0 {
			return 0
		}
		return a.Minutes * skillXPPerMinute * rpeFactor(a.RPE)
	default:
		return 0
	}
}

// AllocateSessionXP converts logged activities into an XP split across the
// strength/stamina/agility channels. Resistance work skews strength, cardio
// skews stamina, skill work skews agility. An empty activity list yields zero.
func AllocateSessionXP(activities []ActivityInput) SessionXP {
	var str, sta, agi float64
	for _, a := range activities {
		raw := activityRawXP(a)
		if raw <= 0 {
			continue
		}
		split, ok := channelSplits[a.MovementType]
		if !ok {
			split = channelSplits[MovementSkill]
		}
		str += raw * split.str
		sta += raw * split.sta
		agi += raw * (1 - split.str - split.sta)
	}

	out := SessionXP{
		Strength: int(math.Round(str)),
		Stamina:  int(math.Round(sta)),
		Agility:  int(math.Round(agi)),
	}
	out.Total = out.Strength + out.Stamina + out.Agility
	return out
}
