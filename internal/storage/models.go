package storage

import "time"

// User holds the progression state the reward, quest and atrophy paths all
// mutate. Level fields are derived from the matching XP pools and must be
// recomputed whenever XP changes.
type User struct {
	ID       string
	Name     string
	Timezone string

	Experience int
	Level      int

	StrengthXP int
	StaminaXP  int
	AgilityXP  int
	Strength   int
	Stamina    int
	Agility    int

	// Dates are "YYYY-MM-DD" strings in the user's timezone; nil means never.
	LastActivityDate     *string
	AtrophyImmunityUntil *string

	StreakFreezeCount int
	CurrentStreak     int
	LastStreakDate    *string

	CreatedAt time.Time
}

// DailyProgress is one row per user per calendar date. Rows are created lazily
// on first quest interaction and never deleted.
type DailyProgress struct {
	UserID string
	Date   string

	Hydration bool
	Steps     bool
	Protein   bool
	Sleep     bool

	XPAwarded           bool
	StreakFreezeAwarded bool
}

// QuestsDone counts the completed quests on this row.
func (d *DailyProgress) QuestsDone() int {
	n := 0
	for _, b := range []bool{d.Hydration, d.Steps, d.Protein, d.Sleep} {
		if b {
			n++
		}
	}
	return n
}

// WorkoutSession is an audit row for a validated, rewarded session.
type WorkoutSession struct {
	ID              int64
	UserID          string
	Date            string
	DurationMinutes int
	XPTotal         int
	XPStrength      int
	XPStamina       int
	XPAgility       int
	XPMultiplier    float64
	CreatedAt       time.Time
}
