package engine

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/rreidmcg/guildfit/internal/storage"
)

type QuestType string

const (
	QuestHydration QuestType = "hydration"
	QuestSteps     QuestType = "steps"
	QuestProtein   QuestType = "protein"
	QuestSleep     QuestType = "sleep"
)

func (q QuestType) IsValid() bool {
	switch q {
	case QuestHydration, QuestSteps, QuestProtein, QuestSleep:
		return true
	default:
		return false
	}
}

const (
	// AllQuestsBonusXP is the one-time character XP for finishing all four
	// quests on a date.
	AllQuestsBonusXP = 5

	// MaxStreakFreezes caps the freeze currency earned from quests.
	MaxStreakFreezes = 2

	questActivityThreshold = 2
)

type QuestToggleResult struct {
	Progress      *storage.DailyProgress
	XPGranted     bool
	XPRevoked     bool
	FreezeGranted bool
	FreezeRevoked bool
	CurrentStreak int
}

// ToggleDailyQuest writes one quest boolean for today and settles the two
// completion bonuses. The day's row is created lazily here; no external daily
// reset has to run first. Re-writing the same value never re-grants a bonus,
// and unchecking below a threshold revokes what that threshold granted, so
// toggle-spam nets zero.
func (s *Service) ToggleDailyQuest(ctx context.Context, userID string, quest QuestType, completed bool) (*QuestToggleResult, error) {
	if !quest.IsValid() {
		return nil, fmt.Errorf("invalid quest type: %q", quest)
	}

	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := s.todayFor(u)

	d, err := s.daily.GetOrCreate(ctx, userID, today)
	if err != nil {
		return nil, err
	}

	switch quest {
	case QuestHydration:
		d.Hydration = completed
	case QuestSteps:
		d.Steps = completed
	case QuestProtein:
		d.Protein = completed
	case QuestSleep:
		d.Sleep = completed
	}

	res := &QuestToggleResult{Progress: d}
	done := d.QuestsDone()

	// All-four bonus, idempotent per (user, date) via the awarded flag.
	if done == 4 && !d.XPAwarded {
		u.Experience += AllQuestsBonusXP
		recomputeLevels(u)
		d.XPAwarded = true
		res.XPGranted = true
	} else if done < 4 && d.XPAwarded {
		u.Experience -= AllQuestsBonusXP
		if u.Experience < 0 {
			u.Experience = 0
		}
		recomputeLevels(u)
		d.XPAwarded = false
		res.XPRevoked = true
	}

	// Two-quest freeze bonus, capped.
	if done >= questActivityThreshold && !d.StreakFreezeAwarded && u.StreakFreezeCount < MaxStreakFreezes {
		u.StreakFreezeCount++
		d.StreakFreezeAwarded = true
		res.FreezeGranted = true
	} else if done < questActivityThreshold && d.StreakFreezeAwarded {
		u.StreakFreezeCount--
		if u.StreakFreezeCount < 0 {
			u.StreakFreezeCount = 0
		}
		d.StreakFreezeAwarded = false
		res.FreezeRevoked = true
	}

	if done >= questActivityThreshold {
		u.LastActivityDate = &today
	}

	// The quest flag and the bonus it granted must land together.
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.daily.Tx(tx).Update(ctx, d); err != nil {
			return err
		}
		return s.users.Tx(tx).Update(ctx, u)
	})
	if err != nil {
		return nil, err
	}

	if err := s.updateStreak(ctx, u, d); err != nil {
		return nil, err
	}
	res.CurrentStreak = u.CurrentStreak

	s.log.WithFields(logrus.Fields{
		"user": userID, "quest": string(quest), "completed": completed, "done": done,
	}).Debug("quest toggled")
	return res, nil
}

// UpdateStreak re-evaluates the consecutive-day streak for the user's today.
func (s *Service) UpdateStreak(ctx context.Context, userID string) error {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	today := s.todayFor(u)
	d, err := s.daily.Get(ctx, userID, today)
	if err != nil {
		return err
	}
	return s.updateStreak(ctx, u, d)
}

// updateStreak: today counts when at least two quests are done or at least one
// workout session was logged today. u and d are the caller's fresh reads.
func (s *Service) updateStreak(ctx context.Context, u *storage.User, d *storage.DailyProgress) error {
	today := s.todayFor(u)
	yesterday, err := addDays(today, -1)
	if err != nil {
		return err
	}

	met := d != nil && d.QuestsDone() >= questActivityThreshold
	if !met {
		n, err := s.sessions.CountOnDate(ctx, u.ID, today)
		if err != nil {
			return err
		}
		met = n > 0
	}

	changed := false
	switch {
	case met:
		if u.LastStreakDate != nil && *u.LastStreakDate == today {
			break // already counted today
		}
		if u.LastStreakDate != nil && *u.LastStreakDate == yesterday {
			u.CurrentStreak++
		} else {
			u.CurrentStreak = 1
		}
		u.LastStreakDate = &today
		changed = true
	case u.LastStreakDate != nil && *u.LastStreakDate < yesterday:
		u.CurrentStreak = 0
		u.LastStreakDate = nil
		changed = true
	}

	if changed {
		return s.users.Update(ctx, u)
	}
	return nil
}
