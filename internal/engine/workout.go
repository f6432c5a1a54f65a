package engine

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"

	"github.com/rreidmcg/guildfit/internal/storage"
)

// WorkoutResult reports what a completed session earned.
type WorkoutResult struct {
	Awarded     ValidatedXP
	LevelBefore int
	LevelAfter  int
	LevelUp     bool
	SessionID   int64
}

// CompleteWorkout is the reward-grant path: validate the reported session,
// allocate and discount XP, then apply the deltas in a fresh read-modify-write
// of the user row. Rejected sessions persist nothing and earn nothing.
func (s *Service) CompleteWorkout(ctx context.Context, userID string, performances []ExercisePerformance, durationMinutes int, bodyweightLbs float64, reportedRPE float64) (*WorkoutResult, error) {
	awarded := CalculateValidatedXP(s.validation, performances, durationMinutes, bodyweightLbs, reportedRPE)
	if !awarded.Validation.IsValid {
		s.log.WithFields(logrus.Fields{
			"user":   userID,
			"errors": awarded.Validation.ValidationErrors,
		}).Info("workout rejected")
		return &WorkoutResult{Awarded: awarded}, nil
	}

	// Fresh read right before the delta, so a concurrent sweep or quest bonus
	// is not overwritten with stale values.
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	levelBefore := u.Level

	u.Experience += awarded.XPTotal
	u.StrengthXP += awarded.XPStrength
	u.StaminaXP += awarded.XPStamina
	u.AgilityXP += awarded.XPAgility
	recomputeLevels(u)

	today := s.todayFor(u)
	u.LastActivityDate = &today

	// The XP grant and its audit row commit together or not at all.
	var sessionID int64
	err = storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.users.Tx(tx).Update(ctx, u); err != nil {
			return err
		}
		id, err := s.sessions.Tx(tx).Insert(ctx, &storage.WorkoutSession{
			UserID:          userID,
			Date:            today,
			DurationMinutes: durationMinutes,
			XPTotal:         awarded.XPTotal,
			XPStrength:      awarded.XPStrength,
			XPStamina:       awarded.XPStamina,
			XPAgility:       awarded.XPAgility,
			XPMultiplier:    awarded.Validation.XPMultiplier,
		})
		if err != nil {
			return err
		}
		sessionID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	d, err := s.daily.Get(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if err := s.updateStreak(ctx, u, d); err != nil {
		return nil, err
	}

	if len(awarded.Validation.SuspiciousReasons) > 0 {
		s.log.WithFields(logrus.Fields{
			"user":       userID,
			"multiplier": awarded.Validation.XPMultiplier,
			"reasons":    awarded.Validation.SuspiciousReasons,
		}).Info("workout discounted")
	}

	return &WorkoutResult{
		Awarded:     awarded,
		LevelBefore: levelBefore,
		LevelAfter:  u.Level,
		LevelUp:     u.Level > levelBefore,
		SessionID:   sessionID,
	}, nil
}
