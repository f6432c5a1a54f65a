package engine

import (
	"context"
	"database/sql"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/rreidmcg/guildfit/internal/storage"
)

const (
	// AtrophyRate is the daily decay fraction applied to every XP pool.
	AtrophyRate = 0.01

	// NewUserImmunityDays is the grace window granted at account creation.
	NewUserImmunityDays = 7
)

// SweepFailure records one user whose decay could not be applied. Failures
// never abort the sweep.
type SweepFailure struct {
	UserID string
	Err    error
}

// SweepResult summarizes one atrophy pass.
type SweepResult struct {
	Scanned  int
	Decayed  int
	Failures []SweepFailure
}

// ProcessAtrophy runs one daily decay sweep: every user with no qualifying
// activity today and no immunity covering today loses a fixed fraction of
// every XP pool. Intended to be triggered once per day by a scheduler.
func (s *Service) ProcessAtrophy(ctx context.Context) (*SweepResult, error) {
	today := formatDate(s.now())
	ids, err := s.users.ListAtrophyCandidates(ctx, today)
	if err != nil {
		return nil, err
	}
	res := s.sweepUsers(ctx, ids, today)

	s.log.WithFields(logrus.Fields{
		"scanned": res.Scanned,
		"decayed": res.Decayed,
		"failed":  len(res.Failures),
	}).Info("atrophy sweep done")
	return res, nil
}

func (s *Service) sweepUsers(ctx context.Context, ids []string, today string) *SweepResult {
	res := &SweepResult{Scanned: len(ids)}
	for _, id := range ids {
		decayed, err := s.applyAtrophy(ctx, id, today)
		if err != nil {
			// One corrupt record must not starve the rest of the sweep.
			s.log.WithFields(logrus.Fields{"user": id}).WithError(err).Warn("atrophy failed")
			res.Failures = append(res.Failures, SweepFailure{UserID: id, Err: err})
			continue
		}
		if decayed {
			res.Decayed++
		}
	}
	return res
}

// decayedXP applies the percentage loss with a one-point floor: any positive
// pool loses at least 1 XP, or pure percentage decay would round to zero
// forever for small balances.
func decayedXP(xp int) int {
	if xp <= 0 {
		return 0
	}
	loss := int(math.Floor(float64(xp) * AtrophyRate))
	if loss < 1 {
		loss = 1
	}
	xp -= loss
	if xp < 0 {
		xp = 0
	}
	return xp
}

// applyAtrophy decays all four XP pools and recomputes the derived levels.
// Level-down is allowed; displayed levels always match the pools.
//
// Each user is its own transaction with a fresh read, and eligibility is
// re-checked against the live row: a workout or quest bonus landing between
// candidate selection and this write must neither be overwritten nor decayed.
func (s *Service) applyAtrophy(ctx context.Context, userID string, today string) (bool, error) {
	decayed := false
	err := storage.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		users := s.users.Tx(tx)
		u, err := users.Get(ctx, userID)
		if err != nil {
			return err
		}
		if u == nil {
			return fmt.Errorf("load user %s: %w", userID, ErrUserNotFound)
		}
		if u.LastActivityDate != nil && *u.LastActivityDate >= today {
			return nil
		}
		if u.AtrophyImmunityUntil != nil && *u.AtrophyImmunityUntil >= today {
			return nil
		}

		u.Experience = decayedXP(u.Experience)
		u.StrengthXP = decayedXP(u.StrengthXP)
		u.StaminaXP = decayedXP(u.StaminaXP)
		u.AgilityXP = decayedXP(u.AgilityXP)
		recomputeLevels(u)
		if err := users.Update(ctx, u); err != nil {
			return err
		}
		decayed = true
		return nil
	})
	return decayed, err
}

// RecordActivity stamps today as the user's last qualifying activity, shielding
// them from the next sweep. Called on workout completion and when at least two
// daily quests are done.
func (s *Service) RecordActivity(ctx context.Context, userID string) error {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	today := s.todayFor(u)
	u.LastActivityDate = &today
	return s.users.Update(ctx, u)
}

// GrantNewUserImmunity opens the grace window for a fresh account.
func (s *Service) GrantNewUserImmunity(ctx context.Context, userID string) error {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	today := s.todayFor(u)
	immunity, err := addDays(today, NewUserImmunityDays)
	if err != nil {
		return err
	}
	u.LastActivityDate = &today
	u.AtrophyImmunityUntil = &immunity
	return s.users.Update(ctx, u)
}

type FreezeResult struct {
	Success          bool
	RemainingFreezes int
}

// UseStreakFreeze consumes one freeze as a manual atrophy skip. The
// check-and-decrement is a single conditional update, so concurrent calls
// cannot double-spend.
func (s *Service) UseStreakFreeze(ctx context.Context, userID string) (*FreezeResult, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := s.todayFor(u)

	ok, err := s.users.DecrementStreakFreeze(ctx, userID, today)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &FreezeResult{Success: false, RemainingFreezes: u.StreakFreezeCount}, nil
	}

	u, err = s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &FreezeResult{Success: true, RemainingFreezes: u.StreakFreezeCount}, nil
}

type AtrophyStatus struct {
	DaysInactive   int
	HasImmunity    bool
	IsAtRisk       bool
	ImmunityEndsOn string
}

// GetUserAtrophyStatus is a read-only projection for display purposes.
func (s *Service) GetUserAtrophyStatus(ctx context.Context, userID string) (*AtrophyStatus, error) {
	u, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	today := s.todayFor(u)

	st := &AtrophyStatus{}
	if u.LastActivityDate != nil {
		st.DaysInactive = daysBetween(*u.LastActivityDate, today)
		if st.DaysInactive < 0 {
			st.DaysInactive = 0
		}
	}
	if u.AtrophyImmunityUntil != nil && *u.AtrophyImmunityUntil >= today {
		st.HasImmunity = true
		st.ImmunityEndsOn = *u.AtrophyImmunityUntil
	}
	st.IsAtRisk = (u.LastActivityDate == nil || st.DaysInactive >= 1) && !st.HasImmunity
	return st, nil
}
