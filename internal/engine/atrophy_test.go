package engine

import (
	"context"
	"errors"
	"testing"
)

func TestDecayedXP(t *testing.T) {
	cases := []struct{ in, want int }{
		{0, 0},
		{1, 0},    // minimum loss still applies
		{50, 49},  // 1% rounds to zero, floor guarantees 1
		{100, 99},
		{1000, 990},
		{12345, 12222},
	}
	for _, c := range cases {
		if got := decayedXP(c.in); got != c.want {
			t.Fatalf("decayedXP(%d)=%d, want %d", c.in, got, c.want)
		}
	}
}

// makeStale clears the activity stamp and immunity so the user is eligible
// for decay.
func makeStale(t *testing.T, svc *Service, id string) {
	t.Helper()
	ctx := context.Background()
	u, err := svc.UserRepo().Get(ctx, id)
	if err != nil || u == nil {
		t.Fatalf("get user: %v", err)
	}
	u.LastActivityDate = nil
	u.AtrophyImmunityUntil = nil
	if err := svc.UserRepo().Update(ctx, u); err != nil {
		t.Fatalf("update user: %v", err)
	}
}

func TestApplyAtrophyMonotonicDecrease(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := newTestUser(t, svc)
	setUserXP(t, svc, u.ID, 1000, 400, 300, 200)
	makeStale(t, svc, u.ID)

	decayed, err := svc.applyAtrophy(ctx, u.ID, "2026-08-30")
	if err != nil {
		t.Fatalf("applyAtrophy: %v", err)
	}
	if !decayed {
		t.Fatalf("stale user must decay")
	}

	after, err := svc.UserRepo().Get(ctx, u.ID)
	if err != nil {
		t.Fatalf("get after: %v", err)
	}
	if after.Experience > 990 || after.Experience < 0 {
		t.Fatalf("experience=%d, want within [0, 990]", after.Experience)
	}
	if after.StrengthXP != 396 || after.StaminaXP != 297 || after.AgilityXP != 198 {
		t.Fatalf("stat pools after decay: %d/%d/%d", after.StrengthXP, after.StaminaXP, after.AgilityXP)
	}
	if after.Level != CharacterLevelForXP(after.Experience) {
		t.Fatalf("level %d does not match xp %d", after.Level, after.Experience)
	}
	if after.Strength != StatLevelForXP(after.StrengthXP) {
		t.Fatalf("strength level %d does not match xp %d", after.Strength, after.StrengthXP)
	}
}

func TestApplyAtrophyZeroStaysZero(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := newTestUser(t, svc)
	setUserXP(t, svc, u.ID, 0, 0, 0, 0)
	makeStale(t, svc, u.ID)

	if _, err := svc.applyAtrophy(ctx, u.ID, "2026-08-30"); err != nil {
		t.Fatalf("applyAtrophy: %v", err)
	}
	after, _ := svc.UserRepo().Get(ctx, u.ID)
	if after.Experience != 0 || after.StrengthXP != 0 {
		t.Fatalf("zero pools must stay zero: %+v", after)
	}
}

func TestSweepSkipsUserWhoBecameActive(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	setClock(svc, mustDate(t, "2026-08-30"))
	u := newTestUser(t, svc)
	setUserXP(t, svc, u.ID, 1000, 0, 0, 0)
	makeStale(t, svc, u.ID)

	ids, err := svc.UserRepo().ListAtrophyCandidates(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(ids) != 1 {
		t.Fatalf("candidates=%d, want 1", len(ids))
	}

	// A reward lands after candidate selection but before the decay write.
	got, _ := svc.UserRepo().Get(ctx, u.ID)
	today := "2026-08-30"
	got.Experience += 500
	got.LastActivityDate = &today
	if err := svc.UserRepo().Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	res := svc.sweepUsers(ctx, ids, "2026-08-30")
	if res.Decayed != 0 {
		t.Fatalf("active user must not decay: %+v", res)
	}
	after, _ := svc.UserRepo().Get(ctx, u.ID)
	if after.Experience != 1500 {
		t.Fatalf("experience=%d, want 1500 untouched", after.Experience)
	}
	if after.LastActivityDate == nil || *after.LastActivityDate != today {
		t.Fatalf("activity stamp lost: %v", after.LastActivityDate)
	}
}

func TestSweepDecaysLiveBalance(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	setClock(svc, mustDate(t, "2026-08-30"))
	u := newTestUser(t, svc)
	setUserXP(t, svc, u.ID, 1000, 0, 0, 0)
	makeStale(t, svc, u.ID)

	ids, err := svc.UserRepo().ListAtrophyCandidates(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}

	// XP earned after selection, user still inactive today. Decay must apply
	// to the live balance, not the selection-time one.
	got, _ := svc.UserRepo().Get(ctx, u.ID)
	got.Experience += 500
	if err := svc.UserRepo().Update(ctx, got); err != nil {
		t.Fatalf("update: %v", err)
	}

	res := svc.sweepUsers(ctx, ids, "2026-08-30")
	if res.Decayed != 1 {
		t.Fatalf("decayed=%d, want 1", res.Decayed)
	}
	after, _ := svc.UserRepo().Get(ctx, u.ID)
	if after.Experience != 1485 {
		t.Fatalf("experience=%d, want 1485 (1%% of 1500)", after.Experience)
	}
}

func TestSweepContinuesPastFailure(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	setClock(svc, mustDate(t, "2026-08-30"))
	broken := newTestUser(t, svc)
	makeStale(t, svc, broken.ID)
	healthy := newTestUser(t, svc)
	setUserXP(t, svc, healthy.ID, 1000, 0, 0, 0)
	makeStale(t, svc, healthy.ID)

	ids, err := svc.UserRepo().ListAtrophyCandidates(ctx, "2026-08-30")
	if err != nil {
		t.Fatalf("candidates: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("candidates=%d, want 2", len(ids))
	}

	// Row vanishes between selection and decay.
	if _, err := svc.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, broken.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	res := svc.sweepUsers(ctx, ids, "2026-08-30")
	if res.Scanned != 2 {
		t.Fatalf("scanned=%d, want 2", res.Scanned)
	}
	if res.Decayed != 1 {
		t.Fatalf("decayed=%d, want 1", res.Decayed)
	}
	if len(res.Failures) != 1 || res.Failures[0].UserID != broken.ID {
		t.Fatalf("failures=%+v, want one for the missing user", res.Failures)
	}
	if !errors.Is(res.Failures[0].Err, ErrUserNotFound) {
		t.Fatalf("failure err=%v, want ErrUserNotFound", res.Failures[0].Err)
	}
	after, _ := svc.UserRepo().Get(ctx, healthy.ID)
	if after.Experience != 990 {
		t.Fatalf("healthy user experience=%d, want 990", after.Experience)
	}
}

func TestProcessAtrophySkipsImmuneAndActive(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	setClock(svc, mustDate(t, "2026-08-30"))

	// Immune: no activity ever, but immunity covers today.
	immune := newTestUser(t, svc)
	setUserXP(t, svc, immune.ID, 1000, 0, 0, 0)
	iu, _ := svc.UserRepo().Get(ctx, immune.ID)
	future := "2026-09-05"
	iu.LastActivityDate = nil
	iu.AtrophyImmunityUntil = &future
	if err := svc.UserRepo().Update(ctx, iu); err != nil {
		t.Fatalf("update immune: %v", err)
	}

	// Active today.
	active := newTestUser(t, svc)
	setUserXP(t, svc, active.ID, 1000, 0, 0, 0)
	au, _ := svc.UserRepo().Get(ctx, active.ID)
	today := "2026-08-30"
	au.LastActivityDate = &today
	au.AtrophyImmunityUntil = nil
	if err := svc.UserRepo().Update(ctx, au); err != nil {
		t.Fatalf("update active: %v", err)
	}

	// Decayable: stale activity, expired immunity.
	stale := newTestUser(t, svc)
	setUserXP(t, svc, stale.ID, 1000, 100, 100, 100)
	su, _ := svc.UserRepo().Get(ctx, stale.ID)
	old := "2026-08-20"
	su.LastActivityDate = &old
	su.AtrophyImmunityUntil = &old
	if err := svc.UserRepo().Update(ctx, su); err != nil {
		t.Fatalf("update stale: %v", err)
	}

	res, err := svc.ProcessAtrophy(ctx)
	if err != nil {
		t.Fatalf("ProcessAtrophy: %v", err)
	}
	if res.Scanned != 1 || res.Decayed != 1 || len(res.Failures) != 0 {
		t.Fatalf("sweep result %+v, want exactly the stale user", res)
	}

	checkXP := func(id string, want int) {
		t.Helper()
		u, _ := svc.UserRepo().Get(ctx, id)
		if u.Experience != want {
			t.Fatalf("user %s experience=%d, want %d", id, u.Experience, want)
		}
	}
	checkXP(immune.ID, 1000)
	checkXP(active.ID, 1000)
	checkXP(stale.ID, 990)
}

func TestRecordActivityShieldsFromSweep(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	setClock(svc, mustDate(t, "2026-08-30"))

	u := newTestUser(t, svc)
	setUserXP(t, svc, u.ID, 500, 0, 0, 0)
	raw, _ := svc.UserRepo().Get(ctx, u.ID)
	raw.LastActivityDate = nil
	raw.AtrophyImmunityUntil = nil
	if err := svc.UserRepo().Update(ctx, raw); err != nil {
		t.Fatalf("update: %v", err)
	}

	if err := svc.RecordActivity(ctx, u.ID); err != nil {
		t.Fatalf("RecordActivity: %v", err)
	}

	res, err := svc.ProcessAtrophy(ctx)
	if err != nil {
		t.Fatalf("ProcessAtrophy: %v", err)
	}
	if res.Scanned != 0 {
		t.Fatalf("recorded activity should exclude from sweep: %+v", res)
	}
}

func TestUseStreakFreeze(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	setClock(svc, mustDate(t, "2026-08-30"))

	u := newTestUser(t, svc)
	raw, _ := svc.UserRepo().Get(ctx, u.ID)
	raw.StreakFreezeCount = 1
	raw.LastActivityDate = nil
	if err := svc.UserRepo().Update(ctx, raw); err != nil {
		t.Fatalf("update: %v", err)
	}

	res, err := svc.UseStreakFreeze(ctx, u.ID)
	if err != nil {
		t.Fatalf("UseStreakFreeze: %v", err)
	}
	if !res.Success || res.RemainingFreezes != 0 {
		t.Fatalf("freeze result %+v", res)
	}

	after, _ := svc.UserRepo().Get(ctx, u.ID)
	if after.LastActivityDate == nil || *after.LastActivityDate != "2026-08-30" {
		t.Fatalf("freeze should stamp today as activity: %+v", after.LastActivityDate)
	}

	// Second spend has nothing left.
	res, err = svc.UseStreakFreeze(ctx, u.ID)
	if err != nil {
		t.Fatalf("UseStreakFreeze second: %v", err)
	}
	if res.Success {
		t.Fatalf("expected failure with zero freezes")
	}
}

func TestGetUserAtrophyStatus(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	setClock(svc, mustDate(t, "2026-08-30"))

	u := newTestUser(t, svc)
	raw, _ := svc.UserRepo().Get(ctx, u.ID)
	old := "2026-08-27"
	raw.LastActivityDate = &old
	raw.AtrophyImmunityUntil = nil
	if err := svc.UserRepo().Update(ctx, raw); err != nil {
		t.Fatalf("update: %v", err)
	}

	st, err := svc.GetUserAtrophyStatus(ctx, u.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if st.DaysInactive != 3 || !st.IsAtRisk || st.HasImmunity {
		t.Fatalf("status %+v, want 3 days inactive and at risk", st)
	}

	// Immunity flips the risk off.
	future := "2026-09-02"
	raw.AtrophyImmunityUntil = &future
	if err := svc.UserRepo().Update(ctx, raw); err != nil {
		t.Fatalf("update: %v", err)
	}
	st, err = svc.GetUserAtrophyStatus(ctx, u.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !st.HasImmunity || st.IsAtRisk || st.ImmunityEndsOn != future {
		t.Fatalf("status %+v, want immune", st)
	}
}
