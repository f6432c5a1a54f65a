package engine

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rreidmcg/guildfit/internal/storage"
)

func newTestService(t *testing.T) (*Service, func()) {
	t.Helper()
	ctx := context.Background()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")
	db, err := storage.Open(ctx, path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	svc := NewService(db, log)
	cleanup := func() {
		_ = db.Close()
	}
	return svc, cleanup
}

// setClock pins the service clock to a fixed instant.
func setClock(svc *Service, t time.Time) {
	svc.now = func() time.Time { return t }
}

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	// Noon keeps date arithmetic clear of DST edges.
	d, err := time.ParseInLocation("2006-01-02 15:04", s+" 12:00", time.Local)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func newTestUser(t *testing.T, svc *Service) *storage.User {
	t.Helper()
	u, err := svc.CreateUser(context.Background(), CreateUserInput{Name: "tester"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func setUserXP(t *testing.T, svc *Service, id string, xp, str, sta, agi int) {
	t.Helper()
	ctx := context.Background()
	u, err := svc.UserRepo().Get(ctx, id)
	if err != nil || u == nil {
		t.Fatalf("get user: %v", err)
	}
	u.Experience = xp
	u.StrengthXP = str
	u.StaminaXP = sta
	u.AgilityXP = agi
	recomputeLevels(u)
	if err := svc.UserRepo().Update(ctx, u); err != nil {
		t.Fatalf("update user: %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()

	_, err := svc.GetUserAtrophyStatus(context.Background(), "nope")
	if err == nil {
		t.Fatalf("expected error for missing user")
	}
}

func TestGetUserHealsLevelDrift(t *testing.T) {
	svc, cleanup := newTestService(t)
	defer cleanup()
	ctx := context.Background()

	u := newTestUser(t, svc)
	u.Experience = CharacterXPForLevel(5)
	u.Level = 1 // deliberately stale
	if err := svc.UserRepo().Update(ctx, u); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err := svc.getUser(ctx, u.ID)
	if err != nil {
		t.Fatalf("getUser: %v", err)
	}
	if got.Level != 5 {
		t.Fatalf("level=%d, want 5", got.Level)
	}
}
