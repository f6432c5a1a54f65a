package engine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/rreidmcg/guildfit/internal/storage"
)

type Service struct {
	db       *sql.DB
	users    *storage.UserRepo
	daily    *storage.DailyProgressRepo
	sessions *storage.SessionRepo

	validation ValidationConfig
	log        *logrus.Logger

	// now is swappable for tests.
	now func() time.Time
}

func NewService(db *sql.DB, log *logrus.Logger) *Service {
	if log == nil {
		log = logrus.New()
	}
	return &Service{
		db:         db,
		users:      storage.NewUserRepo(db),
		daily:      storage.NewDailyProgressRepo(db),
		sessions:   storage.NewSessionRepo(db),
		validation: DefaultValidationConfig(),
		log:        log,
		now:        time.Now,
	}
}

func (s *Service) UserRepo() *storage.UserRepo            { return s.users }
func (s *Service) DailyRepo() *storage.DailyProgressRepo  { return s.daily }
func (s *Service) SessionRepo() *storage.SessionRepo      { return s.sessions }
func (s *Service) ValidationConfig() ValidationConfig     { return s.validation }
func (s *Service) SetValidationConfig(c ValidationConfig) { s.validation = c }

// todayFor returns the current calendar date in the user's timezone.
func (s *Service) todayFor(u *storage.User) string {
	return formatDate(s.now().In(userLocation(u.Timezone)))
}

// TodayFor exposes the user-local date for display callers.
func (s *Service) TodayFor(u *storage.User) string {
	return s.todayFor(u)
}

// getUser performs a fresh read and heals any drift between stored levels and
// the canonical curves before the caller computes deltas.
func (s *Service) getUser(ctx context.Context, id string) (*storage.User, error) {
	u, err := s.users.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: %s", ErrUserNotFound, id)
	}
	if healed := recomputeLevels(u); healed {
		if err := s.users.Update(ctx, u); err != nil {
			return nil, err
		}
	}
	return u, nil
}

// recomputeLevels derives all level fields from their XP pools. Reports
// whether anything changed.
func recomputeLevels(u *storage.User) bool {
	level := CharacterLevelForXP(u.Experience)
	str := StatLevelForXP(u.StrengthXP)
	sta := StatLevelForXP(u.StaminaXP)
	agi := StatLevelForXP(u.AgilityXP)

	changed := u.Level != level || u.Strength != str || u.Stamina != sta || u.Agility != agi
	u.Level = level
	u.Strength = str
	u.Stamina = sta
	u.Agility = agi
	return changed
}

type CreateUserInput struct {
	Name     string
	Timezone string
}

// CreateUser seeds a fresh progression row and grants the new-user atrophy
// immunity window.
func (s *Service) CreateUser(ctx context.Context, in CreateUserInput) (*storage.User, error) {
	u := &storage.User{
		ID:       uuid.NewString(),
		Name:     in.Name,
		Timezone: in.Timezone,
		Level:    1,
		Strength: 1,
		Stamina:  1,
		Agility:  1,
	}

	today := s.todayFor(u)
	immunity, err := addDays(today, NewUserImmunityDays)
	if err != nil {
		return nil, err
	}
	u.LastActivityDate = &today
	u.AtrophyImmunityUntil = &immunity

	if err := s.users.Insert(ctx, u); err != nil {
		return nil, err
	}
	s.log.WithFields(logrus.Fields{"user": u.ID, "immunity_until": immunity}).Info("user created")
	return u, nil
}
