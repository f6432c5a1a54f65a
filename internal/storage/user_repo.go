package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type UserRepo struct {
	db dbtx
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

// Tx returns a copy of the repo bound to a transaction.
func (r *UserRepo) Tx(tx *sql.Tx) *UserRepo {
	return &UserRepo{db: tx}
}

const userColumns = `id, name, timezone,
	experience, level,
	strength_xp, stamina_xp, agility_xp, strength, stamina, agility,
	last_activity_date, atrophy_immunity_until,
	streak_freeze_count, current_streak, last_streak_date,
	created_at`

func scanUser(row interface{ Scan(...any) error }) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID, &u.Name, &u.Timezone,
		&u.Experience, &u.Level,
		&u.StrengthXP, &u.StaminaXP, &u.AgilityXP, &u.Strength, &u.Stamina, &u.Agility,
		&u.LastActivityDate, &u.AtrophyImmunityUntil,
		&u.StreakFreezeCount, &u.CurrentStreak, &u.LastStreakDate,
		&u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) Get(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("user get: %w", err)
	}
	return u, nil
}

func (r *UserRepo) Insert(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, name, timezone,
			experience, level,
			strength_xp, stamina_xp, agility_xp, strength, stamina, agility,
			last_activity_date, atrophy_immunity_until,
			streak_freeze_count, current_streak, last_streak_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, u.ID, u.Name, u.Timezone,
		u.Experience, u.Level,
		u.StrengthXP, u.StaminaXP, u.AgilityXP, u.Strength, u.Stamina, u.Agility,
		u.LastActivityDate, u.AtrophyImmunityUntil,
		u.StreakFreezeCount, u.CurrentStreak, u.LastStreakDate)
	if err != nil {
		return fmt.Errorf("user insert: %w", err)
	}
	return nil
}

func (r *UserRepo) Update(ctx context.Context, u *User) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET name = ?, timezone = ?,
			experience = ?, level = ?,
			strength_xp = ?, stamina_xp = ?, agility_xp = ?,
			strength = ?, stamina = ?, agility = ?,
			last_activity_date = ?, atrophy_immunity_until = ?,
			streak_freeze_count = ?, current_streak = ?, last_streak_date = ?
		WHERE id = ?
	`, u.Name, u.Timezone,
		u.Experience, u.Level,
		u.StrengthXP, u.StaminaXP, u.AgilityXP,
		u.Strength, u.Stamina, u.Agility,
		u.LastActivityDate, u.AtrophyImmunityUntil,
		u.StreakFreezeCount, u.CurrentStreak, u.LastStreakDate,
		u.ID)
	if err != nil {
		return fmt.Errorf("user update: %w", err)
	}
	return nil
}

func (r *UserRepo) ListAll(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("user list: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

// ListAtrophyCandidates returns the IDs of users with no qualifying activity
// today and no immunity covering today. Date strings compare lexicographically.
// IDs only: the decay writer re-reads each row fresh before computing deltas.
func (r *UserRepo) ListAtrophyCandidates(ctx context.Context, today string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id
		FROM users
		WHERE (last_activity_date IS NULL OR last_activity_date < ?)
		  AND (atrophy_immunity_until IS NULL OR atrophy_immunity_until < ?)
	`, today, today)
	if err != nil {
		return nil, fmt.Errorf("atrophy candidates: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DecrementStreakFreeze atomically consumes one freeze and stamps today as the
// last activity date. Returns false when no freeze was available.
func (r *UserRepo) DecrementStreakFreeze(ctx context.Context, id string, today string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET streak_freeze_count = streak_freeze_count - 1, last_activity_date = ?
		WHERE id = ? AND streak_freeze_count > 0
	`, today, id)
	if err != nil {
		return false, fmt.Errorf("freeze decrement: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("freeze decrement rows: %w", err)
	}
	return n > 0, nil
}

func collectUsers(rows *sql.Rows) ([]User, error) {
	var users []User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("user scan: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("user rows: %w", err)
	}
	return users, nil
}
