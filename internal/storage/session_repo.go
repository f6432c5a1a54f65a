package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type SessionRepo struct {
	db dbtx
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Tx returns a copy of the repo bound to a transaction.
func (r *SessionRepo) Tx(tx *sql.Tx) *SessionRepo {
	return &SessionRepo{db: tx}
}

func (r *SessionRepo) Insert(ctx context.Context, s *WorkoutSession) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO workout_sessions (user_id, date, duration_minutes,
			xp_total, xp_strength, xp_stamina, xp_agility, xp_multiplier)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, s.UserID, s.Date, s.DurationMinutes,
		s.XPTotal, s.XPStrength, s.XPStamina, s.XPAgility, s.XPMultiplier)
	if err != nil {
		return 0, fmt.Errorf("session insert: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("session last insert id: %w", err)
	}
	return id, nil
}

// CountOnDate backs the streak rule "at least one workout session today".
func (r *SessionRepo) CountOnDate(ctx context.Context, userID, date string) (int, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM workout_sessions WHERE user_id = ? AND date = ?
	`, userID, date)
	var n int
	if err := row.Scan(&n); err != nil {
		return 0, fmt.Errorf("session count: %w", err)
	}
	return n, nil
}

func (r *SessionRepo) ListByUser(ctx context.Context, userID string, limit int) ([]WorkoutSession, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, date, duration_minutes,
			xp_total, xp_strength, xp_stamina, xp_agility, xp_multiplier, created_at
		FROM workout_sessions
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("session list: %w", err)
	}
	defer rows.Close()

	var sessions []WorkoutSession
	for rows.Next() {
		var s WorkoutSession
		if err := rows.Scan(&s.ID, &s.UserID, &s.Date, &s.DurationMinutes,
			&s.XPTotal, &s.XPStrength, &s.XPStamina, &s.XPAgility, &s.XPMultiplier, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("session scan: %w", err)
		}
		sessions = append(sessions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("session rows: %w", err)
	}
	return sessions, nil
}
