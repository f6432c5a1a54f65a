package storage

import (
	"context"
	"database/sql"
	"fmt"
)

type DailyProgressRepo struct {
	db dbtx
}

func NewDailyProgressRepo(db *sql.DB) *DailyProgressRepo {
	return &DailyProgressRepo{db: db}
}

// Tx returns a copy of the repo bound to a transaction.
func (r *DailyProgressRepo) Tx(tx *sql.Tx) *DailyProgressRepo {
	return &DailyProgressRepo{db: tx}
}

func (r *DailyProgressRepo) Get(ctx context.Context, userID, date string) (*DailyProgress, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, date, hydration, steps, protein, sleep, xp_awarded, streak_freeze_awarded
		FROM daily_progress
		WHERE user_id = ? AND date = ?
	`, userID, date)

	var d DailyProgress
	err := row.Scan(&d.UserID, &d.Date, &d.Hydration, &d.Steps, &d.Protein, &d.Sleep,
		&d.XPAwarded, &d.StreakFreezeAwarded)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("daily progress get: %w", err)
	}
	return &d, nil
}

// GetOrCreate lazily creates the day's row on first quest interaction.
func (r *DailyProgressRepo) GetOrCreate(ctx context.Context, userID, date string) (*DailyProgress, error) {
	d, err := r.Get(ctx, userID, date)
	if err != nil {
		return nil, err
	}
	if d != nil {
		return d, nil
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO daily_progress (user_id, date) VALUES (?, ?)
		ON CONFLICT(user_id, date) DO NOTHING
	`, userID, date)
	if err != nil {
		return nil, fmt.Errorf("daily progress insert: %w", err)
	}
	return r.Get(ctx, userID, date)
}

func (r *DailyProgressRepo) Update(ctx context.Context, d *DailyProgress) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE daily_progress
		SET hydration = ?, steps = ?, protein = ?, sleep = ?,
			xp_awarded = ?, streak_freeze_awarded = ?
		WHERE user_id = ? AND date = ?
	`, d.Hydration, d.Steps, d.Protein, d.Sleep,
		d.XPAwarded, d.StreakFreezeAwarded,
		d.UserID, d.Date)
	if err != nil {
		return fmt.Errorf("daily progress update: %w", err)
	}
	return nil
}
