package storage

import (
	"context"
	"database/sql"
	"fmt"
)

func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			timezone TEXT DEFAULT '',

			experience INTEGER DEFAULT 0,
			level INTEGER DEFAULT 1,

			strength_xp INTEGER DEFAULT 0,
			stamina_xp INTEGER DEFAULT 0,
			agility_xp INTEGER DEFAULT 0,
			strength INTEGER DEFAULT 1,
			stamina INTEGER DEFAULT 1,
			agility INTEGER DEFAULT 1,

			last_activity_date TEXT,
			atrophy_immunity_until TEXT,

			streak_freeze_count INTEGER DEFAULT 0,
			current_streak INTEGER DEFAULT 0,
			last_streak_date TEXT,

			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS daily_progress (
			user_id TEXT NOT NULL,
			date TEXT NOT NULL,

			hydration INTEGER DEFAULT 0,
			steps INTEGER DEFAULT 0,
			protein INTEGER DEFAULT 0,
			sleep INTEGER DEFAULT 0,

			xp_awarded INTEGER DEFAULT 0,
			streak_freeze_awarded INTEGER DEFAULT 0,

			PRIMARY KEY (user_id, date),
			FOREIGN KEY(user_id) REFERENCES users(id)
		);`,
		// Audit trail for rewarded sessions; also backs the streak's
		// "worked out today" check.
		`CREATE TABLE IF NOT EXISTS workout_sessions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			date TEXT NOT NULL,
			duration_minutes INTEGER NOT NULL,
			xp_total INTEGER NOT NULL,
			xp_strength INTEGER NOT NULL,
			xp_stamina INTEGER NOT NULL,
			xp_agility INTEGER NOT NULL,
			xp_multiplier REAL NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(user_id) REFERENCES users(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_users_last_activity ON users(last_activity_date);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_user_date ON workout_sessions(user_id, date);`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
