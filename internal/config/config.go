package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	// DefaultSweepHour is the local hour at which the daily atrophy sweep runs.
	DefaultSweepHour = 3
)

// Config holds the process-level settings, read from the environment (an
// optional .env file is loaded first).
type Config struct {
	DBPath    string
	SweepHour int
	LogLevel  string
}

// Load reads configuration from .env (if present) and the environment.
func Load() (*Config, error) {
	// Missing .env is fine; the environment still applies.
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:    os.Getenv("GUILDFIT_DB"),
		SweepHour: DefaultSweepHour,
		LogLevel:  os.Getenv("GUILDFIT_LOG_LEVEL"),
	}

	if v := os.Getenv("GUILDFIT_SWEEP_HOUR"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil || h < 0 || h > 23 {
			return nil, fmt.Errorf("invalid GUILDFIT_SWEEP_HOUR: %q", v)
		}
		cfg.SweepHour = h
	}
	return cfg, nil
}
