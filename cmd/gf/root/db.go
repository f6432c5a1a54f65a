package root

import (
	"context"
	"database/sql"

	"github.com/sirupsen/logrus"

	"github.com/rreidmcg/guildfit/internal/config"
	"github.com/rreidmcg/guildfit/internal/engine"
	"github.com/rreidmcg/guildfit/internal/storage"
)

func newLogger(cfg *config.Config) *logrus.Logger {
	log := logrus.New()
	if cfg.LogLevel != "" {
		if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
			log.SetLevel(lvl)
		}
	}
	return log
}

func openDB(ctx context.Context, cfg *config.Config) (*sql.DB, func(), error) {
	path := cfg.DBPath
	if path == "" {
		var err error
		path, err = storage.DefaultDBPath()
		if err != nil {
			return nil, nil, err
		}
	}
	db, err := storage.Open(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

func openService(ctx context.Context) (*engine.Service, *config.Config, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	db, cleanup, err := openDB(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return engine.NewService(db, newLogger(cfg)), cfg, cleanup, nil
}
