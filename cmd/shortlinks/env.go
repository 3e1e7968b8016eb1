package main

import (
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/joestump/shortlinks/internal/config"
	"github.com/joestump/shortlinks/internal/db"
	"github.com/joestump/shortlinks/internal/logging"
)

// env is what every database-backed command needs.
type env struct {
	cfg *config.Config
	log *zap.Logger
	db  *sqlx.DB
}

// openEnv loads configuration, builds the logger, opens the database, and
// applies pending migrations.
func openEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}

	database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(database, cfg.DB.Driver, log); err != nil {
		_ = database.Close()
		return nil, err
	}
	return &env{cfg: cfg, log: log, db: database}, nil
}

func (e *env) Close() {
	_ = e.log.Sync()
	_ = e.db.Close()
}
