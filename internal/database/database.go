// Package database opens the sqlite store and applies the embedded
// migrations.
package database

import (
	"database/sql"
	"embed"
	"fmt"

	"dota-coach/internal/config"
	"dota-coach/internal/constants"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Pragmas applied on open. The write pattern is a single process doing
// frequent small upserts, so WAL with relaxed sync is the right trade.
var pragmas = []string{
	"journal_mode = WAL",
	"synchronous = NORMAL",
	"cache_size = -64000",
	"busy_timeout = 5000",
	"foreign_keys = ON",
	"temp_store = MEMORY",
	"mmap_size = 268435456",
}

// New opens the database at the configured path, tunes the connection pool
// and pragmas, and migrates the schema to head.
func New(cfg *config.Config, logger zerolog.Logger) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}

	db.SetMaxOpenConns(constants.DBMaxOpenConns)
	db.SetMaxIdleConns(constants.DBMaxIdleConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	for _, p := range pragmas {
		if _, err := db.Exec("PRAGMA " + p); err != nil {
			return nil, fmt.Errorf("set pragma %q: %w", p, err)
		}
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	logger.Info().
		Str("path", cfg.DBPath).
		Int("pragmas", len(pragmas)).
		Msg("database ready")
	return db, nil
}

func migrate(db *sql.DB) error {
	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return goose.Up(db, "migrations")
}
