package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"soda-game/internal/constants"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// OpenReadOnly opens a packaged game database for querying. The file must exist.
func OpenReadOnly(ctx context.Context, path string, logger zerolog.Logger) (*sql.DB, error) {
	logger.Info().Str("path", path).Msg("opening game database read-only")

	db, err := open(ctx, fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to open database")
		return nil, err
	}

	if err := applyPragmas(db, readPragmas, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to optimize SQLite: %w", err)
	}
	return db, nil
}

// OpenWritable opens (creating if needed) a game database and migrates it to
// the latest schema.
func OpenWritable(ctx context.Context, path string, logger zerolog.Logger) (*sql.DB, error) {
	logger.Info().Str("path", path).Msg("opening game database")

	db, err := open(ctx, path)
	if err != nil {
		logger.Error().Err(err).Str("path", path).Msg("failed to open database")
		return nil, err
	}

	if err := applyPragmas(db, writePragmas, logger); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to optimize SQLite: %w", err)
	}
	if err := runMigrations(db, logger); err != nil {
		db.Close()
		logger.Error().Err(err).Msg("failed to run migrations")
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info().Msg("database ready")
	return db, nil
}

func open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(constants.DBMaxOpenConns)
	db.SetMaxIdleConns(constants.DBMaxIdleConns)
	db.SetConnMaxLifetime(constants.DBConnMaxLifetime)
	db.SetConnMaxIdleTime(constants.DBMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

func runMigrations(db *sql.DB, logger zerolog.Logger) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to run goose migrations: %w", err)
	}

	logger.Info().Msg("migrations completed successfully")
	return nil
}

type pragma struct {
	name  string
	value string
}

var readPragmas = []pragma{
	{"busy_timeout", "5000"},
	{"cache_size", "-16000"},
	{"temp_store", "MEMORY"},
}

var writePragmas = []pragma{
	{"journal_mode", "DELETE"}, // the file is shipped as a static asset, no -wal sidecar
	{"synchronous", "NORMAL"},
	{"busy_timeout", "5000"},
	{"temp_store", "MEMORY"},
}

func applyPragmas(sqlDB *sql.DB, pragmas []pragma, logger zerolog.Logger) error {
	for _, p := range pragmas {
		query := fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)
		if _, err := sqlDB.Exec(query); err != nil {
			logger.Warn().
				Err(err).
				Str("pragma", p.name).
				Str("value", p.value).
				Msg("failed to set pragma")
			return fmt.Errorf("failed to set PRAGMA %s: %w", p.name, err)
		}
		logger.Debug().
			Str("pragma", p.name).
			Str("value", p.value).
			Msg("SQLite pragma set")
	}

	return nil
}
