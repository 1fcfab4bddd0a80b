package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"soda-game/internal/domain"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type ImportRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewImportRepository(sqlDB *sql.DB, logger zerolog.Logger) *ImportRepository {
	return &ImportRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// Record stores an import run, assigning an id and timestamp when missing.
func (r *ImportRepository) Record(ctx context.Context, run domain.ImportRun) (domain.ImportRun, error) {
	if run.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return run, fmt.Errorf("failed to generate nanoid: %w", err)
		}
		run.ID = id
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO imports (id, source_dir, file_count, row_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		run.ID, run.SourceDir, run.FileCount, run.RowCount, run.CreatedAt)
	if err != nil {
		return run, fmt.Errorf("failed to record import: %w", err)
	}

	r.logger.Info().
		Str("import_id", run.ID).
		Str("source_dir", run.SourceDir).
		Int("files", run.FileCount).
		Int("rows", run.RowCount).
		Msg("import recorded")
	return run, nil
}

func (r *ImportRepository) List(ctx context.Context, limit int) ([]domain.ImportRun, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, source_dir, file_count, row_count, created_at FROM imports ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list imports: %w", err)
	}
	defer rows.Close()

	var out []domain.ImportRun
	for rows.Next() {
		var run domain.ImportRun
		if err := rows.Scan(&run.ID, &run.SourceDir, &run.FileCount, &run.RowCount, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
