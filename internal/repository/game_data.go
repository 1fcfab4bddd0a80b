package repository

import (
	"context"
	"database/sql"
	"fmt"

	"soda-game/internal/domain"

	"github.com/rs/zerolog"
)

// Row is one result row keyed by column name. Column order in packaged
// databases varies between preparation tool versions, so callers map by name.
type Row map[string]any

type GameDataRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewGameDataRepository(sqlDB *sql.DB, logger zerolog.Logger) *GameDataRepository {
	return &GameDataRepository{
		db:     sqlDB,
		logger: logger,
	}
}

// SelectAll runs SELECT * against the metric's table.
func (r *GameDataRepository) SelectAll(ctx context.Context, metric domain.Metric) ([]Row, error) {
	if _, err := domain.ParseMetric(string(metric)); err != nil {
		return nil, err
	}

	// table names come from the fixed metric list, never from user input
	rows, err := r.db.QueryContext(ctx, fmt.Sprintf("SELECT * FROM %s", metric.Table()))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", metric, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s columns: %w", metric, err)
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", metric, err)
		}

		row := make(Row, len(cols))
		for i, c := range cols {
			row[c] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate %s rows: %w", metric, err)
	}

	r.logger.Debug().Str("table", metric.Table()).Int("rows", len(out)).Msg("table loaded")
	return out, nil
}

// ReplaceAll swaps the contents of every table for the given dataset in one
// transaction and returns the number of rows written.
func (r *GameDataRepository) ReplaceAll(ctx context.Context, ds domain.Dataset) (int, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	total := 0
	for _, metric := range domain.Metrics {
		if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", metric.Table())); err != nil {
			return 0, fmt.Errorf("failed to clear %s: %w", metric, err)
		}

		n, err := insertRecords(ctx, tx, metric, ds[metric])
		if err != nil {
			return 0, err
		}
		total += n

		r.logger.Debug().Str("table", metric.Table()).Int("rows", n).Msg("table written")
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return total, nil
}

func insertRecords(ctx context.Context, tx *sql.Tx, metric domain.Metric, records []domain.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	query := fmt.Sprintf("INSERT INTO %s (year, game_num, week_num, role, value) VALUES (?, ?, ?, ?, ?)", metric.Table())
	if !metric.HasRole() {
		query = fmt.Sprintf("INSERT INTO %s (year, game_num, week_num, value) VALUES (?, ?, ?, ?)", metric.Table())
	}

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare %s insert: %w", metric, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		args := []any{rec.Year, rec.GameNum, rec.WeekNum, string(rec.Role), rec.Value}
		if !metric.HasRole() {
			args = []any{rec.Year, rec.GameNum, rec.WeekNum, rec.Value}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("failed to insert %s row (year=%s game=%d week=%d role=%s): %w",
				metric, rec.Year, rec.GameNum, rec.WeekNum, rec.Role, err)
		}
	}
	return len(records), nil
}
