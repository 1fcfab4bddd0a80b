package loader

import (
	"context"
	"fmt"
	"sync"

	"soda-game/internal/database"
	"soda-game/internal/domain"
	"soda-game/internal/repository"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SQLiteLoader runs SELECT * against each collection table of a packaged
// game database.
type SQLiteLoader struct {
	path   string
	logger zerolog.Logger
}

func NewSQLiteLoader(path string, logger zerolog.Logger) *SQLiteLoader {
	return &SQLiteLoader{path: path, logger: logger}
}

func (l *SQLiteLoader) Source() string { return l.path }

func (l *SQLiteLoader) Load(ctx context.Context) (domain.Dataset, error) {
	db, err := database.OpenReadOnly(ctx, l.path, l.logger)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	repo := repository.NewGameDataRepository(db, l.logger)

	var mu sync.Mutex
	ds := make(domain.Dataset, len(domain.Metrics))

	g, gctx := errgroup.WithContext(ctx)
	for _, metric := range domain.Metrics {
		g.Go(func() error {
			rows, err := repo.SelectAll(gctx, metric)
			if err != nil {
				return err
			}

			raw := make([]map[string]any, len(rows))
			for i, r := range rows {
				raw[i] = r
			}
			records, dropped, err := Normalize(metric, raw)
			if err != nil {
				return fmt.Errorf("failed to normalize game data: %w", err)
			}
			if dropped > 0 {
				l.logger.Warn().Str("table", metric.Table()).Int("dropped", dropped).Msg("rows without a value skipped")
			}

			mu.Lock()
			ds[metric] = records
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ds, nil
}
