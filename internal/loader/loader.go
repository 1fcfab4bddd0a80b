// Package loader reads the packaged game dataset and normalizes every
// collection onto domain.Record.
package loader

import (
	"context"
	"fmt"
	"strings"

	"soda-game/internal/api"
	"soda-game/internal/config"
	"soda-game/internal/domain"

	"github.com/rs/zerolog"
)

type Loader interface {
	Load(ctx context.Context) (domain.Dataset, error)
	Source() string
}

// New picks the loader matching DATA_SOURCE.
func New(cfg *config.Config, client *api.DatasetClient, logger zerolog.Logger) (Loader, error) {
	switch cfg.DataSource {
	case config.SourceJSON:
		return NewJSONLoader(cfg.DataPath, client, logger), nil
	case config.SourceSQLite:
		return NewSQLiteLoader(cfg.DBPath, logger), nil
	default:
		return nil, fmt.Errorf("unsupported data source %q", cfg.DataSource)
	}
}

func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
