package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"soda-game/internal/api"
	"soda-game/internal/domain"

	"github.com/rs/zerolog"
)

// JSONLoader reads a document of the form {"orders": [...], "inventory": [...], ...}
// from a local file or an http(s) URL.
type JSONLoader struct {
	source string
	client *api.DatasetClient
	logger zerolog.Logger
}

func NewJSONLoader(source string, client *api.DatasetClient, logger zerolog.Logger) *JSONLoader {
	return &JSONLoader{source: source, client: client, logger: logger}
}

func (l *JSONLoader) Source() string { return l.source }

func (l *JSONLoader) Load(ctx context.Context) (domain.Dataset, error) {
	body, err := l.read(ctx)
	if err != nil {
		return nil, err
	}
	return l.Decode(body)
}

func (l *JSONLoader) read(ctx context.Context) ([]byte, error) {
	if isRemote(l.source) {
		if l.client == nil {
			return nil, fmt.Errorf("no HTTP client configured for %s", l.source)
		}
		l.logger.Info().Str("url", l.source).Msg("fetching game data")
		return l.client.Fetch(ctx, l.source)
	}

	l.logger.Info().Str("path", l.source).Msg("reading game data")
	body, err := os.ReadFile(l.source)
	if err != nil {
		return nil, fmt.Errorf("failed to read game data: %w", err)
	}
	return body, nil
}

// Decode parses and normalizes a game-data document.
func (l *JSONLoader) Decode(body []byte) (domain.Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var raw map[string][]map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse game data: %w", err)
	}

	ds := make(domain.Dataset, len(domain.Metrics))
	for _, metric := range domain.Metrics {
		rows, ok := raw[metric.Table()]
		if !ok {
			l.logger.Warn().Str("collection", metric.Table()).Msg("collection missing from game data")
		}

		records, dropped, err := Normalize(metric, rows)
		if err != nil {
			return nil, fmt.Errorf("failed to normalize game data: %w", err)
		}
		if dropped > 0 {
			l.logger.Warn().Str("collection", metric.Table()).Int("dropped", dropped).Msg("rows without a value skipped")
		}
		ds[metric] = records
	}
	return ds, nil
}
