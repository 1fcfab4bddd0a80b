// Package ingest converts the per-game CSV exports of the board game into the
// normalized dataset.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"soda-game/internal/domain"

	"github.com/rs/zerolog"
)

type Result struct {
	Dataset domain.Dataset
	Files   []RawFile
	Skipped []string
}

// Dir reads every matching raw export directly inside dir. Legacy file names
// take their year from the name of dir's parent when dir is called "raw",
// otherwise from dir itself.
func Dir(ctx context.Context, dir string, logger zerolog.Logger) (*Result, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list raw data: %w", err)
	}

	yearHint := filepath.Base(dir)
	if yearHint == "raw" {
		yearHint = filepath.Base(filepath.Dir(dir))
	}

	res := &Result{Dataset: make(domain.Dataset, len(domain.Metrics))}
	for _, m := range domain.Metrics {
		res.Dataset[m] = []domain.Record{}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		f, ok := ParseFileName(filepath.Join(dir, name), yearHint)
		if !ok {
			res.Skipped = append(res.Skipped, name)
			logger.Debug().Str("file", name).Msg("not a raw export, skipping")
			continue
		}

		records, err := readFile(f)
		if err != nil {
			return nil, err
		}
		res.Dataset[f.Metric] = append(res.Dataset[f.Metric], records...)
		res.Files = append(res.Files, f)

		logger.Info().
			Str("file", name).
			Str("year", f.Year).
			Int("game_num", f.GameNum).
			Str("table", f.Metric.Table()).
			Int("records", len(records)).
			Msg("raw export read")
	}

	return res, nil
}

func readFile(f RawFile) ([]domain.Record, error) {
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", f.Path, err)
	}
	defer fh.Close()
	return ReadTable(fh, f)
}
