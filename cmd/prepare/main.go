// prepare converts raw per-game CSV exports into the packaged game database
// and, optionally, the game-data.json and workbook published with the site.
//
// Usage:
//
//	prepare [-json docs/static/game-data.json] [-xlsx game-data.xlsx] RAWDIR OUTFILE
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"soda-game/internal/database"
	"soda-game/internal/domain"
	"soda-game/internal/exporter"
	"soda-game/internal/ingest"
	"soda-game/internal/logger"
	"soda-game/internal/repository"

	"github.com/rs/zerolog"
)

func main() {
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stderr, log); err != nil {
		log.Error().Err(err).Msg("prepare failed")
		os.Exit(1)
	}
}

type options struct {
	rawDir   string
	outFile  string
	jsonPath string
	xlsxPath string
}

func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("prepare", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.jsonPath, "json", "", "also write game data as JSON to this path")
	fs.StringVar(&opts.xlsxPath, "xlsx", "", "also write game data as an Excel workbook to this path")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: prepare [-json path] [-xlsx path] RAWDIR OUTFILE")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return opts, errors.New("RAWDIR and OUTFILE are required")
	}
	opts.rawDir, opts.outFile = fs.Arg(0), fs.Arg(1)
	return opts, nil
}

func run(ctx context.Context, args []string, stderr io.Writer, log zerolog.Logger) error {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	res, err := ingest.Dir(ctx, opts.rawDir, log)
	if err != nil {
		return err
	}
	if len(res.Files) == 0 {
		return fmt.Errorf("no raw exports found in %s", opts.rawDir)
	}

	db, err := database.OpenWritable(ctx, opts.outFile, log)
	if err != nil {
		return err
	}
	defer db.Close()

	rows, err := repository.NewGameDataRepository(db, log).ReplaceAll(ctx, res.Dataset)
	if err != nil {
		return err
	}

	imp, err := repository.NewImportRepository(db, log).Record(ctx, domain.ImportRun{
		SourceDir: opts.rawDir,
		FileCount: len(res.Files),
		RowCount:  rows,
	})
	if err != nil {
		return err
	}

	if opts.jsonPath != "" {
		if err := exporter.WriteJSON(opts.jsonPath, res.Dataset); err != nil {
			return err
		}
		log.Info().Str("path", opts.jsonPath).Msg("json written")
	}
	if opts.xlsxPath != "" {
		if err := exporter.WriteXLSX(opts.xlsxPath, res.Dataset); err != nil {
			return err
		}
		log.Info().Str("path", opts.xlsxPath).Msg("workbook written")
	}

	log.Info().
		Str("import_id", imp.ID).
		Int("files", len(res.Files)).
		Int("skipped", len(res.Skipped)).
		Int("rows", rows).
		Str("db", opts.outFile).
		Msg("game data prepared")
	return nil
}
