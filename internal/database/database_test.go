package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenWritable_CreatesSchema(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "game-data.db")

	db, err := OpenWritable(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"inventory", "orders", "surplus", "supply_chain_cost", "imports"} {
		var name string
		err := db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		require.NoError(t, err, table)
		assert.Equal(t, table, name)
	}
}

func TestOpenWritable_Idempotent(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "game-data.db")

	db, err := OpenWritable(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = OpenWritable(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Close())
}

func TestOpenReadOnly_MissingFile(t *testing.T) {
	_, err := OpenReadOnly(context.Background(), filepath.Join(t.TempDir(), "missing.db"), zerolog.Nop())
	assert.Error(t, err)
}

func TestOpenReadOnly_RejectsWrites(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "game-data.db")

	db, err := OpenWritable(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	ro, err := OpenReadOnly(ctx, path, zerolog.Nop())
	require.NoError(t, err)
	defer ro.Close()

	_, err = ro.ExecContext(ctx, "INSERT INTO supply_chain_cost (year, game_num, week_num, value) VALUES ('2024', 1, 1, 1)")
	assert.Error(t, err)
}
