package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soda-game/internal/database"
	"soda-game/internal/domain"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenWritable(context.Background(), filepath.Join(t.TempDir(), "game-data.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestGameDataRepository_ReplaceAllAndSelect(t *testing.T) {
	ctx := context.Background()
	repo := NewGameDataRepository(newTestDB(t), zerolog.Nop())

	ds := domain.Dataset{
		domain.MetricOrders: {
			{Year: "2024", GameNum: 1, WeekNum: 3, Role: domain.RoleRetailer, Value: 40},
			{Year: "2024", GameNum: 1, WeekNum: 4, Role: domain.RoleRetailer, Value: 42},
		},
		domain.MetricSupplyChainCost: {
			{Year: "2024", GameNum: 1, WeekNum: 3, Value: 1200.5},
		},
	}

	n, err := repo.ReplaceAll(ctx, ds)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	rows, err := repo.SelectAll(ctx, domain.MetricOrders)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.EqualValues(t, "2024", rows[0]["year"])
	assert.EqualValues(t, 1, rows[0]["game_num"])
	assert.EqualValues(t, 3, rows[0]["week_num"])
	assert.EqualValues(t, "Retailer", rows[0]["role"])
	assert.EqualValues(t, 40, rows[0]["value"])

	cost, err := repo.SelectAll(ctx, domain.MetricSupplyChainCost)
	require.NoError(t, err)
	require.Len(t, cost, 1)
	_, hasRole := cost[0]["role"]
	assert.False(t, hasRole)
	assert.EqualValues(t, 1200.5, cost[0]["value"])
}

func TestGameDataRepository_ReplaceAllClearsPreviousRows(t *testing.T) {
	ctx := context.Background()
	repo := NewGameDataRepository(newTestDB(t), zerolog.Nop())

	_, err := repo.ReplaceAll(ctx, domain.Dataset{
		domain.MetricSurplus: {{Year: "2023", GameNum: 1, WeekNum: 1, Role: domain.RoleFactory, Value: 1}},
	})
	require.NoError(t, err)

	_, err = repo.ReplaceAll(ctx, domain.Dataset{
		domain.MetricSurplus: {{Year: "2024", GameNum: 2, WeekNum: 1, Role: domain.RoleFactory, Value: 2}},
	})
	require.NoError(t, err)

	rows, err := repo.SelectAll(ctx, domain.MetricSurplus)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.EqualValues(t, "2024", rows[0]["year"])
}

func TestGameDataRepository_RejectsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewGameDataRepository(newTestDB(t), zerolog.Nop())

	_, err := repo.ReplaceAll(ctx, domain.Dataset{
		domain.MetricInventory: {
			{Year: "2024", GameNum: 1, WeekNum: 1, Role: domain.RoleFactory, Value: 1},
			{Year: "2024", GameNum: 1, WeekNum: 1, Role: domain.RoleFactory, Value: 2},
		},
	})
	assert.Error(t, err)

	rows, err := repo.SelectAll(ctx, domain.MetricInventory)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestGameDataRepository_UnknownMetric(t *testing.T) {
	repo := NewGameDataRepository(newTestDB(t), zerolog.Nop())

	_, err := repo.SelectAll(context.Background(), domain.Metric("players; DROP TABLE orders"))
	assert.ErrorIs(t, err, domain.ErrUnknownMetric)
}

func TestImportRepository_Record(t *testing.T) {
	ctx := context.Background()
	repo := NewImportRepository(newTestDB(t), zerolog.Nop())

	run, err := repo.Record(ctx, domain.ImportRun{SourceDir: "raw", FileCount: 4, RowCount: 120})
	require.NoError(t, err)
	assert.Len(t, run.ID, 21)
	assert.False(t, run.CreatedAt.IsZero())

	runs, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "raw", runs[0].SourceDir)
	assert.Equal(t, 4, runs[0].FileCount)
	assert.Equal(t, 120, runs[0].RowCount)
}
