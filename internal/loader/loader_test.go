package loader

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soda-game/internal/api"
	"soda-game/internal/config"
	"soda-game/internal/domain"
)

const legacyJSON = `{
  "orders": [
    {"game_num": 1, "role": "Retailer", "week_num": 3, "orders": 40, "year": "2024"},
    {"game_num": 1, "role": "Consumer", "week_num": 3, "orders": 8, "year": "2024"}
  ],
  "inventory": [
    {"game_num": 1, "role": "Factory", "week_num": 1, "inventory": 12.5, "year": "2024"}
  ],
  "surplus": [],
  "supply_chain_cost": [
    {"game_num": 2, "role": "Supply Chain Cost", "week_num": 1, "supply_chain_cost": 1500, "year": "2024"}
  ]
}`

const preparedJSON = `{
  "orders": [
    {"week_num": 3, "role": "Retailer", "value": 40, "year": "2024", "game_num": "1"},
    {"week_num": 4, "role": "Retailer", "value": null, "year": "2024", "game_num": "1"}
  ],
  "supply_chain_cost": [
    {"week_num": 1, "value": 1500.25, "year": 2025, "game_num": "2"}
  ]
}`

func TestJSONLoader_DecodeLegacyFieldNames(t *testing.T) {
	ds, err := NewJSONLoader("", nil, zerolog.Nop()).Decode([]byte(legacyJSON))
	require.NoError(t, err)

	assert.Equal(t, []domain.Record{
		{Year: "2024", GameNum: 1, WeekNum: 3, Role: domain.RoleRetailer, Value: 40},
		{Year: "2024", GameNum: 1, WeekNum: 3, Role: domain.RoleConsumer, Value: 8},
	}, ds[domain.MetricOrders])
	assert.Equal(t, 12.5, ds[domain.MetricInventory][0].Value)
	assert.Empty(t, ds[domain.MetricSurplus])

	cost := ds[domain.MetricSupplyChainCost]
	require.Len(t, cost, 1)
	assert.Equal(t, domain.Record{Year: "2024", GameNum: 2, WeekNum: 1, Value: 1500}, cost[0])
}

func TestJSONLoader_DecodePreparedFormat(t *testing.T) {
	ds, err := NewJSONLoader("", nil, zerolog.Nop()).Decode([]byte(preparedJSON))
	require.NoError(t, err)

	require.Len(t, ds[domain.MetricOrders], 1, "null values are dropped")
	assert.Equal(t, domain.Record{Year: "2024", GameNum: 1, WeekNum: 3, Role: domain.RoleRetailer, Value: 40}, ds[domain.MetricOrders][0])

	require.Len(t, ds[domain.MetricSupplyChainCost], 1)
	assert.Equal(t, "2025", ds[domain.MetricSupplyChainCost][0].Year)
	assert.Equal(t, 1500.25, ds[domain.MetricSupplyChainCost][0].Value)

	assert.Contains(t, ds, domain.MetricInventory)
	assert.Empty(t, ds[domain.MetricInventory])
}

func TestJSONLoader_DecodeErrors(t *testing.T) {
	l := NewJSONLoader("", nil, zerolog.Nop())

	_, err := l.Decode([]byte(`{"orders": [`))
	assert.Error(t, err)

	_, err = l.Decode([]byte(`{"orders": [{"year": "2024", "game_num": 1, "week_num": 1, "role": "Mayor", "orders": 1}]}`))
	assert.ErrorIs(t, err, domain.ErrUnknownRole)

	_, err = l.Decode([]byte(`{"orders": [{"year": "2024", "game_num": "one", "week_num": 1, "role": "Factory", "orders": 1}]}`))
	assert.Error(t, err)
}

func TestJSONLoader_LoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game-data.json")
	require.NoError(t, os.WriteFile(path, []byte(legacyJSON), 0o644))

	ds, err := NewJSONLoader(path, nil, zerolog.Nop()).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, ds.Len())
}

func TestJSONLoader_LoadMissingFile(t *testing.T) {
	_, err := NewJSONLoader(filepath.Join(t.TempDir(), "nope.json"), nil, zerolog.Nop()).Load(context.Background())
	assert.Error(t, err)
}

func TestJSONLoader_LoadRemote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(legacyJSON))
	}))
	defer srv.Close()

	l := NewJSONLoader(srv.URL+"/static/game-data.json", api.NewDatasetClient(), zerolog.Nop())
	ds, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, ds[domain.MetricOrders], 2)
}

func TestSQLiteLoader_MapsColumnsByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game-data.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)

	stmts := []string{
		// newer preparation output: melted columns then year/game_num as text
		`CREATE TABLE orders (week_num INTEGER, role TEXT, value REAL, year TEXT, game_num TEXT)`,
		`INSERT INTO orders VALUES (3, 'Retailer', 40, '2024', '1')`,
		`INSERT INTO orders VALUES (2, 'Factory', NULL, '2024', '1')`,
		// older output: metric-named value column
		`CREATE TABLE inventory (game_num INTEGER, role TEXT, week_num INTEGER, inventory INTEGER, year TEXT)`,
		`INSERT INTO inventory VALUES (1, 'Wholesaler', 5, 17, '2023')`,
		`CREATE TABLE surplus (year TEXT, game_num INTEGER, week_num INTEGER, role TEXT, value REAL)`,
		`CREATE TABLE supply_chain_cost (week_num INTEGER, value REAL, year TEXT, game_num INTEGER)`,
		`INSERT INTO supply_chain_cost VALUES (1, 99.5, '2024', 2)`,
	}
	for _, s := range stmts {
		_, err := db.Exec(s)
		require.NoError(t, err, s)
	}
	require.NoError(t, db.Close())

	ds, err := NewSQLiteLoader(path, zerolog.Nop()).Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.Record{{Year: "2024", GameNum: 1, WeekNum: 3, Role: domain.RoleRetailer, Value: 40}}, ds[domain.MetricOrders])
	assert.Equal(t, []domain.Record{{Year: "2023", GameNum: 1, WeekNum: 5, Role: domain.RoleWholesaler, Value: 17}}, ds[domain.MetricInventory])
	assert.Empty(t, ds[domain.MetricSurplus])
	assert.Equal(t, []domain.Record{{Year: "2024", GameNum: 2, WeekNum: 1, Value: 99.5}}, ds[domain.MetricSupplyChainCost])
}

func TestSQLiteLoader_MissingTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "game-data.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE orders (year TEXT, game_num INTEGER, week_num INTEGER, role TEXT, value REAL)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	_, err = NewSQLiteLoader(path, zerolog.Nop()).Load(context.Background())
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	l, err := New(&config.Config{DataSource: config.SourceJSON, DataPath: "a.json"}, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &JSONLoader{}, l)
	assert.Equal(t, "a.json", l.Source())

	l, err = New(&config.Config{DataSource: config.SourceSQLite, DBPath: "a.db"}, nil, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &SQLiteLoader{}, l)

	_, err = New(&config.Config{DataSource: "csv"}, nil, zerolog.Nop())
	assert.Error(t, err)
}
