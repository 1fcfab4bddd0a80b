package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMetric(t *testing.T) {
	for _, m := range Metrics {
		got, err := ParseMetric(string(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	_, err := ParseMetric("backlog")
	assert.ErrorIs(t, err, ErrUnknownMetric)

	_, err = ParseMetric("Inventory")
	assert.ErrorIs(t, err, ErrUnknownMetric)
}

func TestParseRole(t *testing.T) {
	got, err := ParseRole(" retailer ")
	require.NoError(t, err)
	assert.Equal(t, RoleRetailer, got)

	_, err = ParseRole("Brewer")
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestMetricTitle(t *testing.T) {
	assert.Equal(t, "Inventory", MetricInventory.Title())
	assert.Equal(t, "Supply_chain_cost", MetricSupplyChainCost.Title())
	assert.Equal(t, "", Metric("").Title())
}

func TestMetricHasRole(t *testing.T) {
	assert.True(t, MetricOrders.HasRole())
	assert.True(t, MetricSurplus.HasRole())
	assert.False(t, MetricSupplyChainCost.HasRole())
}

func TestDatasetLen(t *testing.T) {
	ds := Dataset{
		MetricOrders:          {{Year: "2024"}, {Year: "2024"}},
		MetricSupplyChainCost: {{Year: "2024"}},
	}
	assert.Equal(t, 3, ds.Len())
}
