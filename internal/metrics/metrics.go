package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

type Metrics struct {
	Registry        *prometheus.Registry
	HTTPRequests    *prometheus.CounterVec
	ChartBuilds     *prometheus.CounterVec
	ChartBuildTime  prometheus.Histogram
	DatasetRecords  *prometheus.GaugeVec
	DatasetReady    prometheus.Gauge
	DatasetLoadTime prometheus.Gauge
}

// New registers the service collectors on a private registry so tests can
// build as many instances as they need.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "soda_game_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"route", "code"}),
		ChartBuilds: f.NewCounterVec(prometheus.CounterOpts{
			Name: "soda_game_chart_builds_total",
			Help: "Chart builds by metric.",
		}, []string{"metric"}),
		ChartBuildTime: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "soda_game_chart_build_seconds",
			Help:    "Time spent filtering, sorting and grouping one chart.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		DatasetRecords: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "soda_game_dataset_records",
			Help: "Records loaded per collection.",
		}, []string{"collection"}),
		DatasetReady: f.NewGauge(prometheus.GaugeOpts{
			Name: "soda_game_dataset_ready",
			Help: "1 once the dataset has loaded.",
		}),
		DatasetLoadTime: f.NewGauge(prometheus.GaugeOpts{
			Name: "soda_game_dataset_load_seconds",
			Help: "Duration of the initial dataset load.",
		}),
	}
}

var Module = fx.Provide(New)
