package server

import (
	"net/http"

	"soda-game/internal/config"
	"soda-game/internal/metrics"
	"soda-game/internal/middleware"
	"soda-game/internal/static"

	"github.com/go-chi/chi/v5"
	chirender "github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
)

// NewRouter mounts the chart API under /api, metrics at /metrics, and hands
// every other GET to the docs file server.
func NewRouter(
	cfg *config.Config,
	charts *ChartHandler,
	files *static.Handler,
	m *metrics.Metrics,
	logger zerolog.Logger,
) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID(logger))
	r.Use(c.Handler)
	r.Use(middleware.CountRequests(m.HTTPRequests))

	r.Route("/api", func(r chi.Router) {
		r.Use(chirender.SetContentType(chirender.ContentTypeJSON))
		r.Get("/status", charts.GetStatus)
		r.Get("/options", charts.GetOptions)
		r.Get("/chart", charts.GetChart)
		r.Get("/chart.png", charts.GetChartPNG)
	})

	r.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))
	r.Get("/*", files.ServeHTTP)

	return r
}
