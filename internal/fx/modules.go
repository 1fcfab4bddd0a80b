package fx

import (
	"soda-game/internal/api"
	"soda-game/internal/config"
	"soda-game/internal/loader"
	"soda-game/internal/logger"
	"soda-game/internal/metrics"
	"soda-game/internal/server"
	"soda-game/internal/service"
	"soda-game/internal/static"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideStatic(cfg *config.Config, logger zerolog.Logger) *static.Handler {
	return static.NewHandler(cfg.DocsDir, logger)
}

func ProvideChartProvider(svc *service.ChartService) server.ChartProvider {
	return svc
}

var Module = fx.Options(
	logger.Module,
	config.Module,
	metrics.Module,
	// data
	fx.Provide(api.NewDatasetClient),
	fx.Provide(loader.New),
	// svc
	fx.Provide(service.NewChartService),
	// http
	fx.Provide(ProvideChartProvider),
	fx.Provide(server.NewChartHandler),
	fx.Provide(ProvideStatic),
	fx.Provide(server.NewRouter),
)
