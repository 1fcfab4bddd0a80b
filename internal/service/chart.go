package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"soda-game/internal/constants"
	"soda-game/internal/domain"
	"soda-game/internal/loader"
	"soda-game/internal/metrics"
	"soda-game/internal/series"

	"github.com/rs/zerolog"
)

var ErrNotReady = errors.New("dataset not loaded")

type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
)

type Status struct {
	State   State  `json:"state"`
	Source  string `json:"source"`
	Records int    `json:"records"`
	Error   string `json:"error,omitempty"`
}

// ChartService owns the loaded dataset. The dataset is published once by Load
// and only read afterwards; every chart is rebuilt from it in full.
type ChartService struct {
	loader  loader.Loader
	metrics *metrics.Metrics
	logger  zerolog.Logger

	mu      sync.RWMutex
	state   State
	dataset domain.Dataset
	loadErr error
}

func NewChartService(l loader.Loader, m *metrics.Metrics, logger zerolog.Logger) *ChartService {
	return &ChartService{
		loader:  l,
		metrics: m,
		logger:  logger,
		state:   StateLoading,
	}
}

// Load fetches the dataset once. On failure the service stays in the loading
// state with the error recorded; there is no retry.
func (s *ChartService) Load(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, constants.LoadTimeout)
	defer cancel()

	start := time.Now()
	s.logger.Info().Str("source", s.loader.Source()).Msg("loading game data")

	ds, err := s.loader.Load(ctx)
	if err != nil {
		s.logger.Error().Err(err).Str("source", s.loader.Source()).Msg("failed to load game data")
		s.mu.Lock()
		s.loadErr = err
		s.mu.Unlock()
		return fmt.Errorf("failed to load game data: %w", err)
	}

	s.mu.Lock()
	s.dataset = ds
	s.state = StateReady
	s.loadErr = nil
	s.mu.Unlock()

	elapsed := time.Since(start)
	s.metrics.DatasetReady.Set(1)
	s.metrics.DatasetLoadTime.Set(elapsed.Seconds())
	for _, m := range domain.Metrics {
		s.metrics.DatasetRecords.WithLabelValues(m.Table()).Set(float64(len(ds[m])))
	}

	s.logger.Info().
		Int("records", ds.Len()).
		Dur("duration", elapsed).
		Msg("game data loaded")
	return nil
}

func (s *ChartService) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := Status{State: s.state, Source: s.loader.Source(), Records: s.dataset.Len()}
	if s.loadErr != nil {
		st.Error = s.loadErr.Error()
	}
	return st
}

func (s *ChartService) snapshot() (domain.Dataset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state != StateReady {
		return nil, ErrNotReady
	}
	return s.dataset, nil
}

func (s *ChartService) Options(ctx context.Context) (domain.Options, error) {
	ds, err := s.snapshot()
	if err != nil {
		return domain.Options{}, err
	}
	return series.BuildOptions(ds), nil
}

// Chart builds the chart for sel. Empty year or a zero game number fall back
// to the first option, the same defaults the selectors start on. A selection
// matching no rows yields a chart without datasets, not an error.
func (s *ChartService) Chart(ctx context.Context, sel domain.Selection) (domain.Chart, error) {
	ds, err := s.snapshot()
	if err != nil {
		return domain.Chart{}, err
	}

	if sel.Year == "" || sel.GameNum == 0 {
		opts := series.BuildOptions(ds)
		if sel.Year == "" {
			sel.Year = opts.DefaultYear
		}
		if sel.GameNum == 0 {
			sel.GameNum = opts.DefaultGameNum
		}
	}
	if sel.Metric == "" {
		sel.Metric = domain.MetricInventory
	}

	start := time.Now()
	chart, err := series.Build(ds, sel)
	if err != nil {
		return domain.Chart{}, err
	}
	s.metrics.ChartBuildTime.Observe(time.Since(start).Seconds())
	s.metrics.ChartBuilds.WithLabelValues(string(sel.Metric)).Inc()

	log := zerolog.Ctx(ctx)
	if log.GetLevel() == zerolog.Disabled {
		log = &s.logger
	}
	log.Debug().
		Str("year", sel.Year).
		Int("game_num", sel.GameNum).
		Str("metric", string(sel.Metric)).
		Int("series", len(chart.Datasets)).
		Msg("chart built")
	return chart, nil
}
