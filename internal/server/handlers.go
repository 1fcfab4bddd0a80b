package server

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"soda-game/internal/constants"
	"soda-game/internal/domain"
	"soda-game/internal/render"
	"soda-game/internal/service"

	chirender "github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

type ChartProvider interface {
	Status() service.Status
	Options(ctx context.Context) (domain.Options, error)
	Chart(ctx context.Context, sel domain.Selection) (domain.Chart, error)
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type chartQuery struct {
	Year   string `validate:"max=32"`
	Game   int    `validate:"gte=0"`
	Metric string `validate:"omitempty,oneof=inventory orders supply_chain_cost surplus"`
	Width  int
	Height int
}

var (
	widthRule  = fmt.Sprintf("omitempty,min=%d,max=%d", constants.ChartMinSize, constants.ChartMaxWidth)
	heightRule = fmt.Sprintf("omitempty,min=%d,max=%d", constants.ChartMinSize, constants.ChartMaxHeight)
)

func (q chartQuery) selection() domain.Selection {
	return domain.Selection{Year: q.Year, GameNum: q.Game, Metric: domain.Metric(q.Metric)}
}

type ChartHandler struct {
	charts   ChartProvider
	validate *validator.Validate
	logger   zerolog.Logger
}

func NewChartHandler(charts ChartProvider, logger zerolog.Logger) *ChartHandler {
	return &ChartHandler{
		charts:   charts,
		validate: validator.New(),
		logger:   logger,
	}
}

// GetStatus handles GET /api/status.
func (h *ChartHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	chirender.JSON(w, r, h.charts.Status())
}

// GetOptions handles GET /api/options.
func (h *ChartHandler) GetOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := h.charts.Options(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	chirender.JSON(w, r, opts)
}

// GetChart handles GET /api/chart?year=&game=&metric=.
func (h *ChartHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	chart, err := h.charts.Chart(r.Context(), q.selection())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	chirender.JSON(w, r, chart)
}

// GetChartPNG handles GET /api/chart.png, the same chart drawn server-side.
func (h *ChartHandler) GetChartPNG(w http.ResponseWriter, r *http.Request) {
	q, err := h.parseQuery(r)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	chart, err := h.charts.Chart(r.Context(), q.selection())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	width, height := q.Width, q.Height
	if width == 0 {
		width = constants.ChartDefaultWidth
	}
	if height == 0 {
		height = constants.ChartDefaultHeight
	}

	var buf bytes.Buffer
	if err := render.PNG(&buf, chart, width, height); err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

func (h *ChartHandler) parseQuery(r *http.Request) (chartQuery, error) {
	v := r.URL.Query()
	q := chartQuery{
		Year:   v.Get("year"),
		Metric: v.Get("metric"),
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"game", &q.Game},
		{"width", &q.Width},
		{"height", &q.Height},
	}
	for _, p := range ints {
		s := v.Get(p.key)
		if s == "" {
			continue
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, errors.New(p.key + " must be an integer")
		}
		*p.dst = n
	}

	if err := h.validate.Struct(q); err != nil {
		return q, err
	}
	if err := h.validate.Var(q.Width, widthRule); err != nil {
		return q, fmt.Errorf("width: %w", err)
	}
	if err := h.validate.Var(q.Height, heightRule); err != nil {
		return q, fmt.Errorf("height: %w", err)
	}
	return q, nil
}

func (h *ChartHandler) badRequest(w http.ResponseWriter, r *http.Request, err error) {
	zerolog.Ctx(r.Context()).Debug().Err(err).Msg("invalid chart query")
	chirender.Status(r, http.StatusBadRequest)
	chirender.JSON(w, r, ErrorResponse{Error: err.Error(), Code: "INVALID_QUERY"})
}

func (h *ChartHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "INTERNAL"
	switch {
	case errors.Is(err, service.ErrNotReady):
		status, code = http.StatusServiceUnavailable, "NOT_READY"
	case errors.Is(err, domain.ErrUnknownMetric):
		status, code = http.StatusBadRequest, "UNKNOWN_METRIC"
	case errors.Is(err, render.ErrNoSeries):
		status, code = http.StatusNotFound, "NO_DATA"
	default:
		h.logger.Error().Err(err).Str("path", r.URL.Path).Msg("chart request failed")
	}

	chirender.Status(r, status)
	chirender.JSON(w, r, ErrorResponse{Error: err.Error(), Code: code})
}
