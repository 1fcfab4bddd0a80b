// Package render draws a chart payload as a PNG line chart.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	"soda-game/internal/domain"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var ErrNoSeries = errors.New("chart has no series")

const (
	saturation = 0.70
	lightness  = 0.50
)

// PNG writes c as a width x height PNG. Every series is drawn as one line in
// its hue; a legend and the chart title are included.
func PNG(w io.Writer, c domain.Chart, width, height int) error {
	if len(c.Datasets) == 0 {
		return ErrNoSeries
	}

	var series []chart.Series
	for _, s := range c.Datasets {
		xs := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i] = float64(p.WeekNum)
		}
		ys := s.Values()

		col := HueColor(s.Hue)
		series = append(series, chart.ContinuousSeries{
			Name:    s.Label,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 2,
				DotColor:    col,
				DotWidth:    2,
			},
		})
	}

	ch := chart.Chart{
		Title:      c.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           c.XAxis,
			ValueFormatter: weekFormatter,
			Range:          xRange(c.Labels),
		},
		YAxis:  chart.YAxis{Name: c.YAxis, Range: yRange(c.Datasets)},
		Series: series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}

func weekFormatter(v interface{}) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%d", int(math.Round(f)))
	}
	return ""
}

// go-chart refuses a zero-width domain, so single-week or flat charts are
// widened by one unit on each side.
func xRange(labels []int) chart.Range {
	if len(labels) == 0 {
		return nil
	}
	return widen(float64(labels[0]), float64(labels[len(labels)-1]))
}

func yRange(datasets []domain.Series) chart.Range {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range datasets {
		for _, p := range s.Points {
			lo = math.Min(lo, p.Value)
			hi = math.Max(hi, p.Value)
		}
	}
	if math.IsInf(lo, 1) {
		return nil
	}
	return widen(lo, hi)
}

func widen(lo, hi float64) *chart.ContinuousRange {
	if lo == hi {
		lo, hi = lo-1, hi+1
	}
	return &chart.ContinuousRange{Min: lo, Max: hi}
}

// HueColor converts a hue in degrees at the fixed saturation and lightness the
// charts use to an RGB drawing color.
func HueColor(hue int) drawing.Color {
	h := math.Mod(float64(hue), 360)
	if h < 0 {
		h += 360
	}

	c := (1 - math.Abs(2*lightness-1)) * saturation
	x := c * (1 - math.Abs(math.Mod(h/60, 2)-1))
	m := lightness - c/2

	var r, g, b float64
	switch {
	case h < 60:
		r, g, b = c, x, 0
	case h < 120:
		r, g, b = x, c, 0
	case h < 180:
		r, g, b = 0, c, x
	case h < 240:
		r, g, b = 0, x, c
	case h < 300:
		r, g, b = x, 0, c
	default:
		r, g, b = c, 0, x
	}

	return drawing.Color{
		R: uint8(math.Round((r + m) * 255)),
		G: uint8(math.Round((g + m) * 255)),
		B: uint8(math.Round((b + m) * 255)),
		A: 255,
	}
}
