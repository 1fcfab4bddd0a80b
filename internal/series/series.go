// Package series turns the loaded game dataset into chart-ready series.
//
// Every builder is a pure function of (dataset, selection): nothing is cached and
// the same inputs always yield the same labels and points in the same order.
package series

import (
	"fmt"
	"slices"
	"sort"

	"soda-game/internal/domain"
)

const (
	XAxisTitle = "Week Number"
	YAxisTitle = "Value"

	hueStep = 60
)

// BuildOptions collects the distinct years (string order) and game numbers
// (numeric order) across all four collections.
func BuildOptions(ds domain.Dataset) domain.Options {
	years := map[string]struct{}{}
	games := map[int]struct{}{}
	for _, m := range domain.Metrics {
		for _, r := range ds[m] {
			years[r.Year] = struct{}{}
			games[r.GameNum] = struct{}{}
		}
	}

	opts := domain.Options{
		Years:    make([]string, 0, len(years)),
		GameNums: make([]int, 0, len(games)),
		Metrics:  slices.Clone(domain.Metrics),
	}
	for y := range years {
		opts.Years = append(opts.Years, y)
	}
	for g := range games {
		opts.GameNums = append(opts.GameNums, g)
	}
	sort.Strings(opts.Years)
	sort.Ints(opts.GameNums)

	if len(opts.Years) > 0 {
		opts.DefaultYear = opts.Years[0]
	}
	if len(opts.GameNums) > 0 {
		opts.DefaultGameNum = opts.GameNums[0]
	}
	return opts
}

// Build dispatches the selection to the role or cost builder and wraps the
// result with axis titles and week labels.
func Build(ds domain.Dataset, sel domain.Selection) (domain.Chart, error) {
	if _, err := domain.ParseMetric(string(sel.Metric)); err != nil {
		return domain.Chart{}, err
	}

	chart := domain.Chart{
		Title:  sel.Metric.Title(),
		Metric: sel.Metric,
		XAxis:  XAxisTitle,
		YAxis:  YAxisTitle,
	}
	if sel.Metric.HasRole() {
		chart.Datasets = BuildRoleSeries(ds, sel)
	} else {
		chart.Datasets = BuildCostSeries(ds, sel.Year)
		chart.GameSelectDisabled = true
	}
	chart.Labels = weekLabels(chart.Datasets)
	return chart, nil
}

// BuildRoleSeries emits one series per role present for the year and game, in
// canonical role order. Roles without rows are skipped.
func BuildRoleSeries(ds domain.Dataset, sel domain.Selection) []domain.Series {
	rows := filter(ds[sel.Metric], func(r domain.Record) bool {
		return r.Year == sel.Year && r.GameNum == sel.GameNum
	})
	sortByWeek(rows)

	byRole := make(map[domain.Role][]domain.Point, len(domain.Roles))
	for _, r := range rows {
		byRole[r.Role] = append(byRole[r.Role], domain.Point{WeekNum: r.WeekNum, Value: r.Value})
	}

	out := make([]domain.Series, 0, len(domain.Roles))
	for _, role := range domain.Roles {
		points, ok := byRole[role]
		if !ok {
			continue
		}
		out = append(out, domain.Series{
			Label:  string(role),
			Points: points,
			Hue:    (len(out) * hueStep) % 360,
		})
	}
	return out
}

// BuildCostSeries emits one series per game played in the year, ordered by game
// number. The game selector does not apply to this view.
func BuildCostSeries(ds domain.Dataset, year string) []domain.Series {
	rows := filter(ds[domain.MetricSupplyChainCost], func(r domain.Record) bool {
		return r.Year == year
	})
	sortByWeek(rows)

	var games []int
	byGame := map[int][]domain.Point{}
	for _, r := range rows {
		if _, seen := byGame[r.GameNum]; !seen {
			games = append(games, r.GameNum)
		}
		byGame[r.GameNum] = append(byGame[r.GameNum], domain.Point{WeekNum: r.WeekNum, Value: r.Value})
	}
	sort.Ints(games)

	out := make([]domain.Series, 0, len(games))
	for _, g := range games {
		out = append(out, domain.Series{
			Label:  fmt.Sprintf("Game %d", g),
			Points: byGame[g],
			Hue:    GameHue(g),
		})
	}
	return out
}

// GameHue spaces games evenly around the hue circle, wrapping every six games.
func GameHue(gameNum int) int {
	h := ((gameNum - 1) * hueStep) % 360
	if h < 0 {
		h += 360
	}
	return h
}

func filter(in []domain.Record, keep func(domain.Record) bool) []domain.Record {
	var out []domain.Record
	for _, r := range in {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func sortByWeek(rows []domain.Record) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].WeekNum < rows[j].WeekNum
	})
}

func weekLabels(series []domain.Series) []int {
	seen := map[int]struct{}{}
	labels := []int{}
	for _, s := range series {
		for _, p := range s.Points {
			if _, ok := seen[p.WeekNum]; ok {
				continue
			}
			seen[p.WeekNum] = struct{}{}
			labels = append(labels, p.WeekNum)
		}
	}
	sort.Ints(labels)
	return labels
}
