package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"soda-game/internal/domain"
)

const weekColumn = "category"

var (
	ErrMissingColumn = errors.New("missing column")

	costColumns = []string{"supply chain cost", "supply_chain_cost"}
)

// rolesFor lists the role columns exported for a metric. Only the orders table
// carries consumer demand.
func rolesFor(metric domain.Metric) []domain.Role {
	if metric == domain.MetricOrders {
		return domain.Roles
	}
	return []domain.Role{
		domain.RoleRetailer,
		domain.RoleWholesaler,
		domain.RoleDistributor,
		domain.RoleFactory,
	}
}

// ReadTable melts one wide CSV export (a week column plus one column per role,
// or a single cost column) into long-form records. Empty cells are skipped.
func ReadTable(r io.Reader, f RawFile) ([]domain.Record, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read header: %w", f, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}

	weekIdx, ok := cols[weekColumn]
	if !ok {
		return nil, fmt.Errorf("%s: %w %q", f, ErrMissingColumn, weekColumn)
	}

	type valueColumn struct {
		role domain.Role
		idx  int
	}
	var valueCols []valueColumn
	if f.Metric.HasRole() {
		for _, role := range rolesFor(f.Metric) {
			idx, ok := cols[strings.ToLower(string(role))]
			if !ok {
				return nil, fmt.Errorf("%s: %w %q", f, ErrMissingColumn, role)
			}
			valueCols = append(valueCols, valueColumn{role: role, idx: idx})
		}
	} else {
		found := false
		for _, name := range costColumns {
			if idx, ok := cols[name]; ok {
				valueCols = append(valueCols, valueColumn{idx: idx})
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("%s: %w %q", f, ErrMissingColumn, "Supply Chain Cost")
		}
	}

	var out []domain.Record
	line := 1
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", f, line, err)
		}
		if weekIdx >= len(row) || strings.TrimSpace(row[weekIdx]) == "" {
			continue
		}

		week, err := parseWeek(row[weekIdx])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", f, line, err)
		}

		for _, vc := range valueCols {
			if vc.idx >= len(row) || strings.TrimSpace(row[vc.idx]) == "" {
				continue
			}
			v, err := parseValue(row[vc.idx])
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", f, line, err)
			}
			out = append(out, domain.Record{
				Year:    f.Year,
				GameNum: f.GameNum,
				WeekNum: week,
				Role:    vc.role,
				Value:   v,
			})
		}
	}
	return out, nil
}

func parseWeek(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid week %q", s)
	}
	return int(f), nil
}

func parseValue(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q", s)
	}
	return v, nil
}
