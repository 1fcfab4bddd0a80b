package loader

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"soda-game/internal/domain"
)

// Normalize maps raw rows of one collection onto domain.Record. The metric
// value is read from the column named after the metric, falling back to
// "value". Rows whose value is null are skipped and counted in dropped.
func Normalize(metric domain.Metric, rows []map[string]any) (records []domain.Record, dropped int, err error) {
	records = make([]domain.Record, 0, len(rows))
	for i, row := range rows {
		rec, ok, err := normalizeRow(metric, row)
		if err != nil {
			return nil, 0, fmt.Errorf("%s row %d: %w", metric, i, err)
		}
		if !ok {
			dropped++
			continue
		}
		records = append(records, rec)
	}
	return records, dropped, nil
}

func normalizeRow(metric domain.Metric, row map[string]any) (domain.Record, bool, error) {
	var rec domain.Record
	var err error

	if rec.Year, err = asString(row["year"]); err != nil {
		return rec, false, fmt.Errorf("year: %w", err)
	}
	if rec.GameNum, err = asInt(row["game_num"]); err != nil {
		return rec, false, fmt.Errorf("game_num: %w", err)
	}
	if rec.WeekNum, err = asInt(row["week_num"]); err != nil {
		return rec, false, fmt.Errorf("week_num: %w", err)
	}

	if metric.HasRole() {
		name, err := asString(row["role"])
		if err != nil {
			return rec, false, fmt.Errorf("role: %w", err)
		}
		if rec.Role, err = domain.ParseRole(name); err != nil {
			return rec, false, err
		}
	}

	raw, ok := row[string(metric)]
	if !ok {
		raw = row["value"]
	}
	if raw == nil {
		return rec, false, nil
	}
	if rec.Value, err = asFloat(raw); err != nil {
		return rec, false, fmt.Errorf("value: %w", err)
	}
	if math.IsNaN(rec.Value) {
		return rec, false, nil
	}
	return rec, true, nil
}

func asString(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case []byte:
		return string(t), nil
	case json.Number:
		return t.String(), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case nil:
		return "", fmt.Errorf("missing")
	default:
		return "", fmt.Errorf("unsupported type %T", v)
	}
}

func asInt(v any) (int, error) {
	switch t := v.(type) {
	case int64:
		return int(t), nil
	case int:
		return t, nil
	case float64:
		if t != math.Trunc(t) {
			return 0, fmt.Errorf("not a whole number: %v", t)
		}
		return int(t), nil
	case json.Number, string, []byte:
		s, _ := asString(t)
		return parseInt(s)
	case nil:
		return 0, fmt.Errorf("missing")
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func parseInt(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("not an integer: %q", s)
	}
	return int(f), nil
}

func asFloat(v any) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int64:
		return float64(t), nil
	case int:
		return float64(t), nil
	case json.Number:
		return t.Float64()
	case string, []byte:
		s, _ := asString(t)
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", s)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}
