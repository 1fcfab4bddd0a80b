// Package exporter writes the prepared dataset in the formats the site ships:
// game-data.json for the browser and a workbook for analysis.
package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"soda-game/internal/domain"
)

// rowFields returns the exported columns of one record. The metric value is
// stored under the metric's own name, the layout game-data.json has always had.
func rowFields(metric domain.Metric, r domain.Record) map[string]any {
	row := map[string]any{
		"year":         r.Year,
		"game_num":     r.GameNum,
		"week_num":     r.WeekNum,
		string(metric): r.Value,
	}
	if metric.HasRole() {
		row["role"] = string(r.Role)
	}
	return row
}

func WriteJSON(path string, ds domain.Dataset) error {
	doc := make(map[string][]map[string]any, len(domain.Metrics))
	for _, metric := range domain.Metrics {
		rows := make([]map[string]any, 0, len(ds[metric]))
		for _, r := range ds[metric] {
			rows = append(rows, rowFields(metric, r))
		}
		doc[metric.Table()] = rows
	}

	body, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to encode game data: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("failed to write game data: %w", err)
	}
	return nil
}
