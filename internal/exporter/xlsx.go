package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"soda-game/internal/domain"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes one sheet per collection.
func WriteXLSX(path string, ds domain.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, metric := range domain.Metrics {
		sheet := metric.Table()
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
				return fmt.Errorf("failed to rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
		}

		header := []any{"year", "game_num", "week_num"}
		if metric.HasRole() {
			header = append(header, "role")
		}
		header = append(header, string(metric))
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return fmt.Errorf("failed to write %s header: %w", sheet, err)
		}

		for j, r := range ds[metric] {
			row := []any{r.Year, r.GameNum, r.WeekNum}
			if metric.HasRole() {
				row = append(row, string(r.Role))
			}
			row = append(row, r.Value)

			cell, err := excelize.CoordinatesToCellName(1, j+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(sheet, cell, &row); err != nil {
				return fmt.Errorf("failed to write %s row %d: %w", sheet, j+2, err)
			}
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
