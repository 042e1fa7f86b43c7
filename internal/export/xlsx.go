package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/eugenenazirov/molding-cutter/internal/cutting"
)

const (
	cutListSheet = "Cut List"
	summarySheet = "Summary"
)

// WriteXLSX writes a workbook with one row per stock unit and a summary sheet.
func WriteXLSX(w io.Writer, plan cutting.Plan) error {
	if plan.StockCount() == 0 {
		return ErrEmptyPlan
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), cutListSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := []interface{}{"Stock unit", "Capacity", "Pieces", "Used", "Remaining"}
	if err := f.SetSheetRow(cutListSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, bin := range plan.Bins {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{i + 1, bin.Capacity, joinLengths(bin.Pieces, " + "), bin.Capacity - bin.Remaining, bin.Remaining}
		if err := f.SetSheetRow(cutListSheet, cell, &row); err != nil {
			return fmt.Errorf("write stock unit %d: %w", i+1, err)
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	summary := [][]interface{}{
		{"Stock length", plan.StockLength},
		{"Stock units", plan.StockCount()},
		{"Requested", plan.TotalRequested},
		{"Waste", plan.TotalWaste},
		{"Utilization", plan.Utilization()},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	return f.Write(w)
}
