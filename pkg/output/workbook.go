package output

import (
	"fmt"
	"io"

	"github.com/iwvelando/baf-stacker/internal/stacker"
	"github.com/iwvelando/baf-stacker/pkg/mathutil"
	"github.com/xuri/excelize/v2"
)

// Workbook sheet names.
const (
	SummarySheet = "Summary"
	StacksSheet  = "Stacks"
	WaitingSheet = "Waiting"
)

// WriteWorkbook writes the result as an Excel workbook with a summary sheet,
// one row per stacked coil and one row per waiting coil.
func WriteWorkbook(w io.Writer, result stacker.Result) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return err
	}
	for _, name := range []string{StacksSheet, WaitingSheet} {
		if _, err := f.NewSheet(name); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeRows(f, SummarySheet, summaryRows(result.Summary), bold); err != nil {
		return err
	}

	stackRows := [][]interface{}{{"Stack", "Grade", "Coil", "Coil Grade", "Width (mm)", "Weight (kg)", "Stack Width (mm)", "Stack Weight (kg)"}}
	for i, stack := range result.Stacks {
		for j, coil := range stack.Coils {
			stackRows = append(stackRows, []interface{}{
				i + 1, stack.Grade, j + 1, coil.Grade, coil.Width, coil.Weight, stack.TotalWidth, stack.TotalWeight,
			})
		}
	}
	if err := writeRows(f, StacksSheet, stackRows, bold); err != nil {
		return err
	}

	waitingRows := [][]interface{}{{"Grade", "Width (mm)", "Weight (kg)"}}
	for _, coil := range result.Waiting {
		waitingRows = append(waitingRows, []interface{}{coil.Grade, coil.Width, coil.Weight})
	}
	if err := writeRows(f, WaitingSheet, waitingRows, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	return f.Write(w)
}

func summaryRows(s stacker.Summary) [][]interface{} {
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Input Coils", s.TotalCoils},
		{"Total Stacks", s.StackCount},
		{"4-Coil Stacks", s.FourCoilStacks},
		{"5-Coil Stacks", s.FiveCoilStacks},
		{fmt.Sprintf("Stacks < %.0f mm", s.TallThreshold), s.ShortStacks},
		{fmt.Sprintf("Stacks ≥ %.0f mm", s.TallThreshold), s.TallStacks},
		{"Average Stack Height (mm)", averageCell(s.AverageHeight)},
		{"Average Stack Weight (kg)", averageCell(s.AverageWeight)},
		{"Waiting Coils", s.WaitingCoils},
	}
	return rows
}

func averageCell(value *float64) interface{} {
	if value == nil {
		return "N/A"
	}
	return mathutil.Round(*value)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}, headerStyle int) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := row
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return err
		}
	}
	if len(rows) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(rows[0]), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, headerStyle)
}
