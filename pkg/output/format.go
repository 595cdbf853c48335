// Package output provides utilities for formatting and displaying stacking results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/iwvelando/baf-stacker/internal/ingest"
	"github.com/iwvelando/baf-stacker/internal/stacker"
	"github.com/iwvelando/baf-stacker/pkg/mathutil"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	heading = color.New(color.Bold)
	success = color.New(color.FgGreen)
	caution = color.New(color.FgYellow)
)

// PrettyFormat outputs a human-readable rather than machine-readable report.
func PrettyFormat(w io.Writer, result stacker.Result) {
	p := message.NewPrinter(language.English)
	s := result.Summary

	_, _ = heading.Fprintln(w, "--- Summary ---")
	_, _ = p.Fprintf(w, "Total Input Coils: %d\n", s.TotalCoils)
	_, _ = p.Fprintf(w, "Total Stacks: %d\n", s.StackCount)
	_, _ = p.Fprintf(w, "4-Coil Stacks: %d\n", s.FourCoilStacks)
	_, _ = p.Fprintf(w, "5-Coil Stacks: %d\n", s.FiveCoilStacks)
	_, _ = p.Fprintf(w, "Stacks < %.0f mm: %d\n", s.TallThreshold, s.ShortStacks)
	_, _ = p.Fprintf(w, "Stacks ≥ %.0f mm: %d\n", s.TallThreshold, s.TallStacks)
	_, _ = fmt.Fprintf(w, "Average Stack Height: %s\n", average(p, s.AverageHeight, "mm"))
	_, _ = fmt.Fprintf(w, "Average Stack Weight: %s\n", average(p, s.AverageWeight, "kg"))
	_, _ = p.Fprintf(w, "Utilization: %.2f%%\n", mathutil.Round(s.Utilization))

	_, _ = fmt.Fprintln(w)
	_, _ = heading.Fprintln(w, "--- Optimized Stacks ---")
	for i, stack := range result.Stacks {
		_, _ = p.Fprintf(w, "Stack %d: Grade %s, Total Width: %.2f mm, Total Weight: %.2f kg\n",
			i+1, stack.Grade, stack.TotalWidth, stack.TotalWeight)
		writeCoilTable(w, p, stack.Coils)
	}

	_, _ = fmt.Fprintln(w)
	_, _ = heading.Fprintln(w, "--- Waiting Coils ---")
	if len(result.Waiting) == 0 {
		_, _ = success.Fprintln(w, "All coils used in valid stacks!")
	} else {
		writeCoilTable(w, p, result.Waiting)
	}
	_, _ = p.Fprintf(w, "Waiting Coils: %d\n", len(result.Waiting))
}

// PrettyDropped lists upload rows that were left out before packing.
func PrettyDropped(w io.Writer, rows []ingest.DroppedRow) {
	if len(rows) == 0 {
		return
	}
	_, _ = caution.Fprintf(w, "Skipped %d row(s) that could not be packed:\n", len(rows))
	for _, row := range rows {
		_, _ = fmt.Fprintf(w, "  row %d: %s\n", row.Row, row.Reason)
	}
	_, _ = fmt.Fprintln(w)
}

func writeCoilTable(w io.Writer, p *message.Printer, coils []stacker.Coil) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "  #\tWidth (mm)\tWeight (kg)\tGrade\t")
	for i, coil := range coils {
		_, _ = p.Fprintf(tw, "  %d\t%.2f\t%.2f\t%s\t\n", i+1, coil.Width, coil.Weight, coil.Grade)
	}
	_ = tw.Flush()
}

func average(p *message.Printer, value *float64, unit string) string {
	if value == nil {
		return "N/A"
	}
	return p.Sprintf("%.2f %s", mathutil.Round(*value), unit)
}

// CsvHeader is the header row written by CsvFormat.
var CsvHeader = []string{"stack", "grade", "coil_grade", "width", "weight"}

// CsvFormat outputs one comma-separated row per coil. Waiting coils have an
// empty stack column.
func CsvFormat(w io.Writer, result stacker.Result) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CsvHeader); err != nil {
		return err
	}
	for i, stack := range result.Stacks {
		for _, coil := range stack.Coils {
			if err := writer.Write(csvRow(strconv.Itoa(i+1), stack.Grade, coil)); err != nil {
				return err
			}
		}
	}
	for _, coil := range result.Waiting {
		if err := writer.Write(csvRow("", coil.NormalizedGrade, coil)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func csvRow(stack, grade string, coil stacker.Coil) []string {
	return []string{
		stack,
		grade,
		coil.Grade,
		strconv.FormatFloat(coil.Width, 'f', -1, 64),
		strconv.FormatFloat(coil.Weight, 'f', -1, 64),
	}
}

// JSONFormat outputs the result as indented JSON.
func JSONFormat(w io.Writer, result stacker.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}
