// Package ingest reads coil inventories from spreadsheet uploads. It checks
// the header row for the required columns and coerces each data row into a
// stacker.Coil, dropping rows that cannot be packed.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iwvelando/baf-stacker/internal/stacker"
	"github.com/iwvelando/baf-stacker/pkg/constants"
	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv.
	ErrUnsupportedFormat = errors.New("unsupported file format")

	// ErrEmptySheet is returned when the upload has no header row.
	ErrEmptySheet = errors.New("empty sheet")

	// ErrMissingColumns is returned when a required column is absent.
	ErrMissingColumns = errors.New("missing required columns")
)

// RequiredColumns are the headers every upload must carry.
var RequiredColumns = []string{constants.ColumnWidth, constants.ColumnGrade, constants.ColumnWeight}

// MissingColumnsError lists the required columns that were not found.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("file must contain %s columns; missing %s",
		quoteJoin(RequiredColumns), quoteJoin(e.Columns))
}

// Unwrap lets errors.Is match ErrMissingColumns.
func (e *MissingColumnsError) Unwrap() error {
	return ErrMissingColumns
}

// DroppedRow records a data row left out of the batch.
type DroppedRow struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Batch is the packable content of an upload.
type Batch struct {
	Coils   []stacker.Coil `json:"coils"`
	Dropped []DroppedRow   `json:"dropped,omitempty"`
}

// Read parses r according to the extension of filename.
func Read(r io.Reader, filename string) (*Batch, error) {
	var (
		rows [][]string
		err  error
	)

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		rows, err = readWorkbook(r)
	case ".csv":
		rows, err = readCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q (expected .xlsx or .csv)", ErrUnsupportedFormat, filename)
	}
	if err != nil {
		return nil, err
	}
	return FromRows(rows)
}

// FromRows converts a header row plus data rows into a Batch.
func FromRows(rows [][]string) (*Batch, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	columns, err := locateColumns(rows[0])
	if err != nil {
		return nil, err
	}

	batch := &Batch{Coils: []stacker.Coil{}}
	for i, row := range rows[1:] {
		// Header is row 1.
		rowNum := i + 2
		if blankRow(row) {
			continue
		}

		coil, reason := parseRow(row, columns)
		if reason == "" {
			coil.Row = rowNum
			batch.Coils = append(batch.Coils, coil)
			continue
		}
		batch.Dropped = append(batch.Dropped, DroppedRow{Row: rowNum, Reason: reason})
	}

	return batch, nil
}

func readWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrEmptySheet
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	return rows, nil
}

func locateColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(RequiredColumns))
	for i, name := range header {
		trimmed := strings.TrimSpace(name)
		for _, required := range RequiredColumns {
			if _, found := columns[required]; found {
				continue
			}
			if strings.EqualFold(trimmed, required) {
				columns[required] = i
			}
		}
	}

	var missing []string
	for _, required := range RequiredColumns {
		if _, ok := columns[required]; !ok {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Columns: missing}
	}
	return columns, nil
}

func parseRow(row []string, columns map[string]int) (stacker.Coil, string) {
	width, reason := parseMeasure(cell(row, columns[constants.ColumnWidth]), constants.ColumnWidth)
	if reason != "" {
		return stacker.Coil{}, reason
	}
	weight, reason := parseMeasure(cell(row, columns[constants.ColumnWeight]), constants.ColumnWeight)
	if reason != "" {
		return stacker.Coil{}, reason
	}
	grade := strings.TrimSpace(cell(row, columns[constants.ColumnGrade]))
	if grade == "" {
		return stacker.Coil{}, constants.ColumnGrade + " is blank"
	}
	return stacker.Coil{Width: width, Weight: weight, Grade: grade}, ""
}

func parseMeasure(raw, column string) (float64, string) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, column + " is empty"
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Sprintf("%s %q is not a number", column, trimmed)
	}
	if v <= 0 {
		return 0, fmt.Sprintf("%s %s must be positive", column, trimmed)
	}
	return v, ""
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}

func blankRow(row []string) bool {
	for _, value := range row {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}

func quoteJoin(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = "'" + v + "'"
	}
	return strings.Join(quoted, ", ")
}
