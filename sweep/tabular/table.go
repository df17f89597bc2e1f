// Package tabular loads profiler trace exports into an ordered in-memory
// table and resolves kernel/metric cells by substring match.
// This package has no dependencies on sweep/ — it stores pure data types.
package tabular

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Value is one loosely typed cell: numeric where parseable, text otherwise.
type Value struct {
	raw   string
	num   float64
	isNum bool
}

func parseValue(s string) Value {
	trimmed := strings.TrimSpace(s)
	if n, err := strconv.ParseFloat(trimmed, 64); err == nil && trimmed != "" {
		return Value{raw: s, num: n, isNum: true}
	}
	return Value{raw: s}
}

// String returns the cell's original text.
func (v Value) String() string { return v.raw }

// Float64 returns the numeric interpretation of the cell, if it has one.
func (v Value) Float64() (float64, bool) { return v.num, v.isNum }

// IsNumber reports whether the cell parsed as a number.
func (v Value) IsNumber() bool { return v.isNum }

// Table is an immutable trace table: ordered column headers plus ordered rows.
type Table struct {
	Path    string
	Headers []string
	rows    [][]Value
}

// Load reads the CSV (or, by .tsv extension, tab-separated) file at path.
// Lines before headerRow are skipped; the line at headerRow supplies the
// column headers and everything after it becomes data rows. Trace exports
// carry ragged rows, so per-row field counts are not enforced.
func Load(path string, headerRow int) (*Table, error) {
	if headerRow < 0 {
		return nil, fmt.Errorf("header row must be non-negative, got %d", headerRow)
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace table: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	if strings.EqualFold(filepath.Ext(path), ".tsv") {
		reader.Comma = '\t'
	}

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing trace table %s: %w", path, err)
	}
	if headerRow >= len(records) {
		return nil, fmt.Errorf("header row %d beyond end of %s (%d lines)", headerRow, path, len(records))
	}

	table := &Table{Path: path, Headers: records[headerRow]}
	for _, record := range records[headerRow+1:] {
		row := make([]Value, len(record))
		for i, cell := range record {
			row[i] = parseValue(cell)
		}
		table.rows = append(table.rows, row)
	}
	return table, nil
}

// NumRows returns the number of data rows.
func (t *Table) NumRows() int { return len(t.rows) }

// Cell returns the value at (row, col); ok is false when the row is too
// short to have that column.
func (t *Table) Cell(row, col int) (Value, bool) {
	if row < 0 || row >= len(t.rows) || col < 0 || col >= len(t.rows[row]) {
		return Value{}, false
	}
	return t.rows[row][col], true
}

// FindRow returns the index of the first row, in table order, whose
// space-joined cell text contains match as a substring.
func (t *Table) FindRow(match string) (int, bool) {
	for i, row := range t.rows {
		parts := make([]string, len(row))
		for j, cell := range row {
			parts[j] = cell.String()
		}
		if strings.Contains(strings.Join(parts, " "), match) {
			return i, true
		}
	}
	return 0, false
}

// FindColumn returns the index of the first header, in declared order,
// containing match case-insensitively.
func (t *Table) FindColumn(match string) (int, bool) {
	lower := strings.ToLower(match)
	for i, header := range t.Headers {
		if strings.Contains(strings.ToLower(header), lower) {
			return i, true
		}
	}
	return 0, false
}
