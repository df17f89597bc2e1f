package tabular

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a data-not-found condition: the table loaded fine but no
// row or column matched. IO failures (missing or unreadable file) never wrap
// it, so callers can tell a configuration error from an absent kernel.
var ErrNotFound = errors.New("not found")

// NotFoundError reports which match failed against which table.
type NotFoundError struct {
	Kind  string // "kernel" or "metric"
	Match string
	Path  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found in %s", e.Kind, e.Match, e.Path)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// LookupSingle loads the table at path and returns the cell at the
// intersection of the first row containing rowMatch and the first column
// whose header contains metricMatch (case-insensitive). First match wins in
// document order for both.
func LookupSingle(path, rowMatch, metricMatch string, headerRow int) (Value, error) {
	table, err := Load(path, headerRow)
	if err != nil {
		return Value{}, err
	}
	row, ok := table.FindRow(rowMatch)
	if !ok {
		return Value{}, &NotFoundError{Kind: "kernel", Match: rowMatch, Path: path}
	}
	col, ok := table.FindColumn(metricMatch)
	if !ok {
		return Value{}, &NotFoundError{Kind: "metric", Match: metricMatch, Path: path}
	}
	value, ok := table.Cell(row, col)
	if !ok {
		// Matched row is too short to carry the matched column.
		return Value{}, &NotFoundError{Kind: "metric", Match: metricMatch, Path: path}
	}
	return value, nil
}

// LookupMany loads the table once, locates the row for rowMatch once, and
// resolves each requested metric against it. Metrics with no matching header
// are silently omitted from the result; an absent row is an error.
func LookupMany(path, rowMatch string, metricMatches []string, headerRow int) (map[string]Value, error) {
	table, err := Load(path, headerRow)
	if err != nil {
		return nil, err
	}
	row, ok := table.FindRow(rowMatch)
	if !ok {
		return nil, &NotFoundError{Kind: "kernel", Match: rowMatch, Path: path}
	}
	results := make(map[string]Value)
	for _, metric := range metricMatches {
		col, ok := table.FindColumn(metric)
		if !ok {
			continue
		}
		if value, ok := table.Cell(row, col); ok {
			results[metric] = value
		}
	}
	return results, nil
}
