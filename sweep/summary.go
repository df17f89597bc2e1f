package sweep

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/longcheng-nv/kernelsweep/sweep/tabular"
)

// Column headers for the summary table.
var summaryColumns = []string{"Kernel", "B", "N", "top-K", "dtype", "Average Time(ns)"}

// Summary is the append-only sink for extracted metric rows. One row is
// written per (configuration, sub-kernel); output order is append order.
type Summary struct {
	path   string
	file   *os.File
	writer *csv.Writer
}

// NewSummary creates the summary CSV at path and writes the header row.
func NewSummary(path string) (*Summary, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating summary file: %w", err)
	}
	writer := csv.NewWriter(file)
	if err := writer.Write(summaryColumns); err != nil {
		file.Close()
		return nil, fmt.Errorf("writing summary header: %w", err)
	}
	return &Summary{path: path, file: file, writer: writer}, nil
}

// Path returns the summary file location.
func (s *Summary) Path() string { return s.path }

// Append writes one metric row for the given sub-kernel and sweep point.
func (s *Summary) Append(kernel string, p Point, value tabular.Value) error {
	row := []string{
		kernel,
		strconv.Itoa(p.Batch),
		strconv.Itoa(p.Vocab),
		strconv.Itoa(p.TopK),
		p.DType,
		value.String(),
	}
	if err := s.writer.Write(row); err != nil {
		return fmt.Errorf("appending summary row: %w", err)
	}
	// Flush per row so a partial sweep still leaves usable output.
	s.writer.Flush()
	return s.writer.Error()
}

// Close flushes buffered rows and closes the file.
func (s *Summary) Close() error {
	s.writer.Flush()
	if err := s.writer.Error(); err != nil {
		s.file.Close()
		return fmt.Errorf("flushing summary: %w", err)
	}
	return s.file.Close()
}
