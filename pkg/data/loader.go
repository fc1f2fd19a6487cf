package data

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"tabprep/pkg/core"
)

// Options controls how CSV input is read.
type Options struct {
	// Header treats the first record as column names.
	Header bool
	// Comma is the field delimiter; zero means ','.
	Comma rune
}

// Table is a CSV file loaded into memory.
type Table struct {
	Headers []string // nil when the file has no header
	Frame   *core.Frame[string]
}

// ReadCSV loads every record of r. Records must all have the same field count.
func ReadCSV(r io.Reader, opts Options) (*Table, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	// field count is checked below so the error carries the frame's wording
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	t := &Table{}
	if opts.Header {
		if len(records) == 0 {
			return nil, errors.New("read csv: missing header record")
		}
		t.Headers = records[0]
		records = records[1:]
	}

	frame, err := core.FromRows(records)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if frame.R == 0 && t.Headers != nil {
		frame = core.NewFrame[string](0, len(t.Headers))
	}
	if t.Headers != nil && frame.C != len(t.Headers) {
		return nil, fmt.Errorf("read csv: header has %d columns, records have %d: %w", len(t.Headers), frame.C, core.ErrRagged)
	}
	t.Frame = frame
	return t, nil
}

// ReadCSVFile opens path and reads it with ReadCSV.
func ReadCSVFile(path string, opts Options) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadCSV(file, opts)
}

// WriteCSV writes an optional header followed by every row of f, formatting
// each cell with format.
func WriteCSV[T any](w io.Writer, comma rune, headers []string, f *core.Frame[T], format func(T) string) error {
	writer := csv.NewWriter(w)
	if comma != 0 {
		writer.Comma = comma
	}

	if headers != nil {
		if err := writer.Write(headers); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	rec := make([]string, f.C)
	for i := 0; i < f.R; i++ {
		for j := 0; j < f.C; j++ {
			rec[j] = format(f.At(i, j))
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
