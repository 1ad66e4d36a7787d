// Package dataset contains the tabular model shared by every comparison
// operation: an ordered set of named columns over rows of string cells,
// decoded from CSV. Cells keep their raw text; numeric coercion happens
// per column when a caller asks for it, and uncoercible cells become NaN.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Dataset is an immutable tabular snapshot. Rows are aligned with the
// column order; cell (i, j) belongs to column j of row i.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// New builds a Dataset from a header and pre-split rows. Every row must
// have exactly one cell per column and column names must be unique.
func New(columns []string, rows [][]string) (*Dataset, error) {
	if len(columns) == 0 {
		return nil, ErrEmptyInput
	}
	index := make(map[string]int, len(columns))
	for i, col := range columns {
		col = strings.TrimSpace(col)
		if col == "" {
			return nil, fmt.Errorf("%w: column %d has an empty name", ErrDecode, i)
		}
		if _, dup := index[col]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, col)
		}
		columns[i] = col
		index[col] = i
	}
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrDecode, i+1, len(row), len(columns))
		}
	}
	return &Dataset{columns: columns, index: index, rows: rows}, nil
}

// Decode reads a CSV document with a header row into a Dataset.
func Decode(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrDecode, err)
		}
		rows = append(rows, rec)
	}
	return New(header, rows)
}

// Encode writes the dataset back out as a CSV document with a header row.
func (d *Dataset) Encode(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.columns); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	for _, row := range d.rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%w: %w", ErrEncode, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("%w: %w", ErrEncode, err)
	}
	return nil
}

// Columns returns the column names in file order.
func (d *Dataset) Columns() []string {
	out := make([]string, len(d.columns))
	copy(out, d.columns)
	return out
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.rows)
}

// HasColumn reports whether name is one of the dataset's columns.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Cell returns the raw cell text for (row, column).
func (d *Dataset) Cell(row int, column string) (string, bool) {
	j, ok := d.index[column]
	if !ok || row < 0 || row >= len(d.rows) {
		return "", false
	}
	return d.rows[row][j], true
}

// NumericColumn coerces every cell of one column to float64. Cells that do
// not parse as numbers come back as NaN and are treated as missing by the
// aggregate computations downstream. The dataset itself is not modified.
func (d *Dataset) NumericColumn(name string) ([]float64, error) {
	j, ok := d.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	out := make([]float64, len(d.rows))
	for i, row := range d.rows {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[j]), 64)
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = v
	}
	return out, nil
}

// Select returns a new Dataset holding the given rows, in the given order.
// Indices out of range are skipped.
func (d *Dataset) Select(indices []int) *Dataset {
	rows := make([][]string, 0, len(indices))
	for _, i := range indices {
		if i < 0 || i >= len(d.rows) {
			continue
		}
		rows = append(rows, d.rows[i])
	}
	return &Dataset{columns: d.columns, index: d.index, rows: rows}
}

// Head returns up to n leading rows as raw cells, for previews.
func (d *Dataset) Head(n int) [][]string {
	if n > len(d.rows) {
		n = len(d.rows)
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(d.rows[i]))
		copy(row, d.rows[i])
		out[i] = row
	}
	return out
}
