package tabular

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Column describes one source column by header name and zero-based position.
type Column struct {
	Name  string
	Index int
}

// Table is the parsed form of a tabular document: an ordered set of columns
// plus the data rows beneath them. Rows are rectangular; Parse rejects ragged
// input.
type Table struct {
	Columns []Column
	Rows    [][]string
}

// ParseOption customises CSV parsing.
type ParseOption func(*parseOptions)

type parseOptions struct {
	comma     rune
	hasHeader bool
	rowLimit  int
}

// WithDelimiter overrides the field delimiter. Defaults to a comma.
func WithDelimiter(comma rune) ParseOption {
	return func(o *parseOptions) {
		o.comma = comma
	}
}

// WithoutHeader treats the first record as data; columns are named by their
// one-based position ("Column 1", "Column 2", ...).
func WithoutHeader() ParseOption {
	return func(o *parseOptions) {
		o.hasHeader = false
	}
}

// WithRowLimit stops parsing after limit data rows. Zero or negative means no
// limit. Useful for preview-sized parses of large uploads.
func WithRowLimit(limit int) ParseOption {
	return func(o *parseOptions) {
		o.rowLimit = limit
	}
}

// Parse decodes the document payload as CSV and returns the resulting Table.
// A header-only document yields a table with zero rows. Duplicate header
// names are disambiguated by suffixing their position.
func Parse(doc Document, options ...ParseOption) (*Table, error) {
	opts := parseOptions{comma: ',', hasHeader: true}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&opts)
	}

	reader := csv.NewReader(bytes.NewReader(doc.Raw()))
	reader.Comma = opts.comma
	reader.FieldsPerRecord = 0 // enforce rectangular records

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("tabular: parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, errors.New("tabular: document has no records")
	}

	table := &Table{}
	body := records
	if opts.hasHeader {
		table.Columns = headerColumns(records[0])
		body = records[1:]
	} else {
		table.Columns = positionalColumns(len(records[0]))
	}

	if opts.rowLimit > 0 && len(body) > opts.rowLimit {
		body = body[:opts.rowLimit]
	}
	table.Rows = make([][]string, 0, len(body))
	for _, record := range body {
		table.Rows = append(table.Rows, append([]string(nil), record...))
	}
	return table, nil
}

func headerColumns(header []string) []Column {
	columns := make([]Column, 0, len(header))
	seen := make(map[string]int, len(header))
	for i, raw := range header {
		name := strings.TrimSpace(raw)
		if name == "" {
			name = "Column " + strconv.Itoa(i+1)
		}
		key := strings.ToLower(name)
		if n, dup := seen[key]; dup {
			seen[key] = n + 1
			name = name + " (" + strconv.Itoa(n+1) + ")"
		} else {
			seen[key] = 1
		}
		columns = append(columns, Column{Name: name, Index: i})
	}
	return columns
}

func positionalColumns(width int) []Column {
	columns := make([]Column, 0, width)
	for i := 0; i < width; i++ {
		columns = append(columns, Column{Name: "Column " + strconv.Itoa(i+1), Index: i})
	}
	return columns
}

// Column looks up a column by name, case-insensitively.
func (t *Table) Column(name string) (Column, bool) {
	for _, col := range t.Columns {
		if strings.EqualFold(col.Name, name) {
			return col, true
		}
	}
	return Column{}, false
}

// Cell returns the value at (row, col.Index), or "" when out of range.
func (t *Table) Cell(row int, col Column) string {
	if row < 0 || row >= len(t.Rows) {
		return ""
	}
	record := t.Rows[row]
	if col.Index < 0 || col.Index >= len(record) {
		return ""
	}
	return record[col.Index]
}

// ColumnValues returns the values of one column across all rows.
func (t *Table) ColumnValues(col Column) []string {
	values := make([]string, 0, len(t.Rows))
	for i := range t.Rows {
		values = append(values, t.Cell(i, col))
	}
	return values
}

// Equal reports value equality of two tables. Detection triggers use it to
// decide whether the active input actually changed.
func (t *Table) Equal(other *Table) bool {
	if t == nil || other == nil {
		return t == other
	}
	if len(t.Columns) != len(other.Columns) || len(t.Rows) != len(other.Rows) {
		return false
	}
	for i, col := range t.Columns {
		if col != other.Columns[i] {
			return false
		}
	}
	for i, row := range t.Rows {
		if len(row) != len(other.Rows[i]) {
			return false
		}
		for j, cell := range row {
			if cell != other.Rows[i][j] {
				return false
			}
		}
	}
	return true
}
