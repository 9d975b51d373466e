package dqi

import (
	"fmt"
	"strings"
)

// ParseTable splits decoded file content into a header and typed rows.
//
// The first non-blank line is the header. A data line whose field count does
// not match the header is dropped without error and counted in DroppedRows.
// ErrNoData is returned when no data row remains.
func ParseTable(content string) (*Table, error) {
	lines := strings.Split(content, "\n")

	var header []string
	table := &Table{}

	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields := splitLine(line)
		if header == nil {
			header = fields
			continue
		}

		if len(fields) != len(header) {
			table.DroppedRows++
			continue
		}

		row := make(RawRow, len(header))
		for i, name := range header {
			row[name] = TypeValue(fields[i])
		}
		table.Rows = append(table.Rows, row)
	}

	if len(table.Rows) == 0 {
		return nil, fmt.Errorf("parse table: %w", ErrNoData)
	}

	table.Columns = uniqueColumns(header)
	return table, nil
}

// splitLine splits one line on commas that are outside double quotes.
// Each field is trimmed and loses a single pair of wrapping quotes.
func splitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			current.WriteRune(r)
		case r == ',' && !inQuotes:
			fields = append(fields, cleanField(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, cleanField(current.String()))

	return fields
}

func cleanField(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && strings.HasPrefix(s, `"`) && strings.HasSuffix(s, `"`) {
		s = s[1 : len(s)-1]
	}
	return s
}

// uniqueColumns returns header names in order with repeats removed.
// A repeated header name shares one map slot in every RawRow, so the later
// field wins and the column is profiled once.
func uniqueColumns(header []string) []string {
	seen := make(map[string]bool, len(header))
	cols := make([]string, 0, len(header))
	for _, h := range header {
		if seen[h] {
			continue
		}
		seen[h] = true
		cols = append(cols, h)
	}
	return cols
}
