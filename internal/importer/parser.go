package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ParseError aggregates every row-level problem found in one pass so
// the user can fix the file once instead of error-by-error.
type ParseError struct {
	Issues []string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("csv parse failed: %s", strings.Join(e.Issues, "; "))
}

type ParseOptions struct {
	HasHeader bool
	// MaxRows truncates the parsed data rows for preview responses.
	// Zero means no limit; the caller keeps the raw file for execute.
	MaxRows int
}

type ParseResult struct {
	Header  []string
	Rows    [][]string
	Columns []Column
	// Truncated reports whether MaxRows cut rows off.
	Truncated bool
}

// Parse reads raw CSV bytes into a rectangular matrix plus per-column
// views. Rows whose width disagrees with the first row, or that fail
// quoting rules, are collected into a single ParseError. An empty file
// yields zero columns and no error.
func Parse(data []byte, opts ParseOptions) (*ParseResult, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	var (
		rows   [][]string
		issues []string
		line   int
	)
	for {
		record, err := reader.Read()
		line++
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				issues = append(issues, fmt.Sprintf("line %d: %v", parseErr.Line, parseErr.Err))
			} else {
				issues = append(issues, fmt.Sprintf("line %d: %v", line, err))
			}
			continue
		}
		if isBlankRow(record) {
			continue
		}
		rows = append(rows, record)
	}
	if len(issues) > 0 {
		return nil, &ParseError{Issues: issues}
	}

	result := &ParseResult{}
	if len(rows) == 0 {
		return result, nil
	}

	width := len(rows[0])
	dataRows := rows
	if opts.HasHeader {
		result.Header = normalizeHeader(rows[0])
		dataRows = rows[1:]
	}
	if opts.MaxRows > 0 && len(dataRows) > opts.MaxRows {
		dataRows = dataRows[:opts.MaxRows]
		result.Truncated = true
	}
	result.Rows = dataRows

	result.Columns = make([]Column, width)
	for i := 0; i < width; i++ {
		name := fmt.Sprintf("Column %d", i+1)
		if opts.HasHeader && i < len(result.Header) {
			name = result.Header[i]
		}
		values := make([]string, 0, len(dataRows))
		for _, row := range dataRows {
			values = append(values, row[i])
		}
		result.Columns[i] = Column{Name: name, Values: values}
	}

	return result, nil
}

func normalizeHeader(row []string) []string {
	header := make([]string, len(row))
	for i, col := range row {
		header[i] = strings.TrimPrefix(strings.TrimSpace(col), "\ufeff")
	}
	return header
}

func isBlankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
