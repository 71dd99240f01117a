package importer

import (
	"errors"
	"strings"
	"testing"
)

func TestParseBuildsColumnsFromHeader(t *testing.T) {
	data := []byte("Name,Email\nAcme,info@acme.test\nGlobex,hq@globex.test\n")
	result, err := Parse(data, ParseOptions{HasHeader: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Columns) != 2 {
		t.Fatalf("expected 2 columns, got %d", len(result.Columns))
	}
	if result.Columns[0].Name != "Name" || result.Columns[1].Name != "Email" {
		t.Fatalf("unexpected column names: %q, %q", result.Columns[0].Name, result.Columns[1].Name)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 data rows, got %d", len(result.Rows))
	}
	if got := result.Columns[1].Values[0]; got != "info@acme.test" {
		t.Fatalf("expected first email value info@acme.test, got %q", got)
	}
}

func TestParseStripsByteOrderMarkFromHeader(t *testing.T) {
	data := []byte("\xef\xbb\xbfName,Email\nAcme,info@acme.test\n")
	result, err := Parse(data, ParseOptions{HasHeader: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Columns[0].Name != "Name" {
		t.Fatalf("expected BOM stripped from first header, got %q", result.Columns[0].Name)
	}
}

func TestParseWithoutHeaderNamesColumnsByPosition(t *testing.T) {
	data := []byte("Acme,info@acme.test\n")
	result, err := Parse(data, ParseOptions{})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Columns[0].Name != "Column 1" || result.Columns[1].Name != "Column 2" {
		t.Fatalf("unexpected column names: %q, %q", result.Columns[0].Name, result.Columns[1].Name)
	}
}

func TestParseCollectsEveryRowIssue(t *testing.T) {
	data := []byte("Name,Email\nAcme\nGlobex,hq@globex.test,extra\n")
	_, err := Parse(data, ParseOptions{HasHeader: true})
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if len(parseErr.Issues) != 2 {
		t.Fatalf("expected 2 issues, got %d: %v", len(parseErr.Issues), parseErr.Issues)
	}
	if !strings.Contains(parseErr.Issues[0], "line 2") {
		t.Fatalf("expected first issue to name line 2, got %q", parseErr.Issues[0])
	}
}

func TestParseEmptyFile(t *testing.T) {
	result, err := Parse(nil, ParseOptions{HasHeader: true})
	if err != nil {
		t.Fatalf("expected no error for empty file, got %v", err)
	}
	if len(result.Columns) != 0 || len(result.Rows) != 0 {
		t.Fatalf("expected empty result, got %d columns %d rows", len(result.Columns), len(result.Rows))
	}
}

func TestParseSkipsBlankRows(t *testing.T) {
	data := []byte("Name\nAcme\n  \nGlobex\n")
	result, err := Parse(data, ParseOptions{HasHeader: true})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected blank row skipped, got %d rows", len(result.Rows))
	}
}

func TestParseTruncatesPreviewRows(t *testing.T) {
	data := []byte("Name\nA\nB\nC\n")
	result, err := Parse(data, ParseOptions{HasHeader: true, MaxRows: 2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(result.Rows) != 2 {
		t.Fatalf("expected 2 rows after truncation, got %d", len(result.Rows))
	}
	if !result.Truncated {
		t.Fatal("expected Truncated to be set")
	}
}
