package importer

import "testing"

func TestBuildCompanyEntriesAssignsNegativeTempIDs(t *testing.T) {
	rows := [][]string{
		{"Acme", "info@acme.test"},
		{"Globex", "hq@globex.test"},
	}
	mappings := []FieldMapping{
		{ColumnIndex: 0, TargetField: "name"},
		{ColumnIndex: 1, TargetField: "email"},
	}
	entries := BuildCompanyEntries(rows, mappings)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	for i, entry := range entries {
		want := -int64(i + 1)
		if entry.TempID != want {
			t.Fatalf("expected row %d temp id %d, got %d", i+1, want, entry.TempID)
		}
		if !entry.Selected || entry.Action != ActionCreate {
			t.Fatalf("expected row %d to start as selected create, got selected=%v action=%s", i+1, entry.Selected, entry.Action)
		}
	}
	if entries[1].Data.Name != "Globex" || entries[1].Data.Email != "hq@globex.test" {
		t.Fatalf("unexpected second entry data: %+v", entries[1].Data)
	}
}

func TestBuildCompanyEntriesTrimsAndSkipsEmptyCells(t *testing.T) {
	rows := [][]string{{"  Acme  ", ""}}
	mappings := []FieldMapping{
		{ColumnIndex: 0, TargetField: "name"},
		{ColumnIndex: 1, TargetField: "email"},
	}
	entries := BuildCompanyEntries(rows, mappings)
	if entries[0].Data.Name != "Acme" {
		t.Fatalf("expected trimmed name Acme, got %q", entries[0].Data.Name)
	}
	if entries[0].Data.Email != "" {
		t.Fatalf("expected empty cell left unset, got %q", entries[0].Data.Email)
	}
}

func TestBuildCompanyEntriesIgnoresOutOfRangeColumn(t *testing.T) {
	rows := [][]string{{"Acme"}}
	mappings := []FieldMapping{
		{ColumnIndex: 0, TargetField: "name"},
		{ColumnIndex: 5, TargetField: "email"},
	}
	entries := BuildCompanyEntries(rows, mappings)
	if entries[0].Data.Email != "" {
		t.Fatalf("expected out-of-range column ignored, got %q", entries[0].Data.Email)
	}
}

func TestBuildContactEntriesCapturesCompanyName(t *testing.T) {
	rows := [][]string{{"Jane", "Doe", "jane@acme.test", "Acme"}}
	mappings := []FieldMapping{
		{ColumnIndex: 0, TargetField: "firstName"},
		{ColumnIndex: 1, TargetField: "lastName"},
		{ColumnIndex: 2, TargetField: "email"},
		{ColumnIndex: 3, TargetField: "companyName"},
	}
	entries := BuildContactEntries(rows, mappings)
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	data := entries[0].Data
	if data.FirstName != "Jane" || data.LastName != "Doe" || data.Email != "jane@acme.test" {
		t.Fatalf("unexpected contact data: %+v", data)
	}
	if data.CompanyName != "Acme" {
		t.Fatalf("expected companyName Acme, got %q", data.CompanyName)
	}
	if entries[0].CompanyID != nil {
		t.Fatal("company linking must not happen at build time")
	}
}
