package importer

import (
	"context"
	"testing"
)

func TestSessionMixedImportEndToEnd(t *testing.T) {
	csv := []byte("First Name,Last Name,Email,Company\n" +
		"Jane,Doe,jane@acme.test,Acme\n" +
		"John,Smith,john@globex.test,Globex\n")

	lookup := &fakeLookup{}
	s := NewSession(ImportMixed, lookup)
	if err := s.LoadFile(csv, true, 0); err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	s.ApplyMappings(FieldMappings{})
	s.BuildEntries()

	if len(s.Companies) != 2 || len(s.Contacts) != 2 {
		t.Fatalf("expected 2 companies and 2 contacts, got %d and %d", len(s.Companies), len(s.Contacts))
	}
	if s.Companies[0].Data.Name != "Acme" {
		t.Fatalf("expected Company column feeding company name, got %q", s.Companies[0].Data.Name)
	}
	if s.Contacts[1].Data.CompanyName != "Globex" {
		t.Fatalf("expected companyName captured on contact, got %q", s.Contacts[1].Data.CompanyName)
	}

	if err := s.LinkContacts(context.Background()); err != nil {
		t.Fatalf("expected linking to succeed, got %v", err)
	}
	if s.Contacts[0].CompanyID == nil || *s.Contacts[0].CompanyID != s.Companies[0].TempID {
		t.Fatalf("expected contact linked to in-batch company placeholder, got %v", s.Contacts[0].CompanyID)
	}

	p := newFakePersister()
	result := s.Execute(context.Background(), p)
	if result.Stats.Companies != 2 || result.Stats.Contacts != 2 || result.Stats.Errors != 0 {
		t.Fatalf("unexpected stats: %+v", result.Stats)
	}
	if p.createdContact[0].companyID == nil || *p.createdContact[0].companyID <= 0 {
		t.Fatalf("expected positive company id on persisted contact, got %v", p.createdContact[0].companyID)
	}
}

func TestSessionHeaderlessFileUsesExplicitMappings(t *testing.T) {
	csv := []byte("Acme,info@acme.test\nGlobex,hq@globex.test\n")

	s := NewSession(ImportCompanies, &fakeLookup{})
	if err := s.LoadFile(csv, false, 0); err != nil {
		t.Fatalf("expected load to succeed, got %v", err)
	}
	if len(s.Rows) != 2 {
		t.Fatalf("expected first row kept as data, got %d rows", len(s.Rows))
	}
	if s.Columns[0].Name != "Column 1" {
		t.Fatalf("expected positional column name, got %q", s.Columns[0].Name)
	}

	s.ApplyMappings(FieldMappings{Company: []FieldMapping{
		{ColumnIndex: 0, TargetField: "name"},
		{ColumnIndex: 1, TargetField: "email"},
	}})
	s.BuildEntries()

	if len(s.Companies) != 2 {
		t.Fatalf("expected 2 company entries, got %d", len(s.Companies))
	}
	if s.Companies[0].Data.Name != "Acme" || s.Companies[0].Data.Email != "info@acme.test" {
		t.Fatalf("unexpected first entry: %+v", s.Companies[0].Data)
	}
}

func TestSessionLinkContactsMatchesExistingCompany(t *testing.T) {
	lookup := &fakeLookup{
		companiesByName: map[string]*CompanyRef{
			"initech": {ID: 7, Name: "Initech"},
		},
	}
	s := NewSession(ImportContacts, lookup)
	s.Contacts = []*ContactEntry{
		{Data: ContactData{FirstName: "Peter", LastName: "Gibbons", CompanyName: "Initech"}, Action: ActionCreate, Selected: true},
		{Data: ContactData{FirstName: "No", LastName: "Match", CompanyName: "Unknown Co"}, Action: ActionCreate, Selected: true},
	}

	if err := s.LinkContacts(context.Background()); err != nil {
		t.Fatalf("expected linking to succeed, got %v", err)
	}
	if s.Contacts[0].CompanyID == nil || *s.Contacts[0].CompanyID != 7 {
		t.Fatalf("expected contact linked to existing company 7, got %v", s.Contacts[0].CompanyID)
	}
	if s.Contacts[0].MatchedCompany == nil || s.Contacts[0].MatchedCompany.Name != "Initech" {
		t.Fatalf("expected matched company recorded, got %+v", s.Contacts[0].MatchedCompany)
	}
	if s.Contacts[1].CompanyID != nil {
		t.Fatal("unmatched company name must leave the contact unlinked")
	}
}

func TestSessionRemoveDuplicateEmailEntries(t *testing.T) {
	lookup := &fakeLookup{}
	s := NewSession(ImportCompanies, lookup)
	s.Companies = []*CompanyEntry{
		{Data: CompanyData{Name: "Acme", Email: "dup@x.com"}, Action: ActionCreate, Selected: true, TempID: -1},
		{Data: CompanyData{Name: "Acme Corp", Email: "dup@x.com"}, Action: ActionCreate, Selected: true, TempID: -2},
	}

	dups, err := s.DetectDuplicates(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(dups) != 1 {
		t.Fatalf("expected one duplicate group, got %d", len(dups))
	}

	remaining, err := s.RemoveDuplicateEmailEntries(context.Background(), "dup@x.com", EntityCompany, []int{2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected group gone after pruning to one row, got %v", remaining)
	}
	if s.Companies[1].Selected {
		t.Fatal("pruned row must be deselected")
	}
	if !s.Companies[0].Selected {
		t.Fatal("surviving row must stay selected")
	}

	again, err := s.RemoveDuplicateEmailEntries(context.Background(), "dup@x.com", EntityCompany, []int{2})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("pruning must be idempotent, got %v", again)
	}
}
