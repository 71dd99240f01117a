package importer

import (
	"context"
	"fmt"
	"strings"
)

// Session carries one import batch through its stages: load, map,
// build, link, de-duplicate, execute. The server keeps no state
// between requests; handlers rebuild a Session from the submitted
// payload at each step.
type Session struct {
	Type      ImportType
	Columns   []Column
	Rows      [][]string
	Mappings  FieldMappings
	Companies []*CompanyEntry
	Contacts  []*ContactEntry
	Truncated bool

	lookup RecordLookup
}

func NewSession(importType ImportType, lookup RecordLookup) *Session {
	return &Session{Type: importType, lookup: lookup}
}

// LoadFile parses raw CSV bytes into the session. When hasHeader is
// false the first row is data and columns get positional names.
func (s *Session) LoadFile(data []byte, hasHeader bool, maxRows int) error {
	result, err := Parse(data, ParseOptions{HasHeader: hasHeader, MaxRows: maxRows})
	if err != nil {
		return err
	}
	s.Columns = result.Columns
	s.Rows = result.Rows
	s.Truncated = result.Truncated
	return nil
}

// ApplyMappings installs caller-supplied mappings, falling back to the
// header heuristics when both lists are empty.
func (s *Session) ApplyMappings(mappings FieldMappings) {
	if len(mappings.Company) == 0 && len(mappings.Contact) == 0 {
		s.Mappings = AutoMap(s.Columns, s.Type)
		return
	}
	s.Mappings = Normalize(mappings)
}

// BuildEntries materializes candidate entries from the loaded rows and
// the installed mappings. Entry lists respect the import type.
func (s *Session) BuildEntries() {
	s.Companies = nil
	s.Contacts = nil
	if s.Type != ImportContacts && len(s.Mappings.Company) > 0 {
		s.Companies = BuildCompanyEntries(s.Rows, s.Mappings.Company)
	}
	if s.Type != ImportCompanies && len(s.Mappings.Contact) > 0 {
		s.Contacts = BuildContactEntries(s.Rows, s.Mappings.Contact)
	}
}

// LinkContacts resolves each contact's companyName against the batch
// first, then against existing records. A batch match links to the
// company entry's negative placeholder id; a store match records the
// real id and the matched record for the review screen. An unmatched
// name leaves the contact unlinked rather than failing the row.
func (s *Session) LinkContacts(ctx context.Context) error {
	if len(s.Contacts) == 0 {
		return nil
	}

	batchByName := map[string]*CompanyEntry{}
	for _, entry := range s.Companies {
		name := normalizeName(entry.Data.Name)
		if name == "" || batchByName[name] != nil {
			continue
		}
		batchByName[name] = entry
	}

	byName := map[string]*CompanyRef{}
	for _, entry := range s.Contacts {
		name := normalizeName(entry.Data.CompanyName)
		if name == "" {
			continue
		}
		if company := batchByName[name]; company != nil {
			tempID := company.TempID
			entry.CompanyID = &tempID
			continue
		}
		existing, ok := byName[name]
		if !ok {
			var err error
			existing, err = s.lookup.FindCompanyByName(ctx, entry.Data.CompanyName)
			if err != nil {
				return fmt.Errorf("match company %q: %w", entry.Data.CompanyName, err)
			}
			byName[name] = existing
		}
		if existing != nil {
			id := existing.ID
			entry.CompanyID = &id
			entry.MatchedCompany = existing
		}
	}
	return nil
}

// DetectDuplicates recomputes duplicate email groups from the
// currently selected entries.
func (s *Session) DetectDuplicates(ctx context.Context) ([]DuplicateEmailError, error) {
	return FindDuplicateEmails(ctx, s.lookup, s.Companies, s.Contacts)
}

// RemoveDuplicateEmailEntries deselects the named 1-based rows of one
// duplicate group, then recomputes all groups so that a group reduced
// to a single fresh row stops being reported.
func (s *Session) RemoveDuplicateEmailEntries(ctx context.Context, email string, entityType EntityType, rows []int) ([]DuplicateEmailError, error) {
	normalized := NormalizeEmail(email)
	drop := map[int]bool{}
	for _, row := range rows {
		drop[row] = true
	}

	switch entityType {
	case EntityCompany:
		for i, entry := range s.Companies {
			if drop[i+1] && NormalizeEmail(entry.Data.Email) == normalized {
				entry.Selected = false
			}
		}
	case EntityContact:
		for i, entry := range s.Contacts {
			if drop[i+1] && NormalizeEmail(entry.Data.Email) == normalized {
				entry.Selected = false
			}
		}
	}

	return s.DetectDuplicates(ctx)
}

// MarkCompanyUpdate converts the 1-based company row into an update of
// an existing record.
func (s *Session) MarkCompanyUpdate(row int, existingID int64) error {
	if row < 1 || row > len(s.Companies) {
		return fmt.Errorf("company row %d out of range", row)
	}
	entry := s.Companies[row-1]
	entry.Action = ActionUpdate
	entry.ExistingID = &existingID
	return nil
}

// MarkContactUpdate converts the 1-based contact row into an update of
// an existing record.
func (s *Session) MarkContactUpdate(row int, existingID int64) error {
	if row < 1 || row > len(s.Contacts) {
		return fmt.Errorf("contact row %d out of range", row)
	}
	entry := s.Contacts[row-1]
	entry.Action = ActionUpdate
	entry.ExistingID = &existingID
	return nil
}

// Execute persists the reviewed batch.
func (s *Session) Execute(ctx context.Context, p Persister) ExecuteResult {
	return Execute(ctx, p, s.Companies, s.Contacts)
}

func normalizeName(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
