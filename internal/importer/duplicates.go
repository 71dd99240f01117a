package importer

import (
	"context"
	"sort"
	"strings"
)

// RecordLookup answers "does a record with this email or name already
// exist". Implemented over the store by the import handler; kept
// narrow so the pipeline tests with an in-memory fake.
type RecordLookup interface {
	FindCompanyByEmail(ctx context.Context, email string) (*CompanyRef, error)
	FindContactByEmail(ctx context.Context, email string) (*CompanyRef, error)
	FindCompanyByName(ctx context.Context, name string) (*CompanyRef, error)
}

// FindDuplicateEmails scans currently selected entries for emails that
// occur more than once, counting an existing database record as an
// occurrence. Groups are keyed by normalized (trimmed, lowercased)
// email per entity type, rows are 1-based, and the output is sorted by
// type then email for stable presentation.
func FindDuplicateEmails(ctx context.Context, lookup RecordLookup, companies []*CompanyEntry, contacts []*ContactEntry) ([]DuplicateEmailError, error) {
	var result []DuplicateEmailError

	companyRows := map[string][]int{}
	for i, entry := range companies {
		if !entry.Selected {
			continue
		}
		email := NormalizeEmail(entry.Data.Email)
		if email == "" {
			continue
		}
		companyRows[email] = append(companyRows[email], i+1)
	}
	for email, rows := range companyRows {
		existing, err := lookup.FindCompanyByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing == nil && len(rows) < 2 {
			continue
		}
		result = append(result, DuplicateEmailError{
			Email:          email,
			Type:           EntityCompany,
			Rows:           rows,
			ExistingEntity: existing,
		})
	}

	contactRows := map[string][]int{}
	for i, entry := range contacts {
		if !entry.Selected {
			continue
		}
		email := NormalizeEmail(entry.Data.Email)
		if email == "" {
			continue
		}
		contactRows[email] = append(contactRows[email], i+1)
	}
	for email, rows := range contactRows {
		existing, err := lookup.FindContactByEmail(ctx, email)
		if err != nil {
			return nil, err
		}
		if existing == nil && len(rows) < 2 {
			continue
		}
		result = append(result, DuplicateEmailError{
			Email:          email,
			Type:           EntityContact,
			Rows:           rows,
			ExistingEntity: existing,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Type != result[j].Type {
			return result[i].Type < result[j].Type
		}
		return result[i].Email < result[j].Email
	})
	return result, nil
}

func NormalizeEmail(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
