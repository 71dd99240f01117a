package importer

import (
	"context"
	"fmt"
)

// Persister applies reviewed entries to storage. Implemented over the
// store by the import handler.
type Persister interface {
	CreateCompany(ctx context.Context, data CompanyData) (int64, error)
	UpdateCompany(ctx context.Context, id int64, data CompanyData) error
	CreateContact(ctx context.Context, data ContactData, companyID *int64) (int64, error)
	UpdateContact(ctx context.Context, id int64, data ContactData, companyID *int64) error
}

// Execute persists the selected entries: companies first, then
// contacts, so that contacts referencing a company created in this
// batch can be rewritten from its negative placeholder to the real
// database id. Validation and write failures are recorded per row and
// never abort the batch; a contact whose placeholder was not resolved
// (its company row failed or was deselected) fails with the dangling
// reference named rather than being written with a wrong or null
// company.
func Execute(ctx context.Context, p Persister, companies []*CompanyEntry, contacts []*ContactEntry) ExecuteResult {
	var (
		stats     Stats
		rowErrors []RowError
	)
	tempToReal := make(map[int64]int64)

	for i, entry := range companies {
		if !entry.Selected {
			continue
		}
		row := i + 1
		stats.TotalRecords++

		if errs := ValidateCompany(row, entry.Data); len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}

		switch entry.Action {
		case ActionUpdate:
			if entry.ExistingID == nil {
				rowErrors = append(rowErrors, RowError{Row: row, Message: "update entry has no existing id"})
				continue
			}
			if err := p.UpdateCompany(ctx, *entry.ExistingID, entry.Data); err != nil {
				rowErrors = append(rowErrors, RowError{Row: row, Message: err.Error()})
				continue
			}
			tempToReal[entry.TempID] = *entry.ExistingID
		default:
			id, err := p.CreateCompany(ctx, entry.Data)
			if err != nil {
				rowErrors = append(rowErrors, RowError{Row: row, Message: err.Error()})
				continue
			}
			tempToReal[entry.TempID] = id
		}
		stats.Companies++
	}

	for i, entry := range contacts {
		if !entry.Selected {
			continue
		}
		row := i + 1
		stats.TotalRecords++

		if errs := ValidateContact(row, entry.Data); len(errs) > 0 {
			rowErrors = append(rowErrors, errs...)
			continue
		}

		companyID, err := resolveCompanyID(entry.CompanyID, tempToReal)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Row: row, Field: "companyId", Message: err.Error()})
			continue
		}

		data := entry.Data
		data.CompanyName = ""

		switch entry.Action {
		case ActionUpdate:
			if entry.ExistingID == nil {
				rowErrors = append(rowErrors, RowError{Row: row, Message: "update entry has no existing id"})
				continue
			}
			if err := p.UpdateContact(ctx, *entry.ExistingID, data, companyID); err != nil {
				rowErrors = append(rowErrors, RowError{Row: row, Message: err.Error()})
				continue
			}
		default:
			if _, err := p.CreateContact(ctx, data, companyID); err != nil {
				rowErrors = append(rowErrors, RowError{Row: row, Message: err.Error()})
				continue
			}
		}
		stats.Contacts++
	}

	stats.Errors = len(rowErrors)
	return ExecuteResult{
		Success: true,
		Stats:   stats,
		Errors:  rowErrors,
	}
}

func resolveCompanyID(companyID *int64, tempToReal map[int64]int64) (*int64, error) {
	if companyID == nil || *companyID > 0 {
		return companyID, nil
	}
	real, ok := tempToReal[*companyID]
	if !ok {
		return nil, fmt.Errorf("unresolved temporary company reference %d", *companyID)
	}
	return &real, nil
}
