package handlers

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tradelink-crm/api/internal/importer"
	"github.com/tradelink-crm/api/internal/store"
)

// storeLookup adapts the query layer to the import pipeline's lookup
// interface. A missing record is a nil ref, not an error.
type storeLookup struct {
	q *store.Queries
}

func (l *storeLookup) FindCompanyByEmail(ctx context.Context, email string) (*importer.CompanyRef, error) {
	company, err := l.q.FindCompanyByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &importer.CompanyRef{ID: company.ID, Name: company.Name}, nil
}

func (l *storeLookup) FindContactByEmail(ctx context.Context, email string) (*importer.CompanyRef, error) {
	contact, err := l.q.FindContactByEmail(ctx, email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &importer.CompanyRef{ID: contact.ID, Name: strings.TrimSpace(contact.FirstName + " " + contact.LastName)}, nil
}

func (l *storeLookup) FindCompanyByName(ctx context.Context, name string) (*importer.CompanyRef, error) {
	company, err := l.q.FindCompanyByName(ctx, name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &importer.CompanyRef{ID: company.ID, Name: company.Name}, nil
}

// storePersister adapts the query layer to the import executor.
type storePersister struct {
	q *store.Queries
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// createdAtLayouts are the date shapes accepted from a mapped
// createdAt column, tried in order.
var createdAtLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
}

// parseCreatedAt turns a mapped createdAt cell into a timestamp.
// Empty or unparseable values fall back to the database default
// rather than failing the row.
func parseCreatedAt(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	for _, layout := range createdAtLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

func (p *storePersister) CreateCompany(ctx context.Context, data importer.CompanyData) (int64, error) {
	company, err := p.q.CreateCompany(ctx, store.CreateCompanyParams{
		Name:        data.Name,
		Email:       optional(data.Email),
		PhoneNumber: optional(data.PhoneNumber),
		Website:     optional(data.Website),
		City:        optional(data.City),
		Country:     optional(data.Country),
		CreatedAt:   parseCreatedAt(data.CreatedAt),
	})
	if err != nil {
		return 0, err
	}
	return company.ID, nil
}

func (p *storePersister) UpdateCompany(ctx context.Context, id int64, data importer.CompanyData) error {
	_, err := p.q.UpdateCompany(ctx, store.UpdateCompanyParams{
		ID:          id,
		Name:        data.Name,
		Email:       optional(data.Email),
		PhoneNumber: optional(data.PhoneNumber),
		Website:     optional(data.Website),
		City:        optional(data.City),
		Country:     optional(data.Country),
	})
	return err
}

func (p *storePersister) CreateContact(ctx context.Context, data importer.ContactData, companyID *int64) (int64, error) {
	contact, err := p.q.CreateContact(ctx, store.CreateContactParams{
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		Email:       optional(data.Email),
		PhoneNumber: optional(data.PhoneNumber),
		City:        optional(data.City),
		Country:     optional(data.Country),
		CompanyID:   companyID,
		CreatedAt:   parseCreatedAt(data.CreatedAt),
	})
	if err != nil {
		return 0, err
	}
	return contact.ID, nil
}

func (p *storePersister) UpdateContact(ctx context.Context, id int64, data importer.ContactData, companyID *int64) error {
	_, err := p.q.UpdateContact(ctx, store.UpdateContactParams{
		ID:          id,
		FirstName:   data.FirstName,
		LastName:    data.LastName,
		Email:       optional(data.Email),
		PhoneNumber: optional(data.PhoneNumber),
		City:        optional(data.City),
		Country:     optional(data.Country),
		CompanyID:   companyID,
	})
	return err
}
