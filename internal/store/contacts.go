package store

import (
	"context"
	"time"
)

const contactColumns = `id, first_name, last_name, email, phone_number, city, country, company_id, created_at, updated_at`

func scanContact(row interface{ Scan(dest ...any) error }) (Contact, error) {
	var c Contact
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.PhoneNumber, &c.City, &c.Country, &c.CompanyID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (q *Queries) GetContactByID(ctx context.Context, id int64) (Contact, error) {
	row := q.db.QueryRow(ctx, `SELECT `+contactColumns+` FROM contacts WHERE id = $1`, id)
	return scanContact(row)
}

func (q *Queries) FindContactByEmail(ctx context.Context, email string) (Contact, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+contactColumns+` FROM contacts
		WHERE lower(email) = lower($1)
		ORDER BY id LIMIT 1`, email)
	return scanContact(row)
}

type ListContactsParams struct {
	Search    string
	CompanyID *int64
	Limit     int32
	Offset    int32
}

func (q *Queries) ListContacts(ctx context.Context, arg ListContactsParams) ([]Contact, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+contactColumns+` FROM contacts
		WHERE ($1 = '' OR first_name || ' ' || last_name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%')
		  AND ($2::bigint IS NULL OR company_id = $2)
		ORDER BY last_name, first_name, id
		LIMIT $3 OFFSET $4`,
		arg.Search, arg.CompanyID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

type CreateContactParams struct {
	FirstName   string
	LastName    string
	Email       *string
	PhoneNumber *string
	City        *string
	Country     *string
	CompanyID   *int64
	// CreatedAt overrides the insert timestamp, for imports that carry
	// their own creation dates. Nil keeps the database default.
	CreatedAt *time.Time
}

func (q *Queries) CreateContact(ctx context.Context, arg CreateContactParams) (Contact, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO contacts (first_name, last_name, email, phone_number, city, country, company_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, COALESCE($8, now()))
		RETURNING `+contactColumns,
		arg.FirstName, arg.LastName, arg.Email, arg.PhoneNumber, arg.City, arg.Country, arg.CompanyID, arg.CreatedAt)
	return scanContact(row)
}

type UpdateContactParams struct {
	ID          int64
	FirstName   string
	LastName    string
	Email       *string
	PhoneNumber *string
	City        *string
	Country     *string
	CompanyID   *int64
}

func (q *Queries) UpdateContact(ctx context.Context, arg UpdateContactParams) (Contact, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE contacts
		SET first_name = $2,
		    last_name = $3,
		    email = COALESCE($4, email),
		    phone_number = COALESCE($5, phone_number),
		    city = COALESCE($6, city),
		    country = COALESCE($7, country),
		    company_id = COALESCE($8, company_id),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+contactColumns,
		arg.ID, arg.FirstName, arg.LastName, arg.Email, arg.PhoneNumber, arg.City, arg.Country, arg.CompanyID)
	return scanContact(row)
}

func (q *Queries) DeleteContact(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	return err
}

func (q *Queries) ExportContactsRows(ctx context.Context) ([]Contact, error) {
	rows, err := q.db.Query(ctx, `SELECT `+contactColumns+` FROM contacts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}
