package store

import (
	"context"
	"time"
)

const companyColumns = `id, name, email, phone_number, website, city, country, created_at, updated_at`

func scanCompany(row interface{ Scan(dest ...any) error }) (Company, error) {
	var c Company
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.PhoneNumber, &c.Website, &c.City, &c.Country, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

func (q *Queries) GetCompanyByID(ctx context.Context, id int64) (Company, error) {
	row := q.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id)
	return scanCompany(row)
}

func (q *Queries) FindCompanyByEmail(ctx context.Context, email string) (Company, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+companyColumns+` FROM companies
		WHERE lower(email) = lower($1)
		ORDER BY id LIMIT 1`, email)
	return scanCompany(row)
}

func (q *Queries) FindCompanyByName(ctx context.Context, name string) (Company, error) {
	row := q.db.QueryRow(ctx, `
		SELECT `+companyColumns+` FROM companies
		WHERE lower(name) = lower(btrim($1))
		ORDER BY id LIMIT 1`, name)
	return scanCompany(row)
}

type ListCompaniesParams struct {
	Search string
	Limit  int32
	Offset int32
}

func (q *Queries) ListCompanies(ctx context.Context, arg ListCompaniesParams) ([]Company, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+companyColumns+` FROM companies
		WHERE ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name, id
		LIMIT $2 OFFSET $3`,
		arg.Search, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}

type CreateCompanyParams struct {
	Name        string
	Email       *string
	PhoneNumber *string
	Website     *string
	City        *string
	Country     *string
	// CreatedAt overrides the insert timestamp, for imports that carry
	// their own creation dates. Nil keeps the database default.
	CreatedAt *time.Time
}

func (q *Queries) CreateCompany(ctx context.Context, arg CreateCompanyParams) (Company, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO companies (name, email, phone_number, website, city, country, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, COALESCE($7, now()))
		RETURNING `+companyColumns,
		arg.Name, arg.Email, arg.PhoneNumber, arg.Website, arg.City, arg.Country, arg.CreatedAt)
	return scanCompany(row)
}

type UpdateCompanyParams struct {
	ID          int64
	Name        string
	Email       *string
	PhoneNumber *string
	Website     *string
	City        *string
	Country     *string
}

func (q *Queries) UpdateCompany(ctx context.Context, arg UpdateCompanyParams) (Company, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE companies
		SET name = $2,
		    email = COALESCE($3, email),
		    phone_number = COALESCE($4, phone_number),
		    website = COALESCE($5, website),
		    city = COALESCE($6, city),
		    country = COALESCE($7, country),
		    updated_at = now()
		WHERE id = $1
		RETURNING `+companyColumns,
		arg.ID, arg.Name, arg.Email, arg.PhoneNumber, arg.Website, arg.City, arg.Country)
	return scanCompany(row)
}

func (q *Queries) DeleteCompany(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM companies WHERE id = $1`, id)
	return err
}

func (q *Queries) ExportCompaniesRows(ctx context.Context) ([]Company, error) {
	rows, err := q.db.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
