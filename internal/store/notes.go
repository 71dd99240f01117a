package store

import "context"

const noteColumns = `id, body, contact_id, company_id, author_id, created_at, updated_at`

func scanNote(row interface{ Scan(dest ...any) error }) (Note, error) {
	var n Note
	err := row.Scan(&n.ID, &n.Body, &n.ContactID, &n.CompanyID, &n.AuthorID, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func (q *Queries) GetNoteByID(ctx context.Context, id int64) (Note, error) {
	row := q.db.QueryRow(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = $1`, id)
	return scanNote(row)
}

type ListNotesParams struct {
	ContactID *int64
	CompanyID *int64
	Limit     int32
	Offset    int32
}

func (q *Queries) ListNotes(ctx context.Context, arg ListNotesParams) ([]Note, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+noteColumns+` FROM notes
		WHERE ($1::bigint IS NULL OR contact_id = $1)
		  AND ($2::bigint IS NULL OR company_id = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4`,
		arg.ContactID, arg.CompanyID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

type CreateNoteParams struct {
	Body      string
	ContactID *int64
	CompanyID *int64
	AuthorID  *int64
}

func (q *Queries) CreateNote(ctx context.Context, arg CreateNoteParams) (Note, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO notes (body, contact_id, company_id, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING `+noteColumns,
		arg.Body, arg.ContactID, arg.CompanyID, arg.AuthorID)
	return scanNote(row)
}

type UpdateNoteParams struct {
	ID   int64
	Body string
}

func (q *Queries) UpdateNote(ctx context.Context, arg UpdateNoteParams) (Note, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE notes
		SET body = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+noteColumns,
		arg.ID, arg.Body)
	return scanNote(row)
}

func (q *Queries) DeleteNote(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	return err
}
