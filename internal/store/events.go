package store

import (
	"context"
	"time"
)

const eventColumns = `id, title, starts_at, ends_at, location, contact_id, created_at, updated_at`

func scanEvent(row interface{ Scan(dest ...any) error }) (Event, error) {
	var e Event
	err := row.Scan(&e.ID, &e.Title, &e.StartsAt, &e.EndsAt, &e.Location, &e.ContactID, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

func (q *Queries) GetEventByID(ctx context.Context, id int64) (Event, error) {
	row := q.db.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id)
	return scanEvent(row)
}

type ListEventsParams struct {
	From      *time.Time
	To        *time.Time
	ContactID *int64
	Limit     int32
	Offset    int32
}

func (q *Queries) ListEvents(ctx context.Context, arg ListEventsParams) ([]Event, error) {
	rows, err := q.db.Query(ctx, `
		SELECT `+eventColumns+` FROM events
		WHERE ($1::timestamptz IS NULL OR starts_at >= $1)
		  AND ($2::timestamptz IS NULL OR starts_at < $2)
		  AND ($3::bigint IS NULL OR contact_id = $3)
		ORDER BY starts_at, id
		LIMIT $4 OFFSET $5`,
		arg.From, arg.To, arg.ContactID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

type CreateEventParams struct {
	Title     string
	StartsAt  time.Time
	EndsAt    *time.Time
	Location  *string
	ContactID *int64
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) (Event, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO events (title, starts_at, ends_at, location, contact_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+eventColumns,
		arg.Title, arg.StartsAt, arg.EndsAt, arg.Location, arg.ContactID)
	return scanEvent(row)
}

type UpdateEventParams struct {
	ID        int64
	Title     string
	StartsAt  time.Time
	EndsAt    *time.Time
	Location  *string
	ContactID *int64
}

func (q *Queries) UpdateEvent(ctx context.Context, arg UpdateEventParams) (Event, error) {
	row := q.db.QueryRow(ctx, `
		UPDATE events
		SET title = $2, starts_at = $3, ends_at = $4, location = $5, contact_id = $6, updated_at = now()
		WHERE id = $1
		RETURNING `+eventColumns,
		arg.ID, arg.Title, arg.StartsAt, arg.EndsAt, arg.Location, arg.ContactID)
	return scanEvent(row)
}

func (q *Queries) DeleteEvent(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}
