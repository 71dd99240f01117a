package store

import "context"

const tagColumns = `id, name, color`

func scanTag(row interface{ Scan(dest ...any) error }) (Tag, error) {
	var t Tag
	err := row.Scan(&t.ID, &t.Name, &t.Color)
	return t, err
}

func (q *Queries) GetTagByID(ctx context.Context, id int64) (Tag, error) {
	row := q.db.QueryRow(ctx, `SELECT `+tagColumns+` FROM tags WHERE id = $1`, id)
	return scanTag(row)
}

func (q *Queries) ListTags(ctx context.Context) ([]Tag, error) {
	rows, err := q.db.Query(ctx, `SELECT `+tagColumns+` FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

type CreateTagParams struct {
	Name  string
	Color *string
}

func (q *Queries) CreateTag(ctx context.Context, arg CreateTagParams) (Tag, error) {
	row := q.db.QueryRow(ctx, `
		INSERT INTO tags (name, color)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET color = COALESCE(EXCLUDED.color, tags.color)
		RETURNING `+tagColumns,
		arg.Name, arg.Color)
	return scanTag(row)
}

func (q *Queries) DeleteTag(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	return err
}

type TagAttachmentParams struct {
	TagID    int64
	EntityID int64
}

func (q *Queries) AttachTagToCompany(ctx context.Context, arg TagAttachmentParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO company_tags (company_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, arg.EntityID, arg.TagID)
	return err
}

func (q *Queries) DetachTagFromCompany(ctx context.Context, arg TagAttachmentParams) error {
	_, err := q.db.Exec(ctx, `DELETE FROM company_tags WHERE company_id = $1 AND tag_id = $2`, arg.EntityID, arg.TagID)
	return err
}

func (q *Queries) AttachTagToContact(ctx context.Context, arg TagAttachmentParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO contact_tags (contact_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`, arg.EntityID, arg.TagID)
	return err
}

func (q *Queries) DetachTagFromContact(ctx context.Context, arg TagAttachmentParams) error {
	_, err := q.db.Exec(ctx, `DELETE FROM contact_tags WHERE contact_id = $1 AND tag_id = $2`, arg.EntityID, arg.TagID)
	return err
}

func (q *Queries) ListTagsForCompany(ctx context.Context, companyID int64) ([]Tag, error) {
	rows, err := q.db.Query(ctx, `
		SELECT t.id, t.name, t.color
		FROM tags t
		JOIN company_tags ct ON ct.tag_id = t.id
		WHERE ct.company_id = $1
		ORDER BY t.name`, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

func (q *Queries) ListTagsForContact(ctx context.Context, contactID int64) ([]Tag, error) {
	rows, err := q.db.Query(ctx, `
		SELECT t.id, t.name, t.color
		FROM tags t
		JOIN contact_tags ct ON ct.tag_id = t.id
		WHERE ct.contact_id = $1
		ORDER BY t.name`, contactID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []Tag
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, err
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}
