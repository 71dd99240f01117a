package store

import (
	"context"
	"time"
)

type CreateSessionParams struct {
	UserID    int64
	TokenHash string
	CsrfToken string
	ExpiresAt time.Time
}

func (q *Queries) CreateSession(ctx context.Context, arg CreateSessionParams) (int64, error) {
	var id int64
	err := q.db.QueryRow(ctx, `
		INSERT INTO sessions (user_id, token_hash, csrf_token, expires_at, last_seen_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id`,
		arg.UserID, arg.TokenHash, arg.CsrfToken, arg.ExpiresAt).Scan(&id)
	return id, err
}

func (q *Queries) GetSessionPrincipalByTokenHash(ctx context.Context, tokenHash string) (SessionPrincipal, error) {
	var p SessionPrincipal
	err := q.db.QueryRow(ctx, `
		SELECT s.id, u.id, u.email, u.full_name, u.role, s.csrf_token, s.expires_at
		FROM sessions s
		JOIN users u ON u.id = s.user_id
		WHERE s.token_hash = $1
		  AND s.revoked_at IS NULL
		  AND s.expires_at > now()
		  AND u.is_active`,
		tokenHash).Scan(&p.SessionID, &p.UserID, &p.Email, &p.FullName, &p.Role, &p.CsrfToken, &p.ExpiresAt)
	return p, err
}

func (q *Queries) TouchSession(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `UPDATE sessions SET last_seen_at = now() WHERE id = $1`, id)
	return err
}

func (q *Queries) RevokeSessionByID(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `UPDATE sessions SET revoked_at = now() WHERE id = $1 AND revoked_at IS NULL`, id)
	return err
}

func (q *Queries) RevokeSessionByTokenHash(ctx context.Context, tokenHash string) error {
	_, err := q.db.Exec(ctx, `UPDATE sessions SET revoked_at = now() WHERE token_hash = $1 AND revoked_at IS NULL`, tokenHash)
	return err
}
