package store

import "context"

type InsertAuditLogParams struct {
	UserID     *int64
	Action     string
	EntityType string
	EntityID   *int64
	RequestID  *string
	Metadata   []byte
}

func (q *Queries) InsertAuditLog(ctx context.Context, arg InsertAuditLogParams) error {
	_, err := q.db.Exec(ctx, `
		INSERT INTO audit_log (user_id, action, entity_type, entity_id, request_id, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		arg.UserID, arg.Action, arg.EntityType, arg.EntityID, arg.RequestID, arg.Metadata)
	return err
}
