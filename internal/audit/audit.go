package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tradelink-crm/api/internal/store"
)

type Logger struct {
	q *store.Queries
}

func NewLogger(q *store.Queries) *Logger {
	return &Logger{q: q}
}

type Entry struct {
	UserID     *int64
	Action     string
	EntityType string
	EntityID   *int64
	RequestID  string
	Metadata   map[string]any
}

func (l *Logger) Log(ctx context.Context, entry Entry) error {
	metadata := []byte("{}")
	if len(entry.Metadata) > 0 {
		encoded, err := json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata: %w", err)
		}
		metadata = encoded
	}

	params := store.InsertAuditLogParams{
		Action:     entry.Action,
		EntityType: entry.EntityType,
		Metadata:   metadata,
	}
	if entry.UserID != nil {
		params.UserID = entry.UserID
	}
	if entry.EntityID != nil {
		params.EntityID = entry.EntityID
	}
	if entry.RequestID != "" {
		params.RequestID = &entry.RequestID
	}

	if err := l.q.InsertAuditLog(ctx, params); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}
