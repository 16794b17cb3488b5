package results

import "context"

// StateRepo persists the raw analysis payload per session.
type StateRepo interface {
	Load(ctx context.Context, sessionID string) ([]byte, error)
	Save(ctx context.Context, sessionID string, payload []byte) error
	Clear(ctx context.Context, sessionID string) error
}

// ExportRepo records generated reports.
type ExportRepo interface {
	Create(ctx context.Context, export Export) error
	GetByID(ctx context.Context, sessionID, exportID string) (Export, error)
	ListBySession(ctx context.Context, sessionID string, limit int) ([]Export, error)
}
