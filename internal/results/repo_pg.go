package results

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGStateRepo stores payloads in the analysis_state table.
type PGStateRepo struct {
	DB *sql.DB
}

func (r *PGStateRepo) Load(ctx context.Context, sessionID string) ([]byte, error) {
	const query = `
SELECT payload
FROM analysis_state
WHERE session_id = $1 AND state_key = $2`
	var payload string
	err := r.DB.QueryRowContext(ctx, query, sessionID, StateKey).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

func (r *PGStateRepo) Save(ctx context.Context, sessionID string, payload []byte) error {
	const query = `
INSERT INTO analysis_state (session_id, state_key, payload, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (session_id, state_key)
DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at`
	_, err := r.DB.ExecContext(ctx, query, sessionID, StateKey, string(payload), time.Now().UTC())
	return err
}

func (r *PGStateRepo) Clear(ctx context.Context, sessionID string) error {
	const query = `DELETE FROM analysis_state WHERE session_id = $1 AND state_key = $2`
	_, err := r.DB.ExecContext(ctx, query, sessionID, StateKey)
	return err
}

// PGExportRepo stores the export log in the report_exports table.
type PGExportRepo struct {
	DB *sql.DB
}

func (r *PGExportRepo) Create(ctx context.Context, export Export) error {
	const query = `
INSERT INTO report_exports (id, session_id, file_name, storage_key, size_bytes, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.DB.ExecContext(ctx, query,
		export.ID,
		export.SessionID,
		export.FileName,
		export.StorageKey,
		export.SizeBytes,
		export.CreatedAt,
	)
	return err
}

func (r *PGExportRepo) GetByID(ctx context.Context, sessionID, exportID string) (Export, error) {
	const query = `
SELECT id, session_id, file_name, storage_key, size_bytes, created_at
FROM report_exports
WHERE id = $1 AND session_id = $2
LIMIT 1`
	var e Export
	err := r.DB.QueryRowContext(ctx, query, exportID, sessionID).
		Scan(&e.ID, &e.SessionID, &e.FileName, &e.StorageKey, &e.SizeBytes, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Export{}, ErrNotFound
	}
	if err != nil {
		return Export{}, err
	}
	return e, nil
}

func (r *PGExportRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]Export, error) {
	const query = `
SELECT id, session_id, file_name, storage_key, size_bytes, created_at
FROM report_exports
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2`
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := r.DB.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Export
	for rows.Next() {
		var e Export
		if err := rows.Scan(&e.ID, &e.SessionID, &e.FileName, &e.StorageKey, &e.SizeBytes, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
