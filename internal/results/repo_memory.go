package results

import (
	"context"
	"sort"
	"sync"
)

// MemoryStateRepo keeps payloads in memory and is safe for concurrent use.
type MemoryStateRepo struct {
	mu    sync.RWMutex
	state map[string][]byte
}

func NewMemoryStateRepo() *MemoryStateRepo {
	return &MemoryStateRepo{state: make(map[string][]byte)}
}

func stateKey(sessionID string) string {
	return sessionID + "|" + StateKey
}

func (r *MemoryStateRepo) Load(ctx context.Context, sessionID string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	payload, ok := r.state[stateKey(sessionID)]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), payload...), nil
}

func (r *MemoryStateRepo) Save(ctx context.Context, sessionID string, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[stateKey(sessionID)] = append([]byte(nil), payload...)
	return nil
}

func (r *MemoryStateRepo) Clear(ctx context.Context, sessionID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.state, stateKey(sessionID))
	return nil
}

// MemoryExportRepo keeps the export log in memory.
type MemoryExportRepo struct {
	mu        sync.RWMutex
	byID      map[string]Export
	bySession map[string][]string
}

func NewMemoryExportRepo() *MemoryExportRepo {
	return &MemoryExportRepo{
		byID:      make(map[string]Export),
		bySession: make(map[string][]string),
	}
}

func (r *MemoryExportRepo) Create(ctx context.Context, export Export) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[export.ID] = export
	r.bySession[export.SessionID] = append(r.bySession[export.SessionID], export.ID)
	return nil
}

func (r *MemoryExportRepo) GetByID(ctx context.Context, sessionID, exportID string) (Export, error) {
	if err := ctx.Err(); err != nil {
		return Export{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	export, ok := r.byID[exportID]
	if !ok || export.SessionID != sessionID {
		return Export{}, ErrNotFound
	}
	return export, nil
}

// ListBySession returns the newest exports first.
func (r *MemoryExportRepo) ListBySession(ctx context.Context, sessionID string, limit int) ([]Export, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	ids := r.bySession[sessionID]
	out := make([]Export, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.byID[id])
	}
	r.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
