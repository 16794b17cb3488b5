package results

import "sync"

// Operations guarded per session.
const (
	OpUpload = "upload"
	OpExport = "export"
)

// Guard rejects a second run of the same operation for a session while the
// first is still in flight. Rejected calls are not queued.
type Guard struct {
	mu     sync.Mutex
	active map[string]struct{}
}

func NewGuard() *Guard {
	return &Guard{active: make(map[string]struct{})}
}

// TryAcquire returns a release func, or false when the operation is busy.
func (g *Guard) TryAcquire(sessionID, op string) (func(), bool) {
	key := sessionID + "|" + op
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.active[key]; busy {
		return nil, false
	}
	g.active[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.active, key)
			g.mu.Unlock()
		})
	}, true
}
