package health

import (
	"context"
	"time"

	"resume-inspector/internal/analyzer"
)

const defaultTimeout = 3 * time.Second

// Backend reports the analysis backend's health.
type Backend interface {
	Health(ctx context.Context) (analyzer.Health, error)
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	Backend Backend
	DB      Pinger
	Timeout time.Duration
}

// NewService constructs a new health service. db may be nil when state is
// kept in memory.
func NewService(backend Backend, db Pinger) *Service {
	return &Service{Backend: backend, DB: db, Timeout: defaultTimeout}
}

// Status is the health payload.
type Status struct {
	OK       bool            `json:"ok"`
	Backend  analyzer.Health `json:"backend"`
	Database string          `json:"database"`
}

// Status checks the backend and the database. The service itself is always
// up when it can answer; OK is false when a dependency is down.
func (s *Service) Status(ctx context.Context) Status {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	st := Status{OK: true, Backend: analyzer.Unavailable, Database: "disabled"}
	if s.Backend != nil {
		h, err := s.Backend.Health(ctx)
		st.Backend = h
		if err != nil {
			st.OK = false
		}
	} else {
		st.OK = false
	}
	if s.DB != nil {
		if err := s.DB.PingContext(ctx); err != nil {
			st.Database = "error"
			st.OK = false
		} else {
			st.Database = "ok"
		}
	}
	return st
}
