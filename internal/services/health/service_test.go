package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"resume-inspector/internal/analyzer"
)

func TestStatusHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"healthy","service":"Resume Inspector API"}`))
	}))
	defer srv.Close()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	mock.ExpectPing()

	st := NewService(analyzer.NewClient(srv.URL), db).Status(context.Background())
	if !st.OK || st.Backend.Status != "healthy" || st.Database != "ok" {
		t.Fatalf("unexpected status %+v", st)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestStatusBackendDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	st := NewService(analyzer.NewClient(url), nil).Status(context.Background())
	if st.OK {
		t.Fatalf("expected not ok")
	}
	if st.Backend != analyzer.Unavailable {
		t.Fatalf("expected fallback backend health, got %+v", st.Backend)
	}
	if st.Database != "disabled" {
		t.Fatalf("expected database disabled, got %q", st.Database)
	}
}

func TestStatusDatabaseDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer srv.Close()

	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	st := NewService(analyzer.NewClient(srv.URL), db).Status(context.Background())
	if st.OK || st.Database != "error" {
		t.Fatalf("unexpected status %+v", st)
	}
}
