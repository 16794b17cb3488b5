package results

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"resume-inspector/internal/analyzer"
	"resume-inspector/internal/report"
	"resume-inspector/internal/report/pdf"
	"resume-inspector/internal/report/tabs"
	"resume-inspector/internal/shared/metrics"
	"resume-inspector/internal/shared/storage/object"
	"resume-inspector/internal/shared/telemetry"
)

const defaultListLimit = 20

// Analyzer sends an upload to the analysis backend.
type Analyzer interface {
	Analyze(ctx context.Context, u analyzer.Upload) ([]byte, error)
}

// ReportGenerator renders a view model into PDF bytes.
type ReportGenerator interface {
	Generate(vm report.ViewModel) ([]byte, error)
}

// Service owns the per-session analysis state and the report exports.
type Service struct {
	State    StateRepo
	Exports  ExportRepo
	Analyzer Analyzer
	Reports  ReportGenerator
	// Store archives generated reports; nil disables archiving.
	Store object.ObjectStore
	Guard *Guard

	Now   func() time.Time
	NewID func() string

	guardOnce sync.Once
}

// ExportResult is a generated report ready to be sent.
type ExportResult struct {
	Export Export
	Data   []byte
}

// Analyze clears the stored result, validates the upload, sends it to the
// backend and stores the raw payload. Once the backend call starts it runs
// to completion even if ctx is cancelled.
func (s *Service) Analyze(ctx context.Context, sessionID string, u analyzer.Upload) (report.ViewModel, error) {
	release, ok := s.guard().TryAcquire(sessionID, OpUpload)
	if !ok {
		metrics.IncUpload(metrics.OutcomeBusy)
		return report.ViewModel{}, ErrBusy
	}
	defer release()

	if err := s.State.Clear(ctx, sessionID); err != nil {
		return report.ViewModel{}, fmt.Errorf("clear state: %w", err)
	}
	if err := u.Validate(); err != nil {
		metrics.IncUpload(metrics.OutcomeInvalid)
		return report.ViewModel{}, err
	}

	runCtx := context.WithoutCancel(ctx)
	raw, err := s.Analyzer.Analyze(runCtx, u)
	if err != nil {
		metrics.IncUpload(metrics.OutcomeUpstream)
		return report.ViewModel{}, err
	}
	vm, err := report.NormalizeJSON(raw)
	if err != nil {
		metrics.IncUpload(metrics.OutcomeUpstream)
		return report.ViewModel{}, fmt.Errorf("%w: analyze: %v", analyzer.ErrTransport, err)
	}
	if err := s.State.Save(runCtx, sessionID, raw); err != nil {
		metrics.IncUpload(metrics.OutcomeFailed)
		return report.ViewModel{}, fmt.Errorf("save state: %w", err)
	}

	metrics.IncUpload(metrics.OutcomeOK)
	telemetry.Info("results.analyzed", map[string]any{
		"session_id": sessionID,
		"file_name":  u.FileName,
		"size_bytes": len(u.Data),
	})
	return vm, nil
}

// Discard clears the stored result for an upload that could not be read.
func (s *Service) Discard(ctx context.Context, sessionID string) {
	metrics.IncUpload(metrics.OutcomeInvalid)
	if err := s.State.Clear(ctx, sessionID); err != nil {
		telemetry.Warn("results.clear_failed", map[string]any{
			"session_id": sessionID,
			"error":      err,
		})
	}
}

// Current normalizes the stored payload. A missing or unreadable payload is
// reported as ErrNoData.
func (s *Service) Current(ctx context.Context, sessionID string) (report.ViewModel, error) {
	raw, err := s.State.Load(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return report.ViewModel{}, ErrNoData
	}
	if err != nil {
		return report.ViewModel{}, fmt.Errorf("load state: %w", err)
	}
	vm, err := report.NormalizeJSON(raw)
	if err != nil {
		telemetry.Warn("results.malformed_state", map[string]any{
			"session_id": sessionID,
			"error":      err,
		})
		return report.ViewModel{}, ErrNoData
	}
	return vm, nil
}

// Tab renders one tab of the stored result.
func (s *Service) Tab(ctx context.Context, sessionID, tab string) (tabs.View, error) {
	id, err := tabs.Parse(tab)
	if err != nil {
		return tabs.View{}, err
	}
	vm, err := s.Current(ctx, sessionID)
	if err != nil {
		return tabs.View{}, err
	}
	return tabs.Render(vm, id)
}

// Export generates the PDF report of the stored result and records it.
// Nothing is archived when generation fails.
func (s *Service) Export(ctx context.Context, sessionID string) (ExportResult, error) {
	release, ok := s.guard().TryAcquire(sessionID, OpExport)
	if !ok {
		metrics.IncExport(metrics.OutcomeBusy)
		return ExportResult{}, ErrBusy
	}
	defer release()

	vm, err := s.Current(ctx, sessionID)
	if err != nil {
		metrics.IncExport(metrics.OutcomeInvalid)
		return ExportResult{}, err
	}

	start := time.Now()
	data, err := s.Reports.Generate(vm)
	metrics.ObserveExport(time.Since(start))
	if err != nil {
		metrics.IncExport(metrics.OutcomeFailed)
		return ExportResult{}, err
	}

	export := Export{
		ID:        s.newID(),
		SessionID: sessionID,
		FileName:  pdf.FileName(vm.FileName),
		SizeBytes: int64(len(data)),
		CreatedAt: s.now(),
	}
	export.StorageKey = s.archive(ctx, export, data)
	if s.Exports != nil {
		if err := s.Exports.Create(ctx, export); err != nil {
			telemetry.Warn("results.export_log_failed", map[string]any{
				"session_id": sessionID,
				"export_id":  export.ID,
				"error":      err,
			})
		}
	}

	metrics.IncExport(metrics.OutcomeOK)
	return ExportResult{Export: export, Data: data}, nil
}

// archive writes the report to the object store and returns its key, or ""
// when archiving is disabled or fails.
func (s *Service) archive(ctx context.Context, export Export, data []byte) string {
	if s.Store == nil {
		return ""
	}
	key, err := object.ReportKey(export.SessionID, export.ID, export.FileName)
	if err == nil {
		_, err = s.Store.Put(ctx, key, "application/pdf", bytes.NewReader(data))
	}
	if err != nil {
		telemetry.Warn("results.archive_failed", map[string]any{
			"session_id": export.SessionID,
			"export_id":  export.ID,
			"error":      err,
		})
		return ""
	}
	return key
}

// ListExports returns the session's most recent exports.
func (s *Service) ListExports(ctx context.Context, sessionID string) ([]Export, error) {
	if s.Exports == nil {
		return []Export{}, nil
	}
	out, err := s.Exports.ListBySession(ctx, sessionID, defaultListLimit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []Export{}
	}
	return out, nil
}

// OpenExport streams an archived report. The caller closes the reader.
func (s *Service) OpenExport(ctx context.Context, sessionID, exportID string) (Export, io.ReadCloser, error) {
	if s.Exports == nil {
		return Export{}, nil, ErrNotFound
	}
	export, err := s.Exports.GetByID(ctx, sessionID, exportID)
	if err != nil {
		return Export{}, nil, err
	}
	if !export.Archived() || s.Store == nil {
		return export, nil, ErrNotArchived
	}
	body, err := s.Store.Open(ctx, export.StorageKey)
	if errors.Is(err, object.ErrNotFound) {
		return export, nil, ErrNotArchived
	}
	if err != nil {
		return export, nil, fmt.Errorf("open export: %w", err)
	}
	return export, body, nil
}

func (s *Service) guard() *Guard {
	s.guardOnce.Do(func() {
		if s.Guard == nil {
			s.Guard = NewGuard()
		}
	})
	return s.Guard
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}
