package results

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-inspector/internal/analyzer"
	"resume-inspector/internal/report/pdf"
	"resume-inspector/internal/report/tabs"
	"resume-inspector/internal/shared/server/middleware"
	"resume-inspector/internal/shared/server/respond"
	"resume-inspector/internal/shared/telemetry"
	"resume-inspector/internal/shared/util"
)

const fallbackReportName = "CV-analysis-report.pdf"

// Handler wires HTTP handlers to the results service.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches result routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/analyses", h.analyze)
	rg.GET("/results", h.current)
	rg.GET("/results/tabs/:tab", h.tab)
	rg.GET("/results/report.pdf", h.export)
	rg.GET("/reports", h.listExports)
	rg.GET("/reports/:id", h.download)
}

func (h *Handler) analyze(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	upload, err := analyzer.UploadFromRequest(c)
	if err != nil {
		h.Svc.Discard(c.Request.Context(), sessionID)
		c.Set(middleware.LogOutcomeKey, "invalid")
		var verr *analyzer.ValidationError
		if errors.As(err, &verr) {
			respond.Error(c, http.StatusBadRequest, "validation_error", verr.Message, nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", analyzer.MsgNoFile, nil)
		return
	}

	vm, err := h.Svc.Analyze(c.Request.Context(), sessionID, upload)
	if err != nil {
		var verr *analyzer.ValidationError
		switch {
		case errors.As(err, &verr):
			c.Set(middleware.LogOutcomeKey, "invalid")
			respond.Error(c, http.StatusBadRequest, "validation_error", verr.Message, nil)
		case errors.Is(err, ErrBusy):
			c.Set(middleware.LogOutcomeKey, "busy")
			respond.Error(c, http.StatusConflict, "busy", MsgBusy, nil)
		case errors.Is(err, analyzer.ErrTransport):
			c.Set(middleware.LogOutcomeKey, "upstream_error")
			telemetry.Error("results.analyze_failed", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"session_id": sessionID,
				"error":      err,
			})
			respond.Error(c, http.StatusBadGateway, "upstream_error", MsgAnalyzeFailed, nil)
		default:
			telemetry.Error("results.analyze_failed", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"session_id": sessionID,
				"error":      err,
			})
			respond.Error(c, http.StatusInternalServerError, "internal_error", MsgAnalyzeFailed, nil)
		}
		return
	}

	c.Set(middleware.LogOutcomeKey, "ok")
	respond.OK(c, vm)
}

func (h *Handler) current(c *gin.Context) {
	vm, err := h.Svc.Current(c.Request.Context(), middleware.SessionIDFromContext(c))
	if err != nil {
		h.readError(c, err)
		return
	}
	respond.OK(c, vm)
}

func (h *Handler) tab(c *gin.Context) {
	tab := c.Param("tab")
	c.Set(middleware.LogTabKey, tab)

	view, err := h.Svc.Tab(c.Request.Context(), middleware.SessionIDFromContext(c), tab)
	if err != nil {
		if errors.Is(err, tabs.ErrUnknownTab) {
			respond.Error(c, http.StatusNotFound, "not_found", fmt.Sprintf("unknown tab %q", tab), gin.H{"tabs": tabs.IDs})
			return
		}
		h.readError(c, err)
		return
	}

	if c.Query("format") == "text" {
		c.String(http.StatusOK, tabs.RenderText(view))
		return
	}
	respond.OK(c, view)
}

func (h *Handler) export(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	res, err := h.Svc.Export(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBusy):
			c.Set(middleware.LogOutcomeKey, "busy")
			respond.Error(c, http.StatusConflict, "busy", MsgBusy, nil)
		case errors.Is(err, ErrNoData):
			respond.Error(c, http.StatusNotFound, "no_data", MsgNoData, nil)
		default:
			c.Set(middleware.LogOutcomeKey, "failed")
			telemetry.Error("results.export_failed", map[string]any{
				"request_id": middleware.RequestIDFromContext(c),
				"session_id": sessionID,
				"error":      err,
			})
			respond.Error(c, http.StatusInternalServerError, "export_failed", MsgExportFailed, nil)
		}
		return
	}

	c.Set(middleware.LogExportIDKey, res.Export.ID)
	c.Set(middleware.LogOutcomeKey, "ok")
	c.Header("X-Export-Id", res.Export.ID)
	c.Header("Content-Disposition", attachment(res.Export.FileName))
	c.Data(http.StatusOK, "application/pdf", res.Data)
}

func (h *Handler) listExports(c *gin.Context) {
	exports, err := h.Svc.ListExports(c.Request.Context(), middleware.SessionIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list reports", nil)
		return
	}
	type item struct {
		Export
		Downloadable bool `json:"downloadable"`
	}
	out := make([]item, 0, len(exports))
	for _, e := range exports {
		out = append(out, item{Export: e, Downloadable: e.Archived()})
	}
	respond.OK(c, gin.H{"reports": out})
}

func (h *Handler) download(c *gin.Context) {
	exportID := c.Param("id")
	c.Set(middleware.LogExportIDKey, exportID)

	export, body, err := h.Svc.OpenExport(c.Request.Context(), middleware.SessionIDFromContext(c), exportID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "report not found", nil)
		case errors.Is(err, ErrNotArchived):
			respond.Error(c, http.StatusNotFound, "not_archived", "report is no longer available", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to open report", nil)
		}
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", attachment(export.FileName))
	c.Header("Content-Type", "application/pdf")
	if export.SizeBytes > 0 {
		c.Header("Content-Length", strconv.FormatInt(export.SizeBytes, 10))
	}
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		telemetry.Warn("results.download_interrupted", map[string]any{
			"request_id": middleware.RequestIDFromContext(c),
			"export_id":  exportID,
			"error":      err,
		})
	}
}

func (h *Handler) readError(c *gin.Context, err error) {
	if errors.Is(err, ErrNoData) {
		respond.Error(c, http.StatusNotFound, "no_data", MsgNoData, nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load analysis", nil)
}

func attachment(fileName string) string {
	name, err := util.SanitizeFileName(fileName)
	if err != nil {
		name = fallbackReportName
	}
	if v := mime.FormatMediaType("attachment", map[string]string{"filename": name}); v != "" {
		return v
	}
	return mime.FormatMediaType("attachment", map[string]string{"filename": fallbackReportName})
}

var _ ReportGenerator = (*pdf.Generator)(nil)
