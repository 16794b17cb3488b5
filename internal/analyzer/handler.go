package analyzer

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resume-inspector/internal/extract"
	"resume-inspector/internal/shared/server/respond"
	"resume-inspector/internal/shared/telemetry"
)

// Handler exposes the backend's skill catalogue and job description matching.
type Handler struct {
	Client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{Client: client}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/skills", h.skills)
	r.POST("/jd-match", h.jdMatch)
}

var emptySkills = gin.H{"skills": []string{}, "categories": gin.H{}}

func (h *Handler) skills(c *gin.Context) {
	raw, err := h.Client.Skills(c.Request.Context())
	if err != nil {
		telemetry.Warn("analyzer.skills_unavailable", map[string]any{
			"request_id": c.GetString("requestId"),
			"error":      err,
		})
		respond.OK(c, emptySkills)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

func (h *Handler) jdMatch(c *gin.Context) {
	var req jdMatchRequest
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		cvText, jdText, err := h.formTexts(c)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				respond.Error(c, http.StatusBadRequest, "validation_error", verr.Message, nil)
				return
			}
			respond.Error(c, http.StatusBadRequest, "validation_error", "Could not read text from the uploaded file", nil)
			return
		}
		req = jdMatchRequest{CVText: cvText, JDText: jdText}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	req.CVText = strings.TrimSpace(req.CVText)
	req.JDText = strings.TrimSpace(req.JDText)
	if req.CVText == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "cv_text or file is required", nil)
		return
	}
	if req.JDText == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "jd_text is required", nil)
		return
	}

	raw, err := h.Client.JDMatch(context.WithoutCancel(c.Request.Context()), req.CVText, req.JDText)
	if err != nil {
		telemetry.Error("analyzer.jd_match_failed", map[string]any{
			"request_id": c.GetString("requestId"),
			"error":      err,
		})
		respond.Error(c, http.StatusBadGateway, "upstream_error", "Failed to match job description. Please try again.", nil)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// formTexts takes cv_text from the form, or extracts it from an uploaded file.
func (h *Handler) formTexts(c *gin.Context) (string, string, error) {
	u, err := UploadFromRequest(c)
	if err != nil {
		return "", "", err
	}
	cvText := c.PostForm("cv_text")
	if len(u.Data) == 0 && u.FileName == "" {
		return cvText, u.JobDescription, nil
	}
	if err := u.Validate(); err != nil {
		return "", "", err
	}
	text, err := extract.Text(c.Request.Context(), u.Data, u.ContentType, u.FileName)
	if err != nil {
		return "", "", err
	}
	return text, u.JobDescription, nil
}
