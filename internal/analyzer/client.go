package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"resume-inspector/internal/shared/metrics"
)

const (
	pathAnalyze = "/api/analyze"
	pathHealth  = "/api/health"
	pathSkills  = "/api/skills"
	pathJDMatch = "/api/jd-match"

	maxErrorBody = 512
)

// Client talks to the external analysis backend. It sets no timeout:
// an analysis runs until the backend answers.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{},
	}
}

// Health is the backend health payload.
type Health struct {
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
	Service   string `json:"service,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

// Unavailable is reported when the backend cannot be reached.
var Unavailable = Health{Status: "error", Message: "Backend not available"}

// Analyze validates the upload and posts it to the backend, returning the
// raw analysis payload. Invalid uploads never reach the network.
func (c *Client) Analyze(ctx context.Context, u Upload) ([]byte, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	body, contentType, err := multipartBody(u)
	if err != nil {
		return nil, fmt.Errorf("analyze: build form: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+pathAnalyze, body)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, "analyze")
}

// Health returns Unavailable together with the error when the backend is down.
func (c *Client) Health(ctx context.Context) (Health, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+pathHealth, nil)
	if err != nil {
		return Unavailable, fmt.Errorf("health: %w", err)
	}
	raw, err := c.do(req, "health")
	if err != nil {
		return Unavailable, err
	}
	var h Health
	if err := json.Unmarshal(raw, &h); err != nil {
		return Unavailable, fmt.Errorf("%w: health: decode: %v", ErrTransport, err)
	}
	return h, nil
}

// Skills returns the backend's skill catalogue as raw JSON.
func (c *Client) Skills(ctx context.Context) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+pathSkills, nil)
	if err != nil {
		return nil, fmt.Errorf("skills: %w", err)
	}
	raw, err := c.do(req, "skills")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

type jdMatchRequest struct {
	CVText string `json:"cv_text"`
	JDText string `json:"jd_text"`
}

// JDMatch compares résumé text against a job description.
func (c *Client) JDMatch(ctx context.Context, cvText, jdText string) (json.RawMessage, error) {
	payload, err := json.Marshal(jdMatchRequest{CVText: cvText, JDText: jdText})
	if err != nil {
		return nil, fmt.Errorf("jd-match: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+pathJDMatch, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("jd-match: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	raw, err := c.do(req, "jd-match")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	start := time.Now()
	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(endpoint, metrics.OutcomeUpstream, time.Since(start))
		return nil, fmt.Errorf("%w: %s: %v", ErrTransport, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.ObserveUpstream(endpoint, metrics.OutcomeUpstream, time.Since(start))
		return nil, fmt.Errorf("%w: %s: read body: %v", ErrTransport, endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.ObserveUpstream(endpoint, metrics.OutcomeUpstream, time.Since(start))
		return nil, &StatusError{Endpoint: endpoint, Code: resp.StatusCode, Body: truncate(string(raw), maxErrorBody)}
	}
	metrics.ObserveUpstream(endpoint, metrics.OutcomeOK, time.Since(start))
	return raw, nil
}

func multipartBody(u Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, escapeQuotes(u.FileName)))
	h.Set("Content-Type", u.ContentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(u.Data); err != nil {
		return nil, "", err
	}
	if u.JobDescription != "" {
		if err := w.WriteField("jd_text", u.JobDescription); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n]
}
