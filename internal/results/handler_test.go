package results

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"

	"resume-inspector/internal/analyzer"
	"resume-inspector/internal/shared/server/middleware"
	localstore "resume-inspector/internal/shared/storage/object/local"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(middleware.Session())
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func uploadRequest(t *testing.T, fileName, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+fileName+`"`)
		h.Set("Content-Type", contentType)
		part, err := w.CreatePart(h)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyses", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set(middleware.SessionHeader, "a")
	return req
}

func get(path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(middleware.SessionHeader, "a")
	return req
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return body.Error.Message
}

func TestHandlerUploadThenRead(t *testing.T) {
	svc := newTestService(&fakeAnalyzer{raw: []byte(scenarioPayload)})
	r := newTestRouter(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, uploadRequest(t, "jane_doe.pdf", analyzer.MimePDF, testPDF))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"fileName":"jane_doe.pdf"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, get("/api/v1/results"))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"overall":72`) {
		t.Fatalf("unexpected results response %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, get("/api/v1/results/tabs/jd"))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "No JD provided for matching.") {
		t.Fatalf("unexpected jd tab %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, get("/api/v1/results/tabs/overview?format=text"))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Limited metrics") {
		t.Fatalf("unexpected text tab %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandlerUploadValidation(t *testing.T) {
	fa := &fakeAnalyzer{raw: []byte(scenarioPayload)}
	svc := newTestService(fa)
	r := newTestRouter(svc)
	_ = svc.State.Save(context.Background(), "guest:a", []byte(scenarioPayload))

	cases := []struct {
		name string
		req  *http.Request
		want string
	}{
		{name: "no file", req: uploadRequest(t, "", "", nil), want: analyzer.MsgNoFile},
		{name: "wrong type", req: uploadRequest(t, "cv.png", "image/png", []byte{1, 2}), want: analyzer.MsgUnsupportedType},
		{name: "too large", req: uploadRequest(t, "cv.pdf", analyzer.MimePDF, make([]byte, analyzer.MaxUploadBytes+1)), want: analyzer.MsgTooLarge},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, tc.req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.name, rec.Code)
		}
		if got := errorMessage(t, rec); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.name, tc.want, got)
		}
	}
	if n := atomic.LoadInt32(&fa.calls); n != 0 {
		t.Fatalf("expected no backend calls, got %d", n)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, get("/api/v1/results"))
	if rec.Code != http.StatusNotFound || errorMessage(t, rec) != MsgNoData {
		t.Fatalf("expected stored result cleared, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandlerUploadUpstreamFailure(t *testing.T) {
	svc := newTestService(&fakeAnalyzer{err: &analyzer.StatusError{Endpoint: "analyze", Code: 503}})
	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, uploadRequest(t, "cv.pdf", analyzer.MimePDF, testPDF))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	if got := errorMessage(t, rec); got != MsgAnalyzeFailed {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestHandlerReadsWithoutData(t *testing.T) {
	r := newTestRouter(newTestService(&fakeAnalyzer{}))

	for _, path := range []string{"/api/v1/results", "/api/v1/results/tabs/overview", "/api/v1/results/report.pdf"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, get(path))
		if rec.Code != http.StatusNotFound {
			t.Fatalf("%s: expected 404, got %d", path, rec.Code)
		}
		if got := errorMessage(t, rec); got != MsgNoData {
			t.Fatalf("%s: unexpected message %q", path, got)
		}
	}
}

func TestHandlerUnknownTab(t *testing.T) {
	svc := newTestService(&fakeAnalyzer{})
	_ = svc.State.Save(context.Background(), "guest:a", []byte(scenarioPayload))

	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, get("/api/v1/results/tabs/bogus"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHandlerExportAndDownload(t *testing.T) {
	svc := newTestService(&fakeAnalyzer{})
	svc.Store = localstore.New(t.TempDir())
	_ = svc.State.Save(context.Background(), "guest:a", []byte(scenarioPayload))
	r := newTestRouter(svc)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, get("/api/v1/results/report.pdf"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "jane_doe-analysis-report.pdf") {
		t.Fatalf("unexpected content disposition %q", cd)
	}
	exportID := rec.Header().Get("X-Export-Id")
	if exportID == "" {
		t.Fatalf("expected export id header")
	}
	generated := rec.Body.Bytes()

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, get("/api/v1/reports"))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"downloadable":true`) {
		t.Fatalf("unexpected list %d: %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, get("/api/v1/reports/"+exportID))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !bytes.Equal(rec.Body.Bytes(), generated) {
		t.Fatalf("downloaded report differs from generated report")
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, get("/api/v1/reports/missing"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown export, got %d", rec.Code)
	}
}

func TestHandlerExportFailure(t *testing.T) {
	svc := newTestService(&fakeAnalyzer{})
	svc.Reports = failingGenerator{}
	_ = svc.State.Save(context.Background(), "guest:a", []byte(scenarioPayload))

	rec := httptest.NewRecorder()
	newTestRouter(svc).ServeHTTP(rec, get("/api/v1/results/report.pdf"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := errorMessage(t, rec); got != MsgExportFailed {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestHandlerRequiresSession(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(newTestService(&fakeAnalyzer{})).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/results", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
