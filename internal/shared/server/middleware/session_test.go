package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestSessionAllowsOptionsWithoutIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Session())
	router.OPTIONS("/api/v1/results", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/results", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.Code)
	}
}

func TestSessionRejectsMissingOrOversizedHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Session())
	router.GET("/api/v1/results", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for _, header := range []string{"", "   ", strings.Repeat("a", maxSessionLen+1)} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/results", nil)
		if header != "" {
			req.Header.Set(SessionHeader, header)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, resp.Code)
		}
	}
}

func TestSessionStoresGuestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Session())
	var got string
	router.GET("/api/v1/results", func(c *gin.Context) {
		got = SessionIDFromContext(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/results", nil)
	req.Header.Set(SessionHeader, " browser-1 ")
	router.ServeHTTP(httptest.NewRecorder(), req)

	if got != "guest:browser-1" {
		t.Fatalf("unexpected session id %q", got)
	}
}
