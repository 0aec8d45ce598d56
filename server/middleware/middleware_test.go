package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/chronoslabs/chronos/logger"
)

func TestParseSize(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"10MB", 10 << 20},
		{"512KB", 512 << 10},
		{"1GB", 1 << 30},
		{"128B", 128},
		{"2048", 2048},
		{"  5mb ", 5 << 20},
		{"", 1024},
		{"garbage", 1024},
		{"-3MB", 1024},
	}
	for _, tt := range tests {
		if got := parseSize(tt.in, 1024); got != tt.want {
			t.Errorf("parseSize(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestBodySizeLimitRejectsOversizedBody(t *testing.T) {
	handler := BodySizeLimit("10B")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		if _, err := r.Body.Read(buf); err != nil {
			http.Error(w, err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", 100)))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
}

func TestCORSSetsHeadersForAllowedOrigin(t *testing.T) {
	cfg := CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Content-Type"},
	}
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://chronos.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://chronos.example" {
		t.Errorf("allow-origin: %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Methods"); got != "GET, POST" {
		t.Errorf("allow-methods: %q", got)
	}
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	cfg := CORSConfig{AllowedOrigins: []string{"*"}}
	reached := false
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://chronos.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
	if reached {
		t.Error("preflight must not reach the handler")
	}
}

func TestCORSUnknownOriginGetsNoHeaders(t *testing.T) {
	cfg := CORSConfig{AllowedOrigins: []string{"https://allowed.example"}}
	handler := CORS(cfg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://other.example")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected no allow-origin header, got %q", got)
	}
}

func TestRequestIDGeneratedAndEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var ctxID string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		ctxID = c.GetString(logger.FieldRequestID)
		c.Status(http.StatusOK)
	})

	// Generated when absent.
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get(HeaderRequestID) == "" {
		t.Error("expected a generated request id")
	}
	if ctxID != w.Header().Get(HeaderRequestID) {
		t.Errorf("context id %q does not match echoed header %q", ctxID, w.Header().Get(HeaderRequestID))
	}

	// Preserved when present.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "fixed-id")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if got := w.Header().Get(HeaderRequestID); got != "fixed-id" {
		t.Errorf("expected fixed-id, got %q", got)
	}
	if ctxID != "fixed-id" {
		t.Errorf("expected fixed-id in context, got %q", ctxID)
	}
}

func TestRecoveryReturns500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Recovery())
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}
