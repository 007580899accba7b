package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"icons-api/api/handlers"
	"icons-api/core/domain"
	coreerrors "icons-api/core/errors"
	"icons-api/core/interfaces"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingLogger struct {
	mu       sync.Mutex
	messages []string
}

func (l *countingLogger) record(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = append(l.messages, msg)
}

func (l *countingLogger) Debug(msg string, _ map[string]interface{}) { l.record(msg) }
func (l *countingLogger) Info(msg string, _ map[string]interface{})  { l.record(msg) }
func (l *countingLogger) Warn(msg string, _ map[string]interface{})  { l.record(msg) }
func (l *countingLogger) Error(msg string, _ map[string]interface{}) { l.record(msg) }

type stubIconService struct{}

func (stubIconService) GetIcon(_ context.Context, host string) (*domain.IconResult, error) {
	if host == "example.com" {
		return &domain.IconResult{Bytes: []byte{0, 0, 1, 0}, MediaType: domain.MediaTypeICO}, nil
	}
	return nil, &coreerrors.NotFoundError{Resource: "icon", ID: host}
}

func (stubIconService) Settings() interfaces.IconSettings {
	return interfaces.IconSettings{CacheEnabled: true, CacheHours: 24}
}

func TestNewAPI(t *testing.T) {
	api, router := NewAPI()

	if api == nil {
		t.Error("NewAPI returned nil API")
	}
	if router == nil {
		t.Error("NewAPI returned nil router")
	}
}

func TestNewAPI_Info(t *testing.T) {
	api, _ := NewAPI()

	info := api.OpenAPI().Info
	if info.Title != "Icons API" {
		t.Errorf("API title = %s, want Icons API", info.Title)
	}
	if info.Version != "1.0.0" {
		t.Errorf("API version = %s, want 1.0.0", info.Version)
	}
}

func TestAPI_OpenAPIEndpoint(t *testing.T) {
	_, router := NewAPI()

	req := httptest.NewRequest("GET", "/openapi.json", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("OpenAPI endpoint status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/vnd.oai.openapi+json" {
		t.Errorf("OpenAPI content-type = %s, want application/vnd.oai.openapi+json", ct)
	}
}

func TestAPI_DocsEndpoint(t *testing.T) {
	_, router := NewAPI()

	req := httptest.NewRequest("GET", "/docs", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Docs endpoint status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "text/html" {
		t.Errorf("Docs content-type = %s, want text/html", ct)
	}
}

func TestAPIWithMiddleware_ServesIcons(t *testing.T) {
	logger := &countingLogger{}
	api, router := NewAPIWithMiddleware(APIConfig{
		Logger:     logger,
		RateLimit:  2,
		RateWindow: time.Minute,
	})
	handlers.NewIconHandler(stubIconService{}).RegisterRoutes(api)

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		req.RemoteAddr = "203.0.113.7:4000"
		req.Header.Set("Origin", "https://app.example")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	found := get("/example.com/icon.png")
	require.Equal(t, http.StatusOK, found.Code)
	assert.Equal(t, "image/x-icon", found.Header().Get("Content-Type"))
	assert.Equal(t, "*", found.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEmpty(t, found.Header().Get("X-Request-ID"))
	assert.Equal(t, "2", found.Header().Get("X-RateLimit-Limit"))

	missing := get("/nothing.example/icon.png")
	assert.Equal(t, http.StatusNotFound, missing.Code)

	limited := get("/example.com/icon.png")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)

	logger.mu.Lock()
	defer logger.mu.Unlock()
	assert.Contains(t, logger.messages, "Request started")
	assert.Contains(t, logger.messages, "Request completed")
}

func TestAPIWithMiddleware_Preflight(t *testing.T) {
	_, router := NewAPIWithMiddleware(APIConfig{RateLimit: 1, RateWindow: time.Minute})

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("OPTIONS", "/example.com/icon.png", nil)
		req.Header.Set("Origin", "https://app.example")
		req.Header.Set("Access-Control-Request-Method", "GET")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.NotEqual(t, http.StatusTooManyRequests, w.Code)
	}
}
