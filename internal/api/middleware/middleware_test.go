package middleware

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zatekoja/medicalnetwork/internal/adapters/cache"
)

func countingHandler(calls *int, status int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func TestCORSMiddleware_Wildcard(t *testing.T) {
	calls := 0
	h := CORSMiddleware(nil)(countingHandler(&calls, http.StatusOK, `{}`))

	req := httptest.NewRequest(http.MethodGet, "/api/network", nil)
	req.Header.Set("Origin", "https://example.org")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, 1, calls)
}

func TestCORSMiddleware_ExplicitOrigins(t *testing.T) {
	calls := 0
	h := CORSMiddleware([]string{"https://app.example.org"})(countingHandler(&calls, http.StatusOK, `{}`))

	req := httptest.NewRequest(http.MethodGet, "/api/network", nil)
	req.Header.Set("Origin", "https://app.example.org")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, "https://app.example.org", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Origin", w.Header().Get("Vary"))

	req = httptest.NewRequest(http.MethodGet, "/api/network", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	calls := 0
	h := CORSMiddleware(nil)(countingHandler(&calls, http.StatusOK, `{}`))

	req := httptest.NewRequest(http.MethodOptions, "/api/recommend", nil)
	req.Header.Set("Origin", "https://example.org")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 0, calls)
}

func TestCacheMiddleware_HitAfterMiss(t *testing.T) {
	calls := 0
	m := NewCacheMiddleware(cache.NewMemoryAdapter(16, time.Minute), nil)
	h := m.Middleware(countingHandler(&calls, http.StatusOK, `[{"id":"1"}]`))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/network", nil))
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/network", nil))
	assert.Equal(t, "HIT", w.Header().Get("X-Cache"))
	assert.Equal(t, `[{"id":"1"}]`, w.Body.String())
	assert.Equal(t, 1, calls)
}

func TestCacheMiddleware_SkipsUncachedRoutes(t *testing.T) {
	calls := 0
	m := NewCacheMiddleware(cache.NewMemoryAdapter(16, time.Minute), nil)
	h := m.Middleware(countingHandler(&calls, http.StatusOK, `{}`))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/network/status", nil))
		assert.Empty(t, w.Header().Get("X-Cache"))
	}
	assert.Equal(t, 2, calls)
}

func TestCacheMiddleware_DoesNotCacheErrors(t *testing.T) {
	calls := 0
	m := NewCacheMiddleware(cache.NewMemoryAdapter(16, time.Minute), nil)
	h := m.Middleware(countingHandler(&calls, http.StatusServiceUnavailable, `{"error":"x"}`))

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/specialties", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	}
	assert.Equal(t, 2, calls)
}

func TestCacheMiddleware_InvalidateCache(t *testing.T) {
	calls := 0
	m := NewCacheMiddleware(cache.NewMemoryAdapter(16, time.Minute), nil)
	h := m.Middleware(countingHandler(&calls, http.StatusOK, `[]`))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/network", nil))
	require.NoError(t, m.InvalidateCache(context.Background()))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/network", nil))
	assert.Equal(t, "MISS", w.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
}

func TestCacheMiddleware_NilCachePassesThrough(t *testing.T) {
	calls := 0
	m := NewCacheMiddleware(nil, nil)
	h := m.Middleware(countingHandler(&calls, http.StatusOK, `[]`))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/network", nil))
	assert.Equal(t, 1, calls)
	assert.NoError(t, m.InvalidateCache(context.Background()))
}

func TestETag_NotModified(t *testing.T) {
	calls := 0
	h := ETag(countingHandler(&calls, http.StatusOK, `{"a":1}`))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/specialties", nil))
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/api/specialties", nil)
	req.Header.Set("If-None-Match", etag)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestETag_SkipsPost(t *testing.T) {
	calls := 0
	h := ETag(countingHandler(&calls, http.StatusOK, `{}`))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/recommend", nil))
	assert.Empty(t, w.Header().Get("ETag"))
}

func TestCacheControl_Paths(t *testing.T) {
	tests := map[string]string{
		"/api/network":     "public, max-age=60, must-revalidate",
		"/api/specialties": "public, max-age=300, must-revalidate",
		"/api/recommend":   "no-store",
		"/":                "no-cache",
		"/app.js":          "public, max-age=3600",
	}
	for path, want := range tests {
		calls := 0
		w := httptest.NewRecorder()
		CacheControl(countingHandler(&calls, http.StatusOK, "")).ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Header().Get("Cache-Control"), path)
	}
}

func TestCompression_Gzip(t *testing.T) {
	calls := 0
	h := Compression(countingHandler(&calls, http.StatusOK, `{"hello":"world"}`))

	req := httptest.NewRequest(http.MethodGet, "/api/network", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	zr, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(zr)
	require.NoError(t, err)
	assert.Equal(t, `{"hello":"world"}`, string(body))
}

func TestLoggingMiddleware_PreservesResponse(t *testing.T) {
	calls := 0
	h := LoggingMiddleware(countingHandler(&calls, http.StatusTeapot, `short`))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "short", w.Body.String())
}
