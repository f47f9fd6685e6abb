package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dashboard = "https://dash.example.com"

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(mw...)
	router.GET("/providers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"families": []string{}})
	})
	return router
}

func serve(router *gin.Engine, method, origin, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/providers", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if remote != "" {
		req.RemoteAddr = remote
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCORS(t *testing.T) {
	router := newRouter(CORS([]string{dashboard}))

	tests := []struct {
		name        string
		method      string
		origin      string
		wantStatus  int
		wantAllowed bool
	}{
		{name: "dashboard read", method: http.MethodGet, origin: dashboard, wantStatus: http.StatusOK, wantAllowed: true},
		{name: "dashboard preflight", method: http.MethodOptions, origin: dashboard, wantStatus: http.StatusNoContent, wantAllowed: true},
		{name: "foreign origin", method: http.MethodGet, origin: "http://evil.example", wantStatus: http.StatusForbidden},
		{name: "same origin", method: http.MethodGet, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(router, tt.method, tt.origin, "")

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantAllowed {
				assert.Equal(t, tt.origin, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestCORSWithoutOrigins(t *testing.T) {
	router := newRouter(CORS(nil))

	w := serve(router, http.MethodGet, "http://anywhere.example", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSConfig(t *testing.T) {
	cfg := CORSConfig(dashboard)

	assert.Equal(t, []string{dashboard}, cfg.AllowOrigins)
	assert.ElementsMatch(t, []string{http.MethodGet, http.MethodHead, http.MethodOptions}, cfg.AllowMethods)
	assert.False(t, cfg.AllowCredentials)
	assert.Contains(t, cfg.ExposeHeaders, "Retry-After")
	assert.Equal(t, 12*time.Hour, cfg.MaxAge)
	require.NoError(t, cfg.Validate())
}

func TestRateLimit(t *testing.T) {
	router := newRouter(RateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 2}))

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "", "10.0.0.1:4000").Code, "request %d", i+1)
	}

	w := serve(router, http.MethodGet, "", "10.0.0.1:4000")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "1", w.Header().Get("Retry-After"))

	// Other clients keep their own bucket.
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "", "10.0.0.2:4000").Code)
}

func TestRateLimitRejectionDoesNotSpendTokens(t *testing.T) {
	v := newVisitors(RateLimitConfig{RequestsPerSecond: 1, Burst: 1})
	now := time.Now()

	_, ok := v.take("a", now)
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		wait, ok := v.take("a", now)
		assert.False(t, ok)
		assert.Equal(t, time.Second, wait)
	}

	_, ok = v.take("a", now.Add(time.Second))
	assert.True(t, ok)
}

func TestRateLimitForgetsIdleClients(t *testing.T) {
	v := newVisitors(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, IdleTTL: time.Minute})
	now := time.Now()

	_, ok := v.take("a", now)
	require.True(t, ok)
	_, ok = v.take("b", now.Add(90*time.Second))
	require.True(t, ok)

	v.mu.Lock()
	_, kept := v.seen["a"]
	v.mu.Unlock()
	assert.False(t, kept)
}

func TestDefaultRateLimitConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()

	assert.Equal(t, 20, cfg.RequestsPerSecond)
	assert.Equal(t, 40, cfg.Burst)
	assert.Equal(t, 10*time.Minute, cfg.IdleTTL)
}

func BenchmarkRateLimit(b *testing.B) {
	router := newRouter(RateLimit(DefaultRateLimitConfig()))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		serve(router, http.MethodGet, "", "10.0.0.1:4000")
	}
}
