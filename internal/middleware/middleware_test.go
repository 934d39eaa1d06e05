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

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSessionCreateLimiterWindow(t *testing.T) {
	rl := NewSessionCreateLimiter(2, time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	allowed := func(ip string) bool {
		ok, _ := rl.Allow(ip)
		return ok
	}

	assert.True(t, allowed("1.1.1.1"))
	assert.True(t, allowed("1.1.1.1"))
	now = now.Add(20 * time.Second)
	ok, wait := rl.Allow("1.1.1.1")
	assert.False(t, ok)
	assert.Equal(t, 40*time.Second, wait)
	assert.True(t, allowed("2.2.2.2"))

	now = now.Add(41 * time.Second)
	assert.True(t, allowed("1.1.1.1"))

	now = now.Add(10 * time.Minute)
	rl.cleanup()
	assert.Empty(t, rl.attempts)
}

func TestSessionCreateLimiterReopensAtWindowBoundary(t *testing.T) {
	rl := NewSessionCreateLimiter(1, time.Minute)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	rl.now = func() time.Time { return now }

	ok, _ := rl.Allow("1.1.1.1")
	require.True(t, ok)

	now = start.Add(time.Minute - time.Nanosecond)
	ok, wait := rl.Allow("1.1.1.1")
	assert.False(t, ok)
	assert.Equal(t, time.Nanosecond, wait)

	now = start.Add(time.Minute)
	ok, wait = rl.Allow("1.1.1.1")
	assert.True(t, ok)
	assert.Zero(t, wait)
}

func TestSessionCreateLimiterDisabled(t *testing.T) {
	rl := NewSessionCreateLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		ok, _ := rl.Allow("1.1.1.1")
		require.True(t, ok)
	}
	assert.Empty(t, rl.attempts)
}

func TestSessionCreateLimiterMiddleware(t *testing.T) {
	rl := NewSessionCreateLimiter(1, time.Minute)
	r := gin.New()
	r.POST("/purchases", rl.Middleware(), func(c *gin.Context) { c.Status(http.StatusCreated) })

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/purchases", nil))
	assert.Equal(t, http.StatusCreated, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/purchases", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "TOO_MANY_REQUESTS")
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"app.smartdev.ng", "localhost"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	cases := []struct {
		name    string
		origin  string
		allowed bool
	}{
		{"listed host", "https://app.smartdev.ng", true},
		{"default port stripped", "https://app.smartdev.ng:443", true},
		{"dev port", "http://localhost:3000", true},
		{"unlisted host", "https://evil.example", false},
		{"garbage", "not a url", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/ping", nil)
			req.Header.Set("Origin", tc.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if tc.allowed {
				assert.Equal(t, tc.origin, w.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware(nil))
	r.PUT("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestLoggingMiddlewareSetsRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggingMiddleware())
	var id string
	r.GET("/ping", func(c *gin.Context) {
		id = c.GetString("request_id")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Len(t, id, 8)
	assert.Equal(t, id, w.Header().Get("X-Request-ID"))
}

func TestLoggingMiddlewareAdoptsCallerRequestID(t *testing.T) {
	r := gin.New()
	r.Use(LoggingMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "storefront-42")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "storefront-42", w.Header().Get("X-Request-ID"))
}

func TestCORSRefererFallback(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"app.smartdev.ng"}))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Referer", "https://app.smartdev.ng/checkout?step=2")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "https://app.smartdev.ng", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestOriginHostKeepsNonDefaultPort(t *testing.T) {
	assert.Equal(t, "app.smartdev.ng", originHost("https://App.SmartDev.ng:443"))
	assert.Equal(t, "app.smartdev.ng:443", originHost("http://app.smartdev.ng:443"))
	assert.Equal(t, "", originHost("app.smartdev.ng"))
}
