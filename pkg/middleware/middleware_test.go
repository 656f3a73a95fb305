package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hazopvault/pkg/configs"
	"github.com/yeisme/hazopvault/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	e := gin.New()
	e.Use(mw...)

	return e
}

func do(e *gin.Engine, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)

	return w
}

func TestRateLimitMiddleware_Global(t *testing.T) {
	e := newEngine(RateLimitMiddleware(configs.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 2, Key: "global"}))
	e.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/ping", nil).Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/ping", nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(e, http.MethodGet, "/ping", nil).Code)
}

func TestRateLimitMiddleware_HeaderKey(t *testing.T) {
	e := newEngine(RateLimitMiddleware(configs.RateLimitConfig{Enabled: true, RPS: 0.001, Burst: 1, Key: "header:X-Client"}))
	e.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/ping", map[string]string{"X-Client": "a"}).Code)
	assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/ping", map[string]string{"X-Client": "b"}).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(e, http.MethodGet, "/ping", map[string]string{"X-Client": "a"}).Code)
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	e := newEngine(RateLimitMiddleware(configs.RateLimitConfig{Enabled: false, RPS: 0.001, Burst: 1}))
	e.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for range 5 {
		assert.Equal(t, http.StatusOK, do(e, http.MethodGet, "/ping", nil).Code)
	}
}

func TestCircuitBreakerMiddleware_OpensOnServerErrors(t *testing.T) {
	e := newEngine(CircuitBreakerMiddleware(configs.CircuitBreakerConfig{
		Enabled:          true,
		FailureRatio:     0.5,
		MinRequests:      2,
		Interval:         time.Minute,
		OpenTimeout:      time.Minute,
		HalfOpenRequests: 1,
	}))
	e.GET("/fail", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	assert.Equal(t, http.StatusInternalServerError, do(e, http.MethodGet, "/fail", nil).Code)
	assert.Equal(t, http.StatusInternalServerError, do(e, http.MethodGet, "/fail", nil).Code)
	assert.Equal(t, http.StatusServiceUnavailable, do(e, http.MethodGet, "/fail", nil).Code)
}

func TestCircuitBreakerMiddleware_ClientErrorsDoNotTrip(t *testing.T) {
	e := newEngine(CircuitBreakerMiddleware(configs.CircuitBreakerConfig{
		Enabled:          true,
		FailureRatio:     0.5,
		MinRequests:      1,
		Interval:         time.Minute,
		OpenTimeout:      time.Minute,
		HalfOpenRequests: 1,
	}))
	e.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for range 3 {
		assert.Equal(t, http.StatusNotFound, do(e, http.MethodGet, "/missing", nil).Code)
	}
}

func TestGzipMiddleware_SkipsBinaryRoutes(t *testing.T) {
	e := newEngine(GzipMiddleware())
	e.GET("/api/reports", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	e.GET("/api/reports/:reportId/download", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/pdf", []byte("%PDF-1.3"))
	})

	accept := map[string]string{"Accept-Encoding": "gzip"}

	w := do(e, http.MethodGet, "/api/reports", accept)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))

	w = do(e, http.MethodGet, "/api/reports/01HZX3Q9V8K7M6N5P4R3S2T1W0/download", accept)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, "%PDF-1.3", w.Body.String())
}

func TestPrometheusMiddleware_UsesRouteTemplate(t *testing.T) {
	e := newEngine(PrometheusMiddleware())
	e.GET("/api/reports/:reportId", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	counter := metrics.RequestCounter.WithLabelValues(http.MethodGet, "/api/reports/:reportId", "204")
	before := testutil.ToFloat64(counter)

	do(e, http.MethodGet, "/api/reports/a", nil)
	do(e, http.MethodGet, "/api/reports/b", nil)

	assert.InDelta(t, before+2, testutil.ToFloat64(counter), 0.001)

	unmatched := metrics.RequestCounter.WithLabelValues(http.MethodGet, unmatchedEndpoint, "404")
	before = testutil.ToFloat64(unmatched)

	do(e, http.MethodGet, "/nope", nil)

	assert.InDelta(t, before+1, testutil.ToFloat64(unmatched), 0.001)
}

func TestRecoveryMiddleware(t *testing.T) {
	e := newEngine(RecoveryMiddleware())
	e.GET("/panic", func(_ *gin.Context) { panic("boom") })

	w := do(e, http.MethodGet, "/panic", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	e := newEngine(CORSMiddleware(configs.ServerConfig{}))
	e.DELETE("/api/reports/:reportId", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(e, http.MethodOptions, "/api/reports/x", map[string]string{
		"Origin":                        "http://viewer.local",
		"Access-Control-Request-Method": http.MethodDelete,
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
}
