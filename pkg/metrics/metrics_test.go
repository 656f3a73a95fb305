package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yeisme/hazopvault/pkg/configs"
)

func scrape(e *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	return w
}

func TestRegisterRoutesDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)

	e := gin.New()
	RegisterRoutes(configs.MetricsConfig{Enabled: false, Path: "/metrics"}, e)

	assert.Equal(t, http.StatusNotFound, scrape(e, "/metrics").Code)
	assert.Empty(t, e.Routes())
}

func TestRegisterRoutesServesRegistry(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cfg := configs.MetricsConfig{
		Enabled:     true,
		Path:        "/internal/metrics",
		ConstLabels: map[string]string{"site": "plant-a"},
	}
	require.NoError(t, InitMetrics(cfg))

	ImagesResized.Inc()

	e := gin.New()
	RegisterRoutes(cfg, e)

	w := scrape(e, "/internal/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `hazop_images_resized_total{site="plant-a"}`)

	assert.Equal(t, http.StatusNotFound, scrape(e, "/debug/pprof/").Code)
}
