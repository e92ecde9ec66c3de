package monitoring

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRequests(t *testing.T) {
	e := echo.New()
	e.Use(Middleware())
	e.GET("/items/:id", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })
	e.GET("/fail", func(c echo.Context) error { return echo.NewHTTPError(http.StatusBadRequest, "nope") })

	okBefore := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("/items/:id", "GET", "200"))
	failBefore := testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("/fail", "GET", "400"))

	for _, path := range []string{"/items/1", "/items/2", "/fail"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, okBefore+2, testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("/items/:id", "GET", "200")))
	assert.Equal(t, failBefore+1, testutil.ToFloat64(HttpRequestsTotal.WithLabelValues("/fail", "GET", "400")))
	assert.Equal(t, float64(0), testutil.ToFloat64(ActiveConnections))
}

func TestHandlerExposesMetrics(t *testing.T) {
	AnalysesTotal.Inc()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "igfollowers_analyses_total")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestSessionGauge(t *testing.T) {
	assert.Equal(t, float64(0), activeSessions())

	SetSessionCounter(func() int { return 3 })
	t.Cleanup(func() { sessionCount.Store(nil) })

	assert.Equal(t, float64(3), activeSessions())
	count, err := testutil.GatherAndCount(Registry, "igfollowers_sessions_active")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
