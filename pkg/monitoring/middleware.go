package monitoring

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Middleware records request counts and durations per route template
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			route := c.Path()
			if route == "/metrics" {
				// Skip collecting metrics from metrics endpoint itself
				return next(c)
			}
			if route == "" {
				route = "unmatched"
			}

			timer := prometheus.NewTimer(HttpRequestDuration.WithLabelValues(route))
			ActiveConnections.Inc()

			err := next(c)

			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok {
				status = he.Code
			} else if err != nil && !c.Response().Committed {
				status = http.StatusInternalServerError
			}

			timer.ObserveDuration()
			ActiveConnections.Dec()
			HttpRequestsTotal.WithLabelValues(route, c.Request().Method, strconv.Itoa(status)).Inc()

			return err
		}
	}
}

// Handler serves the registry in the Prometheus exposition format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
