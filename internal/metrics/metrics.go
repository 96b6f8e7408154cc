// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	ListingQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "listing_queries_total",
			Help: "Catalog queries by item kind and outcome (ok, empty, invalid, error)",
		},
		[]string{"kind", "outcome"},
	)
	ListingQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "listing_query_duration_seconds",
			Help:    "Time spent loading, filtering, sorting and paging a catalog",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
	LiveSearchConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "live_search_connections",
			Help: "Open live search sockets",
		},
	)

	CallTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "call_state_transitions_total",
			Help: "Call controller state changes",
		},
		[]string{"from", "to"},
	)
	CallNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "call_notifications_total",
			Help: "Notifications emitted by call controllers",
		},
		[]string{"level"},
	)
	ActiveCalls = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "call_sessions_active",
			Help: "Call controllers currently tracked",
		},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "events_published_total",
			Help: "Domain events handed to the broker",
		},
		[]string{"routing_key", "outcome"},
	)
)

// HTTP records request count and latency labelled by route template.
func HTTP() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				} else if status < 400 {
					status = 500
				}
			}
			path := c.Path()
			if path == "" {
				path = "unmatched"
			}
			code := strconv.Itoa(status)
			httpRequestTotal.WithLabelValues(c.Request().Method, path, code).Inc()
			httpRequestDuration.WithLabelValues(c.Request().Method, path, code).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
