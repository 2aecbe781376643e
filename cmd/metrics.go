package main

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5}

type httpMetrics struct {
	requestTotal   *prometheus.CounterVec
	requestLatency *prometheus.HistogramVec
}

func newHTTPMetrics(reg prometheus.Registerer) *httpMetrics {
	m := &httpMetrics{
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "expense_tracker",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"}),
		requestLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "expense_tracker",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"}),
	}

	if err := reg.Register(m.requestTotal); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			m.requestTotal = are.ExistingCollector.(*prometheus.CounterVec)
		}
	}
	if err := reg.Register(m.requestLatency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			m.requestLatency = are.ExistingCollector.(*prometheus.HistogramVec)
		}
	}
	return m
}

// Handler records one observation per request. Errors are rendered through
// the app's error handler first so the recorded status is the one sent.
func (m *httpMetrics) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		labels := prometheus.Labels{
			"method": c.Method(),
			"route":  c.Route().Path,
			"status": strconv.Itoa(c.Response().StatusCode()),
		}
		m.requestTotal.With(labels).Inc()
		m.requestLatency.With(labels).Observe(time.Since(start).Seconds())
		return nil
	}
}
