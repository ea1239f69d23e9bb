package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics records request counts and durations and serves the Prometheus
// exposition on /metrics. Each router carries its own registry, so routers
// can be built independently without duplicate registration.
type Metrics struct {
	registry        *prometheus.Registry
	requestCount    *prometheus.CounterVec
	requestDuration prometheus.Histogram
}

// NewMetrics creates the request counter and duration histogram on a fresh
// registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requestCount := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint"})

	requestDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "HTTP request duration",
	})

	registry.MustRegister(requestCount, requestDuration)

	return &Metrics{
		registry:        registry,
		requestCount:    requestCount,
		requestDuration: requestDuration,
	}
}

// Middleware counts every request and observes its duration. The endpoint
// label uses the route pattern, so /cache/:key stays a single series.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(ginCtx *gin.Context) {
		start := time.Now()

		ginCtx.Next()

		endpoint := ginCtx.FullPath()
		if endpoint == "" {
			endpoint = ginCtx.Request.URL.Path
		}

		m.requestCount.WithLabelValues(ginCtx.Request.Method, endpoint).Inc()
		m.requestDuration.Observe(time.Since(start).Seconds())
	}
}

// Handler serves the exposition for this router's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
