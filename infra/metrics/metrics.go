package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/giovaniif/item-store/domain/item"
)

const MetricsPath = "/metrics"

var (
	RequestTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	ItemOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "item_operations_total",
			Help: "Total number of item operations by outcome",
		},
		[]string{"operation", "result"},
	)
)

// RoutePath returns the matched route template so ids do not explode label cardinality.
func RoutePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}

func Middleware(c *gin.Context) {
	if c.Request.URL.Path == MetricsPath {
		c.Next()
		return
	}
	start := time.Now()
	c.Next()
	duration := time.Since(start).Seconds()
	path := RoutePath(c)
	status := strconv.Itoa(c.Writer.Status())
	RequestTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	RequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
}

func Result(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, item.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, item.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

func RecordOperation(operation string, err error) {
	ItemOperations.WithLabelValues(operation, Result(err)).Inc()
}
