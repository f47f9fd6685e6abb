package monitoring

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates a Gin middleware for metrics collection
func Middleware(metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		method := c.Request.Method

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.RecordHTTPRequest(method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// Timer measures provider construction
type Timer struct {
	start   time.Time
	metrics *Metrics
	family  string
}

// NewTimer creates a new timer
func NewTimer(metrics *Metrics, family string) *Timer {
	return &Timer{
		start:   time.Now(),
		metrics: metrics,
		family:  family,
	}
}

// Created stops the timer and records a successful construction
func (t *Timer) Created() {
	t.metrics.RecordProviderCreated(t.family, time.Since(t.start))
}

// Failed stops the timer and records a failed construction
func (t *Timer) Failed(errorType string) {
	t.metrics.RecordCreateError(t.family, errorType, time.Since(t.start))
}
