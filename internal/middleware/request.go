package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	// RequestIDHeader carries the request id in both directions
	RequestIDHeader = "X-Request-ID"
	// ContextRequestID is the Gin context key holding the request id
	ContextRequestID = "requestID"
)

// RequestID reuses an incoming X-Request-ID or generates a new one
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(ContextRequestID, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one debug entry per handled request
func RequestLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		entry := log.WithFields(logrus.Fields{
			"method":         c.Request.Method,
			"status":         c.Writer.Status(),
			"latency_ms":     time.Since(start).Milliseconds(),
			"request_host":   c.Request.Host,
			"request_scheme": scheme,
			"request_id":     c.GetString(ContextRequestID),
			"client_ip":      c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry.WithField("errors", c.Errors.String()).Error("Handled " + c.Request.URL.Path)
			return
		}
		entry.Debug("Handled " + c.Request.URL.Path)
	}
}

// HTTPRecorder receives one observation per request
type HTTPRecorder interface {
	RecordHTTPRequest(route, method, statusCode string, duration time.Duration)
}

// Metrics reports every request to recorder, labelled by its route template
func Metrics(recorder HTTPRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		recorder.RecordHTTPRequest(route, c.Request.Method, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
