// Package middleware provides the gin middleware of the POS API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "tasty-bite-pos",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig returns the otelgin middleware. Spans are named
// "METHOD route", e.g. "GET /api/v1/bills/:id".
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// TracingAttributeInjector adds request_id and cashier_id to the request span.
// It must run after Tracing, RequestID and the JWT middleware.
func TracingAttributeInjector() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if requestID := GetRequestID(c); requestID != "" {
				span.SetAttributes(attribute.String("request_id", requestID))
			}
			if cashierID := GetJWTUserID(c); cashierID != "" {
				span.SetAttributes(attribute.String("cashier_id", cashierID))
			}
		}
		c.Next()
	}
}

// SpanErrorMarker marks the request span as failed for 4xx and 5xx responses.
// It must run after Tracing.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}

		status := c.Writer.Status()
		if status < http.StatusBadRequest {
			return
		}

		var description string
		switch {
		case status >= http.StatusInternalServerError:
			description = "Internal Server Error"
		case status == http.StatusUnauthorized:
			description = "Unauthorized"
		case status == http.StatusNotFound:
			description = "Not Found"
		default:
			description = "Client Error"
		}
		span.SetStatus(codes.Error, description)
		span.SetAttributes(attribute.Int("http.status_code", status))
	}
}
