package middleware

import (
	"strconv"
	"time"

	"showup-server/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// RequestIDHeader carries the request id in both directions.
	RequestIDHeader = "X-Request-ID"

	requestIDKey  = "requestID"
	providerIDKey = "providerID"
)

// RequestID tags every request with an id, reusing the caller's header when
// present.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger writes one structured access log line per request.
func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if id, ok := GetRequestIDFromContext(c); ok {
			fields = append(fields, zap.String("request_id", id))
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		switch status := c.Writer.Status(); {
		case status >= 500:
			logger.Error("request", fields...)
		case status >= 400:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}

// ProviderScope resolves the provider_id query parameter, falling back to
// defaultID when it is absent.
func ProviderScope(defaultID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		providerID := defaultID
		if raw := c.Query("provider_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil || id == 0 {
				utils.BadRequest(c, "Invalid provider_id: "+raw)
				c.Abort()
				return
			}
			providerID = uint(id)
		}
		c.Set(providerIDKey, providerID)
		c.Next()
	}
}

// GetProviderIDFromContext returns the provider resolved by ProviderScope.
func GetProviderIDFromContext(c *gin.Context) (uint, bool) {
	value, exists := c.Get(providerIDKey)
	if !exists {
		return 0, false
	}
	id, ok := value.(uint)
	return id, ok
}

// GetRequestIDFromContext returns the id assigned by RequestID.
func GetRequestIDFromContext(c *gin.Context) (string, bool) {
	value, exists := c.Get(requestIDKey)
	if !exists {
		return "", false
	}
	id, ok := value.(string)
	return id, ok
}
