package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func RequestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if stage, ok := lastStage(c); ok {
			fields = append(fields, zap.String("stage", stage))
		}
		switch {
		case c.Writer.Status() >= 500:
			logger.Warn("request failed", fields...)
		default:
			logger.Debug("request", fields...)
		}
	}
}

func lastStage(c *gin.Context) (string, bool) {
	if len(c.Errors) == 0 {
		return "", false
	}
	stage, ok := c.Errors.Last().Meta.(string)
	return stage, ok
}
