package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"user-management-service/pkg/logger"
)

// Logger writes one access log entry per request. The level follows the
// response status: Error for 5xx, Warn for 4xx, Info otherwise.
func Logger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path = path + "?" + raw
		}

		c.Next()

		status := c.Writer.Status()
		level := zapcore.InfoLevel
		switch {
		case status >= 500:
			level = zapcore.ErrorLevel
		case status >= 400:
			level = zapcore.WarnLevel
		}

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status_code", status),
			zap.Float64("duration_ms", float64(time.Since(start).Microseconds())/1000),
			zap.String("client_ip", c.ClientIP()),
			zap.String("user_agent", c.Request.UserAgent()),
			zap.Int("bytes", c.Writer.Size()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}

		if ce := logger.WithContext(c.Request.Context(), log).Check(level, "http request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

// LogMessage logs that the index route was reached and passes control on.
func LogMessage(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger.WithContext(c.Request.Context(), log).Debug("index route hit",
			zap.String("path", c.Request.URL.Path),
		)
		c.Next()
	}
}
