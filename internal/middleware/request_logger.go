package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/basket-service/internal/logger"
	"github.com/rs/zerolog"
)

// RequestLoggerConfig tunes RequestLogger.
type RequestLoggerConfig struct {
	// SkipPaths are not logged when they succeed (probes, scrapes).
	SkipPaths []string
	// SlowThreshold upgrades successful requests slower than it to warn. Zero disables it.
	SlowThreshold time.Duration
}

// DefaultRequestLoggerConfig skips the probe and metrics endpoints.
func DefaultRequestLoggerConfig() RequestLoggerConfig {
	return RequestLoggerConfig{
		SkipPaths:     []string{"/healthz", "/readyz", "/metrics"},
		SlowThreshold: 2 * time.Second,
	}
}

// RequestLogger logs one structured line per HTTP request.
func RequestLogger(cfg RequestLoggerConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		statusCode := c.Writer.Status()
		if _, ok := skip[path]; ok && statusCode < 400 {
			return
		}
		latency := time.Since(start)

		log := logger.Logger().With().
			Str("request_id", GetRequestID(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status_code", statusCode).
			Int64("duration_ms", latency.Milliseconds()).
			Str("ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Logger()

		level := logLevelFor(statusCode)
		if level == zerolog.InfoLevel && cfg.SlowThreshold > 0 && latency > cfg.SlowThreshold {
			level = zerolog.WarnLevel
		}
		log.WithLevel(level).Msg("HTTP request")
	}
}

func logLevelFor(statusCode int) zerolog.Level {
	switch {
	case statusCode >= 500:
		return zerolog.ErrorLevel
	case statusCode >= 400:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}
