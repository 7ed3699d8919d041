// Package logging provides JSON structured logging using zerolog.
package logging

import (
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// New builds the process logger. Unknown levels fall back to info rather
// than failing boot.
func New(level string) zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Logger()
}

const loggerCtxKey = "request_logger"

// Middleware attaches a request-scoped logger (tagged with a fresh request
// id) to the Gin context and emits one summary line per request.
func Middleware(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLogger := logger.With().
			Str("request_id", uuid.New().String()).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Logger()
		c.Set(loggerCtxKey, reqLogger)

		start := time.Now()
		c.Next()

		reqLogger.Info().
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("request")
	}
}

// FromContext returns the request-scoped logger, or a disabled logger when
// the middleware did not run (direct handler tests).
func FromContext(c *gin.Context) zerolog.Logger {
	v, ok := c.Get(loggerCtxKey)
	if !ok {
		return zerolog.Nop()
	}
	l, ok := v.(zerolog.Logger)
	if !ok {
		return zerolog.Nop()
	}
	return l
}
