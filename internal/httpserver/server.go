package httpserver

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fernwehlabs/drain-ingest/internal/config"
	"github.com/fernwehlabs/drain-ingest/internal/drains"
	"github.com/fernwehlabs/drain-ingest/internal/logging"
	"github.com/fernwehlabs/drain-ingest/internal/store"
)

// Metrics drains deliver JSON or NDJSON; traces additionally deliver
// protobuf, which takes the binary passthrough path.
var (
	metricsContentTypes = regexp.MustCompile(`(?i)^application/((x-)?ndjson|json)`)
	tracesContentTypes  = regexp.MustCompile(`(?i)^application/((x-)?ndjson|json|x-protobuf|octet-stream)`)
)

// NewRouter wires public health endpoints and the drain ingestion endpoints.
// Public: /health, /ready
// Guarded: POST /drains/metrics, POST /drains/traces
//
// Everything else, including non-POST methods on the drain paths, falls
// through to an empty 404 so the drains present no discoverable surface.
func NewRouter(cfg config.Config, logger zerolog.Logger, st *store.PostgresStore) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logging.Middleware(logger))

	// AbortWithStatus flushes the header immediately; a bare Status here
	// would let gin append its default "404 page not found" body, giving
	// probers a way to tell guarded drains from absent routes.
	r.NoRoute(func(c *gin.Context) {
		c.AbortWithStatus(http.StatusNotFound)
	})

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the DB dependency is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := st.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	drains.RegisterMetricsDrain(r, drains.GuardConfig{
		Enabled:      cfg.IngestionEnabled(),
		Secret:       cfg.MetricsSecret,
		AuthToken:    cfg.DrainToken,
		ContentTypes: metricsContentTypes,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}, st)

	drains.RegisterTracesDrain(r, drains.GuardConfig{
		Enabled:      cfg.IngestionEnabled(),
		Secret:       cfg.TracesSecret,
		AuthToken:    cfg.DrainToken,
		ContentTypes: tracesContentTypes,
		MaxBodyBytes: cfg.MaxBodyBytes,
	}, st)

	return r
}
