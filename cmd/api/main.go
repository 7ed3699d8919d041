package main

import (
	"os"

	"github.com/fernwehlabs/drain-ingest/internal/config"
	"github.com/fernwehlabs/drain-ingest/internal/httpserver"
	"github.com/fernwehlabs/drain-ingest/internal/logging"
	"github.com/fernwehlabs/drain-ingest/internal/store"
)

// main boots the service: config → logger → DB → schema → HTTP server.
func main() {
	// Load runtime config from environment once; the request path never
	// reads the environment.
	cfg, err := config.Load()
	if err != nil {
		boot := logging.New("info")
		boot.Fatal().Err(err).Msg("load config")
	}

	logger := logging.New(cfg.LogLevel)

	// Connect to durable storage (Postgres) using a connection pool.
	db, err := store.NewPostgresStore(cfg.DBURL, cfg.BatchSize)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect to postgres")
	}
	defer db.Close()

	// Ensure required tables/indexes exist so `docker compose up --build` is enough.
	if err := db.EnsureSchema(); err != nil {
		logger.Fatal().Err(err).Msg("apply schema")
	}

	router := httpserver.NewRouter(cfg, logger, db)

	logger.Info().
		Str("addr", cfg.ListenAddr).
		Bool("drains_enabled", cfg.IngestionEnabled()).
		Msg("server started")

	if err := router.Run(cfg.ListenAddr); err != nil {
		logger.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
