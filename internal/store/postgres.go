package store

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fernwehlabs/drain-ingest/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// defaultBatchSize is the fallback when the caller passes a non-positive
// batch size; chunkRows must never see a size below 1.
const defaultBatchSize = 500

// PostgresStore is the durable persistence layer for drain events.
type PostgresStore struct {
	pool *pgxpool.Pool

	// batchSize bounds how many rows go into one pgx.Batch so a single
	// large delivery cannot produce an unbounded statement batch.
	batchSize int
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string, batchSize int) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool, batchSize: normalizeBatchSize(batchSize)}, nil
}

func normalizeBatchSize(size int) int {
	if size <= 0 {
		return defaultBatchSize
	}
	return size
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

const upsertSpeedMetricSQL = `
INSERT INTO drain_speed_metrics (
	event_id,
	ts,
	metric_type,
	value,
	path,
	route,
	origin,
	country,
	region,
	city,
	os_name,
	client_name,
	device_type,
	connection_speed,
	owner_id,
	project_id,
	device_id,
	raw
) VALUES (
	$1,$2,$3,$4,$5,
	$6,$7,$8,$9,$10,
	$11,$12,$13,$14,$15,
	$16,$17,$18::jsonb
)
ON CONFLICT (event_id) DO UPDATE SET
	ts = EXCLUDED.ts,
	metric_type = EXCLUDED.metric_type,
	value = EXCLUDED.value,
	path = EXCLUDED.path,
	route = EXCLUDED.route,
	origin = EXCLUDED.origin,
	country = EXCLUDED.country,
	region = EXCLUDED.region,
	city = EXCLUDED.city,
	os_name = EXCLUDED.os_name,
	client_name = EXCLUDED.client_name,
	device_type = EXCLUDED.device_type,
	connection_speed = EXCLUDED.connection_speed,
	owner_id = EXCLUDED.owner_id,
	project_id = EXCLUDED.project_id,
	device_id = EXCLUDED.device_id,
	raw = EXCLUDED.raw`

const upsertTraceEventSQL = `
INSERT INTO drain_trace_events (
	event_id,
	content_type,
	payload,
	received_at
) VALUES ($1,$2,$3,$4)
ON CONFLICT (event_id) DO UPDATE SET
	content_type = EXCLUDED.content_type,
	payload = EXCLUDED.payload,
	received_at = EXCLUDED.received_at`

// UpsertSpeedMetrics persists speed-insight rows in fixed-size batches.
//
// Batches run sequentially; the first failure aborts the call and rows in
// batches already sent stay committed. The exporter retries the whole
// delivery and conflict targets make the replay harmless.
func (p *PostgresStore) UpsertSpeedMetrics(ctx context.Context, rows []models.SpeedMetricRow) error {
	for i, part := range chunkRows(rows, p.batchSize) {
		batch := &pgx.Batch{}
		for _, row := range part {
			batch.Queue(upsertSpeedMetricSQL,
				row.EventID,
				nullableTime(row.Timestamp),
				row.MetricType,
				row.Value,
				row.Path,
				row.Route,
				row.Origin,
				row.Country,
				row.Region,
				row.City,
				row.OSName,
				row.ClientName,
				row.DeviceType,
				row.ConnectionSpeed,
				row.OwnerID,
				row.ProjectID,
				row.DeviceID,
				[]byte(row.Raw),
			)
		}

		if err := p.sendBatch(ctx, batch); err != nil {
			return fmt.Errorf("speed metrics batch %d: %w", i, err)
		}
	}
	return nil
}

// UpsertTraceEvents persists trace rows in fixed-size batches with the same
// sequential, stop-on-first-failure semantics as UpsertSpeedMetrics.
func (p *PostgresStore) UpsertTraceEvents(ctx context.Context, rows []models.TraceRow) error {
	for i, part := range chunkRows(rows, p.batchSize) {
		batch := &pgx.Batch{}
		for _, row := range part {
			batch.Queue(upsertTraceEventSQL,
				row.EventID,
				row.ContentType,
				row.Payload,
				row.ReceivedAt,
			)
		}

		if err := p.sendBatch(ctx, batch); err != nil {
			return fmt.Errorf("trace events batch %d: %w", i, err)
		}
	}
	return nil
}

// sendBatch executes one pgx.Batch and surfaces the first statement error.
func (p *PostgresStore) sendBatch(ctx context.Context, batch *pgx.Batch) error {
	results := p.pool.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			return err
		}
	}
	return results.Close()
}

// chunkRows splits rows into consecutive slices of at most size elements,
// preserving order. Capping batch size keeps a single large delivery from
// producing an unbounded statement batch.
func chunkRows[T any](rows []T, size int) [][]T {
	if len(rows) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(rows)+size-1)/size)
	for start := 0; start < len(rows); start += size {
		chunks = append(chunks, rows[start:min(start+size, len(rows))])
	}
	return chunks
}

// nullableTime maps the zero time to NULL so events without a parseable
// timestamp do not masquerade as year-one samples.
func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
