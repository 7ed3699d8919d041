package models

import (
	"encoding/json"
	"time"
)

// SpeedMetricRow is the normalized projection of one speed-insight sample.
// EventID is the upsert conflict target: deterministic for a given logical
// sample, so retried deliveries collapse to one row.
type SpeedMetricRow struct {
	EventID         string
	Timestamp       time.Time
	MetricType      string
	Value           float64
	Path            string
	Route           string
	Origin          string
	Country         string
	Region          string
	City            string
	OSName          string
	ClientName      string
	DeviceType      string
	ConnectionSpeed string
	OwnerID         string
	ProjectID       string
	DeviceID        int64

	// Raw keeps the event exactly as delivered so fields the schema does
	// not model yet are never lost.
	Raw json.RawMessage
}

// TraceRow stores one trace delivery, either a single JSON event or an
// opaque binary payload (protobuf passthrough). Payload is the bytes as
// received; ContentType records how to read them back.
type TraceRow struct {
	EventID     string
	ContentType string
	Payload     []byte
	ReceivedAt  time.Time
}
