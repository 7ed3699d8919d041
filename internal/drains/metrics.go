package drains

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fernwehlabs/drain-ingest/internal/logging"
	"github.com/fernwehlabs/drain-ingest/internal/models"
)

// MetricStore persists normalized speed-insight rows.
type MetricStore interface {
	UpsertSpeedMetrics(ctx context.Context, rows []models.SpeedMetricRow) error
}

// speedInsightEvent is the wire shape of one speed-insight sample. Extra
// fields survive in the raw attachment, not here.
type speedInsightEvent struct {
	ID              string  `json:"id,omitempty"`
	Schema          string  `json:"schema"`
	Timestamp       string  `json:"timestamp"`
	ProjectID       string  `json:"projectId"`
	OwnerID         string  `json:"ownerId"`
	DeviceID        int64   `json:"deviceId"`
	MetricType      string  `json:"metricType"`
	Value           float64 `json:"value"`
	Origin          string  `json:"origin"`
	Path            string  `json:"path"`
	Route           string  `json:"route,omitempty"`
	Country         string  `json:"country,omitempty"`
	Region          string  `json:"region,omitempty"`
	City            string  `json:"city,omitempty"`
	OSName          string  `json:"osName,omitempty"`
	ClientName      string  `json:"clientName,omitempty"`
	DeviceType      string  `json:"deviceType,omitempty"`
	ConnectionSpeed string  `json:"connectionSpeed,omitempty"`
}

// RegisterMetricsDrain registers the speed-insights ingestion endpoint.
//
// POST /drains/metrics
// - Guarded: signature, optional token, content-type, size cap
// - Durable: 204 only after the batched upsert completes
// - Idempotent: duplicates collapse on event_id
func RegisterMetricsDrain(r gin.IRoutes, cfg GuardConfig, st MetricStore) {
	r.POST("/drains/metrics", func(c *gin.Context) {
		adm := Admit(cfg, c.Request)
		if !adm.OK {
			c.Status(adm.Status)
			return
		}

		dedup := newDedupMap[models.SpeedMetricRow]()
		for _, raw := range ParseEvents(adm.Body) {
			// Non-object elements carry no sample; drop them. The map
			// probe also catches JSON null, which unmarshals into a
			// struct as a silent no-op.
			var obj map[string]any
			if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
				continue
			}
			var ev speedInsightEvent
			if err := json.Unmarshal(raw, &ev); err != nil {
				continue
			}
			dedup.put(mapSpeedMetric(ev, raw))
		}

		rows := dedup.values()
		if len(rows) == 0 {
			c.Status(http.StatusNoContent)
			return
		}

		if err := st.UpsertSpeedMetrics(c.Request.Context(), rows); err != nil {
			logger := logging.FromContext(c)
			logger.Error().Err(err).
				Int("rows", len(rows)).
				Msg("speed metrics upsert failed")
			c.Status(http.StatusInternalServerError)
			return
		}

		c.Status(http.StatusNoContent)
	})
}

// mapSpeedMetric projects one wire event onto the stored schema. The raw
// bytes ride along so unmapped fields are not lost.
func mapSpeedMetric(ev speedInsightEvent, raw json.RawMessage) (string, models.SpeedMetricRow) {
	id := ev.ID
	if id == "" {
		id = MetricKey(ev.Timestamp, ev.MetricType, ev.Value, ev.Path, ev.Route, ev.DeviceID)
	}

	// An unparsable timestamp stays zero rather than picking up the
	// arrival time; arrival time would break dedup content equality.
	ts, err := time.Parse(time.RFC3339Nano, ev.Timestamp)
	if err != nil {
		ts = time.Time{}
	}

	return id, models.SpeedMetricRow{
		EventID:         id,
		Timestamp:       ts.UTC(),
		MetricType:      ev.MetricType,
		Value:           ev.Value,
		Path:            ev.Path,
		Route:           ev.Route,
		Origin:          ev.Origin,
		Country:         ev.Country,
		Region:          ev.Region,
		City:            ev.City,
		OSName:          ev.OSName,
		ClientName:      ev.ClientName,
		DeviceType:      ev.DeviceType,
		ConnectionSpeed: ev.ConnectionSpeed,
		OwnerID:         ev.OwnerID,
		ProjectID:       ev.ProjectID,
		DeviceID:        ev.DeviceID,
		Raw:             raw,
	}
}
