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

// TraceStore persists trace deliveries.
type TraceStore interface {
	UpsertTraceEvents(ctx context.Context, rows []models.TraceRow) error
}

// RegisterTracesDrain registers the trace ingestion endpoint.
//
// POST /drains/traces
// - JSON and NDJSON bodies are split into individual events
// - Protobuf/octet-stream bodies are stored whole, keyed by content hash,
//   and never parsed as text
func RegisterTracesDrain(r gin.IRoutes, cfg GuardConfig, st TraceStore) {
	r.POST("/drains/traces", func(c *gin.Context) {
		adm := Admit(cfg, c.Request)
		if !adm.OK {
			c.Status(adm.Status)
			return
		}

		now := time.Now().UTC()

		if IsBinary(adm.ContentType) {
			if len(adm.Body) == 0 {
				c.Status(http.StatusNoContent)
				return
			}
			row := models.TraceRow{
				EventID:     BlobKey(adm.Body),
				ContentType: adm.ContentType,
				Payload:     adm.Body,
				ReceivedAt:  now,
			}
			if err := st.UpsertTraceEvents(c.Request.Context(), []models.TraceRow{row}); err != nil {
				logger := logging.FromContext(c)
				logger.Error().Err(err).Msg("trace blob upsert failed")
				c.Status(http.StatusInternalServerError)
				return
			}
			c.Status(http.StatusNoContent)
			return
		}

		dedup := newDedupMap[models.TraceRow]()
		for _, raw := range ParseEvents(adm.Body) {
			// A nil map after a successful unmarshal means the element
			// was JSON null; drop it with the other non-objects.
			var obj map[string]any
			if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
				continue
			}
			id := SuppliedID(obj)
			if id == "" {
				id = TraceKey(adm.ContentType, obj)
			}
			dedup.put(id, models.TraceRow{
				EventID:     id,
				ContentType: adm.ContentType,
				Payload:     raw,
				ReceivedAt:  now,
			})
		}

		rows := dedup.values()
		if len(rows) == 0 {
			c.Status(http.StatusNoContent)
			return
		}

		if err := st.UpsertTraceEvents(c.Request.Context(), rows); err != nil {
			logger := logging.FromContext(c)
			logger.Error().Err(err).
				Int("rows", len(rows)).
				Msg("trace events upsert failed")
			c.Status(http.StatusInternalServerError)
			return
		}

		c.Status(http.StatusNoContent)
	})
}
