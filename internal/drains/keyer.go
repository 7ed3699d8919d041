package drains

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"
	"strings"
)

// Dedup keys make retried deliveries idempotent: the same logical event
// always derives the same event_id, so the store's upsert collapses
// duplicates to one row.
//
// When the exporter supplies an id we trust it verbatim. Otherwise the key
// is a SHA-256 over a fixed list of discriminating fields joined with the
// unit separator (0x1f), a byte that cannot occur unescaped in the field
// values themselves.

const keySeparator = "\x1f"

func contentKey(fields ...string) string {
	sum := sha256.Sum256([]byte(strings.Join(fields, keySeparator)))
	return hex.EncodeToString(sum[:])
}

// SuppliedID returns the exporter-assigned id of the event, or "".
func SuppliedID(event map[string]any) string {
	id, _ := event["id"].(string)
	return id
}

// MetricKey derives the dedup key for a speed-insight sample from its
// discriminating fields, in this fixed order.
func MetricKey(timestamp, metricType string, value float64, path, route string, deviceID int64) string {
	return contentKey(
		timestamp,
		metricType,
		strconv.FormatFloat(value, 'g', -1, 64),
		path,
		route,
		strconv.FormatInt(deviceID, 10),
	)
}

// TraceKey derives the dedup key for a JSON trace event. The event is
// re-marshaled from its decoded form, which sorts object keys, so the
// same logical event keys identically whether it arrived as a bare
// document, an array element, or an NDJSON line.
func TraceKey(contentType string, event map[string]any) string {
	canonical, err := json.Marshal(event)
	if err != nil {
		canonical = nil
	}
	return contentKey(contentType, string(canonical))
}

// BlobKey derives the dedup key for an opaque binary payload: the hash of
// the bytes themselves, so bit-identical redeliveries collapse.
func BlobKey(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
