package drains

import (
	"encoding/json"
	"regexp"
	"strings"
)

// binaryContentTypes matches payloads that must never be parsed as text.
var binaryContentTypes = regexp.MustCompile(`(?i)^application/(x-protobuf|octet-stream)`)

// IsBinary reports whether the declared content type takes the opaque-blob
// path instead of JSON parsing.
func IsBinary(contentType string) bool {
	return binaryContentTypes.MatchString(contentType)
}

// ParseEvents decodes a drain body into individual events.
//
// The exporter delivers three textual shapes: a single JSON document, a
// JSON array (one event per element), or newline-delimited JSON. The whole
// body is tried first; if that fails, each non-blank line is parsed on its
// own and lines that do not parse are dropped. Zero events is a valid
// outcome, not an error.
func ParseEvents(body []byte) []json.RawMessage {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil
	}

	if json.Valid([]byte(trimmed)) {
		if strings.HasPrefix(trimmed, "[") {
			var elements []json.RawMessage
			if err := json.Unmarshal([]byte(trimmed), &elements); err == nil {
				return elements
			}
		}
		return []json.RawMessage{json.RawMessage(trimmed)}
	}

	// NDJSON: one document per line, tolerate blanks and a malformed
	// trailing fragment from a truncated delivery.
	var events []json.RawMessage
	for _, line := range strings.Split(trimmed, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !json.Valid([]byte(line)) {
			continue
		}
		events = append(events, json.RawMessage(line))
	}
	return events
}
