package httpserver

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/fernwehlabs/drain-ingest/internal/config"
)

func testRouterConfig() config.Config {
	return config.Config{
		Env:           "development",
		MetricsSecret: "m-secret",
		TracesSecret:  "t-secret",
		MaxBodyBytes:  5_000_000,
		BatchSize:     500,
	}
}

func do(t *testing.T, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(testRouterConfig(), zerolog.Nop(), nil)
	req := httptest.NewRequest(method, path, strings.NewReader(""))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
}

// The drain endpoints expose no surface to method probing: anything but
// POST is an empty 404, identical to a route that does not exist.
func TestDrainMethodProbing(t *testing.T) {
	for _, path := range []string{"/drains/metrics", "/drains/traces"} {
		for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodOptions} {
			w := do(t, method, path)
			assert.Equal(t, http.StatusNotFound, w.Code, "%s %s", method, path)
			assert.Empty(t, w.Body.Bytes(), "%s %s", method, path)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	w := do(t, http.MethodGet, "/drains/logs")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

// Outside production, with no override, a fully signed POST still answers
// the same 404 a prober would see on any other path.
func TestDrainsDisabledOutsideProduction(t *testing.T) {
	w := do(t, http.MethodPost, "/drains/metrics")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

// A guard-rejected POST, a method probe, and a route that never existed
// must produce byte-identical responses.
func TestNotFoundResponsesIndistinguishable(t *testing.T) {
	responses := []*httptest.ResponseRecorder{
		do(t, http.MethodPost, "/drains/metrics"),
		do(t, http.MethodGet, "/drains/metrics"),
		do(t, http.MethodGet, "/no/such/route"),
	}

	for i, w := range responses {
		assert.Equal(t, http.StatusNotFound, w.Code, "response %d", i)
		assert.Equal(t, responses[0].Body.Bytes(), w.Body.Bytes(), "response %d", i)
		assert.Empty(t, w.Body.Bytes(), "response %d", i)
	}
}
