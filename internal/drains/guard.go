package drains

import (
	"io"
	"net/http"
	"regexp"
)

// GuardConfig is the per-drain admission policy, built once at startup.
type GuardConfig struct {
	// Enabled gates the whole drain. Disabled drains answer 404 so the
	// endpoint is indistinguishable from a route that does not exist.
	Enabled bool

	// Secret is the shared HMAC secret. An empty secret means the drain
	// was never configured, which also answers 404.
	Secret string

	// AuthToken, when non-empty, must match the x-drain-token header.
	AuthToken string

	// ContentTypes, when non-nil, is the allow-list for the declared
	// content-type. Requests without a content-type pass this check.
	ContentTypes *regexp.Regexp

	// MaxBodyBytes caps both the declared and the actual body size.
	MaxBodyBytes int64
}

// Admission is the outcome of guarding one request: either the fully-read
// body plus its content type, or a terminal status. Rejections never carry
// a reason in the response; the status alone goes back to the exporter.
type Admission struct {
	OK          bool
	Status      int
	Body        []byte
	ContentType string
}

func admitted(body []byte, contentType string) Admission {
	return Admission{OK: true, Body: body, ContentType: contentType}
}

func rejected(status int) Admission {
	return Admission{Status: status}
}

// Admit runs the admission checks in order, short-circuiting on the first
// failure. Misconfiguration and bad credentials all collapse to 404 so a
// prober cannot tell a guarded drain from an absent route, and cannot use
// response codes as an oracle against the token or secret.
func Admit(cfg GuardConfig, r *http.Request) Admission {
	if !cfg.Enabled {
		return rejected(http.StatusNotFound)
	}
	if cfg.Secret == "" {
		return rejected(http.StatusNotFound)
	}
	if cfg.AuthToken != "" {
		token := r.Header.Get(TokenHeader)
		if token == "" || !tokenEqual(cfg.AuthToken, token) {
			return rejected(http.StatusNotFound)
		}
	}

	signature := r.Header.Get(SignatureHeader)
	if signature == "" {
		return rejected(http.StatusUnauthorized)
	}

	contentType := r.Header.Get("Content-Type")
	if cfg.ContentTypes != nil && contentType != "" && !cfg.ContentTypes.MatchString(contentType) {
		return rejected(http.StatusUnsupportedMediaType)
	}

	// Reject on the declared length before reading anything.
	if r.ContentLength > cfg.MaxBodyBytes {
		return rejected(http.StatusRequestEntityTooLarge)
	}

	// Read one byte past the cap so an over-long body without a length
	// header is still caught.
	body, err := io.ReadAll(io.LimitReader(r.Body, cfg.MaxBodyBytes+1))
	if err != nil {
		return rejected(http.StatusInternalServerError)
	}
	if int64(len(body)) > cfg.MaxBodyBytes {
		return rejected(http.StatusRequestEntityTooLarge)
	}

	if !validSignature(cfg.Secret, body, signature) {
		return rejected(http.StatusUnauthorized)
	}

	return admitted(body, contentType)
}
