package drains

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// SignatureHeader carries the exporter's HMAC over the request body.
const SignatureHeader = "x-vercel-signature"

// TokenHeader carries the static auth token, when one is required.
const TokenHeader = "x-drain-token"

// validSignature reports whether signature is the hex HMAC-SHA256 of body
// under secret. The comparison is constant-time.
func validSignature(secret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(expected))
}

// tokenEqual compares an expected token against a caller-supplied one
// without leaking timing. Both operands are hashed first so the comparison
// always runs over fixed-length digests: a wrong-length guess costs the
// same as a wrong-content one, and both inputs are consumed in full.
func tokenEqual(expected, got string) bool {
	expSum := sha256.Sum256([]byte(expected))
	gotSum := sha256.Sum256([]byte(got))
	return subtle.ConstantTimeCompare(expSum[:], gotSum[:]) == 1
}
