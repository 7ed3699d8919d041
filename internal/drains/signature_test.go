package drains

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidSignature(t *testing.T) {
	body := []byte(`{"id":"evt_1"}`)

	assert.True(t, validSignature("secret", body, sign("secret", body)))
	assert.False(t, validSignature("secret", body, sign("other", body)))
	assert.False(t, validSignature("secret", body, ""))
	assert.False(t, validSignature("secret", body, "not-hex-not-right"))
}

func TestValidSignatureCoversExactBytes(t *testing.T) {
	body := []byte(`{"id":"evt_1"}`)
	signature := sign("secret", body)

	tampered := append([]byte(nil), body...)
	tampered[0] ^= 0x01

	assert.False(t, validSignature("secret", tampered, signature))
}

func TestTokenEqual(t *testing.T) {
	assert.True(t, tokenEqual("token-abc", "token-abc"))
	assert.False(t, tokenEqual("token-abc", "token-abd"))
	assert.False(t, tokenEqual("token-abc", "token-abc-suffix"))
	assert.False(t, tokenEqual("token-abc", ""))
	assert.True(t, tokenEqual("", ""))
}
