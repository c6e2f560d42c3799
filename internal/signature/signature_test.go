package signature

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestVerify_RoundTrip_SHA512Base64(t *testing.T) {
	v := NewVerifier("topsecret", SchemeSHA512Base64, zap.NewNop())

	bodies := [][]byte{
		[]byte(`{"message":{"text":"hola"}}`),
		[]byte(""),
		[]byte("not json at all"),
	}
	for _, body := range bodies {
		sig := SignSHA512Base64("topsecret", body)
		assert.True(t, v.Verify(body, sig), "body %q must round-trip", body)
	}
}

func TestVerify_RoundTrip_SHA256Hex(t *testing.T) {
	v := NewVerifier("topsecret", SchemeSHA256Hex, zap.NewNop())

	body := []byte(`{"receipt":{"messageId":"m1"}}`)
	sig := SignSHA256Hex("topsecret", body)
	assert.True(t, v.Verify(body, sig))
}

func TestVerify_RejectsWrongSignature(t *testing.T) {
	v := NewVerifier("topsecret", SchemeSHA512Base64, zap.NewNop())
	body := []byte(`{"message":{}}`)

	assert.False(t, v.Verify(body, "bm90IGEgcmVhbCBzaWduYXR1cmU="))
	assert.False(t, v.Verify(body, SignSHA512Base64("othersecret", body)))
	// signature over different body
	assert.False(t, v.Verify(body, SignSHA512Base64("topsecret", []byte(`{}`))))
	// right MAC, wrong encoding convention
	assert.False(t, v.Verify(body, SignSHA256Hex("topsecret", body)))
	// casing and padding defects are just invalid signatures
	good := SignSHA512Base64("topsecret", body)
	assert.False(t, v.Verify(body, strings.ToLower(good)+"x"))
	assert.False(t, v.Verify(body, strings.TrimRight(good, "=")))
}

func TestVerify_MissingSignatureUnderEnforcement(t *testing.T) {
	v := NewVerifier("topsecret", SchemeSHA512Base64, zap.NewNop())
	assert.False(t, v.Verify([]byte(`{}`), ""))
}

func TestVerify_PermissiveMode(t *testing.T) {
	v := NewVerifier("", SchemeSHA512Base64, zap.NewNop())

	assert.True(t, v.Permissive())
	assert.True(t, v.Verify([]byte(`{}`), ""))
	assert.True(t, v.Verify([]byte(`{"message":{}}`), "garbage"))
	assert.True(t, v.Verify(nil, ""))
}

func TestVerify_AutoTriesBothSchemes(t *testing.T) {
	v := NewVerifier("topsecret", SchemeAuto, zap.NewNop())
	body := []byte(`{"userStatus":{"isTyping":true}}`)

	assert.True(t, v.Verify(body, SignSHA512Base64("topsecret", body)))
	assert.True(t, v.Verify(body, SignSHA256Hex("topsecret", body)))
	assert.False(t, v.Verify(body, "neither"))
}

func TestSignSHA512Base64_SingleLinePadded(t *testing.T) {
	sig := SignSHA512Base64("k", []byte("payload"))
	require.NotContains(t, sig, "\n")
	// SHA-512 digest is 64 bytes -> 88 base64 chars with padding
	require.Len(t, sig, 88)
	assert.True(t, strings.HasSuffix(sig, "="))
}

func TestParseScheme(t *testing.T) {
	for _, tc := range []struct {
		in    string
		want  Scheme
		valid bool
	}{
		{"", SchemeSHA512Base64, true},
		{"sha512-base64", SchemeSHA512Base64, true},
		{"SHA256-HEX", SchemeSHA256Hex, true},
		{" auto ", SchemeAuto, true},
		{"md5", SchemeSHA512Base64, false},
	} {
		got, ok := ParseScheme(tc.in)
		assert.Equal(t, tc.want, got, "input %q", tc.in)
		assert.Equal(t, tc.valid, ok, "input %q", tc.in)
	}
}
