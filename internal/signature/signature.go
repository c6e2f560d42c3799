package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"
)

// Scheme selects how the MAC is computed and encoded. Google signs RBM
// webhook deliveries with HMAC-SHA512 encoded as padded base64; some partner
// relays use HMAC-SHA256 hex instead. The scheme is fixed per deployment.
type Scheme string

const (
	SchemeSHA512Base64 Scheme = "sha512-base64"
	SchemeSHA256Hex    Scheme = "sha256-hex"
	// SchemeAuto tries sha512-base64 first, then sha256-hex, before rejecting.
	SchemeAuto Scheme = "auto"
)

// ParseScheme normalizes input; empty => sha512-base64.
// Returns (value, true) if valid; otherwise (sha512-base64, false).
func ParseScheme(s string) (Scheme, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(SchemeSHA512Base64):
		return SchemeSHA512Base64, true
	case string(SchemeSHA256Hex):
		return SchemeSHA256Hex, true
	case string(SchemeAuto):
		return SchemeAuto, true
	default:
		return SchemeSHA512Base64, false
	}
}

// Verifier checks that an inbound request body was produced by the holder
// of the shared webhook secret. An empty secret means permissive mode:
// every request passes, which is only acceptable during endpoint
// registration and is logged accordingly.
type Verifier struct {
	secret string
	scheme Scheme
	log    *zap.Logger
}

func NewVerifier(secret string, scheme Scheme, log *zap.Logger) *Verifier {
	if log == nil {
		log = zap.NewNop()
	}
	v := &Verifier{secret: secret, scheme: scheme, log: log}
	if secret == "" {
		log.Warn("webhook secret not configured: running in permissive mode, all requests accepted unauthenticated")
	}
	return v
}

// Permissive reports whether verification is bypassed (no secret configured).
func (v *Verifier) Permissive() bool { return v.secret == "" }

// Verify reports whether claimed is a valid MAC over body. It never returns
// an error: any anomaly is an invalid signature. The comparison is constant
// time with respect to the secret.
func (v *Verifier) Verify(body []byte, claimed string) bool {
	if v.secret == "" {
		v.log.Debug("permissive mode: accepting request without signature check")
		return true
	}
	if claimed == "" {
		v.log.Warn("missing signature header on enforced webhook")
		return false
	}

	switch v.scheme {
	case SchemeSHA256Hex:
		return macEqual(SignSHA256Hex(v.secret, body), claimed)
	case SchemeAuto:
		if macEqual(SignSHA512Base64(v.secret, body), claimed) {
			return true
		}
		return macEqual(SignSHA256Hex(v.secret, body), claimed)
	default:
		return macEqual(SignSHA512Base64(v.secret, body), claimed)
	}
}

// SignSHA512Base64 computes the HMAC-SHA512 of body keyed with secret,
// encoded as standard padded base64 (single line, no trailing newline).
func SignSHA512Base64(secret string, body []byte) string {
	h := hmac.New(sha512.New, []byte(secret))
	h.Write(body)
	return base64.StdEncoding.EncodeToString(h.Sum(nil))
}

// SignSHA256Hex computes the HMAC-SHA256 of body keyed with secret,
// encoded as lowercase hex.
func SignSHA256Hex(secret string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

// macEqual compares encoded MAC strings without early exit.
func macEqual(expected, claimed string) bool {
	return hmac.Equal([]byte(expected), []byte(claimed))
}
