// Package signature implements the HMAC-SHA256 body signature carried in the
// X-Webhook-Signature-256 header, formatted as "sha256=<hex>".
package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"strings"
)

// Header is the canonical name of the signature header, on both the
// ingestion side (verified) and the outbound side (set when a secret exists).
const Header = "X-Webhook-Signature-256"

// Compute returns the signature header value for body under secretKey.
func Compute(secretKey string, body []byte) string {
	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write(body)
	return fmt.Sprintf("sha256=%x", h.Sum(nil))
}

// Verify checks headerValue against the HMAC-SHA256 of body under secretKey.
//
// A subscription without a secret accepts anything. With a secret, the header
// must be present and of the form "sha256=<hex>" (scheme case-insensitive),
// and the hex digest must match under a constant-time comparison.
func Verify(secretKey string, body []byte, headerValue string) bool {
	if secretKey == "" {
		return true
	}

	if headerValue == "" {
		return false
	}

	scheme, provided, found := strings.Cut(headerValue, "=")
	if !found || !strings.EqualFold(scheme, "sha256") {
		return false
	}

	h := hmac.New(sha256.New, []byte(secretKey))
	h.Write(body)
	expected := fmt.Sprintf("%x", h.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(provided))
}
