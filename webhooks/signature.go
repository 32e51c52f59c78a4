package webhooks

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

const secretBytes = 32

// GenerateSecret produces a new webhook signing secret. The caller must
// persist it; the hub never stores secrets itself.
func GenerateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// Sign computes the hex encoded HMAC-SHA256 of the payload.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a hex or base64 encoded HMAC-SHA256 signature
// in constant time. Any malformed input verifies false, never an error,
// so callers cannot leak why verification failed.
func VerifySignature(payload []byte, signature string, secret string) bool {
	signature = strings.TrimSpace(signature)
	if signature == "" || strings.TrimSpace(secret) == "" {
		return false
	}
	signature = strings.TrimPrefix(signature, "sha256=")

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(payload)
	expected := mac.Sum(nil)

	if decoded, err := hex.DecodeString(signature); err == nil {
		return subtle.ConstantTimeCompare(decoded, expected) == 1
	}
	if decoded, err := base64.StdEncoding.DecodeString(signature); err == nil {
		return subtle.ConstantTimeCompare(decoded, expected) == 1
	}
	return false
}
