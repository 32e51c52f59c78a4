package webhooks

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"
)

func TestGenerateSecret(t *testing.T) {
	first, err := GenerateSecret()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	second, err := GenerateSecret()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(first) != 64 {
		t.Fatalf("expected 32 byte hex secret, got %d chars", len(first))
	}
	if first == second {
		t.Fatalf("secrets must be unique")
	}
}

func TestVerifySignature_HexRoundTrip(t *testing.T) {
	payload := []byte(`{"event":"reservation.created","id":"ABC123"}`)
	secret := "shh_secret"

	signature := Sign(payload, secret)
	if !VerifySignature(payload, signature, secret) {
		t.Fatalf("own signature must verify")
	}
	if !VerifySignature(payload, "sha256="+signature, secret) {
		t.Fatalf("prefixed signature must verify")
	}
}

func TestVerifySignature_Base64(t *testing.T) {
	payload := []byte(`{"event":"folio.updated"}`)
	secret := "shh_secret"

	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write(payload)
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !VerifySignature(payload, signature, secret) {
		t.Fatalf("base64 signature must verify")
	}
}

func TestVerifySignature_Rejects(t *testing.T) {
	payload := []byte(`{"event":"reservation.created"}`)
	secret := "shh_secret"
	signature := Sign(payload, secret)

	cases := []struct {
		name      string
		payload   []byte
		signature string
		secret    string
	}{
		{"mutated payload", []byte(`{"event":"reservation.creatEd"}`), signature, secret},
		{"mutated signature", payload, flipLastChar(signature), secret},
		{"wrong secret", payload, signature, "other_secret"},
		{"empty signature", payload, "", secret},
		{"empty secret", payload, signature, ""},
		{"garbage signature", payload, "zz-not-an-encoding-!", secret},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if VerifySignature(tc.payload, tc.signature, tc.secret) {
				t.Fatalf("expected verification to fail")
			}
		})
	}
}

func flipLastChar(s string) string {
	last := s[len(s)-1]
	if last == '0' {
		return s[:len(s)-1] + "1"
	}
	return s[:len(s)-1] + "0"
}
