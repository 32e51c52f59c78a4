package core

import (
	"errors"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestMapError_ClassifiesByMessage(t *testing.T) {
	cases := []struct {
		name     string
		input    error
		category goerrors.Category
		textCode string
	}{
		{"circuit open", errors.New("transport: circuit open for opera"), goerrors.CategoryRateLimit, PMSErrorCircuitOpen},
		{"throttled", errors.New("vendor throttled the client"), goerrors.CategoryRateLimit, PMSErrorRateLimited},
		{"bad token", errors.New("invalid_grant: refresh token revoked"), goerrors.CategoryAuth, PMSErrorAuthFailed},
		{"signature", errors.New("webhook signature mismatch"), goerrors.CategoryAuthz, PMSErrorWebhookRejected},
		{"bad input", errors.New("confirmation number is required"), goerrors.CategoryBadInput, PMSErrorBadInput},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mapped := MapError(tc.input)
			if mapped == nil {
				t.Fatalf("expected mapped error")
			}
			if mapped.Category != tc.category {
				t.Fatalf("expected category %s, got %s", tc.category, mapped.Category)
			}
			if mapped.TextCode != tc.textCode {
				t.Fatalf("expected text code %s, got %s", tc.textCode, mapped.TextCode)
			}
		})
	}
}

func TestMapError_PreservesRichErrors(t *testing.T) {
	source := VendorError("opera", "get_reservation", errors.New("status 502"))
	mapped := MapError(source)
	if mapped.TextCode != PMSErrorVendorUnavailable {
		t.Fatalf("expected vendor unavailable, got %s", mapped.TextCode)
	}
	if mapped.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 envelope, got %d", mapped.Code)
	}
	if mapped.Metadata["vendor_id"] != "opera" || mapped.Metadata["operation"] != "get_reservation" {
		t.Fatalf("vendor identity lost: %v", mapped.Metadata)
	}
}

func TestMapError_NilStaysNil(t *testing.T) {
	if MapError(nil) != nil {
		t.Fatalf("nil error should map to nil")
	}
}

func TestAuthErrorCarriesOperation(t *testing.T) {
	err := AuthError("apaleo", "authenticate", errors.New("invalid_client"))
	if err.Category != goerrors.CategoryAuth || err.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected envelope: %v / %d", err.Category, err.Code)
	}
	if err.Metadata["operation"] != "authenticate" {
		t.Fatalf("operation missing from metadata: %v", err.Metadata)
	}
}
