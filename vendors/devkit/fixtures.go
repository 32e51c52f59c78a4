package devkit

import (
	"time"

	"github.com/hoteldefend/pms-connect/core"
)

// FastTransportConfig is a permissive resilience config so tests never
// wait on the limiter or backoff.
func FastTransportConfig() core.TransportConfig {
	return core.TransportConfig{
		TimeoutSeconds:          5,
		AuthTimeoutSeconds:      5,
		RateLimitCapacity:       1000,
		RateLimitPerSecond:      1000,
		BreakerFailureThreshold: 5,
		BreakerCooldownSeconds:  30,
		BreakerHalfOpenProbes:   1,
	}
}

// TokenReply is a canned OAuth token endpoint reply.
func TokenReply(token string, expiresIn int) map[string]any {
	return map[string]any{
		"access_token":  token,
		"refresh_token": token + "_refresh",
		"token_type":    "bearer",
		"expires_in":    expiresIn,
	}
}

// ReservationReply is a canned camelCase reservation document with the
// fields the generic mapping expects, plus overrides.
func ReservationReply(overrides map[string]any) map[string]any {
	payload := map[string]any{
		"confirmationNumber": "CONF-1001",
		"reservationId":      "R-77",
		"status":             "CONFIRMED",
		"guestId":            "G-42",
		"guest": map[string]any{
			"firstName": "Ada",
			"lastName":  "Lovelace",
		},
		"email":         "ada@example.com",
		"phone":         "(212) 555-0100",
		"checkInDate":   "2026-03-01",
		"checkOutDate":  "2026-03-04",
		"roomType":      "KING",
		"roomNumber":    "412",
		"ratePlanCode":  "BAR",
		"totalAmount":   "1,234.56",
		"currencyCode":  "USD",
		"adults":        2,
		"cardBrand":     "VI",
		"cardNumber":    "4111111111111111",
		"authCode":      "AUTH99",
		"bookingSource": "WEB",
		"createdAt":     "2026-02-20T10:00:00Z",
		"updatedAt":     "2026-02-21T09:30:00Z",
	}
	for key, value := range overrides {
		payload[key] = value
	}
	return payload
}

// FolioReply is a canned folio listing.
func FolioReply() map[string]any {
	return map[string]any{
		"items": []any{
			map[string]any{
				"folioId":         "F-1",
				"transactionId":   "T-100",
				"transactionCode": "RM",
				"description":     "Room Charge",
				"amount":          199.00,
				"currencyCode":    "USD",
				"postDate":        "2026-03-02",
			},
			map[string]any{
				"folioId":         "F-1",
				"transactionId":   "T-101",
				"transactionCode": "TX",
				"description":     "City Tax",
				"amount":          21.50,
				"currencyCode":    "USD",
				"postDate":        "2026-03-02",
			},
		},
	}
}

// WebhookBody is a canned vendor webhook envelope.
func WebhookBody(eventType string) map[string]any {
	return map[string]any{
		"eventType":     eventType,
		"reservationId": "CONF-1001",
		"guestId":       "G-42",
		"occurredAt":    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC).Format(time.RFC3339),
	}
}
