package webhooks

import (
	"strconv"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/hoteldefend/pms-connect/core"
)

func testEnvelopeConfig(t *testing.T) EnvelopeConfig {
	t.Helper()
	return EnvelopeConfig{
		VendorID:         "opera",
		Table:            testEventTable(t),
		EventPaths:       []string{"eventType", "event.type"},
		ReservationPaths: []string{"reservationId", "data.confirmationNumber"},
		GuestPaths:       []string{"guestId", "data.profileId"},
		TimestampPaths:   []string{"occurredAt", "timestamp"},
		ExtensionPaths:   []string{"data.roomNumber"},
	}
}

func TestParseEnvelope_MapsVendorEvent(t *testing.T) {
	body := []byte(`{
		"eventType": "ReservationCreated",
		"reservationId": "ABC123",
		"guestId": "G-9",
		"occurredAt": "2026-03-01T12:00:00Z",
		"data": {"roomNumber": "412"}
	}`)

	event, err := ParseEnvelope(map[string]string{"X-Delivery-Id": "d-1"}, body, testEnvelopeConfig(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Type != core.EventReservationCreated {
		t.Fatalf("unexpected type %s", event.Type)
	}
	if event.VendorEvent != "ReservationCreated" || event.VendorID != "opera" {
		t.Fatalf("vendor identity lost: %+v", event)
	}
	if event.ReservationID != "ABC123" || event.GuestID != "G-9" {
		t.Fatalf("correlation ids lost: %+v", event)
	}
	if event.Timestamp == nil || !event.Timestamp.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Fatalf("timestamp lost: %v", event.Timestamp)
	}
	if event.Extensions["roomNumber"] != "412" {
		t.Fatalf("extension path lost: %v", event.Extensions)
	}
	if event.Extensions["delivery_id"] != "d-1" {
		t.Fatalf("delivery id lost: %v", event.Extensions)
	}
	if event.RawPayload["eventType"] != "ReservationCreated" {
		t.Fatalf("raw payload must be retained")
	}
}

func TestParseEnvelope_FallsBackThroughCandidatePaths(t *testing.T) {
	body := []byte(`{
		"event": {"type": "GuestArrived"},
		"data": {"confirmationNumber": "XYZ789"}
	}`)

	event, err := ParseEnvelope(nil, body, testEnvelopeConfig(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Type != core.EventGuestCheckedIn {
		t.Fatalf("unexpected type %s", event.Type)
	}
	if event.ReservationID != "XYZ789" {
		t.Fatalf("secondary path not consulted, got %q", event.ReservationID)
	}
}

func TestParseEnvelope_UnwrapsDoubleEncodedBody(t *testing.T) {
	inner := `{"eventType":"PaymentPosted","reservationId":"ABC123"}`
	body := []byte(strconv.Quote(inner))

	event, err := ParseEnvelope(nil, body, testEnvelopeConfig(t))
	if err != nil {
		t.Fatalf("parse double encoded body: %v", err)
	}
	if event.Type != core.EventPaymentReceived {
		t.Fatalf("unexpected type %s", event.Type)
	}
}

func TestParseEnvelope_UnknownEventPassesThrough(t *testing.T) {
	body := []byte(`{"eventType":"HousekeepingComplete","reservationId":"ABC123"}`)

	event, err := ParseEnvelope(nil, body, testEnvelopeConfig(t))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Type != core.EventType("HousekeepingComplete") {
		t.Fatalf("unmapped events keep their vendor name, got %s", event.Type)
	}
	if event.Extensions["unmapped_event"] != true {
		t.Fatalf("unmapped marker missing: %v", event.Extensions)
	}
}

func TestParseEnvelope_RejectsBadBodies(t *testing.T) {
	cfg := testEnvelopeConfig(t)
	cases := []struct {
		name string
		body string
	}{
		{"empty", "   "},
		{"not json", "<xml/>"},
		{"array", "[1,2,3]"},
		{"no event type", `{"reservationId":"ABC123"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseEnvelope(nil, []byte(tc.body), cfg)
			if err == nil {
				t.Fatalf("expected rejection")
			}
			var richErr *goerrors.Error
			if !goerrors.As(err, &richErr) || richErr.TextCode != core.PMSErrorWebhookRejected {
				t.Fatalf("expected webhook rejected envelope, got %v", err)
			}
		})
	}
}

func TestParseEnvelope_ReplayWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := testEnvelopeConfig(t)
	cfg.MaxAge = 10 * time.Minute
	cfg.Now = func() time.Time { return now }

	stale := []byte(`{"eventType":"FolioChanged","occurredAt":"2026-03-01T11:00:00Z"}`)
	if _, err := ParseEnvelope(nil, stale, cfg); err == nil {
		t.Fatalf("expected stale event to be rejected")
	} else if !strings.Contains(err.Error(), "replay window") {
		t.Fatalf("unexpected error: %v", err)
	}

	fresh := []byte(`{"eventType":"FolioChanged","occurredAt":"2026-03-01T11:55:00Z"}`)
	if _, err := ParseEnvelope(nil, fresh, cfg); err != nil {
		t.Fatalf("fresh event rejected: %v", err)
	}
}
