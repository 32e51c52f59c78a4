package frontdesk

import (
	"context"
	"testing"
	"time"

	"github.com/hoteldefend/pms-connect/core"
	"github.com/hoteldefend/pms-connect/vendors/devkit"
)

func newTestAdapter(t *testing.T, scripts ...devkit.Script) (*Adapter, *devkit.ScriptedTransport) {
	t.Helper()
	fake := devkit.NewScriptedTransport(scripts...)
	adapter, err := New(Config{
		BaseURL:    "https://frontdesk.example",
		APIKey:     "fd_key_1",
		Transport:  devkit.FastTransportConfig(),
		HTTPClient: fake.Client(),
	})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	return adapter, fake
}

func TestAdapter_GetReservation_MinorUnits(t *testing.T) {
	adapter, fake := newTestAdapter(t, devkit.JSONScript(200, map[string]any{
		"id":         "B-501",
		"bookingRef": "FD-501",
		"state":      "active",
		"guestId":    "G-5",
		"guestName":  "Ada Lovelace",
		"guestEmail": "ada@example.com",
		"checkIn":    "2026-03-01",
		"checkOut":   "2026-03-03",
		"roomType":   "Double",
		"totalCents": 25900,
		"currency":   "USD",
		"cardBrand":  "visa",
		"cardLast4":  "4242",
	}))

	reservation, err := adapter.GetReservation(context.Background(), "FD-501")
	if err != nil {
		t.Fatalf("get reservation: %v", err)
	}
	if reservation.ConfirmationNumber != "FD-501" || reservation.PMSID != "B-501" {
		t.Fatalf("ids lost: %+v", reservation)
	}
	if reservation.Status != "checked_in" {
		t.Fatalf("active must normalize to checked_in, got %s", reservation.Status)
	}
	if reservation.TotalAmount != 259 {
		t.Fatalf("cent amount not converted: %v", reservation.TotalAmount)
	}
	if reservation.Payment.CardBrand != "visa" {
		t.Fatalf("card brand lost: %s", reservation.Payment.CardBrand)
	}
	if reservation.Payment.LastFour != "4242" {
		t.Fatalf("card last four lost: %q", reservation.Payment.LastFour)
	}

	request := fake.Last()
	if request.Path != "/v2/bookings/FD-501" {
		t.Fatalf("unexpected path %q", request.Path)
	}
	if request.Headers.Get("X-Api-Key") != "fd_key_1" {
		t.Fatalf("default key header missing: %v", request.Headers)
	}
}

func TestAdapter_GetGuestFolio_CentAmounts(t *testing.T) {
	adapter, _ := newTestAdapter(t, devkit.JSONScript(200, map[string]any{
		"charges": []any{
			map[string]any{
				"id":          "C-1",
				"kind":        "room",
				"label":       "Night 1",
				"amountCents": 12950,
				"refunded":    false,
			},
			map[string]any{
				"id":          "C-2",
				"kind":        "payment",
				"label":       "Card payment",
				"amountCents": -25900,
				"refunded":    false,
			},
		},
	}))

	items, err := adapter.GetGuestFolio(context.Background(), "B-501")
	if err != nil {
		t.Fatalf("folio: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Amount != 129.5 || items[1].Amount != -259 {
		t.Fatalf("cent amounts not converted: %+v", items)
	}
}

func TestAdapter_GetGuestProfile_NoLoyaltyProgram(t *testing.T) {
	adapter, _ := newTestAdapter(t, devkit.JSONScript(200, map[string]any{
		"guest": map[string]any{
			"guestId":            "G-5",
			"guestName":          "Ada Lovelace",
			"country":            "GB",
			"staysCount":         3,
			"lifetimeValueCents": 77700,
		},
	}))

	profile, err := adapter.GetGuestProfile(context.Background(), "G-5")
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.TotalStays != 3 {
		t.Fatalf("stay count lost: %+v", profile)
	}
	if profile.TotalRevenue != 777 {
		t.Fatalf("lifetime value not converted from cents: %v", profile.TotalRevenue)
	}
	if profile.LoyaltyNumber != "" || profile.LoyaltyLevel != "" {
		t.Fatalf("vendor has no loyalty program: %+v", profile)
	}
}

func TestAdapter_HealthCheck(t *testing.T) {
	adapter, fake := newTestAdapter(t, devkit.JSONScript(200, map[string]any{"pong": true}))

	status := adapter.HealthCheck(context.Background())
	if !status.Healthy {
		t.Fatalf("expected healthy, got %+v", status)
	}
	if fake.Last().Path != "/v2/ping" {
		t.Fatalf("unexpected health path %q", fake.Last().Path)
	}
}

func TestAdapter_ParseWebhookPayload(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	event, err := adapter.ParseWebhookPayload(nil, []byte(
		`{"event":"payment.captured","bookingId":"B-501","sentAt":"`+
			time.Now().UTC().Format(time.RFC3339)+`"}`,
	))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Type != core.EventPaymentReceived {
		t.Fatalf("unexpected event %s", event.Type)
	}
	if event.ReservationID != "B-501" {
		t.Fatalf("booking id lost: %+v", event)
	}
}
