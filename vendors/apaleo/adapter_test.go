package apaleo

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
		BaseURL:      "https://apaleo.example",
		TokenURL:     "https://identity.apaleo.example/connect/token",
		ClientID:     "client_1",
		ClientSecret: "secret_1",
		AccountID:    "ACME",
		PropertyID:   "BER01",
		Transport:    devkit.FastTransportConfig(),
		HTTPClient:   fake.Client(),
	})
	if err != nil {
		t.Fatalf("new adapter: %v", err)
	}
	return adapter, fake
}

func TestNew_RequiresTenantScoping(t *testing.T) {
	cfg := Config{BaseURL: "https://apaleo.example", PropertyID: "BER01"}
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected account id to be required")
	}
	cfg = Config{BaseURL: "https://apaleo.example", AccountID: "ACME"}
	if _, err := New(cfg); err == nil {
		t.Fatalf("expected property id to be required")
	}
}

func TestAdapter_GetReservation_MoneyObjects(t *testing.T) {
	adapter, fake := newTestAdapter(t,
		devkit.JSONScript(200, devkit.TokenReply("apaleo_tok", 3600)),
		devkit.JSONScript(200, map[string]any{
			"id":     "XKCD-1",
			"status": "InHouse",
			"primaryGuest": map[string]any{
				"id":        "G-7",
				"firstName": "Ada",
				"lastName":  "Lovelace",
				"email":     "ada@example.com",
			},
			"arrival":   "2026-03-01T15:00:00Z",
			"departure": "2026-03-04T11:00:00Z",
			"unitGroup": map[string]any{"code": "KGD"},
			"totalGrossAmount": map[string]any{
				"amount":   597.5,
				"currency": "EUR",
			},
			"channelCode":   "BookingCom",
			"marketSegment": map[string]any{"code": "OTA"},
		}),
	)

	reservation, err := adapter.GetReservation(context.Background(), "XKCD-1")
	if err != nil {
		t.Fatalf("get reservation: %v", err)
	}
	if reservation.Status != "checked_in" {
		t.Fatalf("InHouse must normalize to checked_in, got %s", reservation.Status)
	}
	if reservation.TotalAmount != 597.5 || reservation.Currency != "EUR" {
		t.Fatalf("money object not unwrapped: %v %s", reservation.TotalAmount, reservation.Currency)
	}
	if reservation.GuestProfileID != "G-7" {
		t.Fatalf("nested guest id lost: %+v", reservation)
	}
	if reservation.Extensions["code"] != "OTA" {
		t.Fatalf("market segment extension lost: %v", reservation.Extensions)
	}

	data := fake.Last()
	if data.Path != "/booking/v1/reservations/XKCD-1" {
		t.Fatalf("unexpected path %q", data.Path)
	}
	if data.Headers.Get("Authorization") != "Bearer apaleo_tok" {
		t.Fatalf("bearer token missing: %v", data.Headers)
	}
	if data.Headers.Get("X-Account-Id") != "ACME" {
		t.Fatalf("account header missing: %v", data.Headers)
	}
}

func TestAdapter_SearchReservations_AlwaysScopedToProperty(t *testing.T) {
	adapter, fake := newTestAdapter(t,
		devkit.JSONScript(200, devkit.TokenReply("apaleo_tok", 3600)),
		devkit.JSONScript(200, map[string]any{
			"reservations": []any{
				map[string]any{"id": "R-1", "status": "Confirmed"},
			},
		}),
	)

	results, err := adapter.SearchReservations(context.Background(), core.ReservationFilter{})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	query := fake.Last().Query
	if query.Get("propertyIds") != "BER01" {
		t.Fatalf("search must be scoped to the property: %v", query)
	}
}

func TestAdapter_GetRates_PropertyScope(t *testing.T) {
	adapter, fake := newTestAdapter(t,
		devkit.JSONScript(200, devkit.TokenReply("apaleo_tok", 3600)),
		devkit.JSONScript(200, map[string]any{
			"ratePlans": []any{
				map[string]any{
					"code": "BAR",
					"name": "Flexible",
					"price": map[string]any{
						"amount":   199.0,
						"currency": "EUR",
					},
					"isActive": true,
				},
			},
		}),
	)

	rates, err := adapter.GetRates(context.Background(), core.RateFilter{Code: "BAR"})
	if err != nil {
		t.Fatalf("rates: %v", err)
	}
	if len(rates) != 1 || rates[0].BaseAmount != 199 || rates[0].Currency != "EUR" {
		t.Fatalf("rate money object lost: %+v", rates)
	}

	query := fake.Last().Query
	if query.Get("propertyId") != "BER01" || query.Get("ratePlanCodes") != "BAR" {
		t.Fatalf("rate query wrong: %v", query)
	}
}

func TestAdapter_ParseWebhookPayload(t *testing.T) {
	adapter, _ := newTestAdapter(t)

	event, err := adapter.ParseWebhookPayload(nil, []byte(
		`{"type":"reservation.checked-out","data":{"entityId":"XKCD-1"},"accountId":"ACME","timestamp":"`+
			time.Now().UTC().Format(time.RFC3339)+`"}`,
	))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if event.Type != core.EventGuestCheckedOut {
		t.Fatalf("unexpected event type %s", event.Type)
	}
	if event.ReservationID != "XKCD-1" {
		t.Fatalf("entity id lost: %+v", event)
	}
	if event.Extensions["accountId"] != "ACME" {
		t.Fatalf("account extension lost: %v", event.Extensions)
	}
}
