package webhooks

import (
	"testing"

	"github.com/hoteldefend/pms-connect/core"
)

func testEventTable(t *testing.T) *EventTable {
	t.Helper()
	table, err := NewEventTable(map[string]core.EventType{
		"ReservationCreated":   core.EventReservationCreated,
		"ReservationModified":  core.EventReservationUpdated,
		"ReservationCancelled": core.EventReservationCancelled,
		"GuestArrived":         core.EventGuestCheckedIn,
		"GuestDeparted":        core.EventGuestCheckedOut,
		"PaymentPosted":        core.EventPaymentReceived,
		"FolioChanged":         core.EventFolioUpdated,
	})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	return table
}

func TestEventTable_RoundTripsEveryCanonicalEvent(t *testing.T) {
	table := testEventTable(t)
	for _, event := range core.CanonicalEvents() {
		vendorName, ok := table.FromCanonical(event)
		if !ok {
			t.Fatalf("no vendor name for %s", event)
		}
		back, ok := table.ToCanonical(vendorName)
		if !ok || back != event {
			t.Fatalf("round trip broke: %s -> %s -> %s", event, vendorName, back)
		}
	}
}

func TestEventTable_TranslationIsCaseInsensitive(t *testing.T) {
	table := testEventTable(t)
	got, ok := table.ToCanonical("reservationcreated")
	if !ok || got != core.EventReservationCreated {
		t.Fatalf("case insensitive lookup failed: %s %v", got, ok)
	}
}

func TestEventTable_AliasesAreInboundOnly(t *testing.T) {
	table := testEventTable(t).WithAlias("ReservationAmended", core.EventReservationUpdated)

	got, ok := table.ToCanonical("ReservationAmended")
	if !ok || got != core.EventReservationUpdated {
		t.Fatalf("alias lookup failed")
	}
	name, _ := table.FromCanonical(core.EventReservationUpdated)
	if name != "ReservationModified" {
		t.Fatalf("alias must not shadow the primary name, got %q", name)
	}
}

func TestEventTable_RejectsAmbiguousMappings(t *testing.T) {
	_, err := NewEventTable(map[string]core.EventType{
		"Created":    core.EventReservationCreated,
		"CreatedToo": core.EventReservationCreated,
	})
	if err == nil {
		t.Fatalf("two vendor names for one canonical event must fail")
	}
}

func TestEventTable_SupportedFiltersUnknownEvents(t *testing.T) {
	table, err := NewEventTable(map[string]core.EventType{
		"ResCreated": core.EventReservationCreated,
	})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	supported := table.Supported([]core.EventType{
		core.EventReservationCreated,
		core.EventFolioUpdated,
	})
	if len(supported) != 1 || supported[0] != core.EventReservationCreated {
		t.Fatalf("unexpected supported list: %v", supported)
	}
}
