package vendors

import (
	"testing"

	"github.com/hoteldefend/pms-connect/normalize"
)

func TestReservationFrom_RootPathAndMinorUnits(t *testing.T) {
	payload := map[string]any{
		"data": map[string]any{
			"reservation": map[string]any{
				"confNo":   "ABC123",
				"state":    "InHouse",
				"total":    123456,
				"currency": 840,
			},
		},
	}
	mapping := Mapping{
		ReservationRoot:     []string{"data.reservation"},
		ConfirmationNumber:  []string{"confNo"},
		Status:              []string{"state"},
		StatusValues:        map[string]normalize.ReservationStatus{"INHOUSE": normalize.StatusCheckedIn},
		TotalAmount:         []string{"total"},
		Currency:            []string{"currency"},
		AmountsInMinorUnits: true,
	}

	reservation := ReservationFrom(payload, mapping)
	if reservation.ConfirmationNumber != "ABC123" {
		t.Fatalf("root path not resolved: %+v", reservation)
	}
	if reservation.Status != normalize.StatusCheckedIn {
		t.Fatalf("vendor status vocabulary not applied: %s", reservation.Status)
	}
	if reservation.TotalAmount != 1234.56 {
		t.Fatalf("minor units not divided: %v", reservation.TotalAmount)
	}
	if reservation.Currency != "USD" {
		t.Fatalf("numeric currency not mapped: %s", reservation.Currency)
	}
}

func TestReservationFrom_MalformedFieldsDegradeSilently(t *testing.T) {
	payload := map[string]any{
		"confNo":      "ABC123",
		"checkIn":     "not a date",
		"total":       "not a number",
		"adultsCount": "many",
	}
	mapping := Mapping{
		ConfirmationNumber: []string{"confNo"},
		CheckIn:            []string{"checkIn"},
		TotalAmount:        []string{"total"},
		GuestCount:         []string{"adultsCount"},
	}

	reservation := ReservationFrom(payload, mapping)
	if reservation.ConfirmationNumber != "ABC123" {
		t.Fatalf("good fields must survive bad neighbors")
	}
	if reservation.CheckInDate != nil || reservation.TotalAmount != 0 || reservation.GuestCount != 0 {
		t.Fatalf("malformed fields must default, got %+v", reservation)
	}
}

func TestFolioItemsFrom_WindowReversalQuantity(t *testing.T) {
	payload := map[string]any{
		"charges": []any{
			map[string]any{
				"txId":     "T-1",
				"code":     "RM",
				"desc":     "Room night",
				"value":    "(150.00)",
				"window":   2,
				"reversed": "Y",
				"count":    3,
			},
			"not a map",
		},
	}
	mapping := Mapping{
		FolioList:        []string{"charges"},
		TransactionID:    []string{"txId"},
		TransactionCode:  []string{"code"},
		FolioDescription: []string{"desc"},
		FolioAmount:      []string{"value"},
		FolioWindow:      []string{"window"},
		Reversal:         []string{"reversed"},
		Quantity:         []string{"count"},
	}

	items := FolioItemsFrom(payload, mapping)
	if len(items) != 1 {
		t.Fatalf("non-map rows must be skipped, got %d items", len(items))
	}
	item := items[0]
	if item.Amount != -150 {
		t.Fatalf("parenthesized amount must be negative: %v", item.Amount)
	}
	if item.WindowNumber != 2 || !item.Reversal || item.Quantity != 3 {
		t.Fatalf("folio details lost: %+v", item)
	}
	if item.Category != normalize.FolioCategoryRoom {
		t.Fatalf("category not derived from code: %s", item.Category)
	}
}

func TestGuestProfileFrom_Loyalty(t *testing.T) {
	payload := map[string]any{
		"profile": map[string]any{
			"id":            "G-9",
			"name":          "Lovelace, Ada",
			"loyaltyNumber": "LN-123",
			"tier":          "Platinum",
			"points":        12500,
			"stayCount":     14,
			"lifetimeSpend": "8,750.25",
		},
	}
	mapping := Mapping{
		ProfileRoot:   []string{"profile"},
		GuestID:       []string{"id"},
		GuestName:     []string{"name"},
		LoyaltyNumber: []string{"loyaltyNumber"},
		LoyaltyLevel:  []string{"tier"},
		LoyaltyPoints: []string{"points"},
		TotalStays:    []string{"stayCount"},
		TotalRevenue:  []string{"lifetimeSpend"},
	}

	profile := GuestProfileFrom(payload, mapping)
	if profile.GuestID != "G-9" {
		t.Fatalf("guest id lost")
	}
	if profile.Name.FirstName != "Ada" || profile.Name.LastName != "Lovelace" {
		t.Fatalf("comma name not parsed: %+v", profile.Name)
	}
	if profile.LoyaltyPoints != 12500 || profile.TotalStays != 14 {
		t.Fatalf("loyalty stats lost: %+v", profile)
	}
	if profile.TotalRevenue != 8750.25 {
		t.Fatalf("revenue not normalized: %v", profile.TotalRevenue)
	}
}

func TestRatesFrom_ActiveFlagAndLists(t *testing.T) {
	payload := map[string]any{
		"ratePlans": []any{
			map[string]any{
				"code":      "BAR",
				"name":      "Best Available",
				"amount":    199.0,
				"active":    "N",
				"roomTypes": []any{"KING", "QUEEN", 7},
			},
			map[string]any{
				"code":   "CORP",
				"name":   "Corporate",
				"amount": 179.0,
			},
		},
	}
	mapping := Mapping{
		RateList:       []string{"ratePlans"},
		RateCodeField:  []string{"code"},
		RateName:       []string{"name"},
		RateBaseAmount: []string{"amount"},
		RateActive:     []string{"active"},
		RateRoomTypes:  []string{"roomTypes"},
	}

	rates := RatesFrom(payload, mapping)
	if len(rates) != 2 {
		t.Fatalf("expected 2 rates, got %d", len(rates))
	}
	if rates[0].Active {
		t.Fatalf("explicit N must deactivate the rate")
	}
	if len(rates[0].RoomTypes) != 2 {
		t.Fatalf("non-string room types must be dropped: %v", rates[0].RoomTypes)
	}
	if !rates[1].Active {
		t.Fatalf("missing active flag must default to true")
	}
}

func TestCollapseVendorToken(t *testing.T) {
	cases := map[string]string{
		" In-House ": "INHOUSE",
		"no_show":    "NOSHOW",
		"Checked In": "CHECKEDIN",
	}
	for input, want := range cases {
		if got := collapseVendorToken(input); got != want {
			t.Fatalf("collapse(%q) = %q, want %q", input, got, want)
		}
	}
}
