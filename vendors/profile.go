package vendors

import (
	"net/url"
	"strings"

	"github.com/hoteldefend/pms-connect/core"
	"github.com/hoteldefend/pms-connect/normalize"
	"github.com/hoteldefend/pms-connect/webhooks"
)

// Endpoints are the vendor path templates. Placeholders in braces are
// expanded from call parameters and credential identifiers, e.g.
// "/properties/{propertyId}/reservations/{confirmationNumber}".
type Endpoints struct {
	Reservation       string
	ReservationSearch string
	Folio             string
	GuestProfile      string
	Rates             string
	Note              string
	Flag              string
	ChargebackAlert   string
	DisputeOutcome    string
	WebhookSubscribe  string
	Health            string
}

// Mapping lists the candidate field paths per logical attribute, tried
// in order. Vendors keep several API versions alive at once; the lists
// absorb renames without per-version parse code.
type Mapping struct {
	ReservationRoot []string
	ReservationList []string

	ConfirmationNumber []string
	ReservationID      []string
	Status             []string
	GuestID            []string
	GuestName          []string
	Email              []string
	Phone              []string
	Address            []string
	CheckIn            []string
	CheckOut           []string
	RoomType           []string
	RoomNumber         []string
	RateCode           []string
	TotalAmount        []string
	Currency           []string
	GuestCount         []string
	CardBrand          []string
	CardNumber         []string
	AuthCode           []string
	BookingSource      []string
	CreatedAt          []string
	UpdatedAt          []string
	SpecialRequests    []string
	Extensions         []string

	// StatusValues overrides the shared status vocabulary for vendor
	// terms the generic normalizer cannot know, e.g. localized ones.
	StatusValues map[string]normalize.ReservationStatus

	// AmountsInMinorUnits divides every monetary value by 100.
	AmountsInMinorUnits bool

	FolioList        []string
	FolioID          []string
	FolioWindow      []string
	TransactionID    []string
	TransactionCode  []string
	FolioDescription []string
	FolioAmount      []string
	FolioCurrency    []string
	PostDate         []string
	CardReference    []string
	FolioAuthCode    []string
	Reversal         []string
	Quantity         []string

	ProfileRoot   []string
	LoyaltyNumber []string
	LoyaltyLevel  []string
	LoyaltyPoints []string
	Nationality   []string
	Language      []string
	DateOfBirth   []string
	TotalStays    []string
	TotalRevenue  []string

	RateList           []string
	RateCodeField      []string
	RateName           []string
	RateDescription    []string
	RateCategory       []string
	RateBaseAmount     []string
	RateCurrency       []string
	RateValidFrom      []string
	RateValidTo        []string
	RateActive         []string
	RateRoomTypes      []string
	RateInclusions     []string
	CancellationPolicy []string

	ReceiptID      []string
	SubscriptionID []string
}

// Profile is the full static description of one vendor integration.
// The generic Base adapter runs entirely off it; vendor packages only
// add methods where the vendor genuinely diverges.
type Profile struct {
	VendorID string
	BaseURL  string

	Endpoints Endpoints
	Mapping   Mapping
	Events    *webhooks.EventTable

	// Envelope configures webhook payload parsing. VendorID and Table
	// are filled in by the Base constructor.
	Envelope webhooks.EnvelopeConfig

	// HealthMethod is the HTTP method for the health check call. Empty
	// means GET; RPC-flavored vendors that only answer POST set it.
	HealthMethod string

	// StaticHeaders ride on every request next to the auth headers,
	// e.g. property and brand identification.
	StaticHeaders map[string]string

	// SearchQuery renders vendor query parameters from the canonical
	// filter. Nil falls back to a generic parameter set.
	SearchQuery func(filter core.ReservationFilter) url.Values

	// RateQuery renders vendor query parameters for rate lookups.
	RateQuery func(filter core.RateFilter) url.Values
}

func expandPath(template string, params map[string]string) string {
	out := template
	for key, value := range params {
		out = strings.ReplaceAll(out, "{"+key+"}", url.PathEscape(value))
	}
	return out
}
