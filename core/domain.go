package core

import (
	"time"

	"github.com/hoteldefend/pms-connect/normalize"
)

// Canonical, vendor-neutral records. Every adapter normalizes into these
// shapes; no raw vendor field leaks past this boundary.

// Contact carries normalized guest contact details.
type Contact struct {
	Email   string
	Phone   string
	Address normalize.Address
}

// PaymentSummary is the masked payment-method view attached to a
// reservation. Full card numbers never appear here.
type PaymentSummary struct {
	CardBrand normalize.CardBrand
	LastFour  string
	AuthCode  string
}

// Reservation is the canonical reservation record.
type Reservation struct {
	ConfirmationNumber string
	PMSID              string
	Status             normalize.ReservationStatus
	GuestProfileID     string
	GuestName          normalize.GuestName
	Contact            Contact
	CheckInDate        *time.Time
	CheckOutDate       *time.Time
	RoomType           string
	RoomNumber         string
	RateCode           string
	TotalAmount        float64
	Currency           string
	GuestCount         int
	Payment            PaymentSummary
	BookingSource      string
	CreatedAt          *time.Time
	UpdatedAt          *time.Time
	SpecialRequests    string
	Extensions         map[string]any
	RawSnapshot        map[string]any
}

// Nights computes the stay length by calendar date, so arrival and
// departure clock times do not shift the count. Zero when either date
// is missing or the window is inverted.
func (r Reservation) Nights() int {
	if r.CheckInDate == nil || r.CheckOutDate == nil {
		return 0
	}
	in := truncateToDate(r.CheckInDate.UTC())
	out := truncateToDate(r.CheckOutDate.UTC())
	nights := int(out.Sub(in).Hours() / 24)
	if nights < 0 {
		return 0
	}
	return nights
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// FolioItem is one line on a guest's itemized bill.
type FolioItem struct {
	FolioID       string
	WindowNumber  int
	TransactionID string
	Code          string
	Category      normalize.FolioCategory
	Description   string
	Amount        float64
	Currency      string
	PostDate      *time.Time
	CardReference string
	AuthCode      string
	Reversal      bool
	Quantity      int
}

// GuestProfile is the canonical guest record.
type GuestProfile struct {
	GuestID       string
	Name          normalize.GuestName
	Contact       Contact
	LoyaltyNumber string
	LoyaltyLevel  string
	LoyaltyPoints int
	Nationality   string
	Language      string
	DateOfBirth   *time.Time
	TotalStays    int
	TotalRevenue  float64
	Extensions    map[string]any
	RawSnapshot   map[string]any
}

// Rate describes a vendor rate plan.
type Rate struct {
	Code               string
	Name               string
	Description        string
	Category           string
	BaseAmount         float64
	Currency           string
	ValidFrom          *time.Time
	ValidTo            *time.Time
	Active             bool
	RoomTypes          []string
	Inclusions         []string
	CancellationPolicy string
}

// ReservationFilter narrows SearchReservations. Zero values are ignored.
type ReservationFilter struct {
	GuestName   string
	Email       string
	CheckInFrom *time.Time
	CheckInTo   *time.Time
	Status      normalize.ReservationStatus
	RoomNumber  string
	Limit       int
}

// RateFilter narrows GetRates. Zero values are ignored.
type RateFilter struct {
	Code     string
	Category string
	RoomType string
	Date     *time.Time
}

// Note is free-form text pushed onto a guest profile.
type Note struct {
	Title    string
	Body     string
	Category string
	Author   string
}

// FlagSeverity orders guest flags; Critical triggers best-effort
// side-channel alerts on vendors that support one.
type FlagSeverity string

const (
	FlagSeverityInfo     FlagSeverity = "info"
	FlagSeverityWarning  FlagSeverity = "warning"
	FlagSeverityCritical FlagSeverity = "critical"
)

// Flag marks a guest profile for front-desk attention.
type Flag struct {
	Code     string
	Severity FlagSeverity
	Reason   string
}

// ChargebackAlert notifies the property of an incoming dispute.
type ChargebackAlert struct {
	CaseID        string
	Amount        float64
	Currency      string
	CardBrand     normalize.CardBrand
	CardLastFour  string
	ReasonCode    string
	DisputeDate   *time.Time
	RespondByDate *time.Time
}

// DisputeOutcome records how a chargeback case resolved.
type DisputeOutcome struct {
	CaseID     string
	Outcome    string
	Amount     float64
	Currency   string
	ResolvedAt *time.Time
	Notes      string
}

// WriteReceipt is returned by every successful push operation.
type WriteReceipt struct {
	VendorID   string
	ReceiptID  string
	Operation  string
	Reference  string
	AcceptedAt time.Time
	Echo       map[string]any
}

// HealthStatus is the non-throwing probe result. Details always carries
// the circuit-breaker snapshot; on failure it carries the error message.
type HealthStatus struct {
	Healthy   bool
	LatencyMs int64
	Details   map[string]any
	CheckedAt time.Time
}
