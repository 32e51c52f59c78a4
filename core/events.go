package core

import "time"

// EventType is the canonical webhook event vocabulary shared across
// vendors. Vendor-specific extensions that have no canonical equivalent
// pass through with their vendor name unchanged.
type EventType string

const (
	EventReservationCreated   EventType = "reservation.created"
	EventReservationUpdated   EventType = "reservation.updated"
	EventReservationCancelled EventType = "reservation.cancelled"
	EventGuestCheckedIn       EventType = "guest.checked_in"
	EventGuestCheckedOut      EventType = "guest.checked_out"
	EventPaymentReceived      EventType = "payment.received"
	EventFolioUpdated         EventType = "folio.updated"
)

// CanonicalEvents lists the shared vocabulary in stable order.
func CanonicalEvents() []EventType {
	return []EventType{
		EventReservationCreated,
		EventReservationUpdated,
		EventReservationCancelled,
		EventGuestCheckedIn,
		EventGuestCheckedOut,
		EventPaymentReceived,
		EventFolioUpdated,
	}
}

// WebhookEvent is the canonical inbound event delivered to the caller's
// handler after verification and parsing.
type WebhookEvent struct {
	Type          EventType
	VendorID      string
	VendorEvent   string
	Timestamp     *time.Time
	ReservationID string
	GuestID       string
	Extensions    map[string]any
	RawPayload    map[string]any
}

// WebhookConfig is the caller's subscription request.
type WebhookConfig struct {
	CallbackURL string
	Events      []EventType
}

// WebhookRegistration is the receipt for a webhook subscription. The
// caller must persist Secret: it is required to verify inbound
// signatures and is never recoverable from the vendor.
type WebhookRegistration struct {
	SubscriptionID string
	Secret         string
	VendorID       string
	CallbackURL    string
	Events         []EventType
	RegisteredAt   time.Time
}
