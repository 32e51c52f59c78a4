package core

import (
	"context"

	glog "github.com/goliatone/go-logger/glog"
)

// PMSAdapter is the single contract every vendor integration satisfies.
//
// Read operations return the canonical record, or nil/empty when the
// vendor reports zero matches: "not found" is a result, not an error.
// Write operations return a receipt and fail with a typed error when the
// vendor rejects the write; best-effort secondary channels never fail the
// primary call. HealthCheck never returns an error.
type PMSAdapter interface {
	VendorID() string

	Authenticate(ctx context.Context) error
	RefreshAuth(ctx context.Context) error

	GetReservation(ctx context.Context, confirmationNumber string) (*Reservation, error)
	SearchReservations(ctx context.Context, filter ReservationFilter) ([]Reservation, error)
	GetGuestFolio(ctx context.Context, reservationID string) ([]FolioItem, error)
	GetGuestProfile(ctx context.Context, guestID string) (*GuestProfile, error)
	GetRates(ctx context.Context, filter RateFilter) ([]Rate, error)

	PushNote(ctx context.Context, guestID string, note Note) (*WriteReceipt, error)
	PushFlag(ctx context.Context, guestID string, flag Flag) (*WriteReceipt, error)
	PushChargebackAlert(ctx context.Context, reservationID string, alert ChargebackAlert) (*WriteReceipt, error)
	PushDisputeOutcome(ctx context.Context, reservationID string, outcome DisputeOutcome) (*WriteReceipt, error)

	RegisterWebhook(ctx context.Context, cfg WebhookConfig) (*WebhookRegistration, error)
	ParseWebhookPayload(headers map[string]string, body []byte) (*WebhookEvent, error)
	VerifyWebhookSignature(payload []byte, signature string, secret string) bool

	HealthCheck(ctx context.Context) HealthStatus
}

type Logger = glog.Logger

type LoggerProvider = glog.LoggerProvider

type FieldsLogger = glog.FieldsLogger
