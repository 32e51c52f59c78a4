package frontdesk

import (
	"net/http"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/hoteldefend/pms-connect/auth"
	"github.com/hoteldefend/pms-connect/core"
	"github.com/hoteldefend/pms-connect/normalize"
	"github.com/hoteldefend/pms-connect/vendors"
	"github.com/hoteldefend/pms-connect/webhooks"
)

const VendorID = "frontdesk"

type Config struct {
	BaseURL string
	APIKey  string

	Transport  core.TransportConfig
	HTTPClient *http.Client
	Logger     glog.Logger
}

// Adapter integrates the Frontdesk-style PMS aimed at small independent
// properties. Flat JSON, no loyalty program, one folio per booking.
type Adapter struct {
	*vendors.Base
}

func New(cfg Config) (*Adapter, error) {
	if cfg.APIKey == "" {
		return nil, core.BadInputError(VendorID, "configure", "api key is required")
	}

	base := vendors.NewBase(vendors.Options{
		Profile: profile(cfg),
		Strategy: auth.NewStaticAPIKey(auth.StaticAPIKeyConfig{
			Key: cfg.APIKey,
		}),
		Transport:  cfg.Transport,
		HTTPClient: cfg.HTTPClient,
		Logger:     cfg.Logger,
	})

	return &Adapter{Base: base}, nil
}

func profile(cfg Config) vendors.Profile {
	return vendors.Profile{
		VendorID: VendorID,
		BaseURL:  cfg.BaseURL,
		Endpoints: vendors.Endpoints{
			Reservation:       "/v2/bookings/{confirmationNumber}",
			ReservationSearch: "/v2/bookings",
			Folio:             "/v2/bookings/{reservationId}/charges",
			GuestProfile:      "/v2/guests/{guestId}",
			Rates:             "/v2/rates",
			Note:              "/v2/guests/{guestId}/notes",
			Flag:              "/v2/guests/{guestId}/flags",
			ChargebackAlert:   "/v2/bookings/{reservationId}/alerts",
			DisputeOutcome:    "/v2/bookings/{reservationId}/alerts",
			WebhookSubscribe:  "/v2/webhooks",
			Health:            "/v2/ping",
		},
		Mapping: vendors.Mapping{
			ReservationList:    []string{"bookings"},
			ConfirmationNumber: []string{"bookingRef", "id"},
			ReservationID:      []string{"id"},
			Status:             []string{"state"},
			StatusValues: map[string]normalize.ReservationStatus{
				"ACTIVE": normalize.StatusCheckedIn,
			},
			AmountsInMinorUnits: true,
			GuestID:             []string{"guestId"},
			GuestName:           []string{"guestName"},
			Email:               []string{"guestEmail"},
			Phone:               []string{"guestPhone"},
			Address:             []string{"guestAddress"},
			CheckIn:             []string{"checkIn"},
			CheckOut:            []string{"checkOut"},
			RoomType:            []string{"roomType"},
			RoomNumber:          []string{"room"},
			RateCode:            []string{"rateCode"},
			TotalAmount:         []string{"totalCents"},
			Currency:            []string{"currency"},
			GuestCount:          []string{"guests"},
			CardBrand:           []string{"cardBrand"},
			CardNumber:          []string{"cardLast4"},
			BookingSource:       []string{"channel"},
			CreatedAt:           []string{"createdAt"},
			UpdatedAt:           []string{"updatedAt"},
			SpecialRequests:     []string{"notes"},
			FolioList:           []string{"charges"},
			TransactionID:       []string{"id"},
			TransactionCode:     []string{"kind"},
			FolioDescription:    []string{"label"},
			FolioAmount:         []string{"amountCents"},
			FolioCurrency:       []string{"currency"},
			PostDate:            []string{"chargedAt"},
			Reversal:            []string{"refunded"},
			ProfileRoot:         []string{"guest"},
			Nationality:         []string{"country"},
			Language:            []string{"language"},
			DateOfBirth:         []string{"birthday"},
			TotalStays:          []string{"staysCount"},
			TotalRevenue:        []string{"lifetimeValueCents"},
			RateList:            []string{"rates"},
			RateCodeField:       []string{"code"},
			RateName:            []string{"name"},
			RateBaseAmount:      []string{"nightlyCents"},
			RateCurrency:        []string{"currency"},
			RateActive:          []string{"enabled"},
			ReceiptID:           []string{"id"},
			SubscriptionID:      []string{"id"},
		},
		Events: webhooks.MustEventTable(map[string]core.EventType{
			"booking.created":   core.EventReservationCreated,
			"booking.updated":   core.EventReservationUpdated,
			"booking.cancelled": core.EventReservationCancelled,
			"guest.checkin":     core.EventGuestCheckedIn,
			"guest.checkout":    core.EventGuestCheckedOut,
			"payment.captured":  core.EventPaymentReceived,
			"charge.added":      core.EventFolioUpdated,
		}),
		Envelope: webhooks.EnvelopeConfig{
			EventPaths:       []string{"event"},
			ReservationPaths: []string{"bookingId", "bookingRef"},
			GuestPaths:       []string{"guestId"},
			TimestampPaths:   []string{"sentAt"},
			MaxAge:           15 * time.Minute,
		},
	}
}

var _ core.PMSAdapter = (*Adapter)(nil)
