package cloudbeds

import (
	"net/http"
	"net/url"
	"strconv"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/hoteldefend/pms-connect/auth"
	"github.com/hoteldefend/pms-connect/core"
	"github.com/hoteldefend/pms-connect/vendors"
	"github.com/hoteldefend/pms-connect/webhooks"
)

const VendorID = "cloudbeds"

type Config struct {
	BaseURL    string
	APIKey     string
	PropertyID string

	Transport  core.TransportConfig
	HTTPClient *http.Client
	Logger     glog.Logger
}

// Adapter integrates the Cloudbeds-style PMS. Plain REST with a static
// key; the only quirk is the vendor's snake_case query vocabulary.
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
			Key:          cfg.APIKey,
			HeaderName:   "Authorization",
			HeaderPrefix: "Bearer ",
		}),
		PathParams: map[string]string{"propertyId": cfg.PropertyID},
		Transport:  cfg.Transport,
		HTTPClient: cfg.HTTPClient,
		Logger:     cfg.Logger,
	})
	base.Credentials().SetIdentifier("property_id", cfg.PropertyID)

	return &Adapter{Base: base}, nil
}

func profile(cfg Config) vendors.Profile {
	return vendors.Profile{
		VendorID: VendorID,
		BaseURL:  cfg.BaseURL,
		Endpoints: vendors.Endpoints{
			Reservation:       "/api/v1.2/getReservation/{confirmationNumber}",
			ReservationSearch: "/api/v1.2/getReservations",
			Folio:             "/api/v1.2/getTransactions/{reservationId}",
			GuestProfile:      "/api/v1.2/getGuest/{guestId}",
			Rates:             "/api/v1.2/getRatePlans",
			Note:              "/api/v1.2/postGuestNote/{guestId}",
			Flag:              "/api/v1.2/postGuestFlag/{guestId}",
			ChargebackAlert:   "/api/v1.2/postReservationAlert/{reservationId}",
			DisputeOutcome:    "/api/v1.2/postReservationAlert/{reservationId}",
			WebhookSubscribe:  "/api/v1.2/postWebhook",
			Health:            "/api/v1.2/getHotelDetails",
		},
		SearchQuery: func(filter core.ReservationFilter) url.Values {
			query := url.Values{}
			if filter.GuestName != "" {
				query.Set("guest_name", filter.GuestName)
			}
			if filter.Email != "" {
				query.Set("guest_email", filter.Email)
			}
			if filter.CheckInFrom != nil {
				query.Set("checkin_from", filter.CheckInFrom.UTC().Format("2006-01-02"))
			}
			if filter.CheckInTo != nil {
				query.Set("checkin_to", filter.CheckInTo.UTC().Format("2006-01-02"))
			}
			if filter.Status != "" {
				query.Set("status", string(filter.Status))
			}
			if filter.Limit > 0 {
				query.Set("page_size", strconv.Itoa(pageSize(filter.Limit)))
			}
			return query
		},
		Mapping: vendors.Mapping{
			ReservationRoot:    []string{"data"},
			ReservationList:    []string{"data", "reservations"},
			ConfirmationNumber: []string{"reservationID", "reservation_id"},
			ReservationID:      []string{"reservationID", "reservation_id"},
			Status:             []string{"status"},
			GuestID:            []string{"guestID", "guest_id"},
			GuestName:          []string{"guestName", "guest_name"},
			Email:              []string{"guestEmail", "guest_email"},
			Phone:              []string{"guestPhone", "guest_phone"},
			Address:            []string{"guestAddress", "guest_address"},
			CheckIn:            []string{"startDate", "checkin_date"},
			CheckOut:           []string{"endDate", "checkout_date"},
			RoomType:           []string{"roomTypeName", "room_type"},
			RoomNumber:         []string{"roomName", "room_number"},
			RateCode:           []string{"ratePlanID", "rate_plan_id"},
			TotalAmount:        []string{"total", "grand_total"},
			Currency:           []string{"currency"},
			GuestCount:         []string{"adults"},
			CardBrand:          []string{"cardType", "card_type"},
			CardNumber:         []string{"cardNumber", "card_number"},
			AuthCode:           []string{"authCode"},
			BookingSource:      []string{"sourceName", "source"},
			CreatedAt:          []string{"dateCreated", "date_created"},
			UpdatedAt:          []string{"dateModified", "date_modified"},
			SpecialRequests:    []string{"specialRequests", "special_requests"},
			Extensions:         []string{"thirdPartyIdentifier", "balance"},
			FolioList:          []string{"data.transactions", "transactions"},
			FolioID:            []string{"folioID", "folio_id"},
			TransactionID:      []string{"transactionID", "transaction_id"},
			TransactionCode:    []string{"transactionCode", "category"},
			FolioDescription:   []string{"description"},
			FolioAmount:        []string{"amount"},
			FolioCurrency:      []string{"currency"},
			PostDate:           []string{"transactionDateTime", "date"},
			CardReference:      []string{"cardNumber"},
			FolioAuthCode:      []string{"authCode"},
			Reversal:           []string{"isVoided", "voided"},
			Quantity:           []string{"quantity"},
			ProfileRoot:        []string{"data"},
			LoyaltyNumber:      []string{"loyaltyNumber"},
			LoyaltyLevel:       []string{"loyaltyLevel"},
			LoyaltyPoints:      []string{"loyaltyPoints"},
			Nationality:        []string{"guestCountry", "country"},
			Language:           []string{"preferredLanguage"},
			DateOfBirth:        []string{"guestBirthdate", "birthdate"},
			TotalStays:         []string{"totalStays"},
			TotalRevenue:       []string{"totalSpend"},
			RateList:           []string{"data", "ratePlans"},
			RateCodeField:      []string{"ratePlanID", "rate_plan_id"},
			RateName:           []string{"ratePlanNamePublic", "name"},
			RateDescription:    []string{"ratePlanDescription", "description"},
			RateCategory:       []string{"rateCategory"},
			RateBaseAmount:     []string{"totalRate", "rate"},
			RateCurrency:       []string{"currency"},
			RateValidFrom:      []string{"startDate"},
			RateValidTo:        []string{"endDate"},
			RateActive:         []string{"isActive"},
			RateRoomTypes:      []string{"roomTypes"},
			RateInclusions:     []string{"inclusions"},
			CancellationPolicy: []string{"cancellationPolicy"},
			ReceiptID:          []string{"data.id", "id"},
			SubscriptionID:     []string{"data.webhookID", "webhookID"},
		},
		Events: webhooks.MustEventTable(map[string]core.EventType{
			"reservation/created":       core.EventReservationCreated,
			"reservation/status_change": core.EventReservationUpdated,
			"reservation/cancelled":     core.EventReservationCancelled,
			"guest/checked_in":          core.EventGuestCheckedIn,
			"guest/checked_out":         core.EventGuestCheckedOut,
			"transaction/created":       core.EventPaymentReceived,
			"folio/updated":             core.EventFolioUpdated,
		}),
		Envelope: webhooks.EnvelopeConfig{
			EventPaths:       []string{"event", "eventType"},
			ReservationPaths: []string{"reservationID", "reservation_id"},
			GuestPaths:       []string{"guestID", "guest_id"},
			TimestampPaths:   []string{"timestamp", "created"},
			ExtensionPaths:   []string{"propertyID"},
			MaxAge:           15 * time.Minute,
		},
	}
}

// pageSize caps the requested page size at the vendor's maximum.
func pageSize(limit int) int {
	if limit > 100 {
		return 100
	}
	return limit
}

var _ core.PMSAdapter = (*Adapter)(nil)
