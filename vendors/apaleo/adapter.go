package apaleo

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/hoteldefend/pms-connect/auth"
	"github.com/hoteldefend/pms-connect/core"
	"github.com/hoteldefend/pms-connect/normalize"
	"github.com/hoteldefend/pms-connect/vendors"
	"github.com/hoteldefend/pms-connect/webhooks"
)

const VendorID = "apaleo"

type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string

	// AccountID identifies the tenant, PropertyID the hotel within it.
	// Both scope every call: the account travels as a header, the
	// property as a query or path value.
	AccountID  string
	PropertyID string

	Transport  core.TransportConfig
	HTTPClient *http.Client
	Logger     glog.Logger
}

// Adapter integrates the apaleo-style PMS. Cloud-native and
// multi-tenant, so requests carry account and property scoping on top
// of OAuth2 client credentials.
type Adapter struct {
	*vendors.Base
}

func New(cfg Config) (*Adapter, error) {
	if strings.TrimSpace(cfg.AccountID) == "" {
		return nil, core.BadInputError(VendorID, "configure", "account id is required")
	}
	if strings.TrimSpace(cfg.PropertyID) == "" {
		return nil, core.BadInputError(VendorID, "configure", "property id is required")
	}

	strategy := auth.NewOAuth2ClientCredentials(auth.OAuth2ClientCredentialsConfig{
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{"reservations.read", "folios.read", "reservations.manage"},
		HTTPClient:   cfg.HTTPClient,
		Timeout:      time.Duration(cfg.Transport.AuthTimeoutSeconds) * time.Second,
	})

	base := vendors.NewBase(vendors.Options{
		Profile:    profile(cfg),
		Strategy:   strategy,
		PathParams: map[string]string{"propertyId": cfg.PropertyID},
		Transport:  cfg.Transport,
		HTTPClient: cfg.HTTPClient,
		Logger:     cfg.Logger,
	})
	base.Credentials().SetIdentifier("account_id", cfg.AccountID)
	base.Credentials().SetIdentifier("property_id", cfg.PropertyID)

	return &Adapter{Base: base}, nil
}

func profile(cfg Config) vendors.Profile {
	propertyID := cfg.PropertyID

	return vendors.Profile{
		VendorID: VendorID,
		BaseURL:  cfg.BaseURL,
		StaticHeaders: map[string]string{
			"X-Account-Id": cfg.AccountID,
		},
		Endpoints: vendors.Endpoints{
			Reservation:       "/booking/v1/reservations/{confirmationNumber}",
			ReservationSearch: "/booking/v1/reservations",
			Folio:             "/finance/v1/folios/{reservationId}/charges",
			GuestProfile:      "/booking/v1/guests/{guestId}",
			Rates:             "/rateplan/v1/rate-plans",
			Note:              "/booking/v1/guests/{guestId}/notes",
			Flag:              "/booking/v1/guests/{guestId}/flags",
			ChargebackAlert:   "/booking/v1/reservations/{reservationId}/alerts",
			DisputeOutcome:    "/booking/v1/reservations/{reservationId}/alerts",
			WebhookSubscribe:  "/webhook/v1/subscriptions",
			Health:            "/booking/v1/properties/{propertyId}",
		},
		SearchQuery: func(filter core.ReservationFilter) url.Values {
			query := url.Values{}
			query.Set("propertyIds", propertyID)
			if filter.GuestName != "" {
				query.Set("textSearch", filter.GuestName)
			}
			if filter.Email != "" {
				query.Set("textSearch", filter.Email)
			}
			if filter.CheckInFrom != nil {
				query.Set("from", filter.CheckInFrom.UTC().Format(time.RFC3339))
			}
			if filter.CheckInTo != nil {
				query.Set("to", filter.CheckInTo.UTC().Format(time.RFC3339))
			}
			if filter.Status != "" {
				query.Set("status", string(filter.Status))
			}
			if filter.Limit > 0 {
				query.Set("pageSize", strconv.Itoa(filter.Limit))
			}
			return query
		},
		RateQuery: func(filter core.RateFilter) url.Values {
			query := url.Values{}
			query.Set("propertyId", propertyID)
			if filter.Code != "" {
				query.Set("ratePlanCodes", filter.Code)
			}
			if filter.RoomType != "" {
				query.Set("unitGroupId", filter.RoomType)
			}
			if filter.Date != nil {
				query.Set("from", normalize.FormatDate(filter.Date))
			}
			return query
		},
		Mapping: vendors.Mapping{
			ReservationList:    []string{"reservations"},
			ConfirmationNumber: []string{"id", "bookingId"},
			ReservationID:      []string{"id"},
			Status:             []string{"status"},
			StatusValues: map[string]normalize.ReservationStatus{
				"INHOUSE": normalize.StatusCheckedIn,
			},
			GuestID:            []string{"primaryGuest.id", "guestId"},
			GuestName:          []string{"primaryGuest"},
			Email:              []string{"primaryGuest.email"},
			Phone:              []string{"primaryGuest.phone"},
			Address:            []string{"primaryGuest.address"},
			CheckIn:            []string{"arrival"},
			CheckOut:           []string{"departure"},
			RoomType:           []string{"unitGroup.code", "unitGroup.name"},
			RoomNumber:         []string{"unit.name"},
			RateCode:           []string{"ratePlan.code"},
			TotalAmount:        []string{"totalGrossAmount.amount"},
			Currency:           []string{"totalGrossAmount.currency"},
			GuestCount:         []string{"adults"},
			CardBrand:          []string{"paymentAccount.paymentMethod"},
			CardNumber:         []string{"paymentAccount.accountNumber"},
			AuthCode:           []string{"paymentAccount.authorizationCode"},
			BookingSource:      []string{"channelCode", "source"},
			CreatedAt:          []string{"created"},
			UpdatedAt:          []string{"modified"},
			SpecialRequests:    []string{"comment", "guestComment"},
			Extensions:         []string{"blockId", "marketSegment.code"},
			FolioList:          []string{"charges"},
			FolioID:            []string{"folioId"},
			TransactionID:      []string{"id"},
			TransactionCode:    []string{"serviceType", "type"},
			FolioDescription:   []string{"name", "description"},
			FolioAmount:        []string{"amount.grossAmount", "amount"},
			FolioCurrency:      []string{"amount.currency", "currency"},
			PostDate:           []string{"postingDate", "created"},
			CardReference:      []string{"reference"},
			FolioAuthCode:      []string{"authorizationCode"},
			Reversal:           []string{"isCancelled"},
			Quantity:           []string{"quantity"},
			LoyaltyNumber:      []string{"loyaltyNumber"},
			LoyaltyLevel:       []string{"vipCode"},
			LoyaltyPoints:      []string{"loyaltyPoints"},
			Nationality:        []string{"nationalityCountryCode"},
			Language:           []string{"preferredLanguage"},
			DateOfBirth:        []string{"birthDate"},
			TotalStays:         []string{"bookingCount"},
			TotalRevenue:       []string{"totalRevenue"},
			RateList:           []string{"ratePlans"},
			RateCodeField:      []string{"code", "id"},
			RateName:           []string{"name"},
			RateDescription:    []string{"description"},
			RateCategory:       []string{"channelCodes"},
			RateBaseAmount:     []string{"price.amount"},
			RateCurrency:       []string{"price.currency"},
			RateValidFrom:      []string{"from"},
			RateValidTo:        []string{"to"},
			RateActive:         []string{"isActive"},
			RateRoomTypes:      []string{"unitGroupIds"},
			RateInclusions:     []string{"includedServices"},
			CancellationPolicy: []string{"cancellationPolicy.description"},
			ReceiptID:          []string{"id"},
			SubscriptionID:     []string{"id", "subscriptionId"},
		},
		Events: webhooks.MustEventTable(map[string]core.EventType{
			"reservation.created":     core.EventReservationCreated,
			"reservation.changed":     core.EventReservationUpdated,
			"reservation.canceled":    core.EventReservationCancelled,
			"reservation.checked-in":  core.EventGuestCheckedIn,
			"reservation.checked-out": core.EventGuestCheckedOut,
			"payment.succeeded":       core.EventPaymentReceived,
			"folio.changed":           core.EventFolioUpdated,
		}),
		Envelope: webhooks.EnvelopeConfig{
			EventPaths:       []string{"type", "topic"},
			ReservationPaths: []string{"data.entityId", "entityId"},
			GuestPaths:       []string{"data.guestId"},
			TimestampPaths:   []string{"timestamp"},
			ExtensionPaths:   []string{"accountId", "propertyId"},
			MaxAge:           15 * time.Minute,
		},
	}
}

var _ core.PMSAdapter = (*Adapter)(nil)
