package opera

import (
	"context"
	"net/http"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/hoteldefend/pms-connect/auth"
	"github.com/hoteldefend/pms-connect/core"
	"github.com/hoteldefend/pms-connect/transport"
	"github.com/hoteldefend/pms-connect/vendors"
	"github.com/hoteldefend/pms-connect/webhooks"
)

const VendorID = "opera"

type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	PropertyCode string
	BrandCode    string

	// ExperienceURL is the auxiliary guest-experience platform that
	// receives best-effort copies of critical flags. Empty disables
	// the side channel.
	ExperienceURL string

	Transport  core.TransportConfig
	HTTPClient *http.Client
	Logger     glog.Logger
}

// Adapter integrates the OPERA-style PMS: OAuth2 client credentials,
// property and brand identification headers, and a best-effort side
// channel for the highest-severity guest flags.
type Adapter struct {
	*vendors.Base

	experienceURL string
	logger        glog.Logger
}

func New(cfg Config) (*Adapter, error) {
	if strings.TrimSpace(cfg.PropertyCode) == "" {
		return nil, core.BadInputError(VendorID, "configure", "property code is required")
	}

	strategy := auth.NewOAuth2ClientCredentials(auth.OAuth2ClientCredentialsConfig{
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       []string{"reservations.read", "profiles.read", "folios.read", "alerts.write"},
		HTTPClient:   cfg.HTTPClient,
		Timeout:      time.Duration(cfg.Transport.AuthTimeoutSeconds) * time.Second,
	})

	base := vendors.NewBase(vendors.Options{
		Profile:  profile(cfg),
		Strategy: strategy,
		PathParams: map[string]string{
			"propertyCode": cfg.PropertyCode,
		},
		Transport:  cfg.Transport,
		HTTPClient: cfg.HTTPClient,
		Logger:     cfg.Logger,
	})
	base.Credentials().SetIdentifier("property_code", cfg.PropertyCode)
	base.Credentials().SetIdentifier("brand_code", cfg.BrandCode)

	return &Adapter{
		Base:          base,
		experienceURL: strings.TrimSpace(cfg.ExperienceURL),
		logger:        glog.Ensure(cfg.Logger),
	}, nil
}

// PushFlag forwards the flag to the PMS and, for critical severity,
// mirrors it to the experience platform. The mirror can never fail the
// primary write; its failures are logged and swallowed.
func (a *Adapter) PushFlag(ctx context.Context, guestID string, flag core.Flag) (*core.WriteReceipt, error) {
	receipt, err := a.Base.PushFlag(ctx, guestID, flag)
	if err != nil {
		return nil, err
	}

	if flag.Severity == core.FlagSeverityCritical && a.experienceURL != "" {
		a.mirrorCriticalFlag(ctx, guestID, flag)
	}
	return receipt, nil
}

func (a *Adapter) mirrorCriticalFlag(ctx context.Context, guestID string, flag core.Flag) {
	resp, err := a.Do(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    a.experienceURL,
		Body: map[string]any{
			"guestId":  guestID,
			"code":     flag.Code,
			"severity": string(flag.Severity),
			"reason":   flag.Reason,
			"source":   "chargeback-defense",
		},
	})
	switch {
	case err != nil:
		a.logger.Error("experience platform alert failed",
			"vendor_id", VendorID,
			"guest_id", guestID,
			"error", err.Error(),
		)
	case !resp.IsSuccess():
		a.logger.Error("experience platform rejected the alert",
			"vendor_id", VendorID,
			"guest_id", guestID,
			"status_code", resp.StatusCode,
		)
	}
}

func profile(cfg Config) vendors.Profile {
	headers := map[string]string{
		"x-hotelid": cfg.PropertyCode,
	}
	if strings.TrimSpace(cfg.BrandCode) != "" {
		headers["x-brandcode"] = cfg.BrandCode
	}

	return vendors.Profile{
		VendorID:      VendorID,
		BaseURL:       cfg.BaseURL,
		StaticHeaders: headers,
		Endpoints: vendors.Endpoints{
			Reservation:       "/rsv/v1/hotels/{propertyCode}/reservations/{confirmationNumber}",
			ReservationSearch: "/rsv/v1/hotels/{propertyCode}/reservations",
			Folio:             "/csh/v1/hotels/{propertyCode}/reservations/{reservationId}/folios",
			GuestProfile:      "/crm/v1/profiles/{guestId}",
			Rates:             "/par/v1/hotels/{propertyCode}/rates",
			Note:              "/crm/v1/profiles/{guestId}/notes",
			Flag:              "/crm/v1/profiles/{guestId}/alerts",
			ChargebackAlert:   "/csh/v1/hotels/{propertyCode}/reservations/{reservationId}/alerts",
			DisputeOutcome:    "/csh/v1/hotels/{propertyCode}/reservations/{reservationId}/disputes",
			WebhookSubscribe:  "/evm/v1/subscriptions",
			Health:            "/rsv/v1/hotels/{propertyCode}/status",
		},
		Mapping: vendors.Mapping{
			ReservationRoot:    []string{"reservation", "reservations.reservationInfo"},
			ReservationList:    []string{"reservations.reservationInfo", "reservations"},
			ConfirmationNumber: []string{"confirmationNumber", "reservationIdList.confirmation"},
			ReservationID:      []string{"reservationId", "reservationIdList.reservation"},
			Status:             []string{"reservationStatus", "status"},
			GuestID:            []string{"profileId", "guestId", "reservationGuest.profileId"},
			GuestName:          []string{"reservationGuest", "guest", "guestName"},
			Email:              []string{"reservationGuest.email", "email"},
			Phone:              []string{"reservationGuest.phoneNumber", "phoneNumber", "phone"},
			Address:            []string{"reservationGuest.address", "address"},
			CheckIn:            []string{"roomStay.arrivalDate", "arrivalDate", "checkInDate"},
			CheckOut:           []string{"roomStay.departureDate", "departureDate", "checkOutDate"},
			RoomType:           []string{"roomStay.roomType", "roomType"},
			RoomNumber:         []string{"roomStay.roomId", "roomNumber"},
			RateCode:           []string{"roomStay.ratePlanCode", "ratePlanCode"},
			TotalAmount:        []string{"roomStay.total.amountBeforeTax", "totalAmount", "total"},
			Currency:           []string{"roomStay.total.currencyCode", "currencyCode"},
			GuestCount:         []string{"roomStay.adultCount", "adults"},
			CardBrand:          []string{"payment.cardType", "cardType"},
			CardNumber:         []string{"payment.cardNumberMasked", "cardNumber"},
			AuthCode:           []string{"payment.approvalCode", "approvalCode"},
			BookingSource:      []string{"sourceOfSale.sourceCode", "bookingSource"},
			CreatedAt:          []string{"createDateTime", "createdAt"},
			UpdatedAt:          []string{"lastModifyDateTime", "updatedAt"},
			SpecialRequests:    []string{"comments", "specialRequests"},
			Extensions:         []string{"membership", "vipStatus", "blockCode"},
			FolioList:          []string{"folioWindows", "folios", "postings"},
			FolioID:            []string{"folioWindowNo", "folioId"},
			FolioWindow:        []string{"folioWindowNo", "windowNumber"},
			TransactionID:      []string{"transactionNo", "transactionId"},
			TransactionCode:    []string{"transactionCode", "trxCode"},
			FolioDescription:   []string{"description", "remark"},
			FolioAmount:        []string{"amount", "postedAmount.amount"},
			FolioCurrency:      []string{"currencyCode", "postedAmount.currencyCode"},
			PostDate:           []string{"transactionDate", "postDate"},
			CardReference:      []string{"referenceNumber", "cardNumberMasked"},
			FolioAuthCode:      []string{"approvalCode"},
			Reversal:           []string{"reversalFlag", "isReversed"},
			Quantity:           []string{"quantity"},
			ProfileRoot:        []string{"profile", "profileDetails"},
			LoyaltyNumber:      []string{"membership.membershipId", "loyaltyNumber"},
			LoyaltyLevel:       []string{"membership.membershipLevel", "loyaltyLevel"},
			LoyaltyPoints:      []string{"membership.pointsBalance", "loyaltyPoints"},
			Nationality:        []string{"nationality"},
			Language:           []string{"language"},
			DateOfBirth:        []string{"birthDate", "dateOfBirth"},
			TotalStays:         []string{"statistics.stayCount"},
			TotalRevenue:       []string{"statistics.totalRevenue"},
			RateList:           []string{"ratePlans", "rates"},
			RateCodeField:      []string{"ratePlanCode", "code"},
			RateName:           []string{"ratePlanName", "name"},
			RateDescription:    []string{"description"},
			RateCategory:       []string{"rateCategory", "category"},
			RateBaseAmount:     []string{"baseRate.amount", "amount"},
			RateCurrency:       []string{"baseRate.currencyCode", "currencyCode"},
			RateValidFrom:      []string{"startDate", "validFrom"},
			RateValidTo:        []string{"endDate", "validTo"},
			RateActive:         []string{"active"},
			RateRoomTypes:      []string{"roomTypes"},
			RateInclusions:     []string{"packages", "inclusions"},
			CancellationPolicy: []string{"cancellationPolicy.description", "cancellationPolicy"},
			ReceiptID:          []string{"id", "alertId", "noteId"},
			SubscriptionID:     []string{"subscriptionId", "id"},
		},
		Events: webhooks.MustEventTable(map[string]core.EventType{
			"ReservationCreated":   core.EventReservationCreated,
			"ReservationModified":  core.EventReservationUpdated,
			"ReservationCancelled": core.EventReservationCancelled,
			"GuestCheckedIn":       core.EventGuestCheckedIn,
			"GuestCheckedOut":      core.EventGuestCheckedOut,
			"PaymentPosted":        core.EventPaymentReceived,
			"FolioUpdated":         core.EventFolioUpdated,
		}).WithAlias("ReservationAmended", core.EventReservationUpdated),
		Envelope: webhooks.EnvelopeConfig{
			EventPaths:       []string{"eventType", "event.name"},
			ReservationPaths: []string{"confirmationNumber", "detail.reservationId"},
			GuestPaths:       []string{"profileId", "detail.profileId"},
			TimestampPaths:   []string{"eventDateTime", "timestamp"},
			ExtensionPaths:   []string{"detail.hotelId"},
			MaxAge:           15 * time.Minute,
		},
	}
}

var _ core.PMSAdapter = (*Adapter)(nil)
