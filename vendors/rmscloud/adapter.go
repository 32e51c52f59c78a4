package rmscloud

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/hoteldefend/pms-connect/auth"
	"github.com/hoteldefend/pms-connect/core"
	"github.com/hoteldefend/pms-connect/normalize"
	"github.com/hoteldefend/pms-connect/transport"
	"github.com/hoteldefend/pms-connect/vendors"
	"github.com/hoteldefend/pms-connect/webhooks"
)

const VendorID = "rmscloud"

type Config struct {
	BaseURL        string
	TokenURL       string
	AgentID        string
	AgentPassword  string
	ClientID       string
	ClientPassword string

	Transport  core.TransportConfig
	HTTPClient *http.Client
	Logger     glog.Logger
}

// Adapter integrates the RMS-style PMS. Every read is a POST with a
// JSON filter body, the token travels in an authtoken header, and
// reservations do not embed guest contact details, so reads join the
// guest record client side.
type Adapter struct {
	*vendors.Base
}

func New(cfg Config) (*Adapter, error) {
	if strings.TrimSpace(cfg.AgentID) == "" {
		return nil, core.BadInputError(VendorID, "configure", "agent id is required")
	}

	tokenURL := strings.TrimSpace(cfg.TokenURL)
	if tokenURL == "" {
		tokenURL = strings.TrimRight(cfg.BaseURL, "/") + "/authToken"
	}

	strategy := auth.NewTokenInBody(auth.TokenInBodyConfig{
		TokenURL: tokenURL,
		Credentials: map[string]any{
			"agentId":        cfg.AgentID,
			"agentPassword":  cfg.AgentPassword,
			"clientId":       cfg.ClientID,
			"clientPassword": cfg.ClientPassword,
		},
		HTTPClient: cfg.HTTPClient,
		Timeout:    time.Duration(cfg.Transport.AuthTimeoutSeconds) * time.Second,
	})

	base := vendors.NewBase(vendors.Options{
		Profile:    profile(cfg),
		Strategy:   strategy,
		Transport:  cfg.Transport,
		HTTPClient: cfg.HTTPClient,
		Logger:     cfg.Logger,
	})
	base.Credentials().SetIdentifier("agent_id", cfg.AgentID)
	base.Credentials().SetIdentifier("client_id", cfg.ClientID)

	return &Adapter{Base: base}, nil
}

func (a *Adapter) GetReservation(ctx context.Context, confirmationNumber string) (*core.Reservation, error) {
	confirmationNumber = strings.TrimSpace(confirmationNumber)
	if confirmationNumber == "" {
		return nil, core.BadInputError(VendorID, "get_reservation", "confirmation number is required")
	}

	payload, found, err := a.post(ctx, "get_reservation", a.Profile().Endpoints.Reservation, map[string]any{
		"reservationId": confirmationNumber,
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	mapping := a.Profile().Mapping
	row, ok := firstRow(payload, mapping.ReservationList)
	if !ok {
		return nil, nil
	}
	reservation := vendors.ReservationFrom(row, mapping)
	if reservation.ConfirmationNumber == "" {
		reservation.ConfirmationNumber = confirmationNumber
	}
	a.joinGuest(ctx, &reservation)
	return &reservation, nil
}

// firstRow unwraps search-shaped replies. Point lookups reuse the
// search endpoint, so a single record arrives as a one-element list.
func firstRow(payload map[string]any, listPaths []string) (map[string]any, bool) {
	entries := normalize.FirstSlice(payload, listPaths...)
	if entries == nil {
		return payload, len(payload) > 0
	}
	for _, entry := range entries {
		if row, ok := entry.(map[string]any); ok {
			return row, true
		}
	}
	return nil, false
}

// joinGuest backfills contact fields from the guest record. Reservation
// replies carry only the guest id; a failed join leaves the reservation
// usable with whatever it already has.
func (a *Adapter) joinGuest(ctx context.Context, reservation *core.Reservation) {
	if reservation.GuestProfileID == "" {
		return
	}
	if reservation.Contact.Email != "" && reservation.Contact.Phone != "" && reservation.GuestName.LastName != "" {
		return
	}

	payload, found, err := a.post(ctx, "get_reservation", a.Profile().Endpoints.GuestProfile, map[string]any{
		"guestId": reservation.GuestProfileID,
	})
	if err != nil || !found {
		if err != nil {
			a.Logger().Error("guest join failed",
				"vendor_id", VendorID,
				"guest_id", reservation.GuestProfileID,
				"error", err.Error(),
			)
		}
		return
	}

	root, ok := firstRow(payload, []string{"guests"})
	if !ok {
		return
	}
	if nested := normalize.FirstMap(root, a.Profile().Mapping.ProfileRoot...); nested != nil {
		root = nested
	}
	if reservation.GuestName.LastName == "" && reservation.GuestName.FullName == "" {
		surname := normalize.FirstString(root, "guestSurname", "surname")
		given := normalize.FirstString(root, "guestGiven", "given")
		if surname != "" || given != "" {
			reservation.GuestName = normalize.GuestName{
				FirstName: given,
				LastName:  surname,
				FullName:  strings.TrimSpace(given + " " + surname),
			}
		} else {
			reservation.GuestName = normalize.GuestNameOf(normalize.First(root, "name"))
		}
	}
	if reservation.Contact.Email == "" {
		reservation.Contact.Email = normalize.FirstString(root, "email")
	}
	if reservation.Contact.Phone == "" {
		reservation.Contact.Phone = normalize.Phone(normalize.FirstString(root, "mobile", "phone"))
	}
	if reservation.Contact.Address.Line1 == "" {
		reservation.Contact.Address = normalize.AddressOf(normalize.First(root, "address"))
	}
}

func (a *Adapter) SearchReservations(ctx context.Context, filter core.ReservationFilter) ([]core.Reservation, error) {
	body := map[string]any{}
	if filter.GuestName != "" {
		body["guestSurname"] = filter.GuestName
	}
	if filter.Email != "" {
		body["guestEmail"] = filter.Email
	}
	if filter.CheckInFrom != nil {
		body["arriveFrom"] = normalize.FormatDate(filter.CheckInFrom)
	}
	if filter.CheckInTo != nil {
		body["arriveTo"] = normalize.FormatDate(filter.CheckInTo)
	}
	if filter.Status != "" {
		body["status"] = string(filter.Status)
	}
	if filter.Limit > 0 {
		body["limit"] = filter.Limit
	}

	payload, found, err := a.post(ctx, "search_reservations", a.Profile().Endpoints.ReservationSearch, body)
	if err != nil {
		return nil, err
	}
	if !found {
		return []core.Reservation{}, nil
	}

	mapping := a.Profile().Mapping
	entries := normalize.FirstSlice(payload, mapping.ReservationList...)
	reservations := make([]core.Reservation, 0, len(entries))
	for _, entry := range entries {
		row, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		reservations = append(reservations, vendors.ReservationFrom(row, mapping))
	}
	return reservations, nil
}

func (a *Adapter) GetGuestFolio(ctx context.Context, reservationID string) ([]core.FolioItem, error) {
	reservationID = strings.TrimSpace(reservationID)
	if reservationID == "" {
		return nil, core.BadInputError(VendorID, "get_guest_folio", "reservation id is required")
	}

	payload, found, err := a.post(ctx, "get_guest_folio", a.Profile().Endpoints.Folio, map[string]any{
		"reservationId": reservationID,
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return []core.FolioItem{}, nil
	}
	return vendors.FolioItemsFrom(payload, a.Profile().Mapping), nil
}

func (a *Adapter) GetGuestProfile(ctx context.Context, guestID string) (*core.GuestProfile, error) {
	guestID = strings.TrimSpace(guestID)
	if guestID == "" {
		return nil, core.BadInputError(VendorID, "get_guest_profile", "guest id is required")
	}

	payload, found, err := a.post(ctx, "get_guest_profile", a.Profile().Endpoints.GuestProfile, map[string]any{
		"guestId": guestID,
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	row, ok := firstRow(payload, []string{"guests"})
	if !ok {
		return nil, nil
	}
	profile := vendors.GuestProfileFrom(row, a.Profile().Mapping)
	if profile.GuestID == "" {
		profile.GuestID = guestID
	}
	return &profile, nil
}

func (a *Adapter) GetRates(ctx context.Context, filter core.RateFilter) ([]core.Rate, error) {
	body := map[string]any{}
	if filter.Code != "" {
		body["rateId"] = filter.Code
	}
	if filter.Category != "" {
		body["category"] = filter.Category
	}
	if filter.RoomType != "" {
		body["categoryName"] = filter.RoomType
	}
	if filter.Date != nil {
		body["date"] = normalize.FormatDate(filter.Date)
	}

	payload, found, err := a.post(ctx, "get_rates", a.Profile().Endpoints.Rates, body)
	if err != nil {
		return nil, err
	}
	if !found {
		return []core.Rate{}, nil
	}
	return vendors.RatesFrom(payload, a.Profile().Mapping), nil
}

// post performs a filtered read. The vendor reports missing records
// with a 404 or an empty body, both reported as found=false.
func (a *Adapter) post(ctx context.Context, operation string, path string, body map[string]any) (map[string]any, bool, error) {
	resp, err := a.Do(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    path,
		Body:   body,
	})
	if err != nil {
		return nil, false, core.MapError(err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, false, core.AuthError(VendorID, operation,
			fmt.Errorf("vendor replied %d", resp.StatusCode))
	}
	if !resp.IsSuccess() {
		return nil, false, core.VendorError(VendorID, operation,
			fmt.Errorf("vendor replied %d", resp.StatusCode))
	}
	if len(resp.Body) == 0 {
		return nil, false, nil
	}
	var payload map[string]any
	if err := resp.DecodeJSON(&payload); err != nil {
		return nil, false, core.VendorError(VendorID, operation,
			errors.New("vendor reply is not a JSON object"))
	}
	return payload, true, nil
}

func profile(cfg Config) vendors.Profile {
	return vendors.Profile{
		VendorID: VendorID,
		BaseURL:  cfg.BaseURL,
		Endpoints: vendors.Endpoints{
			Reservation:       "/reservations/search",
			ReservationSearch: "/reservations/search",
			Folio:             "/transactions/search",
			GuestProfile:      "/guests/search",
			Rates:             "/rates/search",
			Note:              "/guests/{guestId}/notes",
			Flag:              "/guests/{guestId}/warnings",
			ChargebackAlert:   "/reservations/{reservationId}/alerts",
			DisputeOutcome:    "/reservations/{reservationId}/alerts",
			WebhookSubscribe:  "/webhooks",
			Health:            "/serviceStatus",
		},
		// Reads are POST-with-body across the API; the status endpoint
		// is no exception.
		HealthMethod: http.MethodPost,
		Mapping: vendors.Mapping{
			ReservationRoot:    []string{"reservation"},
			ReservationList:    []string{"reservations"},
			ConfirmationNumber: []string{"reservationId", "resId"},
			ReservationID:      []string{"reservationId", "resId"},
			Status:             []string{"status"},
			StatusValues: map[string]normalize.ReservationStatus{
				"UNCONFIRMED": normalize.StatusPending,
				"ARRIVED":     normalize.StatusCheckedIn,
				"DEPARTED":    normalize.StatusCheckedOut,
			},
			GuestID:            []string{"guestId"},
			GuestName:          []string{"guestSurname", "guestName"},
			Email:              []string{"email"},
			Phone:              []string{"mobile", "phone"},
			Address:            []string{"address"},
			CheckIn:            []string{"arrivalDate", "arrive"},
			CheckOut:           []string{"departureDate", "depart"},
			RoomType:           []string{"categoryName"},
			RoomNumber:         []string{"areaName", "area"},
			RateCode:           []string{"rateTypeId", "rateType"},
			TotalAmount:        []string{"totalRate", "total"},
			Currency:           []string{"currencyCode"},
			GuestCount:         []string{"adults"},
			CardBrand:          []string{"cardType"},
			CardNumber:         []string{"cardToken", "cardNumber"},
			AuthCode:           []string{"authorisationCode"},
			BookingSource:      []string{"bookingSourceName", "source"},
			CreatedAt:          []string{"createdDate"},
			UpdatedAt:          []string{"modifiedDate"},
			SpecialRequests:    []string{"notes"},
			Extensions:         []string{"travelAgentName", "voucherId"},
			FolioList:          []string{"transactions", "accountTransactions"},
			FolioID:            []string{"accountId"},
			TransactionID:      []string{"transactionId", "id"},
			TransactionCode:    []string{"chargeTypeCode", "transactionType"},
			FolioDescription:   []string{"description"},
			FolioAmount:        []string{"amount"},
			FolioCurrency:      []string{"currencyCode"},
			PostDate:           []string{"transactionDate"},
			CardReference:      []string{"cardToken"},
			FolioAuthCode:      []string{"authorisationCode"},
			Reversal:           []string{"reversed"},
			Quantity:           []string{"quantity"},
			ProfileRoot:        []string{"guest"},
			LoyaltyNumber:      []string{"loyaltyNumber"},
			LoyaltyLevel:       []string{"loyaltyLevel"},
			LoyaltyPoints:      []string{"loyaltyPoints"},
			Nationality:        []string{"nationality"},
			Language:           []string{"languageSpoken"},
			DateOfBirth:        []string{"dateOfBirth"},
			TotalStays:         []string{"visits"},
			TotalRevenue:       []string{"totalSpend"},
			RateList:           []string{"rates"},
			RateCodeField:      []string{"rateId", "id"},
			RateName:           []string{"name"},
			RateDescription:    []string{"description"},
			RateCategory:       []string{"rateCategory"},
			RateBaseAmount:     []string{"baseRate", "amount"},
			RateCurrency:       []string{"currencyCode"},
			RateValidFrom:      []string{"periodFrom"},
			RateValidTo:        []string{"periodTo"},
			RateActive:         []string{"active"},
			RateRoomTypes:      []string{"categories"},
			RateInclusions:     []string{"inclusions"},
			CancellationPolicy: []string{"cancellationPolicy"},
			ReceiptID:          []string{"id", "noteId", "warningId"},
			SubscriptionID:     []string{"webhookId", "id"},
		},
		Events: webhooks.MustEventTable(map[string]core.EventType{
			"ReservationCreated":  core.EventReservationCreated,
			"ReservationModified": core.EventReservationUpdated,
			"ReservationCanceled": core.EventReservationCancelled,
			"GuestArrived":        core.EventGuestCheckedIn,
			"GuestDeparted":       core.EventGuestCheckedOut,
			"PaymentReceived":     core.EventPaymentReceived,
			"AccountUpdated":      core.EventFolioUpdated,
		}),
		Envelope: webhooks.EnvelopeConfig{
			EventPaths:       []string{"eventName", "event"},
			ReservationPaths: []string{"reservationId"},
			GuestPaths:       []string{"guestId"},
			TimestampPaths:   []string{"triggeredAt", "timestamp"},
			ExtensionPaths:   []string{"propertyId"},
			MaxAge:           15 * time.Minute,
		},
	}
}

var _ core.PMSAdapter = (*Adapter)(nil)
