package protel

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

const VendorID = "protel"

type Config struct {
	BaseURL   string
	APIKey    string
	HotelCode string

	Transport  core.TransportConfig
	HTTPClient *http.Client
	Logger     glog.Logger
}

// Adapter integrates the protel-style PMS. Older installations reply
// with German field names and status vocabulary, newer ones with
// PascalCase English; the mapping lists both so one adapter covers
// either generation.
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
			Key:        cfg.APIKey,
			HeaderName: "X-Proteltoken",
		}),
		PathParams: map[string]string{"hotelCode": cfg.HotelCode},
		Transport:  cfg.Transport,
		HTTPClient: cfg.HTTPClient,
		Logger:     cfg.Logger,
	})
	base.Credentials().SetIdentifier("hotel_code", cfg.HotelCode)

	return &Adapter{Base: base}, nil
}

func profile(cfg Config) vendors.Profile {
	return vendors.Profile{
		VendorID: VendorID,
		BaseURL:  cfg.BaseURL,
		StaticHeaders: map[string]string{
			"X-Hotelcode": cfg.HotelCode,
		},
		Endpoints: vendors.Endpoints{
			Reservation:       "/pms/v1/hotels/{hotelCode}/reservations/{confirmationNumber}",
			ReservationSearch: "/pms/v1/hotels/{hotelCode}/reservations",
			Folio:             "/pms/v1/hotels/{hotelCode}/reservations/{reservationId}/invoice",
			GuestProfile:      "/pms/v1/hotels/{hotelCode}/guests/{guestId}",
			Rates:             "/pms/v1/hotels/{hotelCode}/rates",
			Note:              "/pms/v1/hotels/{hotelCode}/guests/{guestId}/notes",
			Flag:              "/pms/v1/hotels/{hotelCode}/guests/{guestId}/traces",
			ChargebackAlert:   "/pms/v1/hotels/{hotelCode}/reservations/{reservationId}/traces",
			DisputeOutcome:    "/pms/v1/hotels/{hotelCode}/reservations/{reservationId}/traces",
			WebhookSubscribe:  "/pms/v1/hotels/{hotelCode}/subscriptions",
			Health:            "/pms/v1/hotels/{hotelCode}/status",
		},
		Mapping: vendors.Mapping{
			ReservationRoot:    []string{"Reservation", "Reservierung"},
			ReservationList:    []string{"Reservations", "Reservierungen"},
			ConfirmationNumber: []string{"ConfirmationNumber", "Buchungsnummer"},
			ReservationID:      []string{"ReservationId", "ReservierungsId"},
			Status:             []string{"Status"},
			StatusValues: map[string]normalize.ReservationStatus{
				"DEFINITIV":   normalize.StatusConfirmed,
				"ANGEREIST":   normalize.StatusCheckedIn,
				"ABGEREIST":   normalize.StatusCheckedOut,
				"STORNIERT":   normalize.StatusCancelled,
				"NOSHOW":      normalize.StatusNoShow,
				"VORLAEUFIG":  normalize.StatusPending,
				"PROVISIONAL": normalize.StatusPending,
			},
			GuestID:            []string{"GuestId", "GastId"},
			GuestName:          []string{"Guest", "Gast", "GastName"},
			Email:              []string{"Guest.Email", "Email", "Gast.Email"},
			Phone:              []string{"Guest.Phone", "Telefon", "Gast.Telefon"},
			Address:            []string{"Guest.Address", "Adresse"},
			CheckIn:            []string{"ArrivalDate", "Anreise"},
			CheckOut:           []string{"DepartureDate", "Abreise"},
			RoomType:           []string{"RoomCategory", "Zimmerkategorie"},
			RoomNumber:         []string{"RoomNumber", "Zimmernummer"},
			RateCode:           []string{"RateCode", "Preistyp"},
			TotalAmount:        []string{"TotalAmount", "Gesamtbetrag"},
			Currency:           []string{"Currency", "Waehrung"},
			GuestCount:         []string{"Adults", "Personen"},
			CardBrand:          []string{"CardType", "Kartentyp"},
			CardNumber:         []string{"CardNumber", "Kartennummer"},
			AuthCode:           []string{"AuthCode"},
			BookingSource:      []string{"Source", "Buchungsquelle"},
			CreatedAt:          []string{"CreatedAt", "Angelegt"},
			UpdatedAt:          []string{"ModifiedAt", "Geaendert"},
			SpecialRequests:    []string{"Remarks", "Bemerkung"},
			Extensions:         []string{"MarketCode", "Firmenname"},
			FolioList:          []string{"InvoiceItems", "Rechnungspositionen"},
			FolioID:            []string{"InvoiceNumber", "Rechnungsnummer"},
			FolioWindow:        []string{"InvoiceWindow", "Fenster"},
			TransactionID:      []string{"ItemId", "PositionsId"},
			TransactionCode:    []string{"ArticleCode", "Artikelnummer"},
			FolioDescription:   []string{"Description", "Bezeichnung"},
			FolioAmount:        []string{"Amount", "Betrag"},
			FolioCurrency:      []string{"Currency", "Waehrung"},
			PostDate:           []string{"PostingDate", "Buchungsdatum"},
			CardReference:      []string{"CardReference"},
			FolioAuthCode:      []string{"AuthCode"},
			Reversal:           []string{"Cancelled", "Storniert"},
			Quantity:           []string{"Quantity", "Anzahl"},
			ProfileRoot:        []string{"Guest", "Gast"},
			LoyaltyNumber:      []string{"LoyaltyNumber", "Kundenkarte"},
			LoyaltyLevel:       []string{"LoyaltyLevel", "Kundenstufe"},
			LoyaltyPoints:      []string{"LoyaltyPoints", "Punkte"},
			Nationality:        []string{"Nationality", "Nationalitaet"},
			Language:           []string{"Language", "Sprache"},
			DateOfBirth:        []string{"BirthDate", "Geburtsdatum"},
			TotalStays:         []string{"StayCount", "Aufenthalte"},
			TotalRevenue:       []string{"TotalRevenue", "Gesamtumsatz"},
			RateList:           []string{"Rates", "Preise"},
			RateCodeField:      []string{"RateCode", "Preistyp"},
			RateName:           []string{"Name", "Bezeichnung"},
			RateDescription:    []string{"Description", "Beschreibung"},
			RateCategory:       []string{"Category", "Kategorie"},
			RateBaseAmount:     []string{"BaseAmount", "Grundpreis"},
			RateCurrency:       []string{"Currency", "Waehrung"},
			RateValidFrom:      []string{"ValidFrom", "GueltigVon"},
			RateValidTo:        []string{"ValidTo", "GueltigBis"},
			RateActive:         []string{"Active", "Aktiv"},
			RateRoomTypes:      []string{"RoomCategories", "Zimmerkategorien"},
			RateInclusions:     []string{"Inclusions", "Leistungen"},
			CancellationPolicy: []string{"CancellationPolicy", "Stornobedingungen"},
			ReceiptID:          []string{"Id", "TraceId", "NoteId"},
			SubscriptionID:     []string{"SubscriptionId", "Id"},
		},
		Events: webhooks.MustEventTable(map[string]core.EventType{
			"RESERVATION_NEW":     core.EventReservationCreated,
			"RESERVATION_CHANGE":  core.EventReservationUpdated,
			"RESERVATION_CANCEL":  core.EventReservationCancelled,
			"GUEST_CHECKIN":       core.EventGuestCheckedIn,
			"GUEST_CHECKOUT":      core.EventGuestCheckedOut,
			"PAYMENT_POSTED":      core.EventPaymentReceived,
			"INVOICE_ITEM_CHANGE": core.EventFolioUpdated,
		}).
			WithAlias("RESERVIERUNG_NEU", core.EventReservationCreated).
			WithAlias("RESERVIERUNG_STORNO", core.EventReservationCancelled),
		Envelope: webhooks.EnvelopeConfig{
			EventPaths:       []string{"EventType", "Ereignis"},
			ReservationPaths: []string{"ReservationId", "ReservierungsId"},
			GuestPaths:       []string{"GuestId", "GastId"},
			TimestampPaths:   []string{"Timestamp", "Zeitstempel"},
			ExtensionPaths:   []string{"HotelCode"},
			MaxAge:           15 * time.Minute,
		},
	}
}

var _ core.PMSAdapter = (*Adapter)(nil)
