package vendors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"github.com/google/uuid"

	"github.com/hoteldefend/pms-connect/auth"
	"github.com/hoteldefend/pms-connect/core"
	"github.com/hoteldefend/pms-connect/normalize"
	"github.com/hoteldefend/pms-connect/transport"
	"github.com/hoteldefend/pms-connect/webhooks"
)

type Options struct {
	Profile  Profile
	Strategy auth.Strategy

	// PathParams are static placeholder values expanded into every
	// endpoint template, e.g. property or tenant identifiers.
	PathParams map[string]string

	Transport  core.TransportConfig
	HTTPClient *http.Client
	Logger     glog.Logger
	Now        func() time.Time
	NewID      func() string
}

// Base is the generic adapter. One instance per property/tenant; it owns
// that property's credential state and transport exclusively. Vendor
// packages embed it and override only the operations where the vendor
// genuinely diverges from plain REST.
type Base struct {
	profile    Profile
	manager    *auth.Manager
	pipeline   *transport.Pipeline
	pathParams map[string]string
	logger     glog.Logger
	now        func() time.Time
	newID      func() string
}

func NewBase(opts Options) *Base {
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	newID := opts.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	logger := glog.Ensure(opts.Logger)

	manager := auth.NewManager(auth.ManagerOptions{
		VendorID: opts.Profile.VendorID,
		Strategy: opts.Strategy,
		State:    core.NewCredentialState(),
		Logger:   logger,
		Now:      now,
	})

	staticHeaders := opts.Profile.StaticHeaders
	headerSource := func(ctx context.Context) (map[string]string, error) {
		authHeaders, err := manager.Headers(ctx)
		if err != nil {
			return nil, err
		}
		merged := make(map[string]string, len(staticHeaders)+len(authHeaders))
		for key, value := range staticHeaders {
			merged[key] = value
		}
		for key, value := range authHeaders {
			merged[key] = value
		}
		return merged, nil
	}

	pipeline := transport.New(transport.Options{
		VendorID:   opts.Profile.VendorID,
		BaseURL:    opts.Profile.BaseURL,
		Config:     opts.Transport,
		Headers:    headerSource,
		HTTPClient: opts.HTTPClient,
		Logger:     logger,
	})

	params := make(map[string]string, len(opts.PathParams))
	for key, value := range opts.PathParams {
		params[key] = value
	}

	return &Base{
		profile:    opts.Profile,
		manager:    manager,
		pipeline:   pipeline,
		pathParams: params,
		logger:     logger,
		now:        now,
		newID:      newID,
	}
}

func (b *Base) VendorID() string {
	return b.profile.VendorID
}

// Credentials exposes the adapter's token state for diagnostics.
func (b *Base) Credentials() *core.CredentialState {
	return b.manager.State()
}

func (b *Base) Authenticate(ctx context.Context) error {
	if err := b.manager.Authenticate(ctx); err != nil {
		return err
	}
	// New credentials invalidate any failure streak recorded against
	// the old ones.
	b.pipeline.Breaker().Reset()
	return nil
}

func (b *Base) RefreshAuth(ctx context.Context) error {
	if err := b.manager.Refresh(ctx); err != nil {
		return err
	}
	b.pipeline.Breaker().Reset()
	return nil
}

func (b *Base) GetReservation(ctx context.Context, confirmationNumber string) (*core.Reservation, error) {
	confirmationNumber = strings.TrimSpace(confirmationNumber)
	if confirmationNumber == "" {
		return nil, core.BadInputError(b.VendorID(), "get_reservation", "confirmation number is required")
	}

	payload, found, err := b.fetch(ctx, "get_reservation",
		b.path(b.profile.Endpoints.Reservation, map[string]string{"confirmationNumber": confirmationNumber}), nil)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	reservation := ReservationFrom(payload, b.profile.Mapping)
	if reservation.ConfirmationNumber == "" {
		reservation.ConfirmationNumber = confirmationNumber
	}
	return &reservation, nil
}

func (b *Base) SearchReservations(ctx context.Context, filter core.ReservationFilter) ([]core.Reservation, error) {
	query := b.searchQuery(filter)
	payload, found, err := b.fetch(ctx, "search_reservations",
		b.path(b.profile.Endpoints.ReservationSearch, nil), query)
	if err != nil {
		return nil, err
	}
	if !found {
		return []core.Reservation{}, nil
	}

	entries := normalize.FirstSlice(payload, b.profile.Mapping.ReservationList...)
	reservations := make([]core.Reservation, 0, len(entries))
	for _, entry := range entries {
		row, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		reservations = append(reservations, ReservationFrom(row, b.profile.Mapping))
	}
	return reservations, nil
}

func (b *Base) GetGuestFolio(ctx context.Context, reservationID string) ([]core.FolioItem, error) {
	reservationID = strings.TrimSpace(reservationID)
	if reservationID == "" {
		return nil, core.BadInputError(b.VendorID(), "get_guest_folio", "reservation id is required")
	}

	payload, found, err := b.fetch(ctx, "get_guest_folio",
		b.path(b.profile.Endpoints.Folio, map[string]string{"reservationId": reservationID}), nil)
	if err != nil {
		return nil, err
	}
	if !found {
		return []core.FolioItem{}, nil
	}
	return FolioItemsFrom(payload, b.profile.Mapping), nil
}

func (b *Base) GetGuestProfile(ctx context.Context, guestID string) (*core.GuestProfile, error) {
	guestID = strings.TrimSpace(guestID)
	if guestID == "" {
		return nil, core.BadInputError(b.VendorID(), "get_guest_profile", "guest id is required")
	}

	payload, found, err := b.fetch(ctx, "get_guest_profile",
		b.path(b.profile.Endpoints.GuestProfile, map[string]string{"guestId": guestID}), nil)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	profile := GuestProfileFrom(payload, b.profile.Mapping)
	if profile.GuestID == "" {
		profile.GuestID = guestID
	}
	return &profile, nil
}

func (b *Base) GetRates(ctx context.Context, filter core.RateFilter) ([]core.Rate, error) {
	query := b.rateQuery(filter)
	payload, found, err := b.fetch(ctx, "get_rates",
		b.path(b.profile.Endpoints.Rates, nil), query)
	if err != nil {
		return nil, err
	}
	if !found {
		return []core.Rate{}, nil
	}
	return RatesFrom(payload, b.profile.Mapping), nil
}

func (b *Base) PushNote(ctx context.Context, guestID string, note core.Note) (*core.WriteReceipt, error) {
	guestID = strings.TrimSpace(guestID)
	if guestID == "" {
		return nil, core.BadInputError(b.VendorID(), "push_note", "guest id is required")
	}
	body := map[string]any{
		"title":    note.Title,
		"body":     note.Body,
		"category": note.Category,
		"author":   note.Author,
	}
	return b.push(ctx, "push_note",
		b.path(b.profile.Endpoints.Note, map[string]string{"guestId": guestID}),
		body, guestID)
}

func (b *Base) PushFlag(ctx context.Context, guestID string, flag core.Flag) (*core.WriteReceipt, error) {
	guestID = strings.TrimSpace(guestID)
	if guestID == "" {
		return nil, core.BadInputError(b.VendorID(), "push_flag", "guest id is required")
	}
	body := map[string]any{
		"code":     flag.Code,
		"severity": string(flag.Severity),
		"reason":   flag.Reason,
	}
	return b.push(ctx, "push_flag",
		b.path(b.profile.Endpoints.Flag, map[string]string{"guestId": guestID}),
		body, guestID)
}

func (b *Base) PushChargebackAlert(ctx context.Context, reservationID string, alert core.ChargebackAlert) (*core.WriteReceipt, error) {
	reservationID = strings.TrimSpace(reservationID)
	if reservationID == "" {
		return nil, core.BadInputError(b.VendorID(), "push_chargeback_alert", "reservation id is required")
	}
	body := map[string]any{
		"caseId":       alert.CaseID,
		"amount":       alert.Amount,
		"currency":     alert.Currency,
		"cardBrand":    string(alert.CardBrand),
		"cardLastFour": alert.CardLastFour,
		"reasonCode":   alert.ReasonCode,
		"disputeDate":  normalize.FormatDate(alert.DisputeDate),
		"respondBy":    normalize.FormatDate(alert.RespondByDate),
	}
	return b.push(ctx, "push_chargeback_alert",
		b.path(b.profile.Endpoints.ChargebackAlert, map[string]string{"reservationId": reservationID}),
		body, reservationID)
}

func (b *Base) PushDisputeOutcome(ctx context.Context, reservationID string, outcome core.DisputeOutcome) (*core.WriteReceipt, error) {
	reservationID = strings.TrimSpace(reservationID)
	if reservationID == "" {
		return nil, core.BadInputError(b.VendorID(), "push_dispute_outcome", "reservation id is required")
	}
	body := map[string]any{
		"caseId":     outcome.CaseID,
		"outcome":    outcome.Outcome,
		"amount":     outcome.Amount,
		"currency":   outcome.Currency,
		"resolvedAt": normalize.FormatDate(outcome.ResolvedAt),
		"notes":      outcome.Notes,
	}
	return b.push(ctx, "push_dispute_outcome",
		b.path(b.profile.Endpoints.DisputeOutcome, map[string]string{"reservationId": reservationID}),
		body, reservationID)
}

func (b *Base) RegisterWebhook(ctx context.Context, cfg core.WebhookConfig) (*core.WebhookRegistration, error) {
	callback := strings.TrimSpace(cfg.CallbackURL)
	if callback == "" {
		return nil, core.BadInputError(b.VendorID(), "register_webhook", "callback url is required")
	}
	requested := cfg.Events
	if len(requested) == 0 {
		requested = core.CanonicalEvents()
	}
	supported := b.profile.Events.Supported(requested)
	if len(supported) == 0 {
		return nil, core.BadInputError(b.VendorID(), "register_webhook", "no requested event is supported by this vendor")
	}

	secret, err := webhooks.GenerateSecret()
	if err != nil {
		return nil, core.VendorError(b.VendorID(), "register_webhook", err)
	}

	vendorEvents := make([]string, 0, len(supported))
	for _, event := range supported {
		if name, ok := b.profile.Events.FromCanonical(event); ok {
			vendorEvents = append(vendorEvents, name)
		}
	}

	resp, err := b.pipeline.Do(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    b.path(b.profile.Endpoints.WebhookSubscribe, nil),
		Body: map[string]any{
			"url":    callback,
			"events": vendorEvents,
			"secret": secret,
		},
	})
	if err != nil {
		return nil, core.MapError(err)
	}
	if !resp.IsSuccess() {
		return nil, core.WriteRejectedError(b.VendorID(), "register_webhook",
			fmt.Errorf("vendor replied %d", resp.StatusCode))
	}

	subscriptionID := ""
	var payload map[string]any
	if err := resp.DecodeJSON(&payload); err == nil {
		subscriptionID = normalize.FirstString(payload, b.profile.Mapping.SubscriptionID...)
	}
	if subscriptionID == "" {
		subscriptionID = b.newID()
	}

	return &core.WebhookRegistration{
		SubscriptionID: subscriptionID,
		Secret:         secret,
		VendorID:       b.VendorID(),
		CallbackURL:    callback,
		Events:         supported,
		RegisteredAt:   b.now(),
	}, nil
}

func (b *Base) ParseWebhookPayload(headers map[string]string, body []byte) (*core.WebhookEvent, error) {
	cfg := b.profile.Envelope
	cfg.VendorID = b.VendorID()
	cfg.Table = b.profile.Events
	return webhooks.ParseEnvelope(headers, body, cfg)
}

func (b *Base) VerifyWebhookSignature(payload []byte, signature string, secret string) bool {
	return webhooks.VerifySignature(payload, signature, secret)
}

func (b *Base) HealthCheck(ctx context.Context) core.HealthStatus {
	started := b.now()
	details := map[string]any{
		"vendor_id": b.VendorID(),
		"breaker":   b.pipeline.BreakerSnapshot(),
	}

	endpoint := b.profile.Endpoints.Health
	if endpoint == "" {
		endpoint = "/health"
	}
	method := b.profile.HealthMethod
	if method == "" {
		method = http.MethodGet
	}

	resp, err := b.pipeline.Do(ctx, transport.Request{
		Method: method,
		URL:    b.path(endpoint, nil),
	})
	status := core.HealthStatus{
		LatencyMs: b.now().Sub(started).Milliseconds(),
		Details:   details,
		CheckedAt: b.now(),
	}
	// Refresh the snapshot so a probe that tripped or closed the
	// breaker is reflected in the report.
	details["breaker"] = b.pipeline.BreakerSnapshot()

	switch {
	case err != nil:
		details["error"] = err.Error()
	case !resp.IsSuccess():
		details["error"] = fmt.Sprintf("vendor replied %d", resp.StatusCode)
		details["status_code"] = resp.StatusCode
	default:
		status.Healthy = true
		details["status_code"] = resp.StatusCode
	}
	return status
}

// Do exposes the resilience pipeline to vendor packages that need raw
// vendor calls outside the generic operations.
func (b *Base) Do(ctx context.Context, req transport.Request) (*transport.Response, error) {
	return b.pipeline.Do(ctx, req)
}

// Logger returns the adapter logger for vendor package use.
func (b *Base) Logger() glog.Logger {
	return b.logger
}

// Profile returns the vendor profile for vendor package use.
func (b *Base) Profile() Profile {
	return b.profile
}

// Receipt builds a write receipt with a locally generated id when the
// vendor reply carries none.
func (b *Base) Receipt(operation string, reference string, echo map[string]any, payload map[string]any) *core.WriteReceipt {
	receiptID := ""
	if payload != nil {
		receiptID = normalize.FirstString(payload, b.profile.Mapping.ReceiptID...)
	}
	if receiptID == "" {
		receiptID = b.newID()
	}
	return &core.WriteReceipt{
		VendorID:   b.VendorID(),
		ReceiptID:  receiptID,
		Operation:  operation,
		Reference:  reference,
		AcceptedAt: b.now(),
		Echo:       echo,
	}
}

func (b *Base) path(template string, params map[string]string) string {
	merged := make(map[string]string, len(b.pathParams)+len(params))
	for key, value := range b.pathParams {
		merged[key] = value
	}
	for key, value := range params {
		merged[key] = value
	}
	return expandPath(template, merged)
}

// fetch performs a GET and decodes the reply. A 404 or an empty body
// reports found=false instead of an error.
func (b *Base) fetch(ctx context.Context, operation string, path string, query url.Values) (map[string]any, bool, error) {
	resp, err := b.pipeline.Do(ctx, transport.Request{
		Method: http.MethodGet,
		URL:    path,
		Query:  query,
	})
	if err != nil {
		return nil, false, core.MapError(err)
	}
	return b.decodeFetch(operation, resp)
}

func (b *Base) decodeFetch(operation string, resp *transport.Response) (map[string]any, bool, error) {
	if resp.StatusCode == http.StatusNotFound {
		return nil, false, nil
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, false, core.AuthError(b.VendorID(), operation,
			fmt.Errorf("vendor replied %d", resp.StatusCode))
	}
	if !resp.IsSuccess() {
		return nil, false, core.VendorError(b.VendorID(), operation,
			fmt.Errorf("vendor replied %d", resp.StatusCode))
	}
	if len(resp.Body) == 0 {
		return nil, false, nil
	}
	var payload map[string]any
	if err := resp.DecodeJSON(&payload); err != nil {
		return nil, false, core.VendorError(b.VendorID(), operation,
			errors.New("vendor reply is not a JSON object"))
	}
	return payload, true, nil
}

func (b *Base) push(ctx context.Context, operation string, path string, body map[string]any, reference string) (*core.WriteReceipt, error) {
	resp, err := b.pipeline.Do(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    path,
		Body:   body,
	})
	if err != nil {
		return nil, core.MapError(err)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, core.AuthError(b.VendorID(), operation,
			fmt.Errorf("vendor replied %d", resp.StatusCode))
	}
	if !resp.IsSuccess() {
		return nil, core.WriteRejectedError(b.VendorID(), operation,
			fmt.Errorf("vendor replied %d", resp.StatusCode))
	}

	var payload map[string]any
	_ = resp.DecodeJSON(&payload)
	return b.Receipt(operation, reference, body, payload), nil
}

func (b *Base) searchQuery(filter core.ReservationFilter) url.Values {
	if b.profile.SearchQuery != nil {
		return b.profile.SearchQuery(filter)
	}
	query := url.Values{}
	if filter.GuestName != "" {
		query.Set("guestName", filter.GuestName)
	}
	if filter.Email != "" {
		query.Set("email", filter.Email)
	}
	if filter.CheckInFrom != nil {
		query.Set("checkInFrom", normalize.FormatDate(filter.CheckInFrom))
	}
	if filter.CheckInTo != nil {
		query.Set("checkInTo", normalize.FormatDate(filter.CheckInTo))
	}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.RoomNumber != "" {
		query.Set("roomNumber", filter.RoomNumber)
	}
	if filter.Limit > 0 {
		query.Set("limit", fmt.Sprintf("%d", filter.Limit))
	}
	return query
}

func (b *Base) rateQuery(filter core.RateFilter) url.Values {
	if b.profile.RateQuery != nil {
		return b.profile.RateQuery(filter)
	}
	query := url.Values{}
	if filter.Code != "" {
		query.Set("rateCode", filter.Code)
	}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.RoomType != "" {
		query.Set("roomType", filter.RoomType)
	}
	if filter.Date != nil {
		query.Set("date", normalize.FormatDate(filter.Date))
	}
	return query
}

var _ core.PMSAdapter = (*Base)(nil)
