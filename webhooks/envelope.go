package webhooks

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/hoteldefend/pms-connect/core"
	"github.com/hoteldefend/pms-connect/normalize"
)

// EnvelopeConfig drives vendor payload parsing with candidate field
// paths instead of per-vendor parse code. Paths are tried in order.
type EnvelopeConfig struct {
	VendorID string
	Table    *EventTable

	EventPaths       []string
	ReservationPaths []string
	GuestPaths       []string
	TimestampPaths   []string

	// ExtensionPaths are copied into the event's Extensions map under
	// their last path segment when present.
	ExtensionPaths []string

	// MaxAge rejects events older than the window. Zero disables the
	// replay check.
	MaxAge time.Duration
	Now    func() time.Time
}

// ParseEnvelope decodes an inbound vendor payload into the canonical
// event. Bodies that arrive as a JSON encoded string are unwrapped
// first; some vendors double encode their deliveries.
func ParseEnvelope(headers map[string]string, body []byte, cfg EnvelopeConfig) (*core.WebhookEvent, error) {
	payload, err := decodeBody(body)
	if err != nil {
		return nil, rejectedError(cfg.VendorID, err.Error())
	}

	vendorEvent := normalize.FirstString(payload, cfg.EventPaths...)
	if vendorEvent == "" {
		return nil, rejectedError(cfg.VendorID, "webhook payload carries no event type")
	}

	event := &core.WebhookEvent{
		VendorID:    cfg.VendorID,
		VendorEvent: vendorEvent,
		RawPayload:  payload,
		Extensions:  map[string]any{},
	}

	if canonical, ok := cfg.Table.ToCanonical(vendorEvent); ok {
		event.Type = canonical
	} else {
		// Vendor extension events pass through under their own name so
		// the caller can route or ignore them.
		event.Type = core.EventType(vendorEvent)
		event.Extensions["unmapped_event"] = true
	}

	event.ReservationID = normalize.FirstString(payload, cfg.ReservationPaths...)
	event.GuestID = normalize.FirstString(payload, cfg.GuestPaths...)

	if raw := normalize.First(payload, cfg.TimestampPaths...); raw != nil {
		event.Timestamp = normalize.Date(raw)
	}

	for _, path := range cfg.ExtensionPaths {
		if value := normalize.Lookup(payload, path); value != nil {
			segments := strings.Split(path, ".")
			event.Extensions[segments[len(segments)-1]] = value
		}
	}

	if deliveryID := headerValue(headers, "X-Delivery-Id", "X-Webhook-Id", "X-Request-Id"); deliveryID != "" {
		event.Extensions["delivery_id"] = deliveryID
	}

	if err := checkReplayWindow(event.Timestamp, cfg); err != nil {
		return nil, err
	}
	return event, nil
}

func decodeBody(body []byte) (map[string]any, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return nil, fmt.Errorf("webhook body is empty")
	}

	var payload map[string]any
	if err := json.Unmarshal([]byte(trimmed), &payload); err == nil {
		return payload, nil
	}

	var wrapped string
	if err := json.Unmarshal([]byte(trimmed), &wrapped); err == nil {
		if err := json.Unmarshal([]byte(wrapped), &payload); err == nil {
			return payload, nil
		}
	}
	return nil, fmt.Errorf("webhook body is not a JSON object")
}

func checkReplayWindow(timestamp *time.Time, cfg EnvelopeConfig) error {
	if cfg.MaxAge <= 0 || timestamp == nil {
		return nil
	}
	now := time.Now().UTC()
	if cfg.Now != nil {
		now = cfg.Now().UTC()
	}
	if now.Sub(*timestamp) > cfg.MaxAge {
		return rejectedError(cfg.VendorID, fmt.Sprintf(
			"webhook event from %s is outside the %s replay window",
			timestamp.Format(time.RFC3339), cfg.MaxAge))
	}
	return nil
}

func rejectedError(vendorID string, message string) error {
	return goerrors.New(message, goerrors.CategoryAuthz).
		WithCode(http.StatusBadRequest).
		WithTextCode(core.PMSErrorWebhookRejected).
		WithMetadata(map[string]any{"vendor_id": vendorID})
}

func headerValue(headers map[string]string, keys ...string) string {
	for _, key := range keys {
		for candidate, value := range headers {
			if strings.EqualFold(strings.TrimSpace(candidate), key) {
				if trimmed := strings.TrimSpace(value); trimmed != "" {
					return trimmed
				}
			}
		}
	}
	return ""
}
