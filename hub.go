package pmsconnect

import (
	"context"
	"fmt"
	"net/http"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"

	"github.com/hoteldefend/pms-connect/core"
)

// Hub is the composition surface of the module: one adapter instance per
// property/tenant registered under a caller-chosen key, resolved by the
// chargeback pipeline when a dispute references that property.
type Hub struct {
	registry *core.AdapterRegistry
	logger   glog.Logger
}

type HubOption func(*Hub)

func WithLogger(logger glog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = glog.Ensure(logger)
	}
}

func NewHub(opts ...HubOption) *Hub {
	hub := &Hub{
		registry: core.NewAdapterRegistry(),
		logger:   glog.Nop(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(hub)
	}
	return hub
}

// Register adds an adapter under key. An empty key falls back to the
// adapter's vendor id, which only works for single-property setups.
func (h *Hub) Register(key string, adapter core.PMSAdapter) error {
	if err := h.registry.Register(key, adapter); err != nil {
		return err
	}
	h.logger.Info("adapter registered",
		"key", key,
		"vendor_id", adapter.VendorID(),
	)
	return nil
}

func (h *Hub) Adapter(key string) (core.PMSAdapter, error) {
	adapter, ok := h.registry.Get(key)
	if !ok {
		return nil, goerrors.New(fmt.Sprintf("pms: no adapter registered for %q", key), goerrors.CategoryNotFound).
			WithCode(http.StatusNotFound).
			WithTextCode(core.PMSErrorVendorNotFound).
			WithMetadata(map[string]any{"key": key})
	}
	return adapter, nil
}

func (h *Hub) Keys() []string {
	return h.registry.Keys()
}

func (h *Hub) Registry() *core.AdapterRegistry {
	return h.registry
}

// HealthReport probes every registered adapter.
func (h *Hub) HealthReport(ctx context.Context) core.HealthReport {
	return core.CheckAll(ctx, h.registry)
}

// HandleWebhook resolves the adapter for key, verifies the delivery
// signature when a secret is on file, and normalizes the payload. An
// empty secret skips verification for vendors that do not sign.
func (h *Hub) HandleWebhook(key string, headers map[string]string, body []byte, signature string, secret string) (*core.WebhookEvent, error) {
	adapter, err := h.Adapter(key)
	if err != nil {
		return nil, err
	}

	if secret != "" && !adapter.VerifyWebhookSignature(body, signature, secret) {
		h.logger.Error("webhook signature rejected",
			"key", key,
			"vendor_id", adapter.VendorID(),
		)
		return nil, goerrors.New("pms: webhook signature verification failed", goerrors.CategoryAuthz).
			WithCode(http.StatusUnauthorized).
			WithTextCode(core.PMSErrorWebhookRejected).
			WithMetadata(map[string]any{"key": key, "vendor_id": adapter.VendorID()})
	}

	event, err := adapter.ParseWebhookPayload(headers, body)
	if err != nil {
		return nil, err
	}
	h.logger.Info("webhook accepted",
		"key", key,
		"vendor_id", event.VendorID,
		"event_type", string(event.Type),
	)
	return event, nil
}
