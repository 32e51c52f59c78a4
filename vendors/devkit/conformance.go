package devkit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hoteldefend/pms-connect/core"
	"github.com/hoteldefend/pms-connect/webhooks"
)

// ValidateAdapterConformance exercises the contract guarantees every
// vendor adapter must hold regardless of its wire quirks: a vendor id,
// a non-throwing health check, and a webhook signature that round-trips
// and rejects mutation.
func ValidateAdapterConformance(ctx context.Context, adapter core.PMSAdapter) error {
	if adapter == nil {
		return fmt.Errorf("devkit: adapter is required")
	}
	if strings.TrimSpace(adapter.VendorID()) == "" {
		return fmt.Errorf("devkit: adapter vendor id is required")
	}

	health := adapter.HealthCheck(ctx)
	if health.Details == nil {
		return fmt.Errorf("devkit: health check must always carry details")
	}
	if health.CheckedAt.IsZero() {
		return fmt.Errorf("devkit: health check must record its timestamp")
	}

	secret, err := webhooks.GenerateSecret()
	if err != nil {
		return fmt.Errorf("devkit: generate secret: %w", err)
	}
	payload, _ := json.Marshal(WebhookBody("conformance.check"))
	signature := webhooks.Sign(payload, secret)
	if !adapter.VerifyWebhookSignature(payload, signature, secret) {
		return fmt.Errorf("devkit: adapter rejected a valid signature")
	}
	if adapter.VerifyWebhookSignature(append(payload, '!'), signature, secret) {
		return fmt.Errorf("devkit: adapter accepted a mutated payload")
	}
	if adapter.VerifyWebhookSignature(payload, signature, "wrong_secret") {
		return fmt.Errorf("devkit: adapter accepted a wrong secret")
	}
	return nil
}

// ValidateEventTableRoundTrip checks the bidirectional mapping identity
// for every canonical event the table declares support for.
func ValidateEventTableRoundTrip(table *webhooks.EventTable) error {
	if table == nil {
		return fmt.Errorf("devkit: event table is required")
	}
	for _, event := range table.Supported(core.CanonicalEvents()) {
		vendorName, ok := table.FromCanonical(event)
		if !ok {
			return fmt.Errorf("devkit: no vendor name for %s", event)
		}
		back, ok := table.ToCanonical(vendorName)
		if !ok || back != event {
			return fmt.Errorf("devkit: %s -> %q -> %s does not round-trip", event, vendorName, back)
		}
	}
	return nil
}
