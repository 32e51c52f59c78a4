package webhooks

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hoteldefend/pms-connect/core"
)

// EventTable is the bidirectional mapping between one vendor's event
// vocabulary and the canonical one. The primary mapping must be one to
// one so translation round-trips; inbound-only aliases are added on top
// for vendors that fire several names for the same canonical event.
type EventTable struct {
	toCanonical   map[string]core.EventType
	fromCanonical map[core.EventType]string
	aliases       map[string]core.EventType
}

func NewEventTable(primary map[string]core.EventType) (*EventTable, error) {
	table := &EventTable{
		toCanonical:   make(map[string]core.EventType, len(primary)),
		fromCanonical: make(map[core.EventType]string, len(primary)),
		aliases:       map[string]core.EventType{},
	}
	for vendorEvent, canonical := range primary {
		key := normalizeEventName(vendorEvent)
		if key == "" {
			return nil, fmt.Errorf("webhooks: empty vendor event name")
		}
		if _, exists := table.toCanonical[key]; exists {
			return nil, fmt.Errorf("webhooks: duplicate vendor event %q", vendorEvent)
		}
		if existing, exists := table.fromCanonical[canonical]; exists {
			return nil, fmt.Errorf(
				"webhooks: canonical event %s mapped from both %q and %q",
				canonical, existing, vendorEvent)
		}
		table.toCanonical[key] = canonical
		table.fromCanonical[canonical] = strings.TrimSpace(vendorEvent)
	}
	return table, nil
}

// MustEventTable panics on an invalid table. Vendor tables are package
// level literals, so a bad one is a programming error caught at init.
func MustEventTable(primary map[string]core.EventType) *EventTable {
	table, err := NewEventTable(primary)
	if err != nil {
		panic(err)
	}
	return table
}

// WithAlias registers an extra inbound-only vendor name for a canonical
// event. Aliases never participate in FromCanonical.
func (t *EventTable) WithAlias(vendorEvent string, canonical core.EventType) *EventTable {
	if t == nil {
		return nil
	}
	key := normalizeEventName(vendorEvent)
	if key != "" {
		t.aliases[key] = canonical
	}
	return t
}

// ToCanonical translates a vendor event name. Unknown names report
// false and pass through unmapped.
func (t *EventTable) ToCanonical(vendorEvent string) (core.EventType, bool) {
	if t == nil {
		return "", false
	}
	key := normalizeEventName(vendorEvent)
	if canonical, ok := t.toCanonical[key]; ok {
		return canonical, true
	}
	if canonical, ok := t.aliases[key]; ok {
		return canonical, true
	}
	return "", false
}

// FromCanonical translates a canonical event into the vendor's primary
// name for it, used when registering subscriptions.
func (t *EventTable) FromCanonical(event core.EventType) (string, bool) {
	if t == nil {
		return "", false
	}
	name, ok := t.fromCanonical[event]
	return name, ok
}

// VendorEvents lists the primary vendor names in stable order.
func (t *EventTable) VendorEvents() []string {
	if t == nil {
		return nil
	}
	names := make([]string, 0, len(t.fromCanonical))
	for _, name := range t.fromCanonical {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Supported reports which of the requested canonical events this vendor
// can deliver.
func (t *EventTable) Supported(requested []core.EventType) []core.EventType {
	if t == nil {
		return nil
	}
	out := make([]core.EventType, 0, len(requested))
	for _, event := range requested {
		if _, ok := t.fromCanonical[event]; ok {
			out = append(out, event)
		}
	}
	return out
}

func normalizeEventName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
