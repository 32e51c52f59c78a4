package core

import (
	"context"
	"time"
)

// HealthReport aggregates per-adapter probe results for monitoring.
type HealthReport struct {
	Healthy   bool
	Checked   int
	Unhealthy []string
	Statuses  map[string]HealthStatus
	CheckedAt time.Time
}

// CheckAll probes every registered adapter sequentially. HealthCheck
// never errors, so neither does this.
func CheckAll(ctx context.Context, registry *AdapterRegistry) HealthReport {
	report := HealthReport{
		Healthy:   true,
		Statuses:  map[string]HealthStatus{},
		CheckedAt: time.Now().UTC(),
	}
	if registry == nil {
		return report
	}
	for _, key := range registry.Keys() {
		adapter, ok := registry.Get(key)
		if !ok {
			continue
		}
		status := adapter.HealthCheck(ctx)
		report.Statuses[key] = status
		report.Checked++
		if !status.Healthy {
			report.Healthy = false
			report.Unhealthy = append(report.Unhealthy, key)
		}
	}
	return report
}
