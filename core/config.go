package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-config/cfgx"
)

// TransportConfig holds the hub-wide resilience defaults. Vendors
// override individual knobs in their own configs where their documented
// quotas differ.
type TransportConfig struct {
	TimeoutSeconds          int `koanf:"timeout_seconds" mapstructure:"timeout_seconds"`
	AuthTimeoutSeconds      int `koanf:"auth_timeout_seconds" mapstructure:"auth_timeout_seconds"`
	RateLimitCapacity       int `koanf:"rate_limit_capacity" mapstructure:"rate_limit_capacity"`
	RateLimitPerSecond      int `koanf:"rate_limit_per_second" mapstructure:"rate_limit_per_second"`
	BreakerFailureThreshold int `koanf:"breaker_failure_threshold" mapstructure:"breaker_failure_threshold"`
	BreakerCooldownSeconds  int `koanf:"breaker_cooldown_seconds" mapstructure:"breaker_cooldown_seconds"`
	BreakerHalfOpenProbes   int `koanf:"breaker_half_open_probes" mapstructure:"breaker_half_open_probes"`
}

type Config struct {
	ServiceName string          `koanf:"service_name" mapstructure:"service_name"`
	Transport   TransportConfig `koanf:"transport" mapstructure:"transport"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "pms-connect",
		Transport: TransportConfig{
			TimeoutSeconds:          10,
			AuthTimeoutSeconds:      15,
			RateLimitCapacity:       10,
			RateLimitPerSecond:      5,
			BreakerFailureThreshold: 5,
			BreakerCooldownSeconds:  30,
			BreakerHalfOpenProbes:   1,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Transport.TimeoutSeconds <= 0 {
		return fmt.Errorf("core: transport.timeout_seconds must be positive")
	}
	if c.Transport.RateLimitPerSecond <= 0 {
		return fmt.Errorf("core: transport.rate_limit_per_second must be positive")
	}
	if c.Transport.BreakerFailureThreshold <= 0 {
		return fmt.Errorf("core: transport.breaker_failure_threshold must be positive")
	}
	return nil
}

// RawConfigLoader supplies untyped configuration (environment, file,
// remote source) for cfgx to shape into Config.
type RawConfigLoader interface {
	LoadRaw(ctx context.Context) (map[string]any, error)
}

type staticRawConfigLoader struct {
	Values map[string]any
}

func (l staticRawConfigLoader) LoadRaw(context.Context) (map[string]any, error) {
	if len(l.Values) == 0 {
		return map[string]any{}, nil
	}
	out := make(map[string]any, len(l.Values))
	for key, value := range l.Values {
		out[key] = value
	}
	return out, nil
}

// StaticConfigLoader wraps literal values, mostly for tests and embedded
// deployments.
func StaticConfigLoader(values map[string]any) RawConfigLoader {
	return staticRawConfigLoader{Values: values}
}

// ConfigProvider builds a validated Config from a raw loader layered over
// defaults.
type ConfigProvider struct {
	Loader RawConfigLoader
}

func NewConfigProvider(loader RawConfigLoader) *ConfigProvider {
	return &ConfigProvider{Loader: loader}
}

func (p *ConfigProvider) Load(ctx context.Context, defaults Config) (Config, error) {
	if p == nil {
		return defaults, nil
	}
	loader := p.Loader
	if loader == nil {
		loader = staticRawConfigLoader{}
	}
	raw, err := loader.LoadRaw(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg, err := cfgx.Build[Config](raw,
		cfgx.WithDefaults(defaults),
		cfgx.WithValidator[Config]((*Config).Validate),
	)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}
