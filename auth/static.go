package auth

import (
	"context"
	"fmt"
	"strings"
)

const defaultAPIKeyHeader = "X-Api-Key"

type StaticAPIKeyConfig struct {
	Key        string
	HeaderName string

	// HeaderPrefix is prepended to the key, e.g. "Bearer " for vendors
	// that carry static keys in the Authorization header.
	HeaderPrefix string
}

// StaticAPIKey carries a long lived vendor key. The grant never expires
// and has no refresh path.
type StaticAPIKey struct {
	config StaticAPIKeyConfig
}

func NewStaticAPIKey(cfg StaticAPIKeyConfig) *StaticAPIKey {
	header := strings.TrimSpace(cfg.HeaderName)
	if header == "" {
		header = defaultAPIKeyHeader
	}
	return &StaticAPIKey{
		config: StaticAPIKeyConfig{
			Key:          strings.TrimSpace(cfg.Key),
			HeaderName:   header,
			HeaderPrefix: cfg.HeaderPrefix,
		},
	}
}

func (*StaticAPIKey) Kind() string {
	return KindStaticAPIKey
}

func (s *StaticAPIKey) Grant(context.Context) (Grant, error) {
	if s.config.Key == "" {
		return Grant{}, fmt.Errorf("auth: static api key is required")
	}
	return Grant{AccessToken: s.config.Key}, nil
}

func (s *StaticAPIKey) Renew(context.Context, string) (Grant, error) {
	return Grant{}, ErrRenewUnsupported
}

func (s *StaticAPIKey) Headers(accessToken string) map[string]string {
	if strings.TrimSpace(accessToken) == "" {
		return map[string]string{}
	}
	return map[string]string{s.config.HeaderName: s.config.HeaderPrefix + accessToken}
}
