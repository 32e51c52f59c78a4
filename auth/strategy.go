package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

const (
	KindOAuth2ClientCredentials = "oauth2_client_credentials"
	KindStaticAPIKey            = "static_api_key"
	KindTokenInBody             = "token_in_body"
)

// ErrRenewUnsupported signals that the vendor has no refresh-token
// endpoint and a fresh grant must be issued instead.
var ErrRenewUnsupported = errors.New("auth: renew is not supported by this strategy")

// Grant is the result of a successful credential exchange. A zero
// ExpiresAt means the credential does not expire.
type Grant struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Strategy performs the vendor specific credential exchange. Strategies
// are stateless; the Manager owns the token lifecycle around them.
type Strategy interface {
	Kind() string

	// Grant obtains a fresh credential from scratch.
	Grant(ctx context.Context) (Grant, error)

	// Renew exchanges a refresh token for a new grant. Strategies
	// without a refresh path return ErrRenewUnsupported.
	Renew(ctx context.Context, refreshToken string) (Grant, error)

	// Headers renders the request headers that carry the credential.
	Headers(accessToken string) map[string]string
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
