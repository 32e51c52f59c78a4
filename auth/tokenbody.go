package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/hoteldefend/pms-connect/normalize"
)

type TokenInBodyConfig struct {
	TokenURL string

	// Credentials is posted verbatim as the JSON request body.
	Credentials map[string]any

	// TokenPaths are tried in order against the reply body.
	TokenPaths []string

	// ExpiryPaths locate an absolute expiry timestamp in the reply.
	ExpiryPaths []string

	// TokenTTL applies when the reply carries no expiry at all.
	TokenTTL time.Duration

	HeaderName string
	HTTPClient *http.Client
	Timeout    time.Duration
	Now        func() time.Time
}

// TokenInBody implements the grant style where credentials travel in a
// JSON POST body and the token comes back inside the reply document.
// There is no refresh endpoint; renewal repeats the full exchange.
type TokenInBody struct {
	config TokenInBodyConfig
	client *http.Client
	now    func() time.Time
}

func NewTokenInBody(cfg TokenInBodyConfig) *TokenInBody {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	now := cfg.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	tokenPaths := cfg.TokenPaths
	if len(tokenPaths) == 0 {
		tokenPaths = []string{"token", "authToken", "access_token"}
	}
	expiryPaths := cfg.ExpiryPaths
	if len(expiryPaths) == 0 {
		expiryPaths = []string{"expiryDate", "expiry_date", "expiresAt", "tokenExpiry"}
	}
	header := strings.TrimSpace(cfg.HeaderName)
	if header == "" {
		header = "authtoken"
	}

	return &TokenInBody{
		config: TokenInBodyConfig{
			TokenURL:    strings.TrimSpace(cfg.TokenURL),
			Credentials: cfg.Credentials,
			TokenPaths:  tokenPaths,
			ExpiryPaths: expiryPaths,
			TokenTTL:    cfg.TokenTTL,
			HeaderName:  header,
			Timeout:     timeout,
		},
		client: client,
		now:    now,
	}
}

func (*TokenInBody) Kind() string {
	return KindTokenInBody
}

func (s *TokenInBody) Grant(ctx context.Context) (Grant, error) {
	if s.config.TokenURL == "" {
		return Grant{}, fmt.Errorf("auth: token_url is required")
	}
	if len(s.config.Credentials) == 0 {
		return Grant{}, fmt.Errorf("auth: token-in-body credentials are required")
	}

	encoded, err := json.Marshal(s.config.Credentials)
	if err != nil {
		return Grant{}, fmt.Errorf("auth: encoding credentials: %w", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost,
		s.config.TokenURL, bytes.NewReader(encoded))
	if err != nil {
		return Grant{}, fmt.Errorf("auth: building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return Grant{}, fmt.Errorf("auth: token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Grant{}, fmt.Errorf("auth: reading token reply: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Grant{}, fmt.Errorf("auth: token endpoint replied %d", resp.StatusCode)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return Grant{}, fmt.Errorf("auth: decoding token reply: %w", err)
	}

	token := normalize.FirstString(payload, s.config.TokenPaths...)
	if token == "" {
		return Grant{}, fmt.Errorf("auth: token endpoint reply carries no token")
	}

	grant := Grant{AccessToken: token}
	if raw := normalize.First(payload, s.config.ExpiryPaths...); raw != nil {
		if expiry := normalize.Date(raw); expiry != nil {
			grant.ExpiresAt = *expiry
		}
	}
	if grant.ExpiresAt.IsZero() && s.config.TokenTTL > 0 {
		grant.ExpiresAt = s.now().UTC().Add(s.config.TokenTTL)
	}
	return grant, nil
}

func (s *TokenInBody) Renew(context.Context, string) (Grant, error) {
	return Grant{}, ErrRenewUnsupported
}

func (s *TokenInBody) Headers(accessToken string) map[string]string {
	if strings.TrimSpace(accessToken) == "" {
		return map[string]string{}
	}
	return map[string]string{s.config.HeaderName: accessToken}
}
