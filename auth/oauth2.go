package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type OAuth2ClientCredentialsConfig struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	Scopes       []string

	// ExtraForm is appended to every token request body. Used by
	// vendors that demand tenant or property hints during the grant.
	ExtraForm map[string]string

	HTTPClient *http.Client
	Timeout    time.Duration
	Now        func() time.Time
}

// OAuth2ClientCredentials implements the standard client credentials
// flow with an optional refresh token path.
type OAuth2ClientCredentials struct {
	config OAuth2ClientCredentialsConfig
	client *http.Client
	now    func() time.Time
}

func NewOAuth2ClientCredentials(cfg OAuth2ClientCredentialsConfig) *OAuth2ClientCredentials {
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

	return &OAuth2ClientCredentials{
		config: OAuth2ClientCredentialsConfig{
			TokenURL:     strings.TrimSpace(cfg.TokenURL),
			ClientID:     strings.TrimSpace(cfg.ClientID),
			ClientSecret: strings.TrimSpace(cfg.ClientSecret),
			Scopes:       append([]string(nil), cfg.Scopes...),
			ExtraForm:    cfg.ExtraForm,
			Timeout:      timeout,
		},
		client: client,
		now:    now,
	}
}

func (*OAuth2ClientCredentials) Kind() string {
	return KindOAuth2ClientCredentials
}

func (s *OAuth2ClientCredentials) Grant(ctx context.Context) (Grant, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	if len(s.config.Scopes) > 0 {
		form.Set("scope", strings.Join(s.config.Scopes, " "))
	}
	return s.requestToken(ctx, form)
}

func (s *OAuth2ClientCredentials) Renew(ctx context.Context, refreshToken string) (Grant, error) {
	trimmed := strings.TrimSpace(refreshToken)
	if trimmed == "" {
		return Grant{}, ErrRenewUnsupported
	}
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {trimmed},
	}
	return s.requestToken(ctx, form)
}

func (s *OAuth2ClientCredentials) Headers(accessToken string) map[string]string {
	if strings.TrimSpace(accessToken) == "" {
		return map[string]string{}
	}
	return map[string]string{"Authorization": "Bearer " + accessToken}
}

type oauthTokenReply struct {
	AccessToken      string `json:"access_token"`
	RefreshToken     string `json:"refresh_token"`
	TokenType        string `json:"token_type"`
	ExpiresIn        int    `json:"expires_in"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (s *OAuth2ClientCredentials) requestToken(ctx context.Context, form url.Values) (Grant, error) {
	if s.config.TokenURL == "" {
		return Grant{}, fmt.Errorf("auth: oauth2 token_url is required")
	}
	if s.config.ClientID == "" || s.config.ClientSecret == "" {
		return Grant{}, fmt.Errorf("auth: oauth2 client credentials are required")
	}
	for key, value := range s.config.ExtraForm {
		if strings.TrimSpace(key) != "" {
			form.Set(key, value)
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost,
		s.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return Grant{}, fmt.Errorf("auth: building token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(s.config.ClientID, s.config.ClientSecret)

	resp, err := s.client.Do(req)
	if err != nil {
		return Grant{}, fmt.Errorf("auth: token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Grant{}, fmt.Errorf("auth: reading token reply: %w", err)
	}

	var reply oauthTokenReply
	if err := json.Unmarshal(body, &reply); err != nil {
		return Grant{}, fmt.Errorf("auth: token endpoint replied %d with undecodable body", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		detail := firstNonEmpty(reply.ErrorDescription, reply.Error, resp.Status)
		return Grant{}, fmt.Errorf("auth: token endpoint replied %d: %s", resp.StatusCode, detail)
	}
	if strings.TrimSpace(reply.AccessToken) == "" {
		return Grant{}, fmt.Errorf("auth: token endpoint returned no access_token")
	}

	grant := Grant{
		AccessToken:  strings.TrimSpace(reply.AccessToken),
		RefreshToken: strings.TrimSpace(reply.RefreshToken),
	}
	if reply.ExpiresIn > 0 {
		grant.ExpiresAt = s.now().UTC().Add(time.Duration(reply.ExpiresIn) * time.Second)
	}
	return grant, nil
}
