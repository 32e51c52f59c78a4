package core

import (
	"strings"
	"sync"
	"time"
)

const (
	// DefaultRefreshLeadWindow triggers refresh once a token is within
	// five minutes of expiry.
	DefaultRefreshLeadWindow = 5 * time.Minute
)

// TokenPhase names the credential lifecycle states an adapter moves
// through. Static-key vendors stay in PhaseValid permanently.
type TokenPhase string

const (
	PhaseNoToken        TokenPhase = "no_token"
	PhaseAuthenticating TokenPhase = "authenticating"
	PhaseValid          TokenPhase = "valid"
	PhaseExpiringSoon   TokenPhase = "expiring_soon"
	PhaseRefreshing     TokenPhase = "refreshing"
	PhaseFallbackGrant  TokenPhase = "fallback_grant"
)

// CredentialState is the per-adapter mutable token state. One instance
// per adapter, owned exclusively by it, mutated in place on every
// successful grant or refresh. Lock-protected because concurrent data
// calls read it while a refresh writes it.
type CredentialState struct {
	mu           sync.RWMutex
	accessToken  string
	refreshToken string
	expiresAt    time.Time
	phase        TokenPhase
	identifiers  map[string]string
}

func NewCredentialState() *CredentialState {
	return &CredentialState{
		phase:       PhaseNoToken,
		identifiers: map[string]string{},
	}
}

// SetGrant records a fresh token grant and moves the state to valid.
func (c *CredentialState) SetGrant(accessToken string, refreshToken string, expiresAt time.Time) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = strings.TrimSpace(accessToken)
	if trimmed := strings.TrimSpace(refreshToken); trimmed != "" {
		c.refreshToken = trimmed
	}
	c.expiresAt = expiresAt.UTC()
	c.phase = PhaseValid
}

// SetPhase records a lifecycle transition without touching tokens.
func (c *CredentialState) SetPhase(phase TokenPhase) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.phase = phase
	c.mu.Unlock()
}

// SetIdentifier stores a vendor-specific identifier (property code,
// hotel id, tenant).
func (c *CredentialState) SetIdentifier(key string, value string) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.identifiers[strings.TrimSpace(key)] = strings.TrimSpace(value)
	c.mu.Unlock()
}

// Identifier reads a vendor-specific identifier.
func (c *CredentialState) Identifier(key string) string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identifiers[strings.TrimSpace(key)]
}

// AccessToken returns the current access token, or "" before the first
// grant.
func (c *CredentialState) AccessToken() string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.accessToken
}

// RefreshToken returns the refresh token when the vendor issued one.
func (c *CredentialState) RefreshToken() string {
	if c == nil {
		return ""
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshToken
}

// ExpiresAt returns the current expiry instant, zero when unknown.
func (c *CredentialState) ExpiresAt() time.Time {
	if c == nil {
		return time.Time{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.expiresAt
}

// Phase reports the lifecycle state, recomputing the expiring-soon edge
// from the clock so callers always observe a fresh view.
func (c *CredentialState) Phase(now time.Time) TokenPhase {
	if c == nil {
		return PhaseNoToken
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.phase == PhaseValid && c.shouldRefreshLocked(now, DefaultRefreshLeadWindow) {
		return PhaseExpiringSoon
	}
	return c.phase
}

// ShouldRefresh reports whether the next authenticated call must refresh
// first: no token yet, or now >= expiry - lead.
func (c *CredentialState) ShouldRefresh(now time.Time, lead time.Duration) bool {
	if c == nil {
		return false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.shouldRefreshLocked(now, lead)
}

func (c *CredentialState) shouldRefreshLocked(now time.Time, lead time.Duration) bool {
	if c.accessToken == "" {
		return true
	}
	if c.expiresAt.IsZero() {
		return false
	}
	if lead <= 0 {
		lead = DefaultRefreshLeadWindow
	}
	return !c.expiresAt.After(now.UTC().Add(lead))
}

// Clear drops all token material, returning to the no-token state.
// Vendor identifiers survive; they are configuration, not credentials.
func (c *CredentialState) Clear() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.accessToken = ""
	c.refreshToken = ""
	c.expiresAt = time.Time{}
	c.phase = PhaseNoToken
	c.mu.Unlock()
}
