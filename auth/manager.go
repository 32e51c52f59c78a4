package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	glog "github.com/goliatone/go-logger/glog"
	"golang.org/x/sync/singleflight"

	"github.com/hoteldefend/pms-connect/core"
)

type ManagerOptions struct {
	VendorID    string
	Strategy    Strategy
	State       *core.CredentialState
	RefreshLead time.Duration
	Logger      glog.Logger
	Now         func() time.Time
}

// Manager owns the token lifecycle around a Strategy: it moves the
// credential state through its phases, deduplicates concurrent refreshes
// and falls back to a fresh grant when the refresh token path fails.
type Manager struct {
	vendorID string
	strategy Strategy
	state    *core.CredentialState
	lead     time.Duration
	logger   glog.Logger
	now      func() time.Time
	group    singleflight.Group
}

func NewManager(opts ManagerOptions) *Manager {
	state := opts.State
	if state == nil {
		state = core.NewCredentialState()
	}
	lead := opts.RefreshLead
	if lead <= 0 {
		lead = core.DefaultRefreshLeadWindow
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Manager{
		vendorID: opts.VendorID,
		strategy: opts.Strategy,
		state:    state,
		lead:     lead,
		logger:   glog.Ensure(opts.Logger),
		now:      now,
	}
}

func (m *Manager) State() *core.CredentialState {
	if m == nil {
		return nil
	}
	return m.state
}

func (m *Manager) Phase() core.TokenPhase {
	if m == nil {
		return core.PhaseNoToken
	}
	return m.state.Phase(m.now())
}

// Authenticate performs the initial credential exchange.
func (m *Manager) Authenticate(ctx context.Context) error {
	if m == nil || m.strategy == nil {
		return fmt.Errorf("auth: manager has no strategy")
	}
	m.state.SetPhase(core.PhaseAuthenticating)
	grant, err := m.strategy.Grant(ctx)
	if err != nil {
		m.state.SetPhase(core.PhaseNoToken)
		return core.AuthError(m.vendorID, "authenticate", err)
	}
	m.state.SetGrant(grant.AccessToken, grant.RefreshToken, grant.ExpiresAt)
	return nil
}

// Refresh renews the credential. The refresh token path is tried first;
// when it fails or does not exist a fresh grant is issued. A refresh
// failure therefore never strands the adapter while the vendor itself
// is reachable.
func (m *Manager) Refresh(ctx context.Context) error {
	if m == nil || m.strategy == nil {
		return fmt.Errorf("auth: manager has no strategy")
	}
	if m.state.AccessToken() == "" {
		return m.Authenticate(ctx)
	}

	m.state.SetPhase(core.PhaseRefreshing)
	refreshToken := m.state.RefreshToken()
	if refreshToken != "" {
		grant, err := m.strategy.Renew(ctx, refreshToken)
		if err == nil {
			m.state.SetGrant(grant.AccessToken, grant.RefreshToken, grant.ExpiresAt)
			return nil
		}
		if !errors.Is(err, ErrRenewUnsupported) {
			m.logger.Error("token refresh failed, issuing a fresh grant",
				"vendor_id", m.vendorID,
				"error", err.Error(),
			)
			m.state.SetPhase(core.PhaseFallbackGrant)
		}
	}

	grant, err := m.strategy.Grant(ctx)
	if err != nil {
		m.state.Clear()
		return core.AuthError(m.vendorID, "refresh_auth", err)
	}
	m.state.SetGrant(grant.AccessToken, grant.RefreshToken, grant.ExpiresAt)
	return nil
}

// EnsureValid refreshes the credential when it is missing or inside the
// expiry lead window. Concurrent callers share a single refresh.
func (m *Manager) EnsureValid(ctx context.Context) error {
	if m == nil {
		return fmt.Errorf("auth: manager is nil")
	}
	if !m.state.ShouldRefresh(m.now(), m.lead) {
		return nil
	}
	_, err, _ := m.group.Do("refresh", func() (any, error) {
		if !m.state.ShouldRefresh(m.now(), m.lead) {
			return nil, nil
		}
		return nil, m.Refresh(ctx)
	})
	return err
}

// Headers is the transport header source: it guarantees a valid token
// and renders the vendor auth headers from it.
func (m *Manager) Headers(ctx context.Context) (map[string]string, error) {
	if err := m.EnsureValid(ctx); err != nil {
		return nil, err
	}
	return m.strategy.Headers(m.state.AccessToken()), nil
}
