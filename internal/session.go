package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

// DefaultRefreshThreshold is how much lifetime a cached session must have
// left to be reused. It is 61 minutes rather than an even hour.
const DefaultRefreshThreshold = 3660 * time.Second

// State describes the cached credential as seen by the Manager.
type State int

const (
	StateNoCredential State = iota
	StateValid
	StateExpiringSoon
	StateInvalid
)

func (s State) String() string {
	switch s {
	case StateNoCredential:
		return "NO CREDENTIAL"
	case StateValid:
		return "VALID"
	case StateExpiringSoon:
		return "EXPIRING"
	case StateInvalid:
		return "INVALID"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Authenticate performs a fresh login and persists the result.
type Authenticate interface {
	Login(ctx context.Context) (*Credential, error)
}

// Manager hands out a usable credential, reusing the cached one while it
// has more than the threshold left and logging in again otherwise.
type Manager struct {
	store     Store
	auth      Authenticate
	threshold time.Duration
	now       func() time.Time
	logger    *slog.Logger
}

// NewManager creates a Manager. A non-positive threshold selects
// DefaultRefreshThreshold.
func NewManager(store Store, auth Authenticate, threshold time.Duration, logger *slog.Logger) *Manager {
	if threshold <= 0 {
		threshold = DefaultRefreshThreshold
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:     store,
		auth:      auth,
		threshold: threshold,
		now:       time.Now,
		logger:    logger,
	}
}

// Threshold returns the reuse threshold in effect.
func (m *Manager) Threshold() time.Duration { return m.threshold }

// Status reports the state of the cached credential without logging in.
func (m *Manager) Status(ctx context.Context) (State, *Credential, error) {
	cred, err := m.store.Load(ctx)
	if errors.Is(err, ErrNoCredential) {
		return StateNoCredential, nil, nil
	}
	if err != nil {
		return StateInvalid, nil, err
	}
	return m.classify(cred), cred, nil
}

func (m *Manager) classify(cred *Credential) State {
	if cred.Remaining(m.now()) > m.threshold {
		return StateValid
	}
	return StateExpiringSoon
}

// EnsureValid returns the cached credential when it is still comfortably
// valid, and otherwise the result of a new login. Login failures match
// ErrAuthUnavailable.
func (m *Manager) EnsureValid(ctx context.Context) (*Credential, error) {
	cred, err := m.store.Load(ctx)
	switch {
	case errors.Is(err, ErrNoCredential):
		m.logger.Debug("no cached sentinel credential", "reason", err)
		return m.Login(ctx)
	case err != nil:
		m.logger.Warn("credential store unavailable, logging in", "error", err)
		return m.Login(ctx)
	}

	if m.classify(cred) == StateValid {
		m.logger.Debug("reusing cached sentinel credential", "expires_at", cred.ExpiresAt)
		return cred, nil
	}

	m.logger.Info("sentinel credential expiring", "expires_at", cred.ExpiresAt, "remaining", cred.Remaining(m.now()).Round(time.Second))
	return m.Login(ctx)
}

// Login discards whatever is cached and logs in again.
func (m *Manager) Login(ctx context.Context) (*Credential, error) {
	cred, err := m.auth.Login(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthUnavailable, err)
	}
	return cred, nil
}

// Logout removes the cached credential.
func (m *Manager) Logout(ctx context.Context) error {
	return m.store.Clear(ctx)
}

// WithCredential runs fn with a valid credential. When fn reports
// ErrSessionExpired the session is renewed and fn runs exactly once more.
func (m *Manager) WithCredential(ctx context.Context, fn func(ctx context.Context, cred *Credential) error) error {
	cred, err := m.EnsureValid(ctx)
	if err != nil {
		return err
	}

	err = fn(ctx, cred)
	if !errors.Is(err, ErrSessionExpired) {
		return err
	}

	m.logger.Warn("sentinel rejected cached session, logging in again", "acctid", cred.AcctID.String())
	if cred, err = m.Login(ctx); err != nil {
		return err
	}
	return fn(ctx, cred)
}
