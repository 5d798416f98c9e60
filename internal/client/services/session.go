// Package services contains the client's application services: the session
// manager, the transaction synchronizer and user preferences. They are the
// only writers of the shared store.Store.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/wealflow/wealflow/internal/client/client"
	"github.com/wealflow/wealflow/internal/client/models"
	"github.com/wealflow/wealflow/internal/client/repositories/metadata"
	"github.com/wealflow/wealflow/internal/client/store"
	"github.com/wealflow/wealflow/internal/logging"
)

var (
	ErrValidation          = errors.New("invalid input")
	ErrSessionNotConfirmed = errors.New("signed in but the session could not be confirmed")
)

type Phase string

const (
	PhaseBootstrapping   Phase = "bootstrapping"
	PhaseUnauthenticated Phase = "unauthenticated"
	// PhaseProvisional: a user restored from the local snapshot, not yet
	// checked against the server.
	PhaseProvisional Phase = "provisional"
	PhaseConfirmed   Phase = "confirmed"
	PhasePending     Phase = "pending"
)

type Op string

const (
	OpLogin          Op = "login"
	OpRegister       Op = "register"
	OpFederated      Op = "federated"
	OpUpdate         Op = "update"
	OpChangePassword Op = "change-password"
)

// SessionState is what the CLI renders. Authenticated holds only while User
// is set and the latest server validation succeeded.
type SessionState struct {
	User          *models.User
	Authenticated bool
	Loading       bool
	Phase         Phase
	Pending       Op
}

// LoggedIn is the optimistic view: true for provisional and confirmed users.
func (s SessionState) LoggedIn() bool {
	return s.User != nil
}

// SessionManager owns the authenticated-user state.
//
// Read paths (Bootstrap, ValidateSession) never fail: any problem resolves to
// the unauthenticated state. Write paths return the server's message and
// leave state untouched on failure. Logout cannot fail.
type SessionManager interface {
	State() SessionState
	Subscribe(fn func(SessionState)) (cancel func())

	Bootstrap(ctx context.Context) SessionState
	ValidateSession(ctx context.Context) SessionState

	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password string) error
	FederatedLogin(ctx context.Context, idToken string) error
	Logout(ctx context.Context)
	UpdateProfile(ctx context.Context, name, email string) error
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error
}

type sessionManager struct {
	client       client.Client
	repo         metadata.Repository
	state        store.Slot[SessionState]
	transactions store.Slot[TransactionsState]
	logger       logging.Logger
}

func NewSessionManager(c client.Client, repo metadata.Repository, st *store.Store, logger logging.Logger) SessionManager {
	m := &sessionManager{
		client:       c,
		repo:         repo,
		state:        store.NewSlot[SessionState](st, store.KeyUser),
		transactions: store.NewSlot[TransactionsState](st, store.KeyTransactions),
		logger:       logger.With("component", "session"),
	}
	if _, ok := m.state.Get(); !ok {
		m.state.Set(SessionState{Phase: PhaseBootstrapping, Loading: true})
	}
	return m
}

func (m *sessionManager) State() SessionState {
	s, _ := m.state.Get()
	return s
}

func (m *sessionManager) Subscribe(fn func(SessionState)) func() {
	return m.state.Subscribe(func(s SessionState, _ bool) { fn(s) })
}

// Bootstrap paints the cached user first, then asks the server.
func (m *sessionManager) Bootstrap(ctx context.Context) SessionState {
	m.state.Set(SessionState{Phase: PhaseBootstrapping, Loading: true})

	var snap models.User
	found, err := metadata.GetJSON(ctx, m.repo, metadata.KeyUser, &snap)
	switch {
	case err != nil:
		m.logger.Warn(ctx, "dropping unreadable user snapshot", "error", err)
		m.removeSnapshot(ctx)
	case found:
		m.state.Set(SessionState{User: &snap, Phase: PhaseProvisional, Loading: true})
	}

	return m.ValidateSession(ctx)
}

func (m *sessionManager) ValidateSession(ctx context.Context) SessionState {
	u, err := m.client.CurrentUser(ctx)
	if err != nil {
		if !errors.Is(err, client.ErrUnauthorized) {
			m.logger.Warn(ctx, "session validation failed", "error", err)
		}
		m.removeSnapshot(ctx)
		s := SessionState{Phase: PhaseUnauthenticated}
		m.state.Set(s)
		return s
	}

	if err := metadata.SetJSON(ctx, m.repo, metadata.KeyUser, u); err != nil {
		m.logger.Warn(ctx, "failed to save user snapshot", "error", err)
	}
	s := SessionState{User: u, Authenticated: true, Phase: PhaseConfirmed}
	m.state.Set(s)
	return s
}

func (m *sessionManager) Login(ctx context.Context, email, password string) error {
	if err := required("email", email, "password", password); err != nil {
		return err
	}
	return m.signIn(ctx, OpLogin, func() error {
		return m.client.Login(ctx, strings.TrimSpace(email), password)
	})
}

func (m *sessionManager) Register(ctx context.Context, name, email, password string) error {
	if err := required("name", name, "email", email, "password", password); err != nil {
		return err
	}
	return m.signIn(ctx, OpRegister, func() error {
		return m.client.Register(ctx, strings.TrimSpace(name), strings.TrimSpace(email), password)
	})
}

// FederatedLogin trades a provider-issued identity token for a session.
func (m *sessionManager) FederatedLogin(ctx context.Context, idToken string) error {
	if err := required("identity token", idToken); err != nil {
		return err
	}
	return m.signIn(ctx, OpFederated, func() error {
		return m.client.ExchangeIdentityToken(ctx, strings.TrimSpace(idToken))
	})
}

func (m *sessionManager) signIn(ctx context.Context, op Op, call func() error) error {
	m.state.Set(SessionState{Phase: PhasePending, Pending: op, Loading: true})

	if err := call(); err != nil {
		m.removeSnapshot(ctx)
		m.state.Set(SessionState{Phase: PhaseUnauthenticated})
		return fmt.Errorf("%s: %w", op, err)
	}

	if s := m.ValidateSession(ctx); !s.Authenticated {
		return ErrSessionNotConfirmed
	}
	return nil
}

// Logout is client-authoritative: local state is gone before the server is
// told, and a failed server call changes nothing.
func (m *sessionManager) Logout(ctx context.Context) {
	m.removeSnapshot(ctx)
	m.state.Set(SessionState{Phase: PhaseUnauthenticated})
	m.transactions.Delete()

	if err := m.client.Logout(ctx); err != nil {
		m.logger.Warn(ctx, "server logout failed", "error", err)
	}
}

func (m *sessionManager) UpdateProfile(ctx context.Context, name, email string) error {
	if err := required("name", name, "email", email); err != nil {
		return err
	}
	return m.mutate(ctx, OpUpdate, func() error {
		return m.client.UpdateProfile(ctx, strings.TrimSpace(name), strings.TrimSpace(email))
	})
}

func (m *sessionManager) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	if err := required("current password", currentPassword, "new password", newPassword); err != nil {
		return err
	}
	return m.mutate(ctx, OpChangePassword, func() error {
		return m.client.ChangePassword(ctx, currentPassword, newPassword)
	})
}

// mutate runs an account change and re-reads the user from the server on
// success rather than patching the cached record.
func (m *sessionManager) mutate(ctx context.Context, op Op, call func() error) error {
	prev := m.State()
	pending := prev
	pending.Phase, pending.Pending = PhasePending, op
	m.state.Set(pending)

	if err := call(); err != nil {
		m.state.Set(prev)
		return fmt.Errorf("%s: %w", op, err)
	}
	m.ValidateSession(ctx)
	return nil
}

func (m *sessionManager) removeSnapshot(ctx context.Context) {
	if err := m.repo.Delete(ctx, metadata.KeyUser); err != nil {
		m.logger.Warn(ctx, "failed to remove user snapshot", "error", err)
	}
}

// required takes name/value pairs and rejects blank values.
func required(pairs ...string) error {
	var missing []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			missing = append(missing, pairs[i])
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s required", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}
