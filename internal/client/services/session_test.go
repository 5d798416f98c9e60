package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wealflow/wealflow/internal/client/client"
	"github.com/wealflow/wealflow/internal/client/models"
	"github.com/wealflow/wealflow/internal/client/repositories/metadata"
	"github.com/wealflow/wealflow/internal/client/store"
	"github.com/wealflow/wealflow/internal/logging"
)

var ann = &models.User{ID: "u1", Name: "Ann", Email: "ann@example.com", Provider: "common"}

func newSession(t *testing.T, fc *fakeClient) (SessionManager, metadata.Repository, *store.Store) {
	t.Helper()
	repo := newRepo(t)
	st := store.New()
	return NewSessionManager(fc, repo, st, logging.Discard()), repo, st
}

func TestSession_InitialStateIsBootstrapping(t *testing.T) {
	m, _, _ := newSession(t, &fakeClient{})
	s := m.State()
	assert.Equal(t, PhaseBootstrapping, s.Phase)
	assert.True(t, s.Loading)
	assert.False(t, s.Authenticated)
}

func TestBootstrap_SnapshotIsProvisionalUntilConfirmed(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{user: &models.User{ID: "u1", Name: "Ann B", Email: "ann@example.com"}}
	m, repo, _ := newSession(t, fc)
	require.NoError(t, metadata.SetJSON(ctx, repo, metadata.KeyUser, ann))

	var seen []SessionState
	cancel := m.Subscribe(func(s SessionState) { seen = append(seen, s) })
	defer cancel()

	s := m.Bootstrap(ctx)

	require.Len(t, seen, 3)
	assert.Equal(t, PhaseBootstrapping, seen[0].Phase)
	assert.Equal(t, PhaseProvisional, seen[1].Phase)
	assert.Equal(t, "Ann", seen[1].User.Name)
	assert.True(t, seen[1].LoggedIn())
	assert.False(t, seen[1].Authenticated)

	assert.Equal(t, PhaseConfirmed, s.Phase)
	assert.True(t, s.Authenticated)
	assert.False(t, s.Loading)
	assert.Equal(t, "Ann B", s.User.Name)

	var snap models.User
	found, err := metadata.GetJSON(ctx, repo, metadata.KeyUser, &snap)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Ann B", snap.Name)
}

func TestBootstrap_SnapshotKeepsPicture(t *testing.T) {
	ctx := context.Background()
	bo := &models.User{ID: "u2", Name: "Bo", Email: "bo@example.com", Provider: "google", Picture: "https://example.com/bo.png"}
	m, repo, _ := newSession(t, &fakeClient{user: bo})
	require.NoError(t, metadata.SetJSON(ctx, repo, metadata.KeyUser, bo))

	var provisional *models.User
	m.Subscribe(func(s SessionState) {
		if s.Phase == PhaseProvisional {
			provisional = s.User
		}
	})

	s := m.Bootstrap(ctx)
	require.NotNil(t, provisional)
	assert.Equal(t, bo.Picture, provisional.Picture)
	assert.Equal(t, bo, s.User)

	var snap models.User
	found, err := metadata.GetJSON(ctx, repo, metadata.KeyUser, &snap)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, *bo, snap)
}

func TestValidateSession_Idempotent(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newSession(t, &fakeClient{user: ann})

	first := m.ValidateSession(ctx)
	second := m.ValidateSession(ctx)

	assert.True(t, first.Authenticated)
	assert.Equal(t, first.Authenticated, second.Authenticated)
	assert.Equal(t, first.Phase, second.Phase)
	assert.Equal(t, first.User, second.User)
	assert.Equal(t, second, m.State())
}

func TestBootstrap_ServerRejectsSnapshot(t *testing.T) {
	ctx := context.Background()
	m, repo, _ := newSession(t, &fakeClient{})
	require.NoError(t, metadata.SetJSON(ctx, repo, metadata.KeyUser, ann))

	s := m.Bootstrap(ctx)

	assert.Equal(t, PhaseUnauthenticated, s.Phase)
	assert.Nil(t, s.User)
	assert.False(t, s.Loading)

	raw, err := repo.Get(ctx, metadata.KeyUser)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestBootstrap_CorruptSnapshotIsRemoved(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{userErr: client.ErrUnavailable}
	m, repo, _ := newSession(t, fc)
	require.NoError(t, repo.Set(ctx, metadata.KeyUser, []byte("{not json")))

	var phases []Phase
	m.Subscribe(func(s SessionState) { phases = append(phases, s.Phase) })

	s := m.Bootstrap(ctx)
	assert.Equal(t, PhaseUnauthenticated, s.Phase)
	assert.NotContains(t, phases, PhaseProvisional)

	raw, err := repo.Get(ctx, metadata.KeyUser)
	require.NoError(t, err)
	assert.Nil(t, raw)
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name      string
		email     string
		password  string
		fc        *fakeClient
		wantErr   error
		wantPhase Phase
		wantCalls []string
	}{
		{
			name: "success", email: " ann@example.com ", password: "pw",
			fc:        &fakeClient{user: ann},
			wantPhase: PhaseConfirmed,
			wantCalls: []string{"login", "current"},
		},
		{
			name: "bad credentials", email: "ann@example.com", password: "nope",
			fc:        &fakeClient{loginErr: &client.APIError{Status: 401, Message: "invalid email or password"}},
			wantErr:   client.ErrUnauthorized,
			wantPhase: PhaseUnauthenticated,
			wantCalls: []string{"login"},
		},
		{
			name: "missing password", email: "ann@example.com",
			fc:        &fakeClient{},
			wantErr:   ErrValidation,
			wantPhase: PhaseBootstrapping,
		},
		{
			name: "session not confirmed", email: "ann@example.com", password: "pw",
			fc:        &fakeClient{userErr: client.ErrUnavailable},
			wantErr:   ErrSessionNotConfirmed,
			wantPhase: PhaseUnauthenticated,
			wantCalls: []string{"login", "current"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newSession(t, tt.fc)

			err := m.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "ann@example.com", tt.fc.gotEmail)
			}
			assert.Equal(t, tt.wantPhase, m.State().Phase)
			assert.Equal(t, tt.wantCalls, tt.fc.calls)
		})
	}
}

func TestLogin_ErrorCarriesServerMessage(t *testing.T) {
	fc := &fakeClient{loginErr: &client.APIError{Status: 401, Message: "invalid email or password"}}
	m, _, _ := newSession(t, fc)

	err := m.Login(context.Background(), "a@b.c", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email or password")
	assert.False(t, m.State().Loading)
}

func TestLogin_IsPendingWhileInFlight(t *testing.T) {
	fc := &fakeClient{user: ann}
	m, _, _ := newSession(t, fc)

	var pending *SessionState
	m.Subscribe(func(s SessionState) {
		if s.Phase == PhasePending && pending == nil {
			s := s
			pending = &s
		}
	})

	require.NoError(t, m.Login(context.Background(), "ann@example.com", "pw"))
	require.NotNil(t, pending)
	assert.Equal(t, OpLogin, pending.Pending)
	assert.True(t, pending.Loading)
}

func TestRegister(t *testing.T) {
	fc := &fakeClient{user: ann}
	m, _, _ := newSession(t, fc)

	require.NoError(t, m.Register(context.Background(), " Ann ", "ann@example.com", "pw"))
	assert.Equal(t, "Ann", fc.gotName)
	assert.True(t, m.State().Authenticated)

	err := m.Register(context.Background(), "", "ann@example.com", "pw")
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "name")
}

func TestRegister_EmailTaken(t *testing.T) {
	fc := &fakeClient{registerErr: &client.APIError{Status: 400, Message: "User with this email already exists"}}
	m, _, _ := newSession(t, fc)

	err := m.Register(context.Background(), "Ann", "ann@example.com", "pw")
	require.ErrorIs(t, err, client.ErrBadRequest)
	assert.Contains(t, err.Error(), "already exists")
	assert.Equal(t, PhaseUnauthenticated, m.State().Phase)
}

func TestFederatedLogin(t *testing.T) {
	fc := &fakeClient{user: &models.User{ID: "u2", Name: "Bob", Email: "bob@example.com", Provider: "google"}}
	m, _, _ := newSession(t, fc)

	require.ErrorIs(t, m.FederatedLogin(context.Background(), "  "), ErrValidation)
	assert.Empty(t, fc.calls)

	require.NoError(t, m.FederatedLogin(context.Background(), "id-token"))
	assert.Equal(t, "id-token", fc.gotToken)
	assert.Equal(t, "google", m.State().User.Provider)
}

func TestLogout_ClearsLocalStateEvenWhenServerFails(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{user: ann, logoutErr: errors.New("boom")}
	m, repo, st := newSession(t, fc)
	require.NoError(t, m.Login(ctx, "ann@example.com", "pw"))

	txs := store.NewSlot[TransactionsState](st, store.KeyTransactions)
	txs.Set(TransactionsState{Items: []models.Transaction{{ID: "t1"}}, Loaded: true})

	m.Logout(ctx)

	s := m.State()
	assert.Nil(t, s.User)
	assert.False(t, s.Authenticated)
	assert.False(t, s.Loading)

	_, ok := txs.Get()
	assert.False(t, ok)

	raw, err := repo.Get(ctx, metadata.KeyUser)
	require.NoError(t, err)
	assert.Nil(t, raw)
	assert.Equal(t, "logout", fc.calls[len(fc.calls)-1])
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{user: ann}
	m, _, _ := newSession(t, fc)
	require.NoError(t, m.Login(ctx, "ann@example.com", "pw"))

	fc.user = &models.User{ID: "u1", Name: "Ann Lee", Email: "lee@example.com"}
	require.NoError(t, m.UpdateProfile(ctx, "Ann Lee", "lee@example.com"))
	assert.Equal(t, "Ann Lee", m.State().User.Name)
	assert.Equal(t, PhaseConfirmed, m.State().Phase)
}

func TestUpdateProfile_FailureKeepsState(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{user: ann}
	m, _, _ := newSession(t, fc)
	require.NoError(t, m.Login(ctx, "ann@example.com", "pw"))
	before := m.State()

	fc.updateErr = &client.APIError{Status: 409, Message: "email already in use"}
	err := m.UpdateProfile(ctx, "Ann", "taken@example.com")
	require.ErrorIs(t, err, client.ErrConflict)
	assert.Contains(t, err.Error(), "email already in use")
	assert.Equal(t, before, m.State())

	require.ErrorIs(t, m.UpdateProfile(ctx, "Ann", ""), ErrValidation)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	fc := &fakeClient{user: ann}
	m, _, _ := newSession(t, fc)
	require.NoError(t, m.Login(ctx, "ann@example.com", "pw"))

	require.NoError(t, m.ChangePassword(ctx, "pw", "pw2"))
	assert.Equal(t, "pw->pw2", fc.gotPassword)

	fc.passwordErr = &client.APIError{Status: 400, Message: "Current password is incorrect"}
	err := m.ChangePassword(ctx, "bad", "pw3")
	require.ErrorIs(t, err, client.ErrBadRequest)
	assert.True(t, m.State().Authenticated)

	require.ErrorIs(t, m.ChangePassword(ctx, "pw", ""), ErrValidation)
}
