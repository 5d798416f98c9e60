package cli

import (
	"bufio"
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/wealflow/wealflow/internal/client/client"
	"github.com/wealflow/wealflow/internal/client/config"
	"github.com/wealflow/wealflow/internal/client/models"
	"github.com/wealflow/wealflow/internal/client/services"
	"github.com/wealflow/wealflow/internal/logging"
)

type fakeSessions struct {
	state services.SessionState
	user  *models.User

	err     error
	gotArgs []string
	calls   []string
}

var _ services.SessionManager = (*fakeSessions)(nil)

func (f *fakeSessions) signIn(call string, args ...string) error {
	f.calls = append(f.calls, call)
	f.gotArgs = args
	if f.err != nil {
		f.state = services.SessionState{Phase: services.PhaseUnauthenticated}
		return f.err
	}
	f.state = services.SessionState{User: f.user, Authenticated: true, Phase: services.PhaseConfirmed}
	return nil
}

func (f *fakeSessions) State() services.SessionState { return f.state }
func (f *fakeSessions) Subscribe(fn func(services.SessionState)) func() {
	return func() {}
}
func (f *fakeSessions) Bootstrap(ctx context.Context) services.SessionState {
	f.calls = append(f.calls, "bootstrap")
	return f.state
}
func (f *fakeSessions) ValidateSession(ctx context.Context) services.SessionState {
	f.calls = append(f.calls, "validate")
	return f.state
}
func (f *fakeSessions) Login(ctx context.Context, email, password string) error {
	return f.signIn("login", email, password)
}
func (f *fakeSessions) Register(ctx context.Context, name, email, password string) error {
	return f.signIn("register", name, email, password)
}
func (f *fakeSessions) FederatedLogin(ctx context.Context, idToken string) error {
	return f.signIn("google", idToken)
}
func (f *fakeSessions) Logout(ctx context.Context) {
	f.calls = append(f.calls, "logout")
	f.state = services.SessionState{Phase: services.PhaseUnauthenticated}
}
func (f *fakeSessions) UpdateProfile(ctx context.Context, name, email string) error {
	f.calls = append(f.calls, "update")
	f.gotArgs = []string{name, email}
	return f.err
}
func (f *fakeSessions) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	f.calls = append(f.calls, "passwd")
	f.gotArgs = []string{currentPassword, newPassword}
	return f.err
}

type fakeTxs struct {
	items   []models.Transaction
	listErr error
	err     error

	gotNew    models.NewTransaction
	gotUpdate models.Transaction
	gotDelete string
	calls     []string
}

var _ services.TransactionSynchronizer = (*fakeTxs)(nil)

func (f *fakeTxs) List(ctx context.Context) ([]models.Transaction, error) {
	f.calls = append(f.calls, "list")
	if f.listErr != nil {
		return []models.Transaction{}, f.listErr
	}
	return slices.Clone(f.items), nil
}
func (f *fakeTxs) Create(ctx context.Context, tx models.NewTransaction) (*models.Transaction, error) {
	f.calls = append(f.calls, "create")
	f.gotNew = tx
	if f.err != nil {
		return nil, f.err
	}
	created := tx.WithID("new-id")
	f.items = append([]models.Transaction{created}, f.items...)
	return &created, nil
}
func (f *fakeTxs) Update(ctx context.Context, tx models.Transaction) error {
	f.calls = append(f.calls, "update")
	f.gotUpdate = tx
	return f.err
}
func (f *fakeTxs) Delete(ctx context.Context, id string) error {
	f.calls = append(f.calls, "delete")
	f.gotDelete = id
	return f.err
}
func (f *fakeTxs) Items() []models.Transaction       { return slices.Clone(f.items) }
func (f *fakeTxs) State() services.TransactionsState { return services.TransactionsState{Items: f.items} }
func (f *fakeTxs) Subscribe(fn func(services.TransactionsState)) func() {
	return func() {}
}

type fakePrefs struct {
	theme   services.Theme
	visited bool
}

func (f *fakePrefs) Theme(ctx context.Context) (services.Theme, error) {
	if f.theme == "" {
		return services.DefaultTheme, nil
	}
	return f.theme, nil
}
func (f *fakePrefs) SetTheme(ctx context.Context, t services.Theme) error {
	switch t {
	case services.ThemeSystem:
		f.theme = ""
	case services.ThemeLight, services.ThemeDark:
		f.theme = t
	default:
		return services.ErrValidation
	}
	return nil
}
func (f *fakePrefs) FirstVisit(ctx context.Context) (bool, error) { return !f.visited, nil }
func (f *fakePrefs) MarkVisited(ctx context.Context) error {
	f.visited = true
	return nil
}

// fakeAPI implements only what the CLI calls directly.
type fakeAPI struct {
	client.Client
	exportURL string
	exportErr error
}

func (f *fakeAPI) ExportTransactions(ctx context.Context) (string, error) {
	return f.exportURL, f.exportErr
}
func (f *fakeAPI) Close() error { return nil }

type testApp struct {
	*App
	out      *bytes.Buffer
	sessions *fakeSessions
	txs      *fakeTxs
	prefs    *fakePrefs
	api      *fakeAPI
}

var testNow = time.Date(2024, time.June, 28, 12, 0, 0, 0, time.UTC)

var annUser = &models.User{ID: "u1", Name: "Ann", Email: "ann@example.com", Provider: "common"}

func newTestApp(t *testing.T, input ...string) *testApp {
	t.Helper()
	capturePrintln(t)

	out := &bytes.Buffer{}
	ta := &testApp{
		out:      out,
		sessions: &fakeSessions{user: annUser},
		txs:      &fakeTxs{},
		prefs:    &fakePrefs{},
		api:      &fakeAPI{},
	}
	ta.App = &App{
		config:   &config.Config{Currency: "USD"},
		api:      ta.api,
		sessions: ta.sessions,
		txs:      ta.txs,
		prefs:    ta.prefs,
		logger:   logging.Discard(),
		reader:   bufio.NewReader(strings.NewReader(strings.Join(input, "\n") + "\n")),
		out:      out,
		styles:   newStyles(out, services.ThemeLight),
		now:      func() time.Time { return testNow },
	}
	return ta
}

func (ta *testApp) signIn() *testApp {
	ta.sessions.state = services.SessionState{User: annUser, Authenticated: true, Phase: services.PhaseConfirmed}
	return ta
}

func date(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	if err != nil {
		t.Fatal(err)
	}
	return d
}
