package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wealflow/wealflow/internal/common"
	"github.com/wealflow/wealflow/internal/logging"
	"github.com/wealflow/wealflow/internal/server/auth"
	"github.com/wealflow/wealflow/internal/server/models"
	"github.com/wealflow/wealflow/internal/server/services"
)

const testSecret = "secret"

var ann = &models.User{ID: "u1", Name: "Ann", Email: "ann@example.com", Provider: common.ProviderPassword}

type fakeUsers struct {
	user *models.User
	pair *services.TokenPair
	err  error

	gotArgs []string
	calls   []string
}

func (f *fakeUsers) record(call string, args ...string) {
	f.calls = append(f.calls, call)
	f.gotArgs = args
}

func (f *fakeUsers) session() (*models.User, *services.TokenPair, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.user, f.pair, nil
}

func (f *fakeUsers) Register(ctx context.Context, name, email, password string) (*models.User, *services.TokenPair, error) {
	f.record("register", name, email, password)
	return f.session()
}

func (f *fakeUsers) Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error) {
	f.record("login", email, password)
	return f.session()
}

func (f *fakeUsers) FederatedLogin(ctx context.Context, idToken string) (*models.User, *services.TokenPair, error) {
	f.record("google", idToken)
	return f.session()
}

func (f *fakeUsers) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	f.record("current", userID)
	return f.user, f.err
}

func (f *fakeUsers) RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error) {
	f.record("refresh", refreshToken)
	return f.pair, f.err
}

func (f *fakeUsers) Logout(ctx context.Context, refreshToken string) error {
	f.record("logout", refreshToken)
	return f.err
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, userID, name, email string) (*models.User, error) {
	f.record("update", userID, name, email)
	return f.user, f.err
}

func (f *fakeUsers) ChangePassword(ctx context.Context, userID, current, next string) error {
	f.record("passwd", userID, current, next)
	return f.err
}

type fakeTransactions struct {
	items []models.Transaction
	err   error

	gotUser   string
	gotID     string
	gotInput  services.TransactionInput
	gotFields map[string]any
}

func (f *fakeTransactions) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	f.gotUser = userID
	return f.items, f.err
}

func (f *fakeTransactions) Create(ctx context.Context, userID string, in services.TransactionInput) (*models.Transaction, error) {
	f.gotUser, f.gotInput = userID, in
	if f.err != nil {
		return nil, f.err
	}
	tx := models.Transaction{ID: "t-new", UserID: userID, Description: in.Description, Category: in.Category, Amount: in.Amount, Type: in.Type}
	if in.Date != nil {
		tx.Date = *in.Date
	}
	return &tx, nil
}

func (f *fakeTransactions) Update(ctx context.Context, userID, id string, fields map[string]any) error {
	f.gotUser, f.gotID, f.gotFields = userID, id, fields
	return f.err
}

func (f *fakeTransactions) Delete(ctx context.Context, userID, id string) error {
	f.gotUser, f.gotID = userID, id
	return f.err
}

type fakeExports struct {
	url string
	err error
}

func (f *fakeExports) Export(ctx context.Context, userID string) (string, error) {
	return f.url, f.err
}

type testServer struct {
	*Server
	users   *fakeUsers
	txs     *fakeTransactions
	exports *fakeExports
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		users:   &fakeUsers{user: ann, pair: &services.TokenPair{AccessToken: "access", RefreshToken: "refresh"}},
		txs:     &fakeTransactions{},
		exports: &fakeExports{},
	}
	ts.Server = NewServer(Options{
		Address:        "127.0.0.1:0",
		JWTSecret:      testSecret,
		FrontendOrigin: "http://localhost:5173",
		Cookies:        CookieOptions{AccessTTL: 15 * time.Minute, RefreshTTL: time.Hour},
	}, logging.Discard(), ts.users, ts.txs, ts.exports)
	return ts
}

// do sends a request through the full handler chain. A non-empty userID
// attaches a valid access token cookie.
func (ts *testServer) do(t *testing.T, method, path, body, userID string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if userID != "" {
		tok, err := auth.GenerateToken(userID, []byte(testSecret), time.Minute)
		require.NoError(t, err)
		req.AddCookie(&http.Cookie{Name: common.AccessTokenCookieName, Value: tok})
	}
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func cookiesByName(rec *httptest.ResponseRecorder) map[string]*http.Cookie {
	out := map[string]*http.Cookie{}
	for _, c := range rec.Result().Cookies() {
		out[c.Name] = c
	}
	return out
}

func (ts *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}
