package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wealflow/wealflow/internal/client/client"
	"github.com/wealflow/wealflow/internal/client/models"
	"github.com/wealflow/wealflow/internal/client/repositories/metadata"
)

type fakeClient struct {
	user    *models.User
	userErr error

	loginErr, registerErr, federatedErr, logoutErr error
	updateErr, passwordErr                         error

	listOut   []models.Transaction
	listErr   error
	createOut *models.Transaction
	createErr error
	updTxErr  error
	deleteErr error

	gotEmail, gotPassword, gotName, gotToken string
	gotNew                                   models.NewTransaction
	gotTx                                    models.Transaction
	gotDeleteID                              string
	calls                                    []string
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeClient) Close() error { return nil }
func (f *fakeClient) Ping(ctx context.Context) error { return nil }

func (f *fakeClient) CurrentUser(ctx context.Context) (*models.User, error) {
	f.record("current")
	if f.userErr != nil {
		return nil, f.userErr
	}
	if f.user == nil {
		return nil, &client.APIError{Status: 401, Message: "not signed in"}
	}
	u := *f.user
	return &u, nil
}

func (f *fakeClient) Login(ctx context.Context, email, password string) error {
	f.record("login")
	f.gotEmail, f.gotPassword = email, password
	return f.loginErr
}

func (f *fakeClient) Register(ctx context.Context, name, email, password string) error {
	f.record("register")
	f.gotName, f.gotEmail, f.gotPassword = name, email, password
	return f.registerErr
}

func (f *fakeClient) ExchangeIdentityToken(ctx context.Context, idToken string) error {
	f.record("google")
	f.gotToken = idToken
	return f.federatedErr
}

func (f *fakeClient) Logout(ctx context.Context) error {
	f.record("logout")
	return f.logoutErr
}

func (f *fakeClient) UpdateProfile(ctx context.Context, name, email string) error {
	f.record("update")
	f.gotName, f.gotEmail = name, email
	return f.updateErr
}

func (f *fakeClient) ChangePassword(ctx context.Context, currentPassword, newPassword string) error {
	f.record("password")
	f.gotPassword = currentPassword + "->" + newPassword
	return f.passwordErr
}

func (f *fakeClient) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	f.record("list")
	return f.listOut, f.listErr
}

func (f *fakeClient) CreateTransaction(ctx context.Context, tx models.NewTransaction) (*models.Transaction, error) {
	f.record("create")
	f.gotNew = tx
	return f.createOut, f.createErr
}

func (f *fakeClient) UpdateTransaction(ctx context.Context, tx models.Transaction) error {
	f.record("update-tx")
	f.gotTx = tx
	return f.updTxErr
}

func (f *fakeClient) DeleteTransaction(ctx context.Context, id string) error {
	f.record("delete")
	f.gotDeleteID = id
	return f.deleteErr
}

func (f *fakeClient) ExportTransactions(ctx context.Context) (string, error) {
	f.record("export")
	return "", nil
}

func newRepo(t *testing.T) metadata.Repository {
	t.Helper()
	db, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return metadata.NewSQLiteRepository(db)
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}
