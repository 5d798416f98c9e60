package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/wealflow/wealflow/internal/common"
	"github.com/wealflow/wealflow/internal/dbx"
	"github.com/wealflow/wealflow/internal/server/auth"
	"github.com/wealflow/wealflow/internal/server/config"
	"github.com/wealflow/wealflow/internal/server/models"
	refreshtokensrepo "github.com/wealflow/wealflow/internal/server/repositories/refreshtokens"
	transactionsrepo "github.com/wealflow/wealflow/internal/server/repositories/transactions"
	usersrepo "github.com/wealflow/wealflow/internal/server/repositories/users"
)

var errBoom = errors.New("boom")

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakeUsersRepo keeps users by id in memory.
type fakeUsersRepo struct {
	byID map[string]*models.User
	err  error
}

func newFakeUsers(users ...*models.User) *fakeUsersRepo {
	f := &fakeUsersRepo{byID: map[string]*models.User{}}
	for _, u := range users {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	if u.ID == "" {
		u.ID = "new-user"
	}
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) UpdateProfile(ctx context.Context, id, name, email string) error {
	for oid, u := range f.byID {
		if oid != id && u.Email == email {
			return common.ErrorAlreadyExists
		}
	}
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.Name, u.Email = name, email
	return nil
}

func (f *fakeUsersRepo) SetPassword(ctx context.Context, id string, hash []byte) error {
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	u.PasswordHash = hash
	return nil
}

type fakeRefreshRepo struct {
	tokens    map[string]*models.RefreshToken
	findErr   error
	delErr    error
	createErr error
	deleted   []string
}

func newFakeRefresh() *fakeRefreshRepo {
	return &fakeRefreshRepo{tokens: map[string]*models.RefreshToken{}}
}

func (f *fakeRefreshRepo) Create(ctx context.Context, userID, token string, validity time.Duration) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.tokens[token] = &models.RefreshToken{UserID: userID, Token: token, Expires: time.Now().Add(validity)}
	return nil
}

func (f *fakeRefreshRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	t, ok := f.tokens[token]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f *fakeRefreshRepo) Delete(ctx context.Context, token string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.deleted = append(f.deleted, token)
	if _, ok := f.tokens[token]; !ok {
		return common.ErrorNotFound
	}
	delete(f.tokens, token)
	return nil
}

func (f *fakeRefreshRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	var n int64
	for k, t := range f.tokens {
		if t.Expires.Before(now) {
			delete(f.tokens, k)
			n++
		}
	}
	return n, nil
}

type fakeTxRepo struct {
	items []models.Transaction
	err   error

	gotPatch models.TransactionPatch
}

func (f *fakeTxRepo) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := []models.Transaction{}
	for _, tx := range f.items {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeTxRepo) Create(ctx context.Context, tx *models.Transaction) error {
	if f.err != nil {
		return f.err
	}
	tx.ID = "11111111-1111-1111-1111-111111111111"
	f.items = append(f.items, *tx)
	return nil
}

func (f *fakeTxRepo) Update(ctx context.Context, userID, id string, patch models.TransactionPatch) error {
	if f.err != nil {
		return f.err
	}
	f.gotPatch = patch
	for _, tx := range f.items {
		if tx.ID == id && tx.UserID == userID {
			return nil
		}
	}
	return common.ErrorNotFound
}

func (f *fakeTxRepo) Delete(ctx context.Context, userID, id string) error {
	if f.err != nil {
		return f.err
	}
	for i, tx := range f.items {
		if tx.ID == id && tx.UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return common.ErrorNotFound
}

type fakeRepoManager struct {
	u  *fakeUsersRepo
	r  *fakeRefreshRepo
	tx *fakeTxRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error        { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) usersrepo.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokensrepo.Repository { return m.r }
func (m *fakeRepoManager) Transactions(dbx.DBTX) transactionsrepo.Repository   { return m.tx }

type fakeVerifier struct {
	id  *auth.Identity
	err error
}

func (f *fakeVerifier) Verify(ctx context.Context, token string) (*auth.Identity, error) {
	return f.id, f.err
}

func newUserService(t *testing.T, db *sql.DB, rm *fakeRepoManager, v auth.IdentityVerifier) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
	}
	return NewUserService(db, rm, v, cfg)
}

func passwordUser(t *testing.T, id, email, password string) *models.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &models.User{ID: id, Name: "Ann", Email: email, PasswordHash: hash, Provider: common.ProviderPassword}
}
