package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/wealflow/wealflow/internal/common"
	"github.com/wealflow/wealflow/internal/dbx"
	"github.com/wealflow/wealflow/internal/server/auth"
	"github.com/wealflow/wealflow/internal/server/config"
	"github.com/wealflow/wealflow/internal/server/models"
	"github.com/wealflow/wealflow/internal/server/repositories/repomanager"
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type UserService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	verifier                     auth.IdentityVerifier
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	now                          func() time.Time
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, verifier auth.IdentityVerifier, cfg *config.Config) *UserService {
	return &UserService{
		db:                           db,
		repomanager:                  m,
		verifier:                     verifier,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		now:                          time.Now,
	}
}

// Register creates a password account and signs it in.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, *TokenPair, error) {
	name = strings.TrimSpace(name)
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, err
	}
	if name == "" || password == "" {
		return nil, nil, newError(common.ErrorValidation, "name, email and password are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Provider:     common.ProviderPassword,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, nil, errEmailTaken
		}
		return nil, nil, fmt.Errorf("error creating user: %w", err)
	}

	pair, err := s.generateTokenPair(ctx, s.db, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Login checks a password account's credentials. Unknown emails, federated
// accounts and wrong passwords are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, errBadCredentials
		}
		return nil, nil, fmt.Errorf("error loading user: %w", err)
	}

	if user.Provider != common.ProviderPassword || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil, errBadCredentials
	}

	pair, err := s.generateTokenPair(ctx, s.db, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// FederatedLogin verifies a Google ID token and signs in the account with
// that email, creating a Google account on first use.
func (s *UserService) FederatedLogin(ctx context.Context, idToken string) (*models.User, *TokenPair, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, nil, newError(common.ErrorValidation, "Token is required")
	}

	id, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		if errors.Is(err, auth.ErrFederationDisabled) {
			return nil, nil, err
		}
		return nil, nil, newError(common.ErrorUnauthorized, "Invalid token")
	}

	email := strings.ToLower(id.Email)
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		user, err = repo.Create(ctx, &models.User{
			Name:     id.Name,
			Email:    email,
			Provider: common.ProviderGoogle,
			Picture:  id.Picture,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("error creating user: %w", err)
		}
	case err != nil:
		return nil, nil, fmt.Errorf("error loading user: %w", err)
	}

	pair, err := s.generateTokenPair(ctx, s.db, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// CurrentUser resolves an access token to its account.
func (s *UserService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errNoSession
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	return user, nil
}

// RefreshToken rotates a refresh token: the old one is revoked and a new
// pair is issued in the same database transaction.
func (s *UserService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, errNoSession
	}

	token, err := s.repomanager.RefreshTokens(s.db).Find(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, errNoSession
		}
		return nil, fmt.Errorf("error searching refresh token: %w", err)
	}

	if token.Expires.Before(s.now()) {
		return nil, newError(common.ErrRefreshTokenExpired, "session expired")
	}

	var tokenPair *TokenPair

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.RefreshTokens(tx).Delete(ctx, refreshToken); err != nil {
			// already rotated by a concurrent request
			if errors.Is(err, common.ErrorNotFound) {
				return errNoSession
			}
			return fmt.Errorf("error deleting refresh token: %w", err)
		}

		pair, err := s.generateTokenPair(ctx, tx, token.UserID)
		if err != nil {
			return fmt.Errorf("error generating token pair: %w", err)
		}
		tokenPair = pair
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tokenPair, nil
}

// Logout revokes refreshToken. Unknown tokens are not an error.
func (s *UserService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	err := s.repomanager.RefreshTokens(s.db).Delete(ctx, refreshToken)
	if errors.Is(err, common.ErrorNotFound) {
		return nil
	}
	return err
}

// UpdateProfile changes name and email; empty values keep the current ones.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name, email string) (*models.User, error) {
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name = strings.TrimSpace(name); name != "" {
		user.Name = name
	}
	if strings.TrimSpace(email) != "" {
		if user.Email, err = normalizeEmail(email); err != nil {
			return nil, err
		}
	}

	if err := s.repomanager.Users(s.db).UpdateProfile(ctx, userID, user.Name, user.Email); err != nil {
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			return nil, newError(common.ErrorAlreadyExists, "email is already in use")
		case errors.Is(err, common.ErrorNotFound):
			return nil, errNoSession
		}
		return nil, fmt.Errorf("error updating user: %w", err)
	}
	return user, nil
}

// ChangePassword replaces the password of a password account after
// checking the current one.
func (s *UserService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if next == "" {
		return newError(common.ErrorValidation, "new password is required")
	}

	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return err
	}
	if user.Provider != common.ProviderPassword {
		return newError(common.ErrorValidation, "Password cannot be changed for this account")
	}
	if !auth.CheckPassword(user.PasswordHash, current) {
		return newError(common.ErrorValidation, "Current password is incorrect")
	}

	hash, err := auth.HashPassword(next)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.repomanager.Users(s.db).SetPassword(ctx, userID, hash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}
	return nil
}

// SweepRefreshTokens deletes expired refresh tokens.
func (s *UserService) SweepRefreshTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.now())
}

func (s *UserService) generateTokenPair(ctx context.Context, db dbx.DBTX, userID string) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}

	refreshToken, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}

	if err := s.repomanager.RefreshTokens(db).Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", newError(common.ErrorValidation, "email is required")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", newError(common.ErrorValidation, "email is not valid")
	}
	return email, nil
}
