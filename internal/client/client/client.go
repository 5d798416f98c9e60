package client

import (
	"context"

	"github.com/wealflow/wealflow/internal/client/models"
)

// Client is the WealFlow API surface used by the client services.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	CurrentUser(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, email, password string) error
	Register(ctx context.Context, name, email, password string) error
	ExchangeIdentityToken(ctx context.Context, idToken string) error
	Logout(ctx context.Context) error
	UpdateProfile(ctx context.Context, name, email string) error
	ChangePassword(ctx context.Context, currentPassword, newPassword string) error

	ListTransactions(ctx context.Context) ([]models.Transaction, error)
	CreateTransaction(ctx context.Context, tx models.NewTransaction) (*models.Transaction, error)
	UpdateTransaction(ctx context.Context, tx models.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	ExportTransactions(ctx context.Context) (string, error)
}
