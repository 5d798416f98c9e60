// Package users declares the server-side repository contract for accounts.
package users

import (
	"context"

	"github.com/wealflow/wealflow/internal/server/models"
)

// Repository stores user accounts. Lookups return common.ErrorNotFound when
// no row matches; writes that would duplicate an email return
// common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id, name, email string) error
	SetPassword(ctx context.Context, id string, hash []byte) error
}
