// Package services holds the server's business rules: accounts and sessions,
// transaction ownership and validation, and CSV export.
package services

import (
	"errors"

	"github.com/wealflow/wealflow/internal/common"
)

// ErrExportDisabled is returned when no object storage is configured.
var ErrExportDisabled = errors.New("export storage is not configured")

// Error pairs one of the common sentinels with a message fit for API
// clients. errors.Is matches the sentinel.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

var (
	errBadCredentials = newError(common.ErrorUnauthorized, "invalid email or password")
	errEmailTaken     = newError(common.ErrorAlreadyExists, "email is already registered")
	errNoSession      = newError(common.ErrorUnauthorized, "no valid session")
	errTxNotFound     = newError(common.ErrorNotFound, "Transaction not found")
)
