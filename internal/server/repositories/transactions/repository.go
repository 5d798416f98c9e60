// Package transactions declares the server-side repository contract for
// income and expense records. Every operation is scoped to one owner.
package transactions

import (
	"context"

	"github.com/wealflow/wealflow/internal/server/models"
)

type Repository interface {
	// ListByUser returns userID's records, newest date first.
	ListByUser(ctx context.Context, userID string) ([]models.Transaction, error)

	// Create inserts tx, assigning an id when it has none.
	Create(ctx context.Context, tx *models.Transaction) error

	// Update applies patch to the record id owned by userID and returns
	// common.ErrorNotFound when there is no such record.
	Update(ctx context.Context, userID, id string, patch models.TransactionPatch) error

	// Delete removes the record id owned by userID and returns
	// common.ErrorNotFound when there is no such record.
	Delete(ctx context.Context, userID, id string) error
}
