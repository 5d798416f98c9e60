package services

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/wealflow/wealflow/internal/client/client"
	"github.com/wealflow/wealflow/internal/client/models"
	"github.com/wealflow/wealflow/internal/client/store"
	"github.com/wealflow/wealflow/internal/logging"
)

// TransactionsState is the cached transaction list. Items are newest first
// as returned by the server, with local creations prepended. Err is set
// when the last List call failed; Items then still hold the previous list.
type TransactionsState struct {
	Items  []models.Transaction
	Err    error
	Loaded bool
}

// TransactionSynchronizer keeps the cached list in step with the server.
// Every failure leaves the cached items untouched.
type TransactionSynchronizer interface {
	List(ctx context.Context) ([]models.Transaction, error)
	Create(ctx context.Context, tx models.NewTransaction) (*models.Transaction, error)
	Update(ctx context.Context, tx models.Transaction) error
	Delete(ctx context.Context, id string) error

	Items() []models.Transaction
	State() TransactionsState
	Subscribe(fn func(TransactionsState)) (cancel func())
}

type transactionSynchronizer struct {
	client client.Client
	cache  store.Slot[TransactionsState]
	logger logging.Logger
}

func NewTransactionSynchronizer(c client.Client, st *store.Store, logger logging.Logger) TransactionSynchronizer {
	return &transactionSynchronizer{
		client: c,
		cache:  store.NewSlot[TransactionsState](st, store.KeyTransactions),
		logger: logger.With("component", "transactions"),
	}
}

func (s *transactionSynchronizer) State() TransactionsState {
	st, _ := s.cache.Get()
	return st
}

// Items returns a copy of the cached list.
func (s *transactionSynchronizer) Items() []models.Transaction {
	return slices.Clone(s.State().Items)
}

func (s *transactionSynchronizer) Subscribe(fn func(TransactionsState)) func() {
	return s.cache.Subscribe(func(st TransactionsState, _ bool) { fn(st) })
}

func (s *transactionSynchronizer) List(ctx context.Context) ([]models.Transaction, error) {
	items, err := s.client.ListTransactions(ctx)
	if err != nil {
		s.cache.Update(func(cur TransactionsState) TransactionsState {
			cur.Err = err
			return cur
		})
		s.logger.Warn(ctx, "failed to load transactions", "error", err)
		return []models.Transaction{}, err
	}

	s.cache.Set(TransactionsState{Items: items, Loaded: true})
	return slices.Clone(items), nil
}

func (s *transactionSynchronizer) Create(ctx context.Context, tx models.NewTransaction) (*models.Transaction, error) {
	tx = trimNew(tx)
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	created, err := s.client.CreateTransaction(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("create transaction: %w", err)
	}

	s.cache.Update(func(cur TransactionsState) TransactionsState {
		items := make([]models.Transaction, 0, len(cur.Items)+1)
		items = append(items, *created)
		cur.Items = append(items, cur.Items...)
		return cur
	})
	return created, nil
}

// Update sends the edit and, on success, stores the submitted record in
// place of the cached one with the same id. The server does not echo the
// stored record back.
func (s *transactionSynchronizer) Update(ctx context.Context, tx models.Transaction) error {
	tx = trimNew(tx.Fields()).WithID(strings.TrimSpace(tx.ID))
	if err := tx.Validate(); err != nil {
		return err
	}

	if err := s.client.UpdateTransaction(ctx, tx); err != nil {
		return fmt.Errorf("update transaction %s: %w", tx.ID, err)
	}

	s.cache.Update(func(cur TransactionsState) TransactionsState {
		items := slices.Clone(cur.Items)
		for i := range items {
			if items[i].ID == tx.ID {
				items[i] = tx
			}
		}
		cur.Items = items
		return cur
	})
	return nil
}

func (s *transactionSynchronizer) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("%w: id required", models.ErrInvalidTransaction)
	}

	if err := s.client.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}

	s.cache.Update(func(cur TransactionsState) TransactionsState {
		cur.Items = slices.DeleteFunc(slices.Clone(cur.Items), func(t models.Transaction) bool {
			return t.ID == id
		})
		return cur
	})
	return nil
}

func trimNew(tx models.NewTransaction) models.NewTransaction {
	tx.Description = strings.TrimSpace(tx.Description)
	tx.Category = strings.TrimSpace(tx.Category)
	return tx
}
