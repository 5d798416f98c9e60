package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wealflow/wealflow/internal/common"
	"github.com/wealflow/wealflow/internal/server/models"
	"github.com/wealflow/wealflow/internal/server/repositories/repomanager"
)

// TransactionInput is the body of a create request. A nil Date means now.
type TransactionInput struct {
	Description string
	Category    string
	Amount      float64
	Date        *time.Time
	Type        bool
}

type TransactionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewTransactionService(db *sql.DB, m repomanager.RepositoryManager) *TransactionService {
	return &TransactionService{db: db, repomanager: m, now: time.Now}
}

// List returns userID's transactions, newest date first.
func (s *TransactionService) List(ctx context.Context, userID string) ([]models.Transaction, error) {
	txs, err := s.repomanager.Transactions(s.db).ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing transactions: %w", err)
	}
	return txs, nil
}

func (s *TransactionService) Create(ctx context.Context, userID string, in TransactionInput) (*models.Transaction, error) {
	tx := &models.Transaction{
		UserID:      userID,
		Description: strings.TrimSpace(in.Description),
		Category:    strings.TrimSpace(in.Category),
		Amount:      in.Amount,
		Type:        in.Type,
	}
	if tx.Description == "" {
		return nil, newError(common.ErrorValidation, "Field 'description' is required")
	}
	if tx.Category == "" {
		return nil, newError(common.ErrorValidation, "Field 'category' is required")
	}
	if !(tx.Amount > 0) || math.IsInf(tx.Amount, 0) {
		return nil, newError(common.ErrorValidation, "Field 'amount' must be greater than zero")
	}
	if in.Date == nil || in.Date.IsZero() {
		tx.Date = s.now().UTC()
	} else {
		tx.Date = in.Date.UTC()
	}

	if err := s.repomanager.Transactions(s.db).Create(ctx, tx); err != nil {
		return nil, fmt.Errorf("error creating transaction: %w", err)
	}
	return tx, nil
}

// Update applies a partial update given as a decoded JSON object. id and
// user_id keys are ignored, unknown keys are ignored, the date must be an
// RFC 3339 string.
func (s *TransactionService) Update(ctx context.Context, userID, id string, fields map[string]any) error {
	if err := checkID(id); err != nil {
		return err
	}

	patch, err := parsePatch(fields)
	if err != nil {
		return err
	}
	if patch.Empty() {
		return newError(common.ErrorValidation, "No fields to update")
	}

	if err := s.repomanager.Transactions(s.db).Update(ctx, userID, id, patch); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errTxNotFound
		}
		return fmt.Errorf("error updating transaction: %w", err)
	}
	return nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if err := checkID(id); err != nil {
		return err
	}

	if err := s.repomanager.Transactions(s.db).Delete(ctx, userID, id); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return errTxNotFound
		}
		return fmt.Errorf("error deleting transaction: %w", err)
	}
	return nil
}

func checkID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return newError(common.ErrorValidation, "Invalid transaction id")
	}
	return nil
}

func parsePatch(fields map[string]any) (models.TransactionPatch, error) {
	var p models.TransactionPatch

	for key, raw := range fields {
		switch key {
		case "description", "category":
			v, ok := raw.(string)
			if !ok || strings.TrimSpace(v) == "" {
				return p, newError(common.ErrorValidation, fmt.Sprintf("Field '%s' must be a non-empty string", key))
			}
			v = strings.TrimSpace(v)
			if key == "description" {
				p.Description = &v
			} else {
				p.Category = &v
			}
		case "amount":
			v, ok := raw.(float64)
			if !ok || v <= 0 {
				return p, newError(common.ErrorValidation, "Field 'amount' must be a number greater than zero")
			}
			p.Amount = &v
		case "type":
			v, ok := raw.(bool)
			if !ok {
				return p, newError(common.ErrorValidation, "Field 'type' must be a boolean")
			}
			p.Type = &v
		case "date":
			if raw == nil {
				continue
			}
			str, ok := raw.(string)
			if !ok {
				return p, newError(common.ErrorValidation, "Field 'date' must be an RFC 3339 string")
			}
			d, err := time.Parse(time.RFC3339, str)
			if err != nil {
				return p, newError(common.ErrorValidation, "Invalid date format, use RFC 3339 (YYYY-MM-DDTHH:MM:SSZ)")
			}
			d = d.UTC()
			p.Date = &d
		}
	}
	return p, nil
}
