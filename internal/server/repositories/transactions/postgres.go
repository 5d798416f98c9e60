package transactions

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/wealflow/wealflow/internal/common"
	"github.com/wealflow/wealflow/internal/dbx"
	"github.com/wealflow/wealflow/internal/server/models"
)

var errEmptyPatch = fmt.Errorf("%w: nothing to update", common.ErrorValidation)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	query :=
		`SELECT id, user_id, date, description, category, amount, type FROM transactions
		 WHERE user_id = $1
		 ORDER BY date DESC, id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := []models.Transaction{}
	for rows.Next() {
		var tx models.Transaction
		if err := rows.Scan(&tx.ID, &tx.UserID, &tx.Date, &tx.Description, &tx.Category, &tx.Amount, &tx.Type); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		tx.Date = tx.Date.UTC()
		out = append(out, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return out, nil
}

func (r *PostgresRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO transactions (id, user_id, date, description, category, amount, type)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	if _, err := r.db.ExecContext(ctx, query,
		tx.ID, tx.UserID, tx.Date, tx.Description, tx.Category, tx.Amount, tx.Type); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) Update(ctx context.Context, userID, id string, patch models.TransactionPatch) error {
	set, args := patchClauses(patch)
	if len(set) == 0 {
		return errEmptyPatch
	}

	args = append(args, id, userID)
	query := fmt.Sprintf(
		`UPDATE transactions SET %s
		 WHERE id = $%d AND user_id = $%d`,
		strings.Join(set, ", "), len(args)-1, len(args))

	n, err := dbx.ExecAffected(ctx, r.db, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// patchClauses renders the non-nil fields of p as "col = $n" in a fixed
// column order.
func patchClauses(p models.TransactionPatch) ([]string, []any) {
	var set []string
	var args []any
	add := func(col string, v any) {
		args = append(args, v)
		set = append(set, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if p.Date != nil {
		add("date", *p.Date)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Category != nil {
		add("category", *p.Category)
	}
	if p.Amount != nil {
		add("amount", *p.Amount)
	}
	if p.Type != nil {
		add("type", *p.Type)
	}
	return set, args
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	query :=
		`DELETE FROM transactions
		 WHERE id = $1 AND user_id = $2`

	n, err := dbx.ExecAffected(ctx, r.db, query, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
