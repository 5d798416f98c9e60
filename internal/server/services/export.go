package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wealflow/wealflow/internal/server/models"
	"github.com/wealflow/wealflow/internal/server/objectstore"
)

var exportHeader = []string{"id", "date", "description", "category", "type", "amount"}

type ExportService struct {
	transactions *TransactionService
	store        objectstore.Store
	ttl          time.Duration
	now          func() time.Time
}

// NewExportService returns a service whose Export fails with
// ErrExportDisabled when store is nil.
func NewExportService(ts *TransactionService, store objectstore.Store, ttl time.Duration) *ExportService {
	return &ExportService{transactions: ts, store: store, ttl: ttl, now: time.Now}
}

// Export writes userID's transactions to object storage as CSV and returns
// a presigned download URL.
func (s *ExportService) Export(ctx context.Context, userID string) (string, error) {
	if s.store == nil {
		return "", ErrExportDisabled
	}

	txs, err := s.transactions.List(ctx, userID)
	if err != nil {
		return "", err
	}

	body, err := encodeCSV(txs)
	if err != nil {
		return "", fmt.Errorf("encode csv: %w", err)
	}

	key := exportKey(userID, s.now())
	if err := s.store.Put(ctx, key, body, "text/csv"); err != nil {
		return "", err
	}
	return s.store.PresignGet(ctx, key, s.ttl)
}

func exportKey(userID string, now time.Time) string {
	return fmt.Sprintf("exports/%s/%s-%s.csv", userID, now.UTC().Format("20060102T150405Z"), uuid.NewString()[:8])
}

func encodeCSV(txs []models.Transaction) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, err
	}
	for _, tx := range txs {
		kind := "expense"
		if tx.Type {
			kind = "income"
		}
		rec := []string{
			tx.ID,
			tx.Date.UTC().Format(time.DateOnly),
			spreadsheetSafe(tx.Description),
			spreadsheetSafe(tx.Category),
			kind,
			decimal.NewFromFloat(tx.Amount).StringFixed(2),
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

// spreadsheetSafe quotes a leading character that spreadsheet apps would
// otherwise evaluate as a formula.
func spreadsheetSafe(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}
