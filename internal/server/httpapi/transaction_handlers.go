package httpapi

import (
	"net/http"
	"time"

	"github.com/wealflow/wealflow/internal/server/models"
	"github.com/wealflow/wealflow/internal/server/services"
)

type transactionResponse struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Type        bool    `json:"type"`
}

func toTransactionResponse(tx models.Transaction) transactionResponse {
	return transactionResponse{
		ID:          tx.ID,
		Date:        tx.Date.UTC().Format(time.RFC3339),
		Description: tx.Description,
		Category:    tx.Category,
		Amount:      tx.Amount,
		Type:        tx.Type,
	}
}

type transactionRequest struct {
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Amount      float64    `json:"amount"`
	Date        *time.Time `json:"date"`
	Type        bool       `json:"type"`
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := s.transactions.List(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	out := make([]transactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, toTransactionResponse(tx))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}

	tx, err := s.transactions.Create(r.Context(), userIDFrom(r.Context()), services.TransactionInput{
		Description: req.Description,
		Category:    req.Category,
		Amount:      req.Amount,
		Date:        req.Date,
		Type:        req.Type,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTransactionResponse(*tx))
}

func (s *Server) updateTransaction(w http.ResponseWriter, r *http.Request) {
	var fields map[string]any
	if err := decodeBody(r, &fields); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.transactions.Update(r.Context(), userIDFrom(r.Context()), r.PathValue("id"), fields); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Transaction updated")
}

func (s *Server) deleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.transactions.Delete(r.Context(), userIDFrom(r.Context()), r.PathValue("id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMessage(w, http.StatusOK, true, "Transaction deleted")
}

func (s *Server) exportTransactions(w http.ResponseWriter, r *http.Request) {
	url, err := s.exports.Export(r.Context(), userIDFrom(r.Context()))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
