package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"bilancio/internal/core"
	"bilancio/internal/storage"
)

type transactionRequest struct {
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Date        string      `json:"date"`
	CategoryID  string      `json:"categoryId"`
}

func (req transactionRequest) toDomain() (core.Transaction, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Transaction{}, err
	}
	// An absent date is legal: the service fills in now on create and
	// keeps the stored date on update.
	var date time.Time
	if d, err := parseOptionalDate(req.Date); err != nil {
		return core.Transaction{}, err
	} else if d != nil {
		date = *d
	}
	return core.Transaction{
		Amount:      amount,
		Type:        core.TransactionType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Description: sanitizeInput(req.Description),
		Date:        date,
		CategoryID:  optionalID(req.CategoryID),
	}, nil
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := s.svc.Transactions.Create(r.Context(), userID(r), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toTransactionDTO(saved))
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	typ, err := queryType(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	from, err := queryDate(r, "from")
	if err != nil {
		writeError(w, r, err)
		return
	}
	to, err := queryDate(r, "to")
	if err != nil {
		writeError(w, r, err)
		return
	}

	filter := storage.TransactionFilter{
		Type:       typ,
		CategoryID: optionalID(r.URL.Query().Get("categoryId")),
		From:       from,
		To:         to,
		Limit:      queryInt(r, "limit", 0),
		Offset:     queryInt(r, "offset", 0),
	}

	txs, err := s.svc.Transactions.List(r.Context(), userID(r), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toTransactionDTOs(txs))
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.svc.Transactions.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toTransactionDTO(t))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	t, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}
	t.ID = r.PathValue("id")

	updated, err := s.svc.Transactions.Update(r.Context(), userID(r), t)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toTransactionDTO(updated))
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Transactions.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}
