package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"bilancio/internal/core"
	"bilancio/internal/storage"
)

type plannedRequest struct {
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	CategoryID  string      `json:"categoryId"`
	PlannedDate string      `json:"plannedDate"`
	Notes       string      `json:"notes"`
}

func (req plannedRequest) toDomain() (core.PlannedTransaction, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.PlannedTransaction{}, err
	}
	date, err := parseDate(req.PlannedDate)
	if err != nil {
		return core.PlannedTransaction{}, err
	}
	return core.PlannedTransaction{
		Amount:      amount,
		Type:        core.TransactionType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Description: sanitizeInput(req.Description),
		CategoryID:  optionalID(req.CategoryID),
		PlannedDate: date,
		Notes:       sanitizeInput(req.Notes),
	}, nil
}

func (s *Server) handleCreatePlanned(w http.ResponseWriter, r *http.Request) {
	var req plannedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := s.svc.Planned.Create(r.Context(), userID(r), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toPlannedDTO(saved))
}

func (s *Server) handleListPlanned(w http.ResponseWriter, r *http.Request) {
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

	filter := storage.PlannedFilter{
		UnpaidOnly: strings.EqualFold(r.URL.Query().Get("unpaid"), "true"),
		From:       from,
		To:         to,
	}

	planned, err := s.svc.Planned.List(r.Context(), userID(r), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]plannedDTO, 0, len(planned))
	for _, p := range planned {
		out = append(out, toPlannedDTO(p))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleGetPlanned(w http.ResponseWriter, r *http.Request) {
	p, err := s.svc.Planned.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toPlannedDTO(p))
}

func (s *Server) handleUpdatePlanned(w http.ResponseWriter, r *http.Request) {
	var req plannedRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	p, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}
	p.ID = r.PathValue("id")

	updated, err := s.svc.Planned.Update(r.Context(), userID(r), p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toPlannedDTO(updated))
}

type payPlannedResponse struct {
	Transaction transactionDTO `json:"transaction"`
	Planned     plannedDTO     `json:"planned"`
}

// handlePayPlanned realizes the planned movement into the ledger. Paying
// twice answers 409.
func (s *Server) handlePayPlanned(w http.ResponseWriter, r *http.Request) {
	realized, planned, err := s.svc.Planned.MarkAsPaid(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, payPlannedResponse{
		Transaction: toTransactionDTO(realized),
		Planned:     toPlannedDTO(planned),
	})
}

func (s *Server) handleDeletePlanned(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Planned.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}
