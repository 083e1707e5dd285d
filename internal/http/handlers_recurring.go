package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"bilancio/internal/core"
)

type recurringRequest struct {
	Amount      json.Number `json:"amount"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	CategoryID  string      `json:"categoryId"`
	Frequency   string      `json:"frequency"`
	DayOfMonth  *int        `json:"dayOfMonth"`
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
	IsActive    *bool       `json:"isActive"`
}

func (req recurringRequest) toDomain() (core.RecurringTransaction, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return core.RecurringTransaction{}, err
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return core.RecurringTransaction{}, err
	}

	// New templates default to active unless the caller says otherwise.
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return core.RecurringTransaction{
		Amount:      amount,
		Type:        core.TransactionType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Description: sanitizeInput(req.Description),
		CategoryID:  optionalID(req.CategoryID),
		Frequency:   core.Frequency(strings.ToUpper(strings.TrimSpace(req.Frequency))),
		DayOfMonth:  req.DayOfMonth,
		StartDate:   start,
		EndDate:     end,
		IsActive:    active,
	}, nil
}

func (s *Server) handleCreateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := s.svc.Recurring.Create(r.Context(), userID(r), rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toRecurringDTO(saved))
}

func (s *Server) handleListRecurring(w http.ResponseWriter, r *http.Request) {
	activeOnly := strings.EqualFold(r.URL.Query().Get("active"), "true")

	recs, err := s.svc.Recurring.List(r.Context(), userID(r), activeOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]recurringDTO, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toRecurringDTO(rec))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleGetRecurring(w http.ResponseWriter, r *http.Request) {
	rec, err := s.svc.Recurring.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRecurringDTO(rec))
}

func (s *Server) handleUpdateRecurring(w http.ResponseWriter, r *http.Request) {
	var req recurringRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	rec, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec.ID = r.PathValue("id")

	updated, err := s.svc.Recurring.Update(r.Context(), userID(r), rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRecurringDTO(updated))
}

// handleToggleRecurring flips the active flag: a paused template stops
// feeding projections without losing its definition.
func (s *Server) handleToggleRecurring(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	id := r.PathValue("id")

	rec, err := s.svc.Recurring.Get(r.Context(), uid, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	toggled, err := s.svc.Recurring.SetActive(r.Context(), uid, id, !rec.IsActive)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toRecurringDTO(toggled))
}

func (s *Server) handleDeleteRecurring(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Recurring.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}
