package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"bilancio/internal/core"
)

type budgetRequest struct {
	Name       string      `json:"name"`
	Amount     json.Number `json:"amount"`
	CategoryID string      `json:"categoryId"`
	Period     string      `json:"period"`
	StartDate  string      `json:"startDate"`
	EndDate    string      `json:"endDate"`
}

func (req budgetRequest) toDomain() (core.Budget, error) {
	amount, err := parseAmount(req.Amount)
	if err != nil {
		return core.Budget{}, err
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return core.Budget{}, err
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return core.Budget{}, err
	}
	return core.Budget{
		Name:       sanitizeInput(req.Name),
		Amount:     amount,
		CategoryID: optionalID(req.CategoryID),
		Period:     core.Frequency(strings.ToUpper(strings.TrimSpace(req.Period))),
		StartDate:  start,
		EndDate:    end,
	}, nil
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := s.svc.Budgets.Create(r.Context(), userID(r), b)
	if err != nil {
		writeError(w, r, err)
		return
	}

	// The window may start in the past, so evaluate right away: existing
	// expenses count from the first response on.
	status, err := s.svc.Budgets.Get(r.Context(), userID(r), saved.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toBudgetDTO(status))
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	activeOnly := strings.EqualFold(r.URL.Query().Get("active"), "true")

	statuses, err := s.svc.Budgets.List(r.Context(), userID(r), activeOnly)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]budgetDTO, 0, len(statuses))
	for _, st := range statuses {
		out = append(out, toBudgetDTO(st))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleGetBudget(w http.ResponseWriter, r *http.Request) {
	status, err := s.svc.Budgets.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toBudgetDTO(status))
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	b, err := req.toDomain()
	if err != nil {
		writeError(w, r, err)
		return
	}
	b.ID = r.PathValue("id")

	if _, err := s.svc.Budgets.Update(r.Context(), userID(r), b); err != nil {
		writeError(w, r, err)
		return
	}

	// Re-read through Get so the response carries a fresh evaluation.
	status, err := s.svc.Budgets.Get(r.Context(), userID(r), b.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toBudgetDTO(status))
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Budgets.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}
