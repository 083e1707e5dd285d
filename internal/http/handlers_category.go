package http

import (
	"net/http"
	"strings"

	"bilancio/internal/core"
)

type categoryRequest struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

func (req categoryRequest) toDomain() core.Category {
	return core.Category{
		Name:  sanitizeInput(req.Name),
		Type:  core.TransactionType(strings.ToUpper(strings.TrimSpace(req.Type))),
		Color: sanitizeInput(req.Color),
		Icon:  sanitizeInput(req.Icon),
	}
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	saved, err := s.svc.Categories.Create(r.Context(), userID(r), req.toDomain())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, toCategoryDTO(saved))
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	typ, err := queryType(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	cats, err := s.svc.Categories.List(r.Context(), userID(r), typ)
	if err != nil {
		writeError(w, r, err)
		return
	}

	out := make([]categoryDTO, 0, len(cats))
	for _, c := range cats {
		out = append(out, toCategoryDTO(c))
	}
	writeJSON(w, r, http.StatusOK, out)
}

func (s *Server) handleGetCategory(w http.ResponseWriter, r *http.Request) {
	c, err := s.svc.Categories.Get(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCategoryDTO(c))
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	c := req.toDomain()
	c.ID = r.PathValue("id")

	updated, err := s.svc.Categories.Update(r.Context(), userID(r), c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCategoryDTO(updated))
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Categories.Delete(r.Context(), userID(r), r.PathValue("id")); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusNoContent, nil)
}
