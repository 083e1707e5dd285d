package http

import (
	"net/http"

	"bilancio/internal/core"
)

// periodFromQuery reads the optional from/to window. Absent bounds stay
// open: no parameters at all means the whole history.
func periodFromQuery(r *http.Request) (core.DateRange, error) {
	from, err := queryDate(r, "from")
	if err != nil {
		return core.DateRange{}, err
	}
	to, err := queryDate(r, "to")
	if err != nil {
		return core.DateRange{}, err
	}
	return core.DateRange{From: from, To: to}, nil
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	months := queryInt(r, "months", core.DefaultProjectionMonths)

	d, err := s.svc.Dashboard.Overview(r.Context(), userID(r), months)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, dashboardDTO{
		Summary:    toSummaryDTO(d.Summary),
		Categories: toCategoryStatDTOs(d.Categories),
		Recent:     toTransactionDTOs(d.Recent),
		Trend:      toTrendPointDTOs(d.Trend),
		Projection: toProjectionDTO(d.Projection),
	})
}

func (s *Server) handleDashboardSummary(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := s.svc.Dashboard.Summary(r.Context(), userID(r), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toSummaryDTO(summary))
}

func (s *Server) handleDashboardCategories(w http.ResponseWriter, r *http.Request) {
	period, err := periodFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	typ, err := queryType(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	stats, err := s.svc.Dashboard.CategoryStats(r.Context(), userID(r), period, typ)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toCategoryStatDTOs(stats))
}

func (s *Server) handleDashboardRecent(w http.ResponseWriter, r *http.Request) {
	txs, err := s.svc.Dashboard.Recent(r.Context(), userID(r), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toTransactionDTOs(txs))
}

func (s *Server) handleDashboardTrend(w http.ResponseWriter, r *http.Request) {
	months := queryInt(r, "months", 0)

	trend, err := s.svc.Dashboard.Trend(r.Context(), userID(r), months)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toTrendPointDTOs(trend))
}

func (s *Server) handleDashboardProjection(w http.ResponseWriter, r *http.Request) {
	months := queryInt(r, "months", core.DefaultProjectionMonths)

	projection, err := s.svc.Dashboard.Projection(r.Context(), userID(r), months)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, toProjectionDTO(projection))
}
