package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"granite-console/internal/core"
)

// dashboardSummary handles GET /api/reports/dashboard-summary.
func (h *Handler) dashboardSummary(w http.ResponseWriter, r *http.Request) {
	d, err := h.svc.Reports.Dashboard(r.Context(), h.now())
	if err != nil {
		serviceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// report handles GET /api/reports/{type}?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *Handler) report(w http.ResponseWriter, r *http.Request) {
	rt, err := core.ParseReportType(chi.URLParam(r, "type"))
	if err != nil {
		serviceError(w, r, err, "")
		return
	}
	q := r.URL.Query()
	rep, err := h.svc.Reports.Report(r.Context(), rt, q.Get("start"), q.Get("end"))
	if err != nil {
		serviceError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
