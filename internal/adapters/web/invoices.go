package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"granite-console/internal/core"
	"granite-console/internal/logger"
)

const invoiceNotFound = "Invoice not found"

// listInvoices handles GET /api/invoices.
func (h *Handler) listInvoices(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.Invoices.List(r.Context())
	if err != nil {
		serviceError(w, r, err, invoiceNotFound)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// getInvoice handles GET /api/invoices/{id}.
func (h *Handler) getInvoice(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Invoices.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, r, err, invoiceNotFound)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// createInvoice handles POST /api/invoices. Totals are recomputed server-side
// and stock is deducted; the response is {_id, invoiceNo}.
func (h *Handler) createInvoice(w http.ResponseWriter, r *http.Request) {
	var rec core.InvoiceRecord
	if !decodeJSON(w, r, &rec) {
		return
	}
	res, err := h.svc.Invoices.Create(r.Context(), rec)
	if err != nil {
		serviceError(w, r, err, invoiceNotFound)
		return
	}
	logger.FromContext(r.Context()).Info("invoice created",
		zap.String("invoice_id", res.ID),
		zap.String("invoice_no", res.InvoiceNo),
	)
	writeJSON(w, http.StatusCreated, res)
}

// updateInvoice handles PUT /api/invoices/{id}.
func (h *Handler) updateInvoice(w http.ResponseWriter, r *http.Request) {
	var rec core.InvoiceRecord
	if !decodeJSON(w, r, &rec) {
		return
	}
	id := chi.URLParam(r, "id")
	res, err := h.svc.Invoices.Update(r.Context(), id, rec)
	if err != nil {
		serviceError(w, r, err, invoiceNotFound)
		return
	}
	logger.FromContext(r.Context()).Info("invoice updated", zap.String("invoice_id", id))
	writeJSON(w, http.StatusOK, res)
}

// deleteInvoice handles DELETE /api/invoices/{id}. Stock is not restored.
func (h *Handler) deleteInvoice(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Invoices.Delete(r.Context(), id); err != nil {
		serviceError(w, r, err, invoiceNotFound)
		return
	}
	logger.FromContext(r.Context()).Info("invoice deleted", zap.String("invoice_id", id))
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Invoice deleted"})
}
