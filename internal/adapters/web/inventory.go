package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"granite-console/internal/core"
)

const itemNotFound = "Item not found"

// listInventory handles GET /api/inventory[?search=].
func (h *Handler) listInventory(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.Inventory.List(r.Context())
	if err != nil {
		serviceError(w, r, err, itemNotFound)
		return
	}
	writeJSON(w, http.StatusOK, core.FilterInventory(items, r.URL.Query().Get("search")))
}

func (h *Handler) getInventory(w http.ResponseWriter, r *http.Request) {
	it, err := h.svc.Inventory.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		serviceError(w, r, err, itemNotFound)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *Handler) createInventory(w http.ResponseWriter, r *http.Request) {
	var item core.InventoryItem
	if !decodeJSON(w, r, &item) {
		return
	}
	it, err := h.svc.Inventory.Create(r.Context(), item)
	if err != nil {
		serviceError(w, r, err, itemNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, it)
}

func (h *Handler) updateInventory(w http.ResponseWriter, r *http.Request) {
	var item core.InventoryItem
	if !decodeJSON(w, r, &item) {
		return
	}
	it, err := h.svc.Inventory.Update(r.Context(), chi.URLParam(r, "id"), item)
	if err != nil {
		serviceError(w, r, err, itemNotFound)
		return
	}
	writeJSON(w, http.StatusOK, it)
}

func (h *Handler) deleteInventory(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Inventory.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		serviceError(w, r, err, itemNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"msg": "Item removed"})
}
