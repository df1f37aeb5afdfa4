package ledger

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/georgemunganga/dalin-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterCustomerRoutes mounts the caller's own journal.
func (h *Handler) RegisterCustomerRoutes(router chi.Router) {
	router.Get("/points/history", h.ownHistory)
}

// RegisterStaffRoutes mounts corrections and journal lookups for any profile.
func (h *Handler) RegisterStaffRoutes(router chi.Router) {
	router.Route("/profiles/{id}/points", func(r chi.Router) {
		r.Post("/adjust", h.adjust)
		r.Get("/history", h.history)
	})
}

func (h *Handler) ownHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "missing identity"})
		return
	}
	entries, err := h.service.History(r.Context(), id.CustomerID.String())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, entries)
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request) {
	var req AdjustRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	entry, err := h.service.Adjust(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, entry)
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	entries, err := h.service.History(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, entries)
}

func respondErr(w http.ResponseWriter, err error) {
	respond(w, errs.StatusCode(err), map[string]string{
		"error": errs.Message(err),
		"kind":  string(errs.KindOf(err)),
	})
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
