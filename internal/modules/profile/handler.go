package profile

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CallerFunc resolves the authenticated customer id from a request context.
type CallerFunc func(ctx context.Context) (uuid.UUID, bool)

type Handler struct {
	service Service
	caller  CallerFunc
}

func NewHandler(service Service, caller CallerFunc) *Handler {
	return &Handler{service: service, caller: caller}
}

// RegisterPublicRoutes mounts routes that need no identity.
func (h *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Post("/auth/register", h.register)
}

// RegisterCustomerRoutes mounts routes acting on the caller's own profile.
func (h *Handler) RegisterCustomerRoutes(router chi.Router) {
	router.Get("/profile", h.getOwnProfile)
	router.Put("/profile", h.updateOwnContact)
}

// RegisterStaffRoutes mounts staff lookups.
func (h *Handler) RegisterStaffRoutes(router chi.Router) {
	router.Get("/profiles/{id}", h.getProfile)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	p, err := h.service.RegisterCustomer(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) getOwnProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "missing identity"})
		return
	}
	p, err := h.service.GetProfile(r.Context(), id.String())
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) updateOwnContact(w http.ResponseWriter, r *http.Request) {
	id, ok := h.caller(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "missing identity"})
		return
	}
	var req UpdateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	p, err := h.service.UpdateContact(r.Context(), id.String(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) getProfile(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProfile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
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
