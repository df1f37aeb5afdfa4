package catalog

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/go-chi/chi/v5"
)

// Handler exposes catalog HTTP endpoints.
type Handler struct{ service Service }

func NewHandler(service Service) *Handler { return &Handler{service: service} }

// RegisterPublicRoutes mounts the storefront listing.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Route("/catalog/products", func(r chi.Router) {
		r.Get("/", h.listActive)
		r.Get("/{id}", h.getProduct)
	})
}

// RegisterStaffRoutes mounts catalog management.
func (h *Handler) RegisterStaffRoutes(r chi.Router) {
	r.Route("/catalog/products", func(r chi.Router) {
		r.Get("/", h.listAll)
		r.Post("/", h.createProduct)
		r.Put("/{id}", h.updateProduct)
		r.Put("/{id}/active", h.setActive)
	})
}

func (h *Handler) listActive(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, true)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, r.URL.Query().Get("active") == "true")
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, activeOnly bool) {
	products, err := h.service.ListProducts(r.Context(), activeOnly)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.service.CreateProduct(r.Context(), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, p)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.service.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	if !p.IsActive {
		respondErr(w, errs.New(errs.KindNotFound, "product %s not found", p.ID))
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, p)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	var req ActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, err := h.service.SetActive(r.Context(), chi.URLParam(r, "id"), req.IsActive)
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
