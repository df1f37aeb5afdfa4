package order

import (
	"encoding/json"
	"net/http"

	"github.com/georgemunganga/dalin-backend/internal/errs"
	"github.com/georgemunganga/dalin-backend/internal/modules/auth"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// RegisterCustomerRoutes mounts the caller's own order routes.
func (h *Handler) RegisterCustomerRoutes(router chi.Router) {
	router.Route("/orders", func(r chi.Router) {
		r.Post("/", h.createDraft)
		r.Get("/", h.listOwn)
		r.Get("/drafts", h.listDrafts)
		r.Get("/{id}", h.getOwn)
		r.Put("/{id}", h.editDraft)
		r.Delete("/{id}", h.discardDraft)
		r.Put("/{id}/points", h.setPointsPreference)
		r.Post("/{id}/screenshots", h.attachScreenshots)
		r.Get("/{id}/quote", h.quote)
		r.Post("/{id}/confirm", h.confirm)
		r.Post("/{id}/cancel", h.requestCancel)
	})
}

// RegisterStaffRoutes mounts the fulfillment routes.
func (h *Handler) RegisterStaffRoutes(router chi.Router) {
	router.Route("/orders", func(r chi.Router) {
		r.Get("/", h.listAll)
		r.Get("/{id}", h.getAny)
		r.Patch("/{id}", h.updateStaffFields)
		r.Post("/{id}/advance", h.advance)
		r.Post("/{id}/deliver", h.deliver)
		r.Post("/{id}/approve-cancel", h.approveCancel)
	})
}

func (h *Handler) createDraft(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req DraftRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.service.CreateDraft(r.Context(), caller, req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusCreated, o)
}

func (h *Handler) listOwn(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	orders, err := h.service.ListCustomerOrders(r.Context(), caller)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) listDrafts(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	orders, err := h.service.ListCustomerDrafts(r.Context(), caller)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) getOwn(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	o, err := h.service.GetOrder(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) editDraft(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req DraftRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.service.EditDraft(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) discardDraft(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := h.service.DiscardDraft(r.Context(), caller, chi.URLParam(r, "id")); err != nil {
		respondErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setPointsPreference(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req PointsPreferenceRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.service.SetPointsPreference(r.Context(), caller, chi.URLParam(r, "id"), req.UsePoints)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) attachScreenshots(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req ScreenshotsRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.service.AttachScreenshots(r.Context(), caller, chi.URLParam(r, "id"), req.Screenshots)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) quote(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	q, err := h.service.Quote(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, q)
}

func (h *Handler) confirm(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	o, err := h.service.Confirm(r.Context(), caller, chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) requestCancel(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(w, r)
	if !ok {
		return
	}
	var req CancelRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.service.RequestCancel(r.Context(), caller, chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) listAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListOrders(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, orders)
}

func (h *Handler) getAny(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.GetAnyOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) updateStaffFields(w http.ResponseWriter, r *http.Request) {
	var req StaffFieldsRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.service.UpdateStaffFields(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) advance(w http.ResponseWriter, r *http.Request) {
	var req AdvanceRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.service.Advance(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) deliver(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.Deliver(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func (h *Handler) approveCancel(w http.ResponseWriter, r *http.Request) {
	o, err := h.service.ApproveCancel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, err)
		return
	}
	respond(w, http.StatusOK, o)
}

func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.FromContext(r.Context())
	if !ok {
		respond(w, http.StatusUnauthorized, map[string]string{"error": "missing identity"})
		return uuid.Nil, false
	}
	return id.CustomerID, true
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respond(w, http.StatusBadRequest, map[string]string{"error": err.Error(), "kind": string(errs.KindInvalidInput)})
		return false
	}
	return true
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
