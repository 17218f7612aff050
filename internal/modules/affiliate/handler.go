package affiliate

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Handler exposes the affiliate gateway over HTTP.
type Handler struct{ gw *Gateway }

func NewHandler(gw *Gateway) *Handler { return &Handler{gw: gw} }

func (h *Handler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/v1/affiliates", func(r chi.Router) {
		r.Get("/categories", h.listCategories)
		r.Get("/restaurants", h.listRestaurants)
		r.Get("/restaurants/{id}", h.getRestaurant)
		r.Post("/restaurants/{id}/stamps", h.collectStamp)
		r.Post("/restaurants/{id}/coupons/{couponId}/use", h.redeemCoupon)
	})
}

type pinRequest struct {
	AdminPin string `json:"adminPin"`
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.gw.Categories(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, categories)
}

func (h *Handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	restaurants, err := h.gw.Restaurants(r.Context(), category)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, restaurants)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	detail, err := h.gw.Detail(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, detail)
}

func (h *Handler) collectStamp(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	detail, err := h.gw.CollectStamp(r.Context(), chi.URLParam(r, "id"), req.AdminPin)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, detail)
}

func (h *Handler) redeemCoupon(w http.ResponseWriter, r *http.Request) {
	var req pinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	detail, err := h.gw.RedeemCoupon(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "couponId"), req.AdminPin)
	if err != nil {
		respondError(w, err)
		return
	}
	respond(w, http.StatusOK, detail)
}

func respond(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	var gerr *GatewayError
	switch {
	case errors.As(err, &gerr) && gerr.Code == CodeUnauthorized:
		status = http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	}
	respond(w, status, map[string]string{"error": err.Error()})
}
