package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jschof1/val-des-roses/internal/cart"
	"github.com/jschof1/val-des-roses/internal/domain"
	"github.com/jschof1/val-des-roses/pkg/httputil"
	"github.com/jschof1/val-des-roses/pkg/middleware"
	"github.com/jschof1/val-des-roses/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	manager *cart.Manager
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(manager *cart.Manager, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		manager: manager,
		logger:  logger,
	}
}

// UpdateQuantityRequest is the JSON request body for setting a line's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// cartView is the cart as the storefront pages consume it: the cart
// snapshot plus the panel visibility flag. The cart's serialized form
// already carries the derived subtotal and total quantity.
type cartView struct {
	Cart   *domain.Cart `json:"cart"`
	IsOpen bool         `json:"is_open"`
}

func (h *CartHandler) store(r *http.Request) *cart.Store {
	sessionID := middleware.SessionIDFromContext(r.Context())
	return h.manager.Store(r.Context(), sessionID)
}

func (h *CartHandler) view(s *cart.Store) cartView {
	return cartView{
		Cart:   s.Cart(),
		IsOpen: s.IsOpen(),
	}
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view(h.store(r))})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var input cart.AddItemInput
	if err := validator.DecodeAndValidate(r, &input); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	s := h.store(r)
	if _, err := s.AddItem(r.Context(), input); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view(s)})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{lineID}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")

	var req UpdateQuantityRequest
	if err := validator.DecodeAndValidate(r, &req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	s := h.store(r)
	if _, err := s.UpdateQuantity(r.Context(), lineID, req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view(s)})
}

// RemoveItem handles DELETE /api/v1/cart/items/{lineID}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	lineID := chi.URLParam(r, "lineID")

	s := h.store(r)
	s.RemoveItem(r.Context(), lineID)

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view(s)})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s := h.store(r)
	s.Clear(r.Context())

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: h.view(s)})
}

// OpenCart handles POST /api/v1/cart/open
func (h *CartHandler) OpenCart(w http.ResponseWriter, r *http.Request) {
	s := h.store(r)
	s.Open()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"is_open": s.IsOpen()}})
}

// CloseCart handles POST /api/v1/cart/close
func (h *CartHandler) CloseCart(w http.ResponseWriter, r *http.Request) {
	s := h.store(r)
	s.Close()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"is_open": s.IsOpen()}})
}

// ToggleCart handles POST /api/v1/cart/toggle
func (h *CartHandler) ToggleCart(w http.ResponseWriter, r *http.Request) {
	s := h.store(r)
	s.Toggle()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]bool{"is_open": s.IsOpen()}})
}

// Checkout handles POST /api/v1/checkout. It returns the hosted checkout
// URL the client navigates to; an empty cart yields an empty URL.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	s := h.store(r)

	url, err := s.Checkout(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"checkout_url": url},
	})
}
