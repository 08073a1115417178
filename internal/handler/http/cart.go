package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/utafrali/patatpalace/internal/domain"
	"github.com/utafrali/patatpalace/internal/presenter"
	"github.com/utafrali/patatpalace/internal/service"
	"github.com/utafrali/patatpalace/pkg/httputil"
	"github.com/utafrali/patatpalace/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// AddItemRequest is the JSON request body for adding a product to the cart.
// A missing quantity adds one unit.
type AddItemRequest struct {
	ProductID string        `json:"product_id" validate:"required"`
	Quantity  quantityValue `json:"quantity"`
}

// UpdateQuantityRequest is the JSON request body for setting a row's quantity.
type UpdateQuantityRequest struct {
	Quantity quantityValue `json:"quantity"`
}

// --- Response DTOs ---

// CartResponse carries the cart and its display projection.
type CartResponse struct {
	Cart *domain.Cart       `json:"cart"`
	View presenter.CartView `json:"view"`
}

func newCartResponse(cart *domain.Cart) CartResponse {
	return CartResponse{Cart: cart, View: presenter.PresentCart(cart)}
}

// --- Handlers ---

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	cart, err := h.service.GetCart(r.Context(), sid)
	h.writeCart(w, r, cart, err)
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.AddToCart(r.Context(), sid, req.ProductID, req.Quantity.Int(1))
	h.writeCart(w, r, cart, err)
}

// UpdateItemQuantity handles PUT /api/v1/cart/items/{productId}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	cart, err := h.service.UpdateQuantity(r.Context(), sid, chi.URLParam(r, "productId"), req.Quantity.Int(1))
	h.writeCart(w, r, cart, err)
}

// IncrementItem handles POST /api/v1/cart/items/{productId}/increment
func (h *CartHandler) IncrementItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	cart, err := h.service.Increment(r.Context(), sid, chi.URLParam(r, "productId"))
	h.writeCart(w, r, cart, err)
}

// DecrementItem handles POST /api/v1/cart/items/{productId}/decrement
func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	cart, err := h.service.Decrement(r.Context(), sid, chi.URLParam(r, "productId"))
	h.writeCart(w, r, cart, err)
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	cart, err := h.service.RemoveFromCart(r.Context(), sid, chi.URLParam(r, "productId"))
	h.writeCart(w, r, cart, err)
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	cart, err := h.service.ClearCart(r.Context(), sid)
	h.writeCart(w, r, cart, err)
}

func (h *CartHandler) writeCart(w http.ResponseWriter, r *http.Request, cart *domain.Cart, err error) {
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: newCartResponse(cart)})
}
