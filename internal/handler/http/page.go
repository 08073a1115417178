package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/utafrali/patatpalace/internal/domain"
	"github.com/utafrali/patatpalace/internal/presenter"
	"github.com/utafrali/patatpalace/internal/service"
	apperrors "github.com/utafrali/patatpalace/pkg/errors"
)

// PageHandler serves the cart modal as an HTML fragment. All row controls
// post to one endpoint and are told apart by their data-action value.
type PageHandler struct {
	carts    *service.CartService
	checkout *service.CheckoutService
	logger   *slog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(carts *service.CartService, checkout *service.CheckoutService, logger *slog.Logger) *PageHandler {
	return &PageHandler{carts: carts, checkout: checkout, logger: logger}
}

// CartActionRequest is a delegated control event from the cart container.
type CartActionRequest struct {
	Action    string `json:"action"`
	ProductID string `json:"product_id"`
	Quantity  string `json:"quantity"`
}

// CartFragment handles GET /cart
func (h *PageHandler) CartFragment(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	cart, err := h.carts.GetCart(r.Context(), sid)
	h.render(w, r, cart, err)
}

// CartAction handles POST /cart/actions. The body is either a form or JSON
// carrying action, product_id and, for "set", the raw quantity text.
func (h *PageHandler) CartAction(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	req, err := parseCartAction(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if req.ProductID == "" {
		writeError(w, r, apperrors.InvalidInput("product_id is required"), h.logger)
		return
	}

	ctx := r.Context()
	var cart *domain.Cart
	switch req.Action {
	case presenter.ActionIncrease:
		cart, err = h.carts.Increment(ctx, sid, req.ProductID)
	case presenter.ActionDecrease:
		cart, err = h.carts.Decrement(ctx, sid, req.ProductID)
	case presenter.ActionSet:
		cart, err = h.carts.UpdateQuantity(ctx, sid, req.ProductID, service.ParseQuantity(req.Quantity))
	case presenter.ActionRemove:
		cart, err = h.carts.RemoveFromCart(ctx, sid, req.ProductID)
	default:
		err = apperrors.InvalidInput("unknown cart action: " + req.Action)
	}

	h.render(w, r, cart, err)
}

// CheckoutSummaryFragment handles GET /checkout/summary. It renders the
// summary taken when checkout began.
func (h *PageHandler) CheckoutSummaryFragment(w http.ResponseWriter, r *http.Request) {
	sid, ok := sessionID(w, r)
	if !ok {
		return
	}

	flow := h.checkout.Status(r.Context(), sid)
	if flow.State != domain.FlowCheckout || flow.Summary == nil {
		writeError(w, r, apperrors.Conflict("checkout has not been started"), h.logger)
		return
	}

	var buf bytes.Buffer
	if err := presenter.RenderOrderSummary(&buf, *flow.Summary); err != nil {
		writeError(w, r, apperrors.Internal(err), h.logger)
		return
	}
	writeHTML(w, buf.Bytes())
}

func parseCartAction(r *http.Request) (CartActionRequest, error) {
	var req CartActionRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return req, apperrors.InvalidInput("invalid request body: " + err.Error())
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return req, apperrors.InvalidInput("invalid form: " + err.Error())
	}
	req.Action = r.PostForm.Get("action")
	req.ProductID = r.PostForm.Get("product_id")
	req.Quantity = r.PostForm.Get("quantity")
	return req, nil
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, cart *domain.Cart, err error) {
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	var buf bytes.Buffer
	if err := presenter.RenderCart(&buf, presenter.PresentCart(cart)); err != nil {
		writeError(w, r, apperrors.Internal(err), h.logger)
		return
	}

	writeHTML(w, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
