package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/ecommerce-cloud/backend/internal/models"
	mW "github.com/ecommerce-cloud/backend/internal/middleware"
	"github.com/ecommerce-cloud/backend/internal/services"
	"github.com/go-chi/chi/v5"
)

type OrderAPI interface {
	Checkout(ctx context.Context, req services.CheckoutRequest) (services.CheckoutResult, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, services.Outcome, error)
	GetOrder(ctx context.Context, orderID string) (*models.Order, services.Outcome, error)
}

type OrderHandler struct {
	orders    OrderAPI
	validator *services.ValidationHelper
}

func NewOrderHandler(orders OrderAPI) *OrderHandler {
	return &OrderHandler{orders: orders, validator: services.NewValidationHelper()}
}

// actingFor reports whether the authenticated caller may act for userID.
// Without an authenticated user (auth disabled) every caller may.
func actingFor(r *http.Request, userID int64) bool {
	caller, ok := mW.UserIDFromContext(r.Context())
	return !ok || caller == strconv.FormatInt(userID, 10)
}

// CreateOrder checks out a cart
// @Summary Checkout
// @Description Prices the cart, authorizes the card and records a paid order
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body services.CheckoutRequest true "Cart"
// @Success 201 {object} services.CheckoutResult
// @Failure 400 {object} services.CheckoutResult
// @Failure 404 {object} services.CheckoutResult
// @Failure 403 {object} services.ErrorResponse
// @Failure 409 {object} services.CheckoutResult
// @Failure 500 {object} services.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req services.CheckoutRequest
	if !decodeJSON(w, r, h.validator, &req) {
		return
	}
	if !actingFor(r, req.UserID) {
		services.SendErrorResponse(w, "Cannot place orders for another user", http.StatusForbidden, nil)
		return
	}

	result, err := h.orders.Checkout(r.Context(), req)
	if err != nil {
		internalError(w, "ORDER", err)
		return
	}

	status := http.StatusCreated
	if result.Outcome != services.OutcomeOK {
		status = outcomeStatus(result.Outcome)
	}
	writeJSON(w, status, result)
}

// ListByUser lists a user's orders
// @Summary Orders of a user
// @Tags Orders
// @Produce json
// @Param userId path int true "User ID"
// @Success 200 {array} models.Order
// @Failure 404 {object} services.ErrorResponse
// @Router /orders/user/{userId} [get]
func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userId")
	if !ok {
		return
	}

	orders, outcome, err := h.orders.ListOrdersByUser(r.Context(), userID)
	if err != nil {
		internalError(w, "ORDER", err)
		return
	}
	if outcome == services.OutcomeNotFound {
		services.SendErrorResponse(w, "User not found", http.StatusNotFound, nil)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetOrder returns one order
// @Summary Order by id
// @Tags Orders
// @Produce json
// @Param orderId path string true "Order ID"
// @Success 200 {object} models.Order
// @Failure 403 {object} services.ErrorResponse
// @Failure 404 {object} services.ErrorResponse
// @Router /orders/{orderId} [get]
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, outcome, err := h.orders.GetOrder(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		internalError(w, "ORDER", err)
		return
	}
	if outcome == services.OutcomeNotFound {
		services.SendErrorResponse(w, "Order not found", http.StatusNotFound, nil)
		return
	}
	if !actingFor(r, order.UserID) {
		services.SendErrorResponse(w, "Order does not belong to user", http.StatusForbidden, nil)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
