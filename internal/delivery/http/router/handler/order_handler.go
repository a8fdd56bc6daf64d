package handler

import (
	"log/slog"
	"net/http"

	"market/internal/delivery/http/middleware"
	"market/internal/delivery/http/response"
	"market/internal/domain/entity"
	"market/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// OrderHandler holds dependencies for order handlers.
type OrderHandler struct {
	uc     usecase.OrderUsecase
	logger *slog.Logger
}

// NewOrderHandler is the constructor for OrderHandler, injected by Fx.
func NewOrderHandler(uc usecase.OrderUsecase, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{
		uc:     uc,
		logger: logger,
	}
}

// createOrderRequest carries the tier reference to snapshot.
type createOrderRequest struct {
	OfferDetail uuid.UUID `json:"offer_detail" validate:"required"`
}

// CreateOrder handles the order placement request.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var input createOrderRequest
	if err := c.Bind(&input); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order input")
	}
	if err := c.Validate(&input); err != nil {
		return errors.WithStack(err)
	}

	order, err := h.uc.CreateOrder(c.Request().Context(), middleware.Principal(c), input.OfferDetail)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, order, "Order created successfully")
}

// ListOrders handles the caller's order listing request.
func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.uc.ListOrders(c.Request().Context(), middleware.Principal(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, orders, "Orders retrieved successfully")
}

// UpdateOrderStatus handles the status patch request. The body is bound as a
// raw map so the usecase can reject any key other than "status".
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid order id")
	}

	patch := map[string]any{}
	if err := c.Bind(&patch); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid order patch")
	}

	order, err := h.uc.UpdateOrderStatus(c.Request().Context(), middleware.Principal(c), id, patch)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, order, "Order updated successfully")
}

// DeleteOrder handles the order removal request.
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid order id")
	}

	if err := h.uc.DeleteOrder(c.Request().Context(), middleware.Principal(c), id); err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nil, "Order deleted successfully")
}

// CountOrders handles the public in-progress order count request.
func (h *OrderHandler) CountOrders(c echo.Context) error {
	return h.countOrders(c, entity.OrderInProgress)
}

// CountCompletedOrders handles the public completed order count request.
func (h *OrderHandler) CountCompletedOrders(c echo.Context) error {
	return h.countOrders(c, entity.OrderCompleted)
}

func (h *OrderHandler) countOrders(c echo.Context, status entity.OrderStatus) error {
	businessUserID, err := uuid.Parse(c.Param("business_user_id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid business user id")
	}

	count, err := h.uc.CountOrders(c.Request().Context(), businessUserID, status)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]int64{"count": count}, "Order count retrieved successfully")
}
