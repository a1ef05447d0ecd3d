package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sirpyerre/pizza-delivery-api/internal/api/metrics"
	"github.com/sirpyerre/pizza-delivery-api/internal/core/ports"
)

// HeaderIdempotencyKey makes order placement safe to retry.
const HeaderIdempotencyKey = "Idempotency-Key"

// OrderHandler handles HTTP requests for order operations. Every route sits
// behind the Auth middleware.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Ping confirms the caller holds a valid access token.
//
// @Summary      Orders ping
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  errorResponse
// @Router       /orders/ [get]
func (h *OrderHandler) Ping(c echo.Context) error {
	if _, err := ctxPrincipal(c); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "API Orders"})
}

// PlaceOrder handles POST /orders/order.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string        false  "Retry key"
// @Param        body             body      orderRequest  true   "Order"
// @Success      201              {object}  orderResponse
// @Success      200              {object}  orderResponse  "Replayed by Idempotency-Key"
// @Failure      401              {object}  errorResponse
// @Failure      422              {object}  errorResponse
// @Router       /orders/order [post]
func (h *OrderHandler) PlaceOrder(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.service.PlaceOrder(c.Request().Context(), p, ports.PlaceOrderInput{
		Quantity:       req.Quantity,
		Size:           req.PizzaSize,
		Flavour:        req.Flavour,
		Status:         req.OrderStatus,
		IdempotencyKey: c.Request().Header.Get(HeaderIdempotencyKey),
	})
	if err != nil {
		return err
	}

	if res.AlreadyExisted {
		metrics.IdempotentReplaysTotal.Inc()
		return c.JSON(http.StatusOK, toOrderResponse(res.Order))
	}
	metrics.OrdersPlacedTotal.WithLabelValues(string(res.Order.Size), string(res.Order.Flavour)).Inc()
	return c.JSON(http.StatusCreated, toOrderResponse(res.Order))
}

// ListAllOrders handles GET /orders/orders. Staff only.
//
// @Summary      List all orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   orderResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /orders/orders [get]
func (h *OrderHandler) ListAllOrders(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListAllOrders(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponses(orders))
}

// GetOrder handles GET /orders/orders/:id. Staff only.
//
// @Summary      Get any order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  orderResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/orders/{id} [get]
func (h *OrderHandler) GetOrder(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	order, err := h.service.GetOrder(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// ListMyOrders handles GET /orders/user/orders.
//
// @Summary      List my orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   orderResponse
// @Failure      401  {object}  errorResponse
// @Router       /orders/user/orders [get]
func (h *OrderHandler) ListMyOrders(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListMyOrders(c.Request().Context(), p)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponses(orders))
}

// GetMyOrder handles GET /orders/user/order/:id.
//
// @Summary      Get one of my orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  orderResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/user/order/{id} [get]
func (h *OrderHandler) GetMyOrder(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	order, err := h.service.GetMyOrder(c.Request().Context(), p, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdateOrder handles PUT /orders/order/update/:id.
//
// @Summary      Replace an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Order ID"
// @Param        body  body      orderRequest  true  "Order"
// @Success      200   {object}  orderResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /orders/order/update/{id} [put]
func (h *OrderHandler) UpdateOrder(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req orderRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	order, err := h.service.UpdateOrder(c.Request().Context(), p, ports.UpdateOrderInput{
		OrderID:  c.Param("id"),
		Quantity: req.Quantity,
		Size:     req.PizzaSize,
		Flavour:  req.Flavour,
		Status:   req.OrderStatus,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// UpdateOrderStatus handles PATCH /orders/order/update/:id. Staff only.
//
// @Summary      Change an order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Order ID"
// @Param        body  body      statusUpdateRequest  true  "New status"
// @Success      200   {object}  orderResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /orders/order/update/{id} [patch]
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}

	var req statusUpdateRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidPayload()
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	order, err := h.service.UpdateOrderStatus(c.Request().Context(), p, c.Param("id"), req.OrderStatus)
	if err != nil {
		return err
	}
	metrics.OrderStatusChangesTotal.WithLabelValues(string(order.Status)).Inc()
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// DeleteOrder handles DELETE /orders/order/delete/:id.
//
// @Summary      Delete an order
// @Tags         orders
// @Security     BearerAuth
// @Param        id   path  string  true  "Order ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/order/delete/{id} [delete]
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	p, err := ctxPrincipal(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteOrder(c.Request().Context(), p, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
