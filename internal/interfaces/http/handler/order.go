package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hadesigndz/Ha-Design/internal/application/checkout"
	"github.com/hadesigndz/Ha-Design/internal/application/fulfillment"
	orderapp "github.com/hadesigndz/Ha-Design/internal/application/order"
)

// OrderHandler handles order placement and the admin order desk
type OrderHandler struct {
	BaseHandler
	checkoutService    *checkout.Service
	orderService       *orderapp.Service
	fulfillmentService *fulfillment.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(
	checkoutService *checkout.Service,
	orderService *orderapp.Service,
	fulfillmentService *fulfillment.Service,
) *OrderHandler {
	return &OrderHandler{
		checkoutService:    checkoutService,
		orderService:       orderService,
		fulfillmentService: fulfillmentService,
	}
}

// Submit godoc
// @Summary      Place an order
// @Description  Persists the order, then hands it to the delivery provider.
// @Description  A carrier failure does not fail the request; see delivery in the response.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        request body checkout.SubmitOrderRequest true "Customer and items"
// @Success      201 {object} APIResponse[checkout.PlaceOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /orders [post]
func (h *OrderHandler) Submit(c *gin.Context) {
	var req checkout.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.checkoutService.Submit(c.Request.Context(), req.Customer, req.Items)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Checkout godoc
// @Summary      Place an order from the session cart
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string true "Cart session"
// @Param        request body checkout.CheckoutRequest true "Customer"
// @Success      201 {object} APIResponse[checkout.PlaceOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Router       /checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	var req checkout.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	resp, err := h.checkoutService.Checkout(c.Request.Context(), sessionID(c), req.Customer)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @Summary      List orders, newest first
// @Tags         admin-orders
// @Produce      json
// @Param        status query string false "pending, confirmed, shipped or delivered"
// @Success      200 {object} APIResponse[[]orderapp.OrderResponse]
// @Security     BearerAuth
// @Router       /admin/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	var filter orderapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// ListUnsynced godoc
// @Summary      Orders the carrier never acknowledged
// @Tags         admin-orders
// @Produce      json
// @Success      200 {object} APIResponse[[]orderapp.OrderResponse]
// @Security     BearerAuth
// @Router       /admin/orders/unsynced [get]
func (h *OrderHandler) ListUnsynced(c *gin.Context) {
	orders, err := h.fulfillmentService.ListUnsynced(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, orders)
}

// GetByID godoc
// @Summary      Get an order
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id} [get]
func (h *OrderHandler) GetByID(c *gin.Context) {
	o, err := h.orderService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// UpdateStatus godoc
// @Summary      Change an order status
// @Tags         admin-orders
// @Accept       json
// @Produce      json
// @Param        id      path string true "Order ID"
// @Param        request body orderapp.UpdateStatusRequest true "New status"
// @Success      200 {object} APIResponse[orderapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id}/status [put]
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req orderapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	o, err := h.orderService.UpdateStatus(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, o)
}

// Resync godoc
// @Summary      Push an order to the delivery provider again
// @Description  Orders that already carry a tracking code are returned untouched.
// @Tags         admin-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[fulfillment.ResyncResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id}/resync [post]
func (h *OrderHandler) Resync(c *gin.Context) {
	resp, err := h.fulfillmentService.Resync(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete an order
// @Tags         admin-orders
// @Param        id path string true "Order ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/orders/{id} [delete]
func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.orderService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Stats godoc
// @Summary      Dashboard counters
// @Tags         admin-orders
// @Produce      json
// @Success      200 {object} APIResponse[orderapp.StatsResponse]
// @Security     BearerAuth
// @Router       /admin/stats [get]
func (h *OrderHandler) Stats(c *gin.Context) {
	stats, err := h.orderService.Stats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}
