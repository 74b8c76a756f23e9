package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/hadesigndz/Ha-Design/internal/application/checkout"
)

// CartHandler serves the session cart. The session travels in the
// X-Session-ID header.
type CartHandler struct {
	BaseHandler
	checkoutService *checkout.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(checkoutService *checkout.Service) *CartHandler {
	return &CartHandler{checkoutService: checkoutService}
}

// Get godoc
// @Summary      Get the session cart
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID header string true "Cart session"
// @Success      200 {object} APIResponse[checkout.CartResponse]
// @Failure      400 {object} ErrorResponse
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.checkoutService.GetCart(c.Request.Context(), sessionID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// AddItem godoc
// @Summary      Add a product to the cart
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string true "Cart session"
// @Param        request body checkout.AddItemRequest true "Product and quantity"
// @Success      200 {object} APIResponse[checkout.CartResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req checkout.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.checkoutService.AddItem(c.Request.Context(), sessionID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// UpdateQuantity godoc
// @Summary      Set a line quantity
// @Description  Zero removes the line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        X-Session-ID header string true "Cart session"
// @Param        productId path string true "Product ID"
// @Param        request body checkout.UpdateQuantityRequest true "Quantity"
// @Success      200 {object} APIResponse[checkout.CartResponse]
// @Router       /cart/items/{productId} [put]
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	var req checkout.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	cart, err := h.checkoutService.UpdateQuantity(c.Request.Context(), sessionID(c), c.Param("productId"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// RemoveItem godoc
// @Summary      Remove a cart line
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID header string true "Cart session"
// @Param        productId path string true "Product ID"
// @Success      200 {object} APIResponse[checkout.CartResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	cart, err := h.checkoutService.RemoveItem(c.Request.Context(), sessionID(c), c.Param("productId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cart)
}

// Clear godoc
// @Summary      Empty the cart
// @Tags         cart
// @Param        X-Session-ID header string true "Cart session"
// @Success      204
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.checkoutService.ClearCart(c.Request.Context(), sessionID(c)); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Quote godoc
// @Summary      Preview delivery fee and total
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID header string false "Cart session"
// @Param        wilaya query string true "Wilaya code or name"
// @Success      200 {object} APIResponse[checkout.QuoteResponse]
// @Failure      422 {object} ErrorResponse
// @Router       /cart/quote [get]
func (h *CartHandler) Quote(c *gin.Context) {
	quote, err := h.checkoutService.Quote(c.Request.Context(), sessionID(c), c.Query("wilaya"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}
