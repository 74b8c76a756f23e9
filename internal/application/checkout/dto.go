package checkout

import (
	orderapp "github.com/hadesigndz/Ha-Design/internal/application/order"
	"github.com/hadesigndz/Ha-Design/internal/domain/cart"
	"github.com/hadesigndz/Ha-Design/internal/domain/order"
	"github.com/shopspring/decimal"
)

// CustomerRequest is the shipping form submitted at checkout
type CustomerRequest struct {
	FullName string `json:"fullName" validate:"required,max=200"`
	Phone    string `json:"phone" validate:"required,min=9,max=20"`
	Wilaya   string `json:"wilaya" validate:"required,wilaya"`
	Commune  string `json:"commune" validate:"required,max=100"`
	Address  string `json:"address" validate:"required,max=500"`
}

func (r CustomerRequest) toDomain() order.Customer {
	return order.Customer{
		FullName: r.FullName,
		Phone:    r.Phone,
		Wilaya:   r.Wilaya,
		Commune:  r.Commune,
		Address:  r.Address,
	}
}

// ItemRequest is an order line submitted with an explicit order. Name,
// price and image are taken from the catalog, never from the client.
type ItemRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// SubmitOrderRequest places an order from explicit items
type SubmitOrderRequest struct {
	Customer CustomerRequest `json:"customer"`
	Items    []ItemRequest   `json:"items"`
}

// CheckoutRequest places an order from the session cart
type CheckoutRequest struct {
	Customer CustomerRequest `json:"customer"`
}

// DeliveryOutcome reports the best-effort carrier registration
type DeliveryOutcome struct {
	Success      bool   `json:"success"`
	TrackingCode string `json:"trackingCode,omitempty"`
	Error        string `json:"error,omitempty"`
}

// PlaceOrderResponse is returned by Submit and Checkout
type PlaceOrderResponse struct {
	Order    orderapp.OrderResponse `json:"order"`
	Delivery DeliveryOutcome        `json:"delivery"`
}

// AddItemRequest puts a catalog product in the cart
type AddItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"omitempty,min=1,max=99"`
}

// UpdateQuantityRequest sets a cart line quantity; zero or less removes it
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CartLineResponse is one cart line
type CartLineResponse struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// CartResponse is the session cart view
type CartResponse struct {
	SessionID string             `json:"sessionId"`
	Items     []CartLineResponse `json:"items"`
	Count     int                `json:"count"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
}

// ToCartResponse converts a cart to its API view
func ToCartResponse(c *cart.Cart) CartResponse {
	lines := make([]CartLineResponse, 0, len(c.Lines))
	for _, l := range c.Lines {
		lines = append(lines, CartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Image:     l.Image,
			LineTotal: l.Price.Mul(decimal.NewFromInt(int64(l.Quantity))),
		})
	}
	return CartResponse{
		SessionID: c.SessionID,
		Items:     lines,
		Count:     c.Count(),
		Subtotal:  c.Subtotal(),
	}
}

// QuoteResponse previews the totals of a prospective order
type QuoteResponse struct {
	Wilaya      string          `json:"wilaya"`
	WilayaName  string          `json:"wilayaName"`
	Zone        string          `json:"zone"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"deliveryFee"`
	DeskFee     decimal.Decimal `json:"deskFee"`
	Total       decimal.Decimal `json:"total"`
}
