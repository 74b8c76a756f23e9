package order

import (
	"time"

	"github.com/hadesigndz/Ha-Design/internal/domain/order"
	"github.com/hadesigndz/Ha-Design/internal/domain/region"
	"github.com/shopspring/decimal"
)

// CustomerResponse is the shipping block of an order
type CustomerResponse struct {
	FullName   string `json:"fullName"`
	Phone      string `json:"phone"`
	Wilaya     string `json:"wilaya"`
	WilayaName string `json:"wilayaName,omitempty"`
	Commune    string `json:"commune"`
	Address    string `json:"address"`
}

// ItemResponse is one order line
type ItemResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
	LineTotal decimal.Decimal `json:"lineTotal"`
}

// OrderResponse is the API view of an order
type OrderResponse struct {
	ID               string           `json:"id"`
	Customer         CustomerResponse `json:"customer"`
	Items            []ItemResponse   `json:"items"`
	Subtotal         decimal.Decimal  `json:"subtotal"`
	DeliveryFee      decimal.Decimal  `json:"deliveryFee"`
	Total            decimal.Decimal  `json:"total"`
	Status           string           `json:"status"`
	DeliveryTracking string           `json:"deliveryTracking,omitempty"`
	DeliveryProvider string           `json:"deliveryProvider,omitempty"`
	LastSyncError    string           `json:"lastSyncError,omitempty"`
	LastSyncAt       *time.Time       `json:"lastSyncAt,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// ToOrderResponse converts an order to its API view
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemResponse{
			ID:        it.ProductID,
			Name:      it.Name,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Image:     it.Image,
			LineTotal: it.LineTotal(),
		})
	}
	return OrderResponse{
		ID: o.ID,
		Customer: CustomerResponse{
			FullName:   o.Customer.FullName,
			Phone:      o.Customer.Phone,
			Wilaya:     o.Customer.Wilaya,
			WilayaName: region.NameFor(o.Customer.Wilaya),
			Commune:    o.Customer.Commune,
			Address:    o.Customer.Address,
		},
		Items:            items,
		Subtotal:         o.Subtotal,
		DeliveryFee:      o.DeliveryFee,
		Total:            o.Total,
		Status:           string(o.Status),
		DeliveryTracking: o.DeliveryTracking,
		DeliveryProvider: o.DeliveryProvider,
		LastSyncError:    o.LastSyncError,
		LastSyncAt:       o.LastSyncAt,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		out = append(out, ToOrderResponse(&orders[i]))
	}
	return out
}

// ListFilter narrows the admin order list
type ListFilter struct {
	Status string `form:"status"`
}

// UpdateStatusRequest changes an order status
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// StatsResponse feeds the admin dashboard
type StatsResponse struct {
	TotalProducts int64           `json:"totalProducts"`
	TotalOrders   int             `json:"totalOrders"`
	Revenue       decimal.Decimal `json:"revenue"`
	ByStatus      map[string]int  `json:"byStatus"`
	Unsynced      int             `json:"unsynced"`
}
