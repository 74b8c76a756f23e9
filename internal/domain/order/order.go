package order

import (
	"strings"
	"time"

	"github.com/hadesigndz/Ha-Design/internal/domain/region"
	"github.com/hadesigndz/Ha-Design/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Status represents the fulfilment status of an order
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
)

// Statuses lists every status in lifecycle order
var Statuses = []Status{StatusPending, StatusConfirmed, StatusShipped, StatusDelivered}

// ParseStatus converts a string to a Status
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Statuses {
		if st == known {
			return st, nil
		}
	}
	return "", shared.NewDomainError("INVALID_STATUS", "Unknown order status: "+s)
}

// Customer holds the shipping details captured at checkout
type Customer struct {
	FullName string `gorm:"column:customer_full_name;type:varchar(200);not null" json:"fullName"`
	Phone    string `gorm:"column:customer_phone;type:varchar(30);not null" json:"phone"`
	Wilaya   string `gorm:"column:customer_wilaya;type:varchar(2);not null;index" json:"wilaya"`
	Commune  string `gorm:"column:customer_commune;type:varchar(100);not null" json:"commune"`
	Address  string `gorm:"column:customer_address;type:varchar(500);not null" json:"address"`
}

// Normalize trims every field
func (c Customer) Normalize() Customer {
	return Customer{
		FullName: strings.TrimSpace(c.FullName),
		Phone:    strings.TrimSpace(c.Phone),
		Wilaya:   strings.TrimSpace(c.Wilaya),
		Commune:  strings.TrimSpace(c.Commune),
		Address:  strings.TrimSpace(c.Address),
	}
}

// Item is a product line frozen at checkout
type Item struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

// LineTotal returns price × quantity
func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is the aggregate root for a placed order
type Order struct {
	shared.BaseEntity
	Customer         Customer        `gorm:"embedded"`
	Items            []Item          `gorm:"serializer:json;type:jsonb;not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	DeliveryFee      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total            decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Status           Status          `gorm:"type:varchar(20);not null;default:'pending';index"`
	DeliveryTracking string          `gorm:"type:varchar(100)"`
	DeliveryProvider string          `gorm:"type:varchar(50)"`
	LastSyncError    string          `gorm:"type:text"`
	LastSyncAt       *time.Time
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder builds a pending order. The delivery fee is resolved from the
// customer's wilaya and the total is fixed at creation.
func NewOrder(customer Customer, items []Item) (*Order, error) {
	customer = customer.Normalize()
	if !region.IsKnown(customer.Wilaya) {
		return nil, shared.ErrUnknownRegion
	}
	if len(items) == 0 {
		return nil, shared.ErrEmptyCart
	}
	for _, it := range items {
		if err := validateItem(it); err != nil {
			return nil, err
		}
	}

	subtotal := Subtotal(items)
	fee := decimal.NewFromInt(region.PriceFor(customer.Wilaya))

	lines := make([]Item, len(items))
	copy(lines, items)

	return &Order{
		BaseEntity:  shared.NewBaseEntity(),
		Customer:    customer,
		Items:       lines,
		Subtotal:    subtotal,
		DeliveryFee: fee,
		Total:       subtotal.Add(fee),
		Status:      StatusPending,
	}, nil
}

// Subtotal sums price × quantity over items
func Subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.LineTotal())
	}
	return sum
}

func validateItem(it Item) error {
	if strings.TrimSpace(it.Name) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Item name cannot be empty")
	}
	if it.Quantity < 1 {
		return shared.NewDomainError("INVALID_INPUT", "Item quantity must be at least 1")
	}
	if !it.Price.IsPositive() {
		return shared.NewDomainError("INVALID_INPUT", "Item price must be positive")
	}
	return nil
}

// TotalConsistent reports whether Total equals the item subtotal plus the
// delivery fee.
func (o *Order) TotalConsistent() bool {
	return Subtotal(o.Items).Equal(o.Subtotal) && o.Subtotal.Add(o.DeliveryFee).Equal(o.Total)
}

// ItemCount returns the number of units in the order
func (o *Order) ItemCount() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// HasTracking reports whether the order was registered with a carrier
func (o *Order) HasTracking() bool {
	return o.DeliveryTracking != ""
}

// AwaitingSync reports whether the order still needs a delivery registration
func (o *Order) AwaitingSync() bool {
	return !o.HasTracking() && (o.Status == StatusPending || o.Status == StatusConfirmed)
}

// MarkShipped attaches a tracking code and moves the order to shipped
func (o *Order) MarkShipped(tracking, provider string, at time.Time) error {
	tracking = strings.TrimSpace(tracking)
	if tracking == "" {
		return shared.NewDomainError("INVALID_TRACKING", "Tracking code cannot be empty")
	}
	o.DeliveryTracking = tracking
	o.DeliveryProvider = provider
	o.Status = StatusShipped
	o.LastSyncError = ""
	o.LastSyncAt = &at
	o.UpdatedAt = at
	return nil
}

// RecordSyncFailure keeps the outcome of an unsuccessful registration
func (o *Order) RecordSyncFailure(provider, reason string, at time.Time) {
	if reason == "" {
		reason = "no tracking code returned"
	}
	o.DeliveryProvider = provider
	o.LastSyncError = reason
	o.LastSyncAt = &at
	o.UpdatedAt = at
}

// SetStatus applies an admin status change. Every transition is allowed.
func (o *Order) SetStatus(s Status) error {
	if _, err := ParseStatus(string(s)); err != nil {
		return err
	}
	o.Status = s
	o.Touch()
	return nil
}
