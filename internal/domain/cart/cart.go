// Package cart models the per-session shopping cart that checkout turns
// into order items.
package cart

import (
	"context"
	"strings"
	"time"

	"github.com/hadesigndz/Ha-Design/internal/domain/order"
	"github.com/hadesigndz/Ha-Design/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaxQuantity caps a single cart line
const MaxQuantity = 99

// Line is a product snapshot with a quantity
type Line struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Image     string          `json:"image,omitempty"`
}

// Cart holds the lines of one browsing session
type Cart struct {
	SessionID string    `json:"sessionId"`
	Lines     []Line    `json:"lines"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New returns an empty cart for a session
func New(sessionID string) *Cart {
	return &Cart{SessionID: sessionID, Lines: []Line{}, UpdatedAt: time.Now()}
}

// Add puts a product in the cart, merging with an existing line
func (c *Cart) Add(line Line) error {
	if strings.TrimSpace(line.ProductID) == "" {
		return shared.NewDomainError("INVALID_INPUT", "Product id is required")
	}
	if line.Quantity < 1 {
		return shared.NewDomainError("INVALID_INPUT", "Quantity must be at least 1")
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == line.ProductID {
			c.Lines[i].Quantity = min(c.Lines[i].Quantity+line.Quantity, MaxQuantity)
			c.Lines[i].Name = line.Name
			c.Lines[i].Price = line.Price
			c.Lines[i].Image = line.Image
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	line.Quantity = min(line.Quantity, MaxQuantity)
	c.Lines = append(c.Lines, line)
	c.UpdatedAt = time.Now()
	return nil
}

// SetQuantity changes a line's quantity. Zero or less removes the line.
func (c *Cart) SetQuantity(productID string, qty int) error {
	if qty <= 0 {
		return c.Remove(productID)
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = min(qty, MaxQuantity)
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Product is not in the cart")
}

// Remove drops a line
func (c *Cart) Remove(productID string) error {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return shared.NewDomainError("NOT_FOUND", "Product is not in the cart")
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Lines = []Line{}
	c.UpdatedAt = time.Now()
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Count returns the number of units in the cart
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

// Subtotal sums price × quantity
func (c *Cart) Subtotal() decimal.Decimal {
	return order.Subtotal(c.OrderItems())
}

// OrderItems converts the lines to order items
func (c *Cart) OrderItems() []order.Item {
	items := make([]order.Item, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, order.Item{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price,
			Quantity:  l.Quantity,
			Image:     l.Image,
		})
	}
	return items
}

// Store keeps carts between requests of the same session
type Store interface {
	// Get returns the session cart, or an empty cart when none exists
	Get(ctx context.Context, sessionID string) (*Cart, error)

	// Save stores the cart
	Save(ctx context.Context, c *Cart) error

	// Delete drops the session cart
	Delete(ctx context.Context, sessionID string) error
}
