package order

import "context"

// Filter narrows order listings
type Filter struct {
	Status Status
	// Unsynced keeps only orders awaiting delivery registration
	Unsynced bool
}

// Matches reports whether o satisfies the filter
func (f Filter) Matches(o *Order) bool {
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	if f.Unsynced && !o.AwaitingSync() {
		return false
	}
	return true
}

// Repository defines persistence for orders
type Repository interface {
	// Create stores a new order
	Create(ctx context.Context, o *Order) error

	// Update overwrites an existing order
	Update(ctx context.Context, o *Order) error

	// FindByID returns shared.ErrNotFound when absent
	FindByID(ctx context.Context, id string) (*Order, error)

	// List returns orders newest first
	List(ctx context.Context, filter Filter) ([]Order, error)

	// Delete removes an order
	Delete(ctx context.Context, id string) error
}
