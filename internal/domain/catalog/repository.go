package catalog

import "context"

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID returns shared.ErrNotFound when absent
	FindByID(ctx context.Context, id string) (*Product, error)

	// FindAll returns the full collection, newest first
	FindAll(ctx context.Context) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id string) error

	// Count returns the number of products
	Count(ctx context.Context) (int64, error)
}
