package persistence

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/hadesigndz/Ha-Design/internal/domain/order"
	"github.com/hadesigndz/Ha-Design/internal/domain/shared"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreOrderRepository implements order.Repository on the orders collection
type FirestoreOrderRepository struct {
	client *firestore.Client
}

// NewFirestoreOrderRepository creates a new FirestoreOrderRepository
func NewFirestoreOrderRepository(client *firestore.Client) *FirestoreOrderRepository {
	return &FirestoreOrderRepository{client: client}
}

func (r *FirestoreOrderRepository) col() *firestore.CollectionRef {
	return r.client.Collection(CollectionOrders)
}

// Create writes a new order document. An empty ID gets a generated key.
func (r *FirestoreOrderRepository) Create(ctx context.Context, o *order.Order) error {
	var ref *firestore.DocumentRef
	if strings.TrimSpace(o.ID) == "" {
		ref = r.col().NewDoc()
		o.ID = ref.ID
	} else {
		ref = r.col().Doc(o.ID)
	}
	if _, err := ref.Create(ctx, orderToDoc(o)); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return shared.ErrAlreadyExists
		}
		return fmt.Errorf("create order %s: %w", o.ID, err)
	}
	return nil
}

// Update replaces an existing order document
func (r *FirestoreOrderRepository) Update(ctx context.Context, o *order.Order) error {
	ref := r.col().Doc(o.ID)
	if _, err := ref.Get(ctx); err != nil {
		return mapFirestoreError(err)
	}
	if _, err := ref.Set(ctx, orderToDoc(o)); err != nil {
		return fmt.Errorf("update order %s: %w", o.ID, err)
	}
	return nil
}

// FindByID finds an order by its ID
func (r *FirestoreOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, shared.ErrNotFound
	}
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err)
	}
	return docToOrder(snap.Ref.ID, snap.Data())
}

// List fetches the whole collection and filters in process. Documents
// written by the SPA may lack fields a server-side query would need.
func (r *FirestoreOrderRepository) List(ctx context.Context, filter order.Filter) ([]order.Order, error) {
	it := r.col().Documents(ctx)
	defer it.Stop()

	var orders []order.Order
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		o, err := docToOrder(snap.Ref.ID, snap.Data())
		if err != nil {
			return nil, err
		}
		if filter.Matches(o) {
			orders = append(orders, *o)
		}
	}

	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

// Delete removes an order document
func (r *FirestoreOrderRepository) Delete(ctx context.Context, id string) error {
	ref := r.col().Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return mapFirestoreError(err)
	}
	_, err := ref.Delete(ctx)
	return err
}

func mapFirestoreError(err error) error {
	if status.Code(err) == codes.NotFound {
		return shared.ErrNotFound
	}
	return err
}

var _ order.Repository = (*FirestoreOrderRepository)(nil)
