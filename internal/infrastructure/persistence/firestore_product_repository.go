package persistence

import (
	"context"
	"errors"
	"sort"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/hadesigndz/Ha-Design/internal/domain/catalog"
	"github.com/hadesigndz/Ha-Design/internal/domain/shared"
	"google.golang.org/api/iterator"
)

// FirestoreProductRepository implements catalog.ProductRepository on the products collection
type FirestoreProductRepository struct {
	client *firestore.Client
}

// NewFirestoreProductRepository creates a new FirestoreProductRepository
func NewFirestoreProductRepository(client *firestore.Client) *FirestoreProductRepository {
	return &FirestoreProductRepository{client: client}
}

func (r *FirestoreProductRepository) col() *firestore.CollectionRef {
	return r.client.Collection(CollectionProducts)
}

// FindByID finds a product by its ID
func (r *FirestoreProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, shared.ErrNotFound
	}
	snap, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		return nil, mapFirestoreError(err)
	}
	return docToProduct(snap.Ref.ID, snap.Data())
}

// FindAll returns every product, newest first
func (r *FirestoreProductRepository) FindAll(ctx context.Context) ([]catalog.Product, error) {
	it := r.col().Documents(ctx)
	defer it.Stop()

	var products []catalog.Product
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		p, err := docToProduct(snap.Ref.ID, snap.Data())
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
	return products, nil
}

// Save writes the whole product document
func (r *FirestoreProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	var ref *firestore.DocumentRef
	if strings.TrimSpace(p.ID) == "" {
		ref = r.col().NewDoc()
		p.ID = ref.ID
	} else {
		ref = r.col().Doc(p.ID)
	}
	_, err := ref.Set(ctx, productToDoc(p))
	return err
}

// Delete deletes a product
func (r *FirestoreProductRepository) Delete(ctx context.Context, id string) error {
	ref := r.col().Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		return mapFirestoreError(err)
	}
	_, err := ref.Delete(ctx)
	return err
}

// Count returns the number of products. Only document references are read.
func (r *FirestoreProductRepository) Count(ctx context.Context) (int64, error) {
	snaps, err := r.col().Select().Documents(ctx).GetAll()
	if err != nil {
		return 0, err
	}
	return int64(len(snaps)), nil
}

var _ catalog.ProductRepository = (*FirestoreProductRepository)(nil)
