package persistence

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/config"
	"google.golang.org/api/option"
)

// Firestore collection names shared with the storefront SPA
const (
	CollectionProducts = "products"
	CollectionOrders   = "orders"
)

// NewFirestoreClient opens a Firestore client. Without a credentials file
// the application default credentials are used.
func NewFirestoreClient(ctx context.Context, cfg config.FirestoreConfig) (*firestore.Client, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}
	return client, nil
}

// PingFirestore performs a cheap read to verify connectivity
func PingFirestore(ctx context.Context, client *firestore.Client) error {
	it := client.Collection(CollectionProducts).Limit(1).Documents(ctx)
	defer it.Stop()
	if _, err := it.GetAll(); err != nil {
		return fmt.Errorf("firestore ping failed: %w", err)
	}
	return nil
}
