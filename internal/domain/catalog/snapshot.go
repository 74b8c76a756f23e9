package catalog

import (
	"context"
	"time"
)

// Snapshot is a copy of the full product list taken at FetchedAt
type Snapshot struct {
	Products  []Product `json:"products"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// FreshAt reports whether the snapshot is younger than ttl at now
func (s *Snapshot) FreshAt(now time.Time, ttl time.Duration) bool {
	return s != nil && now.Sub(s.FetchedAt) < ttl
}

// ListCache holds the last product list snapshot. Stale snapshots are kept
// so they can be served when the repository is unavailable.
type ListCache interface {
	// Get returns nil without error on a miss
	Get(ctx context.Context) (*Snapshot, error)
	Put(ctx context.Context, s *Snapshot) error
	Invalidate(ctx context.Context) error
}
