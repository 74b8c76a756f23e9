package fulfillment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hadesigndz/Ha-Design/internal/domain/delivery"
	"github.com/hadesigndz/Ha-Design/internal/domain/order"
	"github.com/hadesigndz/Ha-Design/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockOrderRepository is a mock implementation of order.Repository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) List(ctx context.Context, filter order.Filter) ([]order.Order, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]order.Order), args.Error(1)
}

func (m *MockOrderRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

// stubProvider returns a canned result and records shipments
type stubProvider struct {
	result    *delivery.SyncResult
	shipments []*delivery.Shipment
}

func (p *stubProvider) Code() string { return "ecotrack" }

func (p *stubProvider) CreateShipment(_ context.Context, s *delivery.Shipment) *delivery.SyncResult {
	p.shipments = append(p.shipments, s)
	if p.result == nil {
		return nil
	}
	r := *p.result
	return &r
}

var fixedNow = time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)

func newService(repo order.Repository, p delivery.Provider) *Service {
	s := NewService(repo, p)
	s.now = func() time.Time { return fixedNow }
	return s
}

func newOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(order.Customer{
		FullName: "Karim M.",
		Phone:    "555 12 34 56",
		Wilaya:   "16",
		Commune:  "Bab Ezzouar",
		Address:  "Cité 5 juillet",
	}, []order.Item{{ProductID: "p1", Name: "Calligraphie", Price: decimal.NewFromInt(300), Quantity: 1}})
	require.NoError(t, err)
	return o
}

func TestService_Sync(t *testing.T) {
	ctx := context.Background()

	t.Run("tracking code ships the order", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("Update", ctx, mock.AnythingOfType("*order.Order")).Return(nil)
		p := &stubProvider{result: &delivery.SyncResult{Success: true, TrackingCode: "AB123", StatusCode: 200}}
		o := newOrder(t)

		res := newService(repo, p).Sync(ctx, o)

		assert.True(t, res.Success)
		assert.Equal(t, "ecotrack", res.Provider)
		assert.Equal(t, order.StatusShipped, o.Status)
		assert.Equal(t, "AB123", o.DeliveryTracking)
		assert.Empty(t, o.LastSyncError)
		require.NotNil(t, o.LastSyncAt)
		assert.Equal(t, fixedNow, *o.LastSyncAt)

		require.Len(t, p.shipments, 1)
		s := p.shipments[0]
		assert.Equal(t, o.ID, s.Reference)
		assert.Equal(t, "0555123456", s.Phone)
		assert.Equal(t, int64(650), s.Amount)
		assert.Equal(t, "Calligraphie (x1)", s.ProductSummary)
		repo.AssertExpectations(t)
	})

	t.Run("transport failure keeps order pending", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("Update", ctx, mock.Anything).Return(nil)
		p := &stubProvider{result: &delivery.SyncResult{Error: "dial tcp: connection refused"}}
		o := newOrder(t)

		res := newService(repo, p).Sync(ctx, o)

		assert.False(t, res.Success)
		assert.Equal(t, order.StatusPending, o.Status)
		assert.Empty(t, o.DeliveryTracking)
		assert.Equal(t, "dial tcp: connection refused", o.LastSyncError)
		assert.Equal(t, "ecotrack", o.DeliveryProvider)
		assert.True(t, o.AwaitingSync())
	})

	t.Run("success without tracking stays pending", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("Update", ctx, mock.Anything).Return(nil)
		p := &stubProvider{result: &delivery.SyncResult{Success: true, StatusCode: 201}}
		o := newOrder(t)

		res := newService(repo, p).Sync(ctx, o)

		assert.True(t, res.Success)
		assert.Equal(t, order.StatusPending, o.Status)
		assert.NotEmpty(t, o.LastSyncError)
	})

	t.Run("nil provider result", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("Update", ctx, mock.Anything).Return(nil)
		res := newService(repo, &stubProvider{}).Sync(ctx, newOrder(t))
		assert.False(t, res.Success)
		assert.NotEmpty(t, res.Error)
	})

	t.Run("persist failure still returns result", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("Update", ctx, mock.Anything).Return(errors.New("db down"))
		p := &stubProvider{result: &delivery.SyncResult{Success: true, TrackingCode: "ZX9"}}

		res := newService(repo, p).Sync(ctx, newOrder(t))
		assert.True(t, res.Success)
		assert.Equal(t, "ZX9", res.TrackingCode)
	})
}

func TestService_Resync(t *testing.T) {
	ctx := context.Background()

	t.Run("already tracked makes no provider call", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.MarkShipped("AB123", "ecotrack", fixedNow))
		items, total := o.Items, o.Total

		repo := new(MockOrderRepository)
		repo.On("FindByID", ctx, o.ID).Return(o, nil)
		p := &stubProvider{result: &delivery.SyncResult{Success: true, TrackingCode: "NEW"}}
		svc := newService(repo, p)

		for range 2 {
			resp, err := svc.Resync(ctx, o.ID)
			require.NoError(t, err)
			assert.True(t, resp.AlreadySynced)
			assert.Equal(t, "AB123", resp.Result.TrackingCode)
			assert.Equal(t, "AB123", resp.Order.DeliveryTracking)
		}
		assert.Empty(t, p.shipments)
		assert.Equal(t, items, o.Items)
		assert.True(t, total.Equal(o.Total))
		repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("unsynced order is sent", func(t *testing.T) {
		o := newOrder(t)
		total := o.Total
		repo := new(MockOrderRepository)
		repo.On("FindByID", ctx, o.ID).Return(o, nil)
		repo.On("Update", ctx, o).Return(nil)
		p := &stubProvider{result: &delivery.SyncResult{Success: true, TrackingCode: "AB123"}}

		resp, err := newService(repo, p).Resync(ctx, o.ID)
		require.NoError(t, err)
		assert.False(t, resp.AlreadySynced)
		assert.Equal(t, "shipped", resp.Order.Status)
		assert.True(t, total.Equal(resp.Order.Total))
		assert.Len(t, p.shipments, 1)
	})

	t.Run("delivered order without tracking is refused", func(t *testing.T) {
		for _, st := range []order.Status{order.StatusShipped, order.StatusDelivered} {
			o := newOrder(t)
			o.Status = st
			repo := new(MockOrderRepository)
			repo.On("FindByID", ctx, o.ID).Return(o, nil)
			p := &stubProvider{result: &delivery.SyncResult{Success: true, TrackingCode: "AB123"}}

			_, err := newService(repo, p).Resync(ctx, o.ID)
			assert.ErrorIs(t, err, shared.ErrInvalidState)
			assert.Empty(t, p.shipments)
			assert.Equal(t, st, o.Status)
			repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		}
	})

	t.Run("missing order", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindByID", ctx, "nope").Return(nil, shared.ErrNotFound)
		_, err := newService(repo, &stubProvider{}).Resync(ctx, "nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_ListUnsynced(t *testing.T) {
	ctx := context.Background()
	o := newOrder(t)
	repo := new(MockOrderRepository)
	repo.On("List", ctx, order.Filter{Unsynced: true}).Return([]order.Order{*o}, nil)

	got, err := newService(repo, &stubProvider{}).ListUnsynced(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, o.ID, got[0].ID)
}

func TestService_StaleUnsynced(t *testing.T) {
	ctx := context.Background()
	cutoff := fixedNow.Add(-10 * time.Minute)

	fresh := newOrder(t)
	fresh.CreatedAt = fixedNow.Add(-time.Minute)
	old := newOrder(t)
	old.CreatedAt = fixedNow.Add(-2 * time.Hour)
	older := newOrder(t)
	older.CreatedAt = fixedNow.Add(-3 * time.Hour)
	retried := newOrder(t)
	retried.CreatedAt = fixedNow.Add(-4 * time.Hour)
	retried.RecordSyncFailure("ecotrack", "502", fixedNow.Add(-time.Minute))

	// newest first, as the repository returns them
	listed := []order.Order{*fresh, *old, *older, *retried}

	tests := []struct {
		name  string
		limit int
		want  []string
	}{
		{"oldest first", 0, []string{older.ID, old.ID}},
		{"limit", 1, []string{older.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockOrderRepository)
			repo.On("List", ctx, order.Filter{Unsynced: true}).Return(listed, nil)

			got, err := newService(repo, &stubProvider{}).StaleUnsynced(ctx, cutoff, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("List", ctx, order.Filter{Unsynced: true}).Return(nil, errors.New("db down"))
		_, err := newService(repo, &stubProvider{}).StaleUnsynced(ctx, cutoff, 5)
		assert.Error(t, err)
	})
}

func TestService_RetrySync(t *testing.T) {
	ctx := context.Background()

	t.Run("tracking obtained", func(t *testing.T) {
		o := newOrder(t)
		repo := new(MockOrderRepository)
		repo.On("FindByID", ctx, o.ID).Return(o, nil)
		repo.On("Update", ctx, o).Return(nil)
		p := &stubProvider{result: &delivery.SyncResult{Success: true, TrackingCode: "AB123"}}

		ok, err := newService(repo, p).RetrySync(ctx, o.ID)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("carrier still failing", func(t *testing.T) {
		o := newOrder(t)
		repo := new(MockOrderRepository)
		repo.On("FindByID", ctx, o.ID).Return(o, nil)
		repo.On("Update", ctx, o).Return(nil)
		p := &stubProvider{result: delivery.Failure("ecotrack", "bad gateway")}

		ok, err := newService(repo, p).RetrySync(ctx, o.ID)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, order.StatusPending, o.Status)
	})

	t.Run("missing order", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindByID", ctx, "nope").Return(nil, shared.ErrNotFound)
		_, err := newService(repo, &stubProvider{}).RetrySync(ctx, "nope")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		res  delivery.SyncResult
		want string
	}{
		{"tracking", delivery.SyncResult{Success: true, TrackingCode: "A"}, "shipped"},
		{"degraded", delivery.SyncResult{Success: true, Degraded: true}, "degraded"},
		{"accepted", delivery.SyncResult{Success: true}, "accepted"},
		{"failed", delivery.SyncResult{Error: "x"}, "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, outcome(&tt.res))
		})
	}
}
