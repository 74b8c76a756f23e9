package order

import (
	"context"
	"errors"
	"testing"

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

type stubCounter struct {
	n   int64
	err error
}

func (s stubCounter) Count(context.Context) (int64, error) { return s.n, s.err }

func newOrder(t *testing.T, wilaya string, price int64, qty int) *order.Order {
	t.Helper()
	o, err := order.NewOrder(order.Customer{
		FullName: "Amina B.",
		Phone:    "0555123456",
		Wilaya:   wilaya,
		Commune:  "Hydra",
		Address:  "12 rue Didouche",
	}, []order.Item{{ProductID: "p1", Name: "Tableau", Price: decimal.NewFromInt(price), Quantity: qty}})
	require.NoError(t, err)
	return o
}

func TestService_List(t *testing.T) {
	ctx := context.Background()

	t.Run("status filter", func(t *testing.T) {
		repo := new(MockOrderRepository)
		o := newOrder(t, "16", 3000, 1)
		repo.On("List", ctx, order.Filter{Status: order.StatusPending}).Return([]order.Order{*o}, nil)

		got, err := NewService(repo, stubCounter{}).List(ctx, ListFilter{Status: "Pending"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "pending", got[0].Status)
		assert.Equal(t, "Alger", got[0].Customer.WilayaName)
		assert.True(t, got[0].Total.Equal(decimal.NewFromInt(3350)))
		repo.AssertExpectations(t)
	})

	t.Run("all means no filter", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("List", ctx, order.Filter{}).Return([]order.Order{}, nil)

		got, err := NewService(repo, stubCounter{}).List(ctx, ListFilter{Status: "all"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown status", func(t *testing.T) {
		_, err := NewService(new(MockOrderRepository), stubCounter{}).List(ctx, ListFilter{Status: "lost"})
		var de *shared.DomainError
		require.ErrorAs(t, err, &de)
		assert.Equal(t, "INVALID_STATUS", de.Code)
	})
}

func TestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("free transition keeps totals", func(t *testing.T) {
		repo := new(MockOrderRepository)
		o := newOrder(t, "31", 2000, 2)
		total := o.Total
		repo.On("FindByID", ctx, o.ID).Return(o, nil)
		repo.On("Update", ctx, o).Return(nil)

		svc := NewService(repo, stubCounter{})
		resp, err := svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "delivered"})
		require.NoError(t, err)
		assert.Equal(t, "delivered", resp.Status)

		resp, err = svc.UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "pending"})
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.True(t, resp.Total.Equal(total))
		assert.Empty(t, resp.DeliveryTracking, "shipped does not require tracking and setting status adds none")
	})

	t.Run("shipped without tracking", func(t *testing.T) {
		repo := new(MockOrderRepository)
		o := newOrder(t, "31", 2000, 1)
		repo.On("FindByID", ctx, o.ID).Return(o, nil)
		repo.On("Update", ctx, o).Return(nil)

		resp, err := NewService(repo, stubCounter{}).UpdateStatus(ctx, o.ID, UpdateStatusRequest{Status: "shipped"})
		require.NoError(t, err)
		assert.Equal(t, "shipped", resp.Status)
	})

	t.Run("invalid status is rejected before lookup", func(t *testing.T) {
		repo := new(MockOrderRepository)
		_, err := NewService(repo, stubCounter{}).UpdateStatus(ctx, "x", UpdateStatusRequest{Status: "returned"})
		assert.ErrorContains(t, err, "Unknown order status")
		repo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
	})

	t.Run("missing order", func(t *testing.T) {
		repo := new(MockOrderRepository)
		repo.On("FindByID", ctx, "missing").Return(nil, shared.ErrNotFound)
		_, err := NewService(repo, stubCounter{}).UpdateStatus(ctx, "missing", UpdateStatusRequest{Status: "confirmed"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := new(MockOrderRepository)
	repo.On("Delete", ctx, "o1").Return(nil)
	repo.On("Delete", ctx, "missing").Return(shared.ErrNotFound)

	svc := NewService(repo, stubCounter{})
	assert.NoError(t, svc.Delete(ctx, "o1"))
	assert.ErrorIs(t, svc.Delete(ctx, "missing"), shared.ErrNotFound)
}

func TestService_Stats(t *testing.T) {
	ctx := context.Background()

	pending := newOrder(t, "16", 3000, 1) // 3350
	shipped := newOrder(t, "31", 1000, 2) // 2650
	require.NoError(t, shipped.SetStatus(order.StatusShipped))
	tracked := newOrder(t, "09", 4000, 1) // 4500
	require.NoError(t, tracked.MarkShipped("AB123", "ecotrack", tracked.CreatedAt))

	repo := new(MockOrderRepository)
	repo.On("List", ctx, order.Filter{}).Return([]order.Order{*pending, *shipped, *tracked}, nil)

	stats, err := NewService(repo, stubCounter{n: 12}).Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(12), stats.TotalProducts)
	assert.Equal(t, 3, stats.TotalOrders)
	assert.True(t, stats.Revenue.Equal(decimal.NewFromInt(10500)), stats.Revenue.String())
	assert.Equal(t, map[string]int{"pending": 1, "confirmed": 0, "shipped": 2, "delivered": 0}, stats.ByStatus)
	assert.Equal(t, 1, stats.Unsynced)

	t.Run("count failure", func(t *testing.T) {
		_, err := NewService(repo, stubCounter{err: errors.New("db down")}).Stats(ctx)
		assert.Error(t, err)
	})
}
