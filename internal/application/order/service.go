// Package order holds the admin order back-office operations.
package order

import (
	"context"
	"strings"

	"github.com/hadesigndz/Ha-Design/internal/domain/order"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ProductCounter reports the catalog size for the dashboard
type ProductCounter interface {
	Count(ctx context.Context) (int64, error)
}

// Service handles admin order operations
type Service struct {
	repo     order.Repository
	products ProductCounter
}

// NewService creates a new order service
func NewService(repo order.Repository, products ProductCounter) *Service {
	return &Service{repo: repo, products: products}
}

// List returns orders newest first, optionally filtered by status
func (s *Service) List(ctx context.Context, filter ListFilter) ([]OrderResponse, error) {
	var f order.Filter
	if st := strings.TrimSpace(filter.Status); st != "" && !strings.EqualFold(st, "all") {
		status, err := order.ParseStatus(st)
		if err != nil {
			return nil, err
		}
		f.Status = status
	}

	orders, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// Get returns one order
func (s *Service) Get(ctx context.Context, id string) (*OrderResponse, error) {
	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(o)
	return &resp, nil
}

// UpdateStatus sets any of the known statuses. Items and totals are untouched.
func (s *Service) UpdateStatus(ctx context.Context, id string, req UpdateStatusRequest) (*OrderResponse, error) {
	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	o, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := o.Status
	if err := o.SetStatus(status); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	logger.Ctx(ctx).Info("Order status updated",
		zap.String("order_id", o.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)
	resp := ToOrderResponse(o)
	return &resp, nil
}

// Delete removes an order permanently
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Ctx(ctx).Info("Order deleted", zap.String("order_id", id))
	return nil
}

// Stats aggregates dashboard figures over the full order collection
func (s *Service) Stats(ctx context.Context) (*StatsResponse, error) {
	orders, err := s.repo.List(ctx, order.Filter{})
	if err != nil {
		return nil, err
	}
	products, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := &StatsResponse{
		TotalProducts: products,
		TotalOrders:   len(orders),
		Revenue:       decimal.Zero,
		ByStatus:      make(map[string]int, len(order.Statuses)),
	}
	for _, st := range order.Statuses {
		stats.ByStatus[string(st)] = 0
	}
	for i := range orders {
		o := &orders[i]
		stats.Revenue = stats.Revenue.Add(o.Total)
		stats.ByStatus[string(o.Status)]++
		if o.AwaitingSync() {
			stats.Unsynced++
		}
	}
	return stats, nil
}
