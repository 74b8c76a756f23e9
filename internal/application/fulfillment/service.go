// Package fulfillment registers placed orders with the delivery carrier.
package fulfillment

import (
	"context"
	"errors"
	"time"

	orderapp "github.com/hadesigndz/Ha-Design/internal/application/order"
	"github.com/hadesigndz/Ha-Design/internal/domain/delivery"
	"github.com/hadesigndz/Ha-Design/internal/domain/order"
	"github.com/hadesigndz/Ha-Design/internal/domain/shared"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/logger"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Service runs delivery registrations for orders
type Service struct {
	repo            order.Repository
	provider        delivery.Provider
	businessMetrics *telemetry.BusinessMetrics
	now             func() time.Time
}

// NewService creates a new fulfillment service
func NewService(repo order.Repository, provider delivery.Provider) *Service {
	return &Service{
		repo:     repo,
		provider: provider,
		now:      time.Now,
	}
}

// SetBusinessMetrics sets the business metrics for sync outcome tracking
func (s *Service) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// ProviderCode returns the active provider id
func (s *Service) ProviderCode() string {
	return s.provider.Code()
}

// Sync registers o with the carrier and records the outcome on the order.
// It never fails: the returned result carries any error. A tracking code
// moves the order to shipped; anything else leaves its status unchanged.
func (s *Service) Sync(ctx context.Context, o *order.Order) *delivery.SyncResult {
	ctx, span := telemetry.StartServiceSpan(ctx, "fulfillment", "sync",
		attribute.String(telemetry.SpanAttrOrderID, o.ID),
		attribute.String(telemetry.SpanAttrProvider, s.provider.Code()),
	)
	defer span.End()

	log := logger.Ctx(ctx).With(
		zap.String("order_id", o.ID),
		zap.String("provider", s.provider.Code()),
	)

	now := s.now()
	result := s.provider.CreateShipment(ctx, delivery.NewShipment(o, now))
	if result == nil {
		result = delivery.Failure(s.provider.Code(), "provider returned no result")
	}
	if result.Provider == "" {
		result.Provider = s.provider.Code()
	}

	span.SetAttributes(attribute.Int(telemetry.SpanAttrStatusCode, result.StatusCode))
	if result.HasTracking() {
		span.SetAttributes(attribute.String(telemetry.SpanAttrTracking, result.TrackingCode))
		if err := o.MarkShipped(result.TrackingCode, result.Provider, now); err != nil {
			log.Warn("Rejected tracking code", zap.Error(err))
		}
	} else {
		reason := result.Error
		if result.Success {
			reason = "carrier accepted the shipment without a tracking code"
		}
		o.RecordSyncFailure(result.Provider, reason, now)
		if !result.Success {
			telemetry.RecordError(span, errors.New(reason))
		}
	}

	if err := s.repo.Update(ctx, o); err != nil {
		log.Error("Failed to persist delivery sync outcome", zap.Error(err))
	}

	s.businessMetrics.RecordDeliverySync(ctx, result.Provider, outcome(result))

	fields := []zap.Field{
		zap.Int("status_code", result.StatusCode),
		zap.Bool("success", result.Success),
		zap.String("tracking", result.TrackingCode),
		zap.Bool("degraded", result.Degraded),
	}
	if result.Success {
		log.Info("Delivery sync completed", fields...)
	} else {
		log.Warn("Delivery sync failed", append(fields, zap.String("error", result.Error))...)
	}
	return result
}

func outcome(r *delivery.SyncResult) string {
	switch {
	case r.HasTracking():
		return telemetry.OutcomeShipped
	case r.Success && r.Degraded:
		return telemetry.OutcomeDegraded
	case r.Success:
		return telemetry.OutcomeAccepted
	default:
		return telemetry.OutcomeFailed
	}
}

// ErrNotAwaitingSync is returned when a resync targets an order that moved
// past the pending and confirmed statuses without a tracking code.
var ErrNotAwaitingSync = shared.NewDomainError("INVALID_STATE", "Order is no longer awaiting delivery sync")

// Resync is the manual admin retry. An order that already carries a
// tracking code is returned as is without contacting the carrier.
func (s *Service) Resync(ctx context.Context, orderID string) (*ResyncResponse, error) {
	o, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if o.HasTracking() {
		return &ResyncResponse{
			Order:         orderapp.ToOrderResponse(o),
			Result:        &delivery.SyncResult{Success: true, TrackingCode: o.DeliveryTracking, Provider: o.DeliveryProvider},
			AlreadySynced: true,
		}, nil
	}
	if !o.AwaitingSync() {
		return nil, ErrNotAwaitingSync
	}

	result := s.Sync(ctx, o)
	return &ResyncResponse{Order: orderapp.ToOrderResponse(o), Result: result}, nil
}

// ListUnsynced returns orders still waiting for a tracking code, newest first
func (s *Service) ListUnsynced(ctx context.Context) ([]orderapp.OrderResponse, error) {
	orders, err := s.repo.List(ctx, order.Filter{Unsynced: true})
	if err != nil {
		return nil, err
	}
	views := make([]orderapp.OrderResponse, 0, len(orders))
	for i := range orders {
		views = append(views, orderapp.ToOrderResponse(&orders[i]))
	}
	return views, nil
}

// StaleUnsynced returns up to limit order ids awaiting sync whose last
// attempt, or creation when never attempted, is older than cutoff. Oldest
// orders come first.
func (s *Service) StaleUnsynced(ctx context.Context, cutoff time.Time, limit int) ([]string, error) {
	orders, err := s.repo.List(ctx, order.Filter{Unsynced: true})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(orders))
	for i := len(orders) - 1; i >= 0; i-- {
		o := &orders[i]
		last := o.CreatedAt
		if o.LastSyncAt != nil {
			last = *o.LastSyncAt
		}
		if !last.Before(cutoff) {
			continue
		}
		ids = append(ids, o.ID)
		if limit > 0 && len(ids) == limit {
			break
		}
	}
	return ids, nil
}

// RetrySync re-runs delivery sync for one order and reports whether it now
// carries a tracking code.
func (s *Service) RetrySync(ctx context.Context, orderID string) (bool, error) {
	resp, err := s.Resync(ctx, orderID)
	if err != nil {
		return false, err
	}
	return resp.Result != nil && resp.Result.HasTracking(), nil
}
