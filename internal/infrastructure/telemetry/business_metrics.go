package telemetry

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Delivery sync outcomes
const (
	OutcomeShipped  = "shipped"  // tracking code obtained
	OutcomeAccepted = "accepted" // success without tracking
	OutcomeDegraded = "degraded" // non-JSON body read as success
	OutcomeFailed   = "failed"
)

// Order sources
const (
	SourceCart   = "cart"
	SourceDirect = "direct"
)

// BusinessMetrics holds the storefront business instruments.
type BusinessMetrics struct {
	ordersPlaced     *Counter
	deliverySync     *Counter
	orderTotalAmount *Histogram
	logger           *zap.Logger
}

// BusinessMetricsConfig holds configuration for business metrics.
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBusinessMetrics creates the business instruments on cfg.Meter.
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, errors.New("NewBusinessMetrics: meter cannot be nil")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ordersPlaced, err := NewCounter(cfg.Meter,
		"orders_placed_total",
		"Total number of orders placed",
		"{order}",
	)
	if err != nil {
		return nil, err
	}

	deliverySync, err := NewCounter(cfg.Meter,
		"delivery_sync_total",
		"Total number of delivery registration attempts by provider and outcome",
		"{attempt}",
	)
	if err != nil {
		return nil, err
	}

	orderTotalAmount, err := NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "order_total_amount",
		Description: "Distribution of order totals including the delivery fee",
		Unit:        "DZD",
		Boundaries:  OrderAmountBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &BusinessMetrics{
		ordersPlaced:     ordersPlaced,
		deliverySync:     deliverySync,
		orderTotalAmount: orderTotalAmount,
		logger:           logger,
	}, nil
}

// RecordOrderPlaced counts a placed order and records its total.
func (bm *BusinessMetrics) RecordOrderPlaced(ctx context.Context, source, wilaya, zone string, total decimal.Decimal) {
	if bm == nil {
		return
	}
	bm.ordersPlaced.Inc(ctx, AttrSource.String(source), AttrZone.String(zone))
	amount, _ := total.Float64()
	bm.orderTotalAmount.Record(ctx, amount, AttrWilaya.String(wilaya))
}

// RecordDeliverySync counts a delivery registration attempt.
func (bm *BusinessMetrics) RecordDeliverySync(ctx context.Context, provider, outcome string) {
	if bm == nil {
		return
	}
	bm.deliverySync.Inc(ctx, AttrProvider.String(provider), AttrOutcome.String(outcome))
}
