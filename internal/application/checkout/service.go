// Package checkout turns carts into placed orders.
package checkout

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	orderapp "github.com/hadesigndz/Ha-Design/internal/application/order"
	"github.com/hadesigndz/Ha-Design/internal/domain/cart"
	"github.com/hadesigndz/Ha-Design/internal/domain/catalog"
	"github.com/hadesigndz/Ha-Design/internal/domain/delivery"
	"github.com/hadesigndz/Ha-Design/internal/domain/order"
	"github.com/hadesigndz/Ha-Design/internal/domain/region"
	"github.com/hadesigndz/Ha-Design/internal/domain/shared"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/logger"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Syncer registers a freshly placed order with the carrier
type Syncer interface {
	Sync(ctx context.Context, o *order.Order) *delivery.SyncResult
}

// ProductReader resolves catalog products added to a cart
type ProductReader interface {
	FindByID(ctx context.Context, id string) (*catalog.Product, error)
}

// ErrSessionRequired is returned when a cart call carries no session id
var ErrSessionRequired = shared.NewDomainError("INVALID_INPUT", "Cart session is required")

// Service implements order submission and the session cart
type Service struct {
	orders          order.Repository
	products        ProductReader
	carts           cart.Store
	syncer          Syncer
	validate        *validator.Validate
	businessMetrics *telemetry.BusinessMetrics
	now             func() time.Time
}

// NewService creates a new checkout service
func NewService(orders order.Repository, products ProductReader, carts cart.Store, syncer Syncer) *Service {
	return &Service{
		orders:   orders,
		products: products,
		carts:    carts,
		syncer:   syncer,
		validate: NewValidator(),
		now:      time.Now,
	}
}

// SetBusinessMetrics sets the business metrics for order tracking
func (s *Service) SetBusinessMetrics(bm *telemetry.BusinessMetrics) {
	s.businessMetrics = bm
}

// Submit validates and stores an order, then attempts delivery registration.
// Registration is best-effort: its failure is reported in the response and
// never fails the call or rolls the order back.
func (s *Service) Submit(ctx context.Context, customer CustomerRequest, items []ItemRequest) (*PlaceOrderResponse, error) {
	return s.submit(ctx, customer, telemetry.SourceDirect, func(ctx context.Context) ([]order.Item, error) {
		return s.resolveItems(ctx, items)
	})
}

// lineSource yields the order lines once the customer has been validated
type lineSource func(ctx context.Context) ([]order.Item, error)

func (s *Service) submit(ctx context.Context, customer CustomerRequest, source string, lines lineSource) (*PlaceOrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "submit")
	defer span.End()

	customer = normalizeCustomer(customer)
	if err := s.validateCustomer(customer); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	items, err := lines(ctx)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int(telemetry.SpanAttrItemCount, len(items)))

	o, err := order.NewOrder(customer.toDomain(), items)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	o.CreatedAt = s.now()
	o.UpdatedAt = o.CreatedAt
	span.SetAttributes(
		attribute.String(telemetry.SpanAttrOrderID, o.ID),
		attribute.String(telemetry.SpanAttrWilaya, o.Customer.Wilaya),
	)

	log := logger.Ctx(ctx).With(zap.String("order_id", o.ID))
	if err := s.orders.Create(ctx, o); err != nil {
		log.Error("Failed to store order", zap.Error(err))
		telemetry.RecordError(span, err)
		return nil, shared.ErrOrderPlacementFailed
	}
	log.Info("Order placed",
		zap.String("wilaya", o.Customer.Wilaya),
		zap.String("subtotal", o.Subtotal.String()),
		zap.String("delivery_fee", o.DeliveryFee.String()),
		zap.String("total", o.Total.String()),
		zap.Int("items", o.ItemCount()),
	)
	s.businessMetrics.RecordOrderPlaced(ctx, source, o.Customer.Wilaya, string(region.ZoneFor(o.Customer.Wilaya)), o.Total)

	result := s.syncer.Sync(ctx, o)

	resp := &PlaceOrderResponse{Order: orderapp.ToOrderResponse(o)}
	if result != nil {
		resp.Delivery = DeliveryOutcome{
			Success:      result.Success,
			TrackingCode: result.TrackingCode,
			Error:        result.Error,
		}
	}
	return resp, nil
}

// Checkout places an order from the session cart and empties the cart
func (s *Service) Checkout(ctx context.Context, sessionID string, customer CustomerRequest) (*PlaceOrderResponse, error) {
	c, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, shared.ErrEmptyCart
	}

	resp, err := s.submit(ctx, customer, telemetry.SourceCart, func(context.Context) ([]order.Item, error) {
		return c.OrderItems(), nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.Delete(ctx, c.SessionID); err != nil {
		logger.Ctx(ctx).Warn("Failed to clear cart after checkout",
			zap.String("session_id", c.SessionID),
			zap.String("order_id", resp.Order.ID),
			zap.Error(err),
		)
	}
	return resp, nil
}

// resolveItems prices explicit order lines from the catalog. Only the id and
// quantity of each request line are used.
func (s *Service) resolveItems(ctx context.Context, reqs []ItemRequest) ([]order.Item, error) {
	if len(reqs) == 0 {
		return nil, shared.ErrEmptyCart
	}
	items := make([]order.Item, 0, len(reqs))
	for _, r := range reqs {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			return nil, shared.NewDomainError("INVALID_INPUT", "Item id is required")
		}
		if r.Quantity < 1 {
			return nil, shared.NewDomainError("INVALID_INPUT", "Item quantity must be at least 1")
		}
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("NOT_FOUND", "Product not found: "+id)
			}
			return nil, err
		}
		items = append(items, order.Item{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  r.Quantity,
			Image:     p.Image,
		})
	}
	return items, nil
}

func (s *Service) loadCart(ctx context.Context, sessionID string) (*cart.Cart, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, ErrSessionRequired
	}
	return s.carts.Get(ctx, sessionID)
}

// GetCart returns the session cart
func (s *Service) GetCart(ctx context.Context, sessionID string) (*CartResponse, error) {
	c, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	resp := ToCartResponse(c)
	return &resp, nil
}

// AddItem copies a catalog product into the cart
func (s *Service) AddItem(ctx context.Context, sessionID string, req AddItemRequest) (*CartResponse, error) {
	c, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	qty := req.Quantity
	if qty == 0 {
		qty = 1
	}

	p, err := s.products.FindByID(ctx, strings.TrimSpace(req.ProductID))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
		}
		return nil, err
	}

	if err := c.Add(cart.Line{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  qty,
		Image:     p.Image,
	}); err != nil {
		return nil, err
	}
	return s.saveCart(ctx, c)
}

// UpdateQuantity sets a line quantity; zero or less removes the line
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, req UpdateQuantityRequest) (*CartResponse, error) {
	c, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.SetQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}
	return s.saveCart(ctx, c)
}

// RemoveItem drops a cart line
func (s *Service) RemoveItem(ctx context.Context, sessionID, productID string) (*CartResponse, error) {
	c, err := s.loadCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := c.Remove(productID); err != nil {
		return nil, err
	}
	return s.saveCart(ctx, c)
}

// ClearCart empties the session cart
func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return ErrSessionRequired
	}
	return s.carts.Delete(ctx, sessionID)
}

func (s *Service) saveCart(ctx context.Context, c *cart.Cart) (*CartResponse, error) {
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := ToCartResponse(c)
	return &resp, nil
}

// Quote previews subtotal, delivery fee and total for the session cart
// shipped to wilaya. The wilaya may be a code or a display name.
func (s *Service) Quote(ctx context.Context, sessionID, wilaya string) (*QuoteResponse, error) {
	code, ok := region.ParseCode(wilaya)
	if !ok {
		return nil, shared.ErrUnknownRegion
	}

	subtotal := decimal.Zero
	if strings.TrimSpace(sessionID) != "" {
		c, err := s.loadCart(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		subtotal = c.Subtotal()
	}

	fee := decimal.NewFromInt(region.PriceFor(code))
	return &QuoteResponse{
		Wilaya:      code,
		WilayaName:  region.NameFor(code),
		Zone:        string(region.ZoneFor(code)),
		Subtotal:    subtotal,
		DeliveryFee: fee,
		DeskFee:     decimal.NewFromInt(region.DeskPriceFor(code)),
		Total:       subtotal.Add(fee),
	}, nil
}
