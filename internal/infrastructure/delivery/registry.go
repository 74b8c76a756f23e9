package delivery

import (
	"context"
	"fmt"
	"strings"
	"sync"

	domain "github.com/hadesigndz/Ha-Design/internal/domain/delivery"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/config"
	"go.uber.org/zap"
)

// DisabledReason is reported when carrier registration is switched off
const DisabledReason = "delivery sync disabled"

// DisabledProvider is installed when delivery.enabled is false. It never
// touches the network.
type DisabledProvider struct{}

// Code returns "disabled"
func (DisabledProvider) Code() string { return "disabled" }

// CreateShipment always fails with DisabledReason
func (d DisabledProvider) CreateShipment(_ context.Context, _ *domain.Shipment) *domain.SyncResult {
	return domain.Failure(d.Code(), DisabledReason)
}

// Registry maps provider ids to providers
type Registry struct {
	mu        sync.RWMutex
	providers map[string]domain.Provider
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]domain.Provider)}
}

// Register adds or replaces a provider under its code
func (r *Registry) Register(p domain.Provider) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[strings.ToLower(p.Code())] = p
}

// Get returns the provider for id
func (r *Registry) Get(id string) (domain.Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.providers[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, id)
	}
	return p, nil
}

// Codes returns the registered provider ids
func (r *Registry) Codes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	codes := make([]string, 0, len(r.providers))
	for c := range r.providers {
		codes = append(codes, c)
	}
	return codes
}

// NewRegistryFromConfig registers one HTTP provider per built-in contract,
// all sharing the configured gateway and token
func NewRegistryFromConfig(cfg config.DeliveryConfig, logger *zap.Logger) *Registry {
	r := NewRegistry()
	for _, id := range ContractIDs() {
		c, _ := LookupContract(id)
		r.Register(NewHTTPProvider(c, cfg.BaseURL, cfg.Token, cfg.Timeout(),
			WithSecondaryPhone(cfg.SecondaryPhone),
			WithProviderLogger(logger),
		))
	}
	return r
}

// ActiveProvider resolves the provider selected by configuration
func ActiveProvider(cfg config.DeliveryConfig, logger *zap.Logger) (domain.Provider, error) {
	if !cfg.Enabled {
		return DisabledProvider{}, nil
	}
	return NewRegistryFromConfig(cfg, logger).Get(cfg.Provider)
}
