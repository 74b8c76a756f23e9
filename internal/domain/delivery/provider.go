// Package delivery describes shipment registration with last-mile carriers.
package delivery

import "context"

// SyncResult is the outcome of a registration attempt. Providers never
// return errors: transport and protocol failures are folded in here.
type SyncResult struct {
	Success      bool   `json:"success"`
	TrackingCode string `json:"trackingCode,omitempty"`
	Error        string `json:"error,omitempty"`
	StatusCode   int    `json:"statusCode,omitempty"`
	Provider     string `json:"provider,omitempty"`
	// Degraded is set when the body was not JSON and success was read
	// from a text marker.
	Degraded bool `json:"degraded,omitempty"`
}

// HasTracking reports whether a tracking code was obtained
func (r *SyncResult) HasTracking() bool {
	return r != nil && r.TrackingCode != ""
}

// Failure builds an unsuccessful result
func Failure(provider, reason string) *SyncResult {
	return &SyncResult{Provider: provider, Error: reason}
}

// Provider registers shipments with a carrier
type Provider interface {
	// Code returns the provider identifier, e.g. "ecotrack"
	Code() string

	// CreateShipment registers the shipment and reports the outcome
	CreateShipment(ctx context.Context, s *Shipment) *SyncResult
}
