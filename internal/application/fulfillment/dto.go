package fulfillment

import (
	orderapp "github.com/hadesigndz/Ha-Design/internal/application/order"
	"github.com/hadesigndz/Ha-Design/internal/domain/delivery"
)

// ResyncResponse is the outcome of a manual delivery resync
type ResyncResponse struct {
	Order         orderapp.OrderResponse `json:"order"`
	Result        *delivery.SyncResult   `json:"delivery"`
	AlreadySynced bool                   `json:"alreadySynced"`
}
