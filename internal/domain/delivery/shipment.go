package delivery

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hadesigndz/Ha-Design/internal/domain/order"
	"github.com/hadesigndz/Ha-Design/internal/domain/region"
)

// Delivery types understood by carriers
const (
	TypeDelivery = 1
	TypeExchange = 2
)

// Shipment is the carrier-neutral registration request for an order
type Shipment struct {
	Reference      string
	RecipientName  string
	Phone          string
	Address        string
	WilayaCode     string
	WilayaName     string
	Commune        string
	Amount         int64
	ProductSummary string
	Type           int
	StopDesk       bool
}

// NewShipment derives a shipment from an order. The amount is the order
// total rounded to the nearest dinar.
func NewShipment(o *order.Order, now time.Time) *Shipment {
	c := o.Customer
	return &Shipment{
		Reference:      Reference(o.ID, now),
		RecipientName:  c.FullName,
		Phone:          NormalizePhone(c.Phone),
		Address:        composeAddress(c.Address, c.Commune),
		WilayaCode:     c.Wilaya,
		WilayaName:     region.NameFor(c.Wilaya),
		Commune:        c.Commune,
		Amount:         o.Total.Round(0).IntPart(),
		ProductSummary: ProductSummary(o.Items),
		Type:           TypeDelivery,
		StopDesk:       false,
	}
}

// Reference returns the carrier reference for an order. The order id is
// reused so repeated registrations carry the same reference. Orders
// without an id fall back to a millisecond timestamp.
func Reference(orderID string, now time.Time) string {
	if orderID == "" {
		return "ORDER-" + strconv.FormatInt(now.UnixMilli(), 10)
	}
	return orderID
}

// ProductSummary renders items as "Name (xN), Other (xM)"
func ProductSummary(items []order.Item) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s (x%d)", it.Name, it.Quantity))
	}
	return strings.Join(parts, ", ")
}

func composeAddress(street, commune string) string {
	street = strings.TrimSpace(street)
	commune = strings.TrimSpace(commune)
	switch {
	case street == "":
		return commune
	case commune == "":
		return street
	default:
		return street + ", " + commune
	}
}
