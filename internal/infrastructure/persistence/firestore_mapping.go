package persistence

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hadesigndz/Ha-Design/internal/domain/catalog"
	"github.com/hadesigndz/Ha-Design/internal/domain/order"
	"github.com/hadesigndz/Ha-Design/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Documents use the field names written by the storefront SPA so both can
// share a project.

func orderToDoc(o *order.Order) map[string]any {
	items := make([]any, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, map[string]any{
			"id":       it.ProductID,
			"name":     it.Name,
			"price":    it.Price.InexactFloat64(),
			"quantity": int64(it.Quantity),
			"image":    it.Image,
		})
	}
	doc := map[string]any{
		"customer": map[string]any{
			"fullName": o.Customer.FullName,
			"phone":    o.Customer.Phone,
			"wilaya":   o.Customer.Wilaya,
			"commune":  o.Customer.Commune,
			"address":  o.Customer.Address,
		},
		"items":            items,
		"subtotal":         o.Subtotal.InexactFloat64(),
		"deliveryFee":      o.DeliveryFee.InexactFloat64(),
		"total":            o.Total.InexactFloat64(),
		"status":           string(o.Status),
		"deliveryTracking": o.DeliveryTracking,
		"deliveryProvider": o.DeliveryProvider,
		"lastSyncError":    o.LastSyncError,
		"createdAt":        o.CreatedAt,
		"updatedAt":        o.UpdatedAt,
	}
	if o.LastSyncAt != nil {
		doc["lastSyncAt"] = *o.LastSyncAt
	}
	return doc
}

func docToOrder(id string, data map[string]any) (*order.Order, error) {
	o := &order.Order{
		BaseEntity: shared.BaseEntity{
			ID:        id,
			CreatedAt: timeField(data, "createdAt"),
			UpdatedAt: timeField(data, "updatedAt"),
		},
		Status:           order.Status(stringField(data, "status")),
		DeliveryTracking: stringField(data, "deliveryTracking"),
		DeliveryProvider: stringField(data, "deliveryProvider"),
		LastSyncError:    stringField(data, "lastSyncError"),
	}
	if o.Status == "" {
		o.Status = order.StatusPending
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}
	if t := timeField(data, "lastSyncAt"); !t.IsZero() {
		o.LastSyncAt = &t
	}

	if c, ok := data["customer"].(map[string]any); ok {
		o.Customer = order.Customer{
			FullName: stringField(c, "fullName"),
			Phone:    stringField(c, "phone"),
			Wilaya:   stringField(c, "wilaya"),
			Commune:  stringField(c, "commune"),
			Address:  stringField(c, "address"),
		}
	}

	raw, _ := data["items"].([]any)
	for i, r := range raw {
		m, ok := r.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("order %s: item %d is not an object", id, i)
		}
		price, err := decimalField(m, "price")
		if err != nil {
			return nil, fmt.Errorf("order %s: item %d: %w", id, i, err)
		}
		qty, err := decimalField(m, "quantity")
		if err != nil {
			return nil, fmt.Errorf("order %s: item %d: %w", id, i, err)
		}
		o.Items = append(o.Items, order.Item{
			ProductID: stringField(m, "id"),
			Name:      stringField(m, "name"),
			Price:     price,
			Quantity:  int(qty.IntPart()),
			Image:     stringField(m, "image"),
		})
	}

	total, err := decimalField(data, "total")
	if err != nil {
		return nil, fmt.Errorf("order %s: %w", id, err)
	}
	o.Total = total

	// Orders written by the SPA only carry the total
	o.Subtotal = order.Subtotal(o.Items)
	if _, ok := data["deliveryFee"]; ok {
		if o.DeliveryFee, err = decimalField(data, "deliveryFee"); err != nil {
			return nil, fmt.Errorf("order %s: %w", id, err)
		}
	} else {
		o.DeliveryFee = o.Total.Sub(o.Subtotal)
	}
	return o, nil
}

func productToDoc(p *catalog.Product) map[string]any {
	doc := map[string]any{
		"name":        p.Name,
		"price":       p.Price.InexactFloat64(),
		"category":    string(p.Category),
		"description": p.Description,
		"image":       p.Image,
		"isPromo":     p.IsPromo,
		"createdAt":   p.CreatedAt,
		"updatedAt":   p.UpdatedAt,
		"oldPrice":    nil,
	}
	if p.OldPrice != nil {
		doc["oldPrice"] = p.OldPrice.InexactFloat64()
	}
	return doc
}

func docToProduct(id string, data map[string]any) (*catalog.Product, error) {
	price, err := decimalField(data, "price")
	if err != nil {
		return nil, fmt.Errorf("product %s: %w", id, err)
	}
	p := &catalog.Product{
		BaseEntity: shared.BaseEntity{
			ID:        id,
			CreatedAt: timeField(data, "createdAt"),
			UpdatedAt: timeField(data, "updatedAt"),
		},
		Name:        stringField(data, "name"),
		Price:       price,
		Category:    catalog.Category(stringField(data, "category")),
		Description: stringField(data, "description"),
		Image:       stringField(data, "image"),
	}
	if b, ok := data["isPromo"].(bool); ok {
		p.IsPromo = b
	}
	if v, ok := data["oldPrice"]; ok && v != nil && v != "" {
		old, err := decimalField(data, "oldPrice")
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", id, err)
		}
		if old.IsPositive() {
			p.OldPrice = &old
		}
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}
	return p, nil
}

func stringField(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}

// decimalField reads a number that may have been written as an integer,
// a double or a numeric string. A missing field is zero.
func decimalField(m map[string]any, key string) (decimal.Decimal, error) {
	switch v := m[key].(type) {
	case nil:
		return decimal.Zero, nil
	case int64:
		return decimal.NewFromInt(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, fmt.Errorf("field %s: %w", key, err)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("field %s: unsupported type %T", key, v)
	}
}

func timeField(m map[string]any, key string) time.Time {
	if t, ok := m[key].(time.Time); ok {
		return t
	}
	return time.Time{}
}
