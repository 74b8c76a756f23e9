package persistence

import (
	"testing"
	"time"

	"github.com/hadesigndz/Ha-Design/internal/domain/catalog"
	"github.com/hadesigndz/Ha-Design/internal/domain/order"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocToOrder_StorefrontDocument(t *testing.T) {
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	// shape written by the storefront SPA: total only, integer quantities
	data := map[string]any{
		"customer": map[string]any{
			"fullName": "Yacine K.",
			"phone":    "0661000000",
			"wilaya":   "31",
			"commune":  "Bir El Djir",
			"address":  "Rue 12",
		},
		"items": []any{
			map[string]any{"id": "p1", "name": "Oran Bay", "price": int64(4000), "quantity": int64(1), "image": "https://x/y.jpg"},
			map[string]any{"id": "p2", "name": "Bloom", "price": 2999.5, "quantity": int64(2)},
		},
		"total":     float64(10499),
		"status":    "pending",
		"createdAt": created,
	}

	o, err := docToOrder("abc", data)
	require.NoError(t, err)

	assert.Equal(t, "abc", o.ID)
	assert.Equal(t, "Yacine K.", o.Customer.FullName)
	assert.Equal(t, order.StatusPending, o.Status)
	require.Len(t, o.Items, 2)
	assert.Equal(t, 2, o.Items[1].Quantity)
	assert.True(t, o.Subtotal.Equal(decimal.NewFromFloat(9999)))
	assert.True(t, o.DeliveryFee.Equal(decimal.NewFromInt(500)))
	assert.Equal(t, created, o.CreatedAt)
	assert.Equal(t, created, o.UpdatedAt)
	assert.Nil(t, o.LastSyncAt)
}

func TestOrderDocRoundTrip(t *testing.T) {
	o, err := order.NewOrder(order.Customer{
		FullName: "Sara",
		Phone:    "0770000000",
		Wilaya:   "16",
		Commune:  "Hydra",
		Address:  "Bd 1",
	}, []order.Item{{ProductID: "p1", Name: "Calligraphy", Price: decimal.NewFromInt(3500), Quantity: 2}})
	require.NoError(t, err)
	require.NoError(t, o.MarkShipped("AB123", "procolis", time.Now()))

	back, err := docToOrder(o.ID, orderToDoc(o))
	require.NoError(t, err)

	assert.Equal(t, o.Customer, back.Customer)
	assert.Equal(t, "AB123", back.DeliveryTracking)
	assert.Equal(t, order.StatusShipped, back.Status)
	assert.True(t, back.Total.Equal(o.Total))
	assert.True(t, back.DeliveryFee.Equal(o.DeliveryFee))
	require.NotNil(t, back.LastSyncAt)
}

func TestDocToOrder_RejectsMalformedItems(t *testing.T) {
	_, err := docToOrder("bad", map[string]any{"items": []any{"not-an-object"}})
	assert.Error(t, err)

	_, err = docToOrder("bad", map[string]any{"total": true})
	assert.Error(t, err)
}

func TestDocToProduct(t *testing.T) {
	tests := []struct {
		name      string
		data      map[string]any
		wantOld   bool
		wantPrice int64
	}{
		{
			name:      "numeric fields",
			data:      map[string]any{"name": "Bloom", "price": int64(2500), "oldPrice": int64(3000), "category": "Floral", "isPromo": true},
			wantOld:   true,
			wantPrice: 2500,
		},
		{
			name:      "string price and empty old price",
			data:      map[string]any{"name": "Bloom", "price": "2500", "oldPrice": "", "category": "Floral"},
			wantPrice: 2500,
		},
		{
			name:      "null old price",
			data:      map[string]any{"name": "Bloom", "price": 2500.0, "oldPrice": nil, "category": "Floral"},
			wantPrice: 2500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := docToProduct("id1", tt.data)
			require.NoError(t, err)
			assert.Equal(t, catalog.CategoryFloral, p.Category)
			assert.True(t, p.Price.Equal(decimal.NewFromInt(tt.wantPrice)))
			assert.Equal(t, tt.wantOld, p.OldPrice != nil)
		})
	}
}

func TestProductDocRoundTrip(t *testing.T) {
	p, err := catalog.NewProduct("Atlas", decimal.NewFromInt(6000), "Landscape")
	require.NoError(t, err)
	p.SetDescription("Mountains at dusk")

	back, err := docToProduct(p.ID, productToDoc(p))
	require.NoError(t, err)
	assert.Equal(t, p.Name, back.Name)
	assert.Equal(t, p.Description, back.Description)
	assert.Nil(t, back.OldPrice)
	assert.True(t, back.Price.Equal(p.Price))
}
