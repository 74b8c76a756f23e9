package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/hadesigndz/Ha-Design/internal/application/checkout"
	"github.com/hadesigndz/Ha-Design/internal/application/fulfillment"
	orderapp "github.com/hadesigndz/Ha-Design/internal/application/order"
	"github.com/hadesigndz/Ha-Design/internal/domain/order"
	"github.com/hadesigndz/Ha-Design/internal/interfaces/http/dto"
	"github.com/hadesigndz/Ha-Design/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitBody(wilaya string, items ...map[string]any) map[string]any {
	return map[string]any{
		"customer": customerJSON(wilaya),
		"items":    items,
	}
}

func item(id, name string, price, qty int) map[string]any {
	return map[string]any{"id": id, "name": name, "price": price, "quantity": qty}
}

func TestOrderHandler_Submit(t *testing.T) {
	t.Run("carrier accepts", func(t *testing.T) {
		env := newTestEnv(t, trackingCarrier("AB123"))
		p := env.createProduct(t, "Calligraphie", 3000)

		w, resp := env.do(t, http.MethodPost, "/orders", submitBody("16", item(p.ID, "Calligraphie", 3000, 2)), nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		placed := decode[checkout.PlaceOrderResponse](t, resp)
		assert.True(t, placed.Order.Total.Equal(decimal.NewFromInt(6350)))
		assert.True(t, placed.Delivery.Success)
		assert.Equal(t, "AB123", placed.Delivery.TrackingCode)

		stored, err := env.orders.FindByID(context.Background(), placed.Order.ID)
		require.NoError(t, err)
		assert.Equal(t, order.StatusShipped, stored.Status)
	})

	t.Run("carrier failure still places the order", func(t *testing.T) {
		env := newTestEnv(t, failingCarrier)
		p := env.createProduct(t, "Calligraphie", 300)

		w, resp := env.do(t, http.MethodPost, "/orders", submitBody("Oran", item(p.ID, "Calligraphie", 300, 1)), nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		placed := decode[checkout.PlaceOrderResponse](t, resp)
		assert.False(t, placed.Delivery.Success)
		assert.NotEmpty(t, placed.Delivery.Error)
		assert.Equal(t, "31", placed.Order.Customer.Wilaya)
		assert.Equal(t, string(order.StatusPending), placed.Order.Status)
	})

	t.Run("client price and name are ignored", func(t *testing.T) {
		env := newTestEnv(t, trackingCarrier("AB124"))
		p := env.createProduct(t, "Calligraphie", 300)

		w, resp := env.do(t, http.MethodPost, "/orders", submitBody("16", map[string]any{
			"id": p.ID, "name": "Free art", "price": 0.01, "quantity": 1,
		}), nil)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		placed := decode[checkout.PlaceOrderResponse](t, resp)
		require.Len(t, placed.Order.Items, 1)
		assert.Equal(t, "Calligraphie", placed.Order.Items[0].Name)
		assert.True(t, placed.Order.Items[0].Price.Equal(decimal.NewFromInt(300)))
		assert.True(t, placed.Order.Total.Equal(decimal.NewFromInt(650)))

		stored, err := env.orders.FindByID(context.Background(), placed.Order.ID)
		require.NoError(t, err)
		assert.True(t, stored.Items[0].Price.Equal(decimal.NewFromInt(300)))
	})

	env := newTestEnv(t, trackingCarrier("X"))
	tests := []struct {
		name   string
		body   any
		status int
		code   string
	}{
		{"malformed json", `{"customer":`, http.StatusBadRequest, dto.ErrCodeInvalidJSON},
		{"empty items", submitBody("16"), http.StatusUnprocessableEntity, dto.ErrCodeEmptyCart},
		{"unknown wilaya", submitBody("Atlantis", item("p1", "x", 100, 1)), http.StatusBadRequest, dto.ErrCodeValidation},
		{"zero quantity", submitBody("16", item("p1", "x", 100, 0)), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"unknown product", submitBody("16", item("ghost", "x", 100, 1)), http.StatusNotFound, dto.ErrCodeNotFound},
		{"missing customer fields", map[string]any{
			"customer": map[string]string{"wilaya": "16"},
			"items":    []map[string]any{item("p1", "x", 100, 1)},
		}, http.StatusBadRequest, dto.ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := env.do(t, http.MethodPost, "/orders", tt.body, nil)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.NotEmpty(t, resp.Error.RequestID)
		})
	}
}

func TestOrderHandler_Checkout(t *testing.T) {
	env := newTestEnv(t, trackingCarrier("CK1"))
	p := env.createProduct(t, "Coucher de soleil", 2200)
	session := map[string]string{middleware.SessionIDHeader: "sess-7"}

	t.Run("empty cart", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPost, "/checkout", map[string]any{"customer": customerJSON("16")}, session)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeEmptyCart, resp.Error.Code)
	})

	t.Run("places the cart", func(t *testing.T) {
		_, _ = env.do(t, http.MethodPost, "/cart/items", map[string]any{"productId": p.ID, "quantity": 2}, session)

		w, resp := env.do(t, http.MethodPost, "/checkout", map[string]any{"customer": customerJSON("16")}, session)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		placed := decode[checkout.PlaceOrderResponse](t, resp)
		assert.True(t, placed.Order.Total.Equal(decimal.NewFromInt(4750)))
		assert.Equal(t, "CK1", placed.Order.DeliveryTracking)

		_, cartResp := env.do(t, http.MethodGet, "/cart", nil, session)
		assert.Empty(t, decode[checkout.CartResponse](t, cartResp).Items)
	})
}

func TestOrderHandler_Admin(t *testing.T) {
	env := newTestEnv(t, failingCarrier)
	headers := env.adminHeaders(t)
	p := env.createProduct(t, "Calligraphie arabe", 3500)

	_, resp := env.do(t, http.MethodPost, "/orders", submitBody("16", item(p.ID, "Calligraphie arabe", 3500, 1)), nil)
	placed := decode[checkout.PlaceOrderResponse](t, resp)
	id := placed.Order.ID

	t.Run("list requires a token", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/admin/orders", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, dto.ErrCodeUnauthorized, resp.Error.Code)
	})

	t.Run("list", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/admin/orders?status=pending", nil, headers)
		require.Equal(t, http.StatusOK, w.Code)
		orders := decode[[]orderapp.OrderResponse](t, resp)
		require.Len(t, orders, 1)
		assert.Equal(t, id, orders[0].ID)
	})

	t.Run("unsynced", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/admin/orders/unsynced", nil, headers)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]orderapp.OrderResponse](t, resp), 1)
	})

	t.Run("stats", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/admin/stats", nil, headers)
		require.Equal(t, http.StatusOK, w.Code)
		stats := decode[orderapp.StatsResponse](t, resp)
		assert.Equal(t, int64(1), stats.TotalProducts)
		assert.Equal(t, 1, stats.TotalOrders)
		assert.Equal(t, 1, stats.Unsynced)
	})

	t.Run("resync still failing", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPost, "/admin/orders/"+id+"/resync", nil, headers)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		r := decode[fulfillment.ResyncResponse](t, resp)
		assert.False(t, r.AlreadySynced)
		require.NotNil(t, r.Result)
		assert.False(t, r.Result.Success)
	})

	t.Run("update status", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPut, "/admin/orders/"+id+"/status", map[string]any{"status": "confirmed"}, headers)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "confirmed", decode[orderapp.OrderResponse](t, resp).Status)
	})

	t.Run("update to unknown status", func(t *testing.T) {
		w, resp := env.do(t, http.MethodPut, "/admin/orders/"+id+"/status", map[string]any{"status": "lost"}, headers)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidStatus, resp.Error.Code)
	})

	t.Run("resync refused once delivered", func(t *testing.T) {
		w, _ := env.do(t, http.MethodPut, "/admin/orders/"+id+"/status", map[string]any{"status": "delivered"}, headers)
		require.Equal(t, http.StatusOK, w.Code)

		w, resp := env.do(t, http.MethodPost, "/admin/orders/"+id+"/resync", nil, headers)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, resp.Error.Code)

		stored, err := env.orders.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, order.StatusDelivered, stored.Status)
	})

	t.Run("get", func(t *testing.T) {
		w, resp := env.do(t, http.MethodGet, "/admin/orders/"+id, nil, headers)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, id, decode[orderapp.OrderResponse](t, resp).ID)
	})

	t.Run("delete", func(t *testing.T) {
		w, _ := env.do(t, http.MethodDelete, "/admin/orders/"+id, nil, headers)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w, resp := env.do(t, http.MethodGet, "/admin/orders/"+id, nil, headers)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})
}
