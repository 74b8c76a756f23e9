package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/hadesigndz/Ha-Design/internal/application/catalog"
	"github.com/hadesigndz/Ha-Design/internal/application/checkout"
	"github.com/hadesigndz/Ha-Design/internal/application/fulfillment"
	"github.com/hadesigndz/Ha-Design/internal/application/identity"
	orderapp "github.com/hadesigndz/Ha-Design/internal/application/order"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/auth"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/cache"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/config"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/delivery"
	"github.com/hadesigndz/Ha-Design/internal/infrastructure/persistence"
	"github.com/hadesigndz/Ha-Design/internal/interfaces/http/dto"
	"github.com/hadesigndz/Ha-Design/internal/interfaces/http/middleware"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	adminEmail    = "admin@hadesign.dz"
	adminPassword = "correct horse battery"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// apiResponse mirrors dto.Response with the payload left raw
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
}

type testEnv struct {
	engine   *gin.Engine
	products *catalogapp.ProductService
	orders   *persistence.GormOrderRepository
	jwt      *auth.JWTService
}

// newTestEnv wires the real services over an in-memory sqlite store and a
// carrier served by handler
func newTestEnv(t *testing.T, carrier http.HandlerFunc) *testEnv {
	t.Helper()

	srv := httptest.NewServer(carrier)
	t.Cleanup(srv.Close)

	db, err := persistence.NewDatabase(config.StoreDriverSQLite, &config.DatabaseConfig{SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	productRepo := persistence.NewGormProductRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	contract, err := delivery.LookupContract(delivery.ProviderEcotrack)
	require.NoError(t, err)
	provider := delivery.NewHTTPProvider(contract, srv.URL, "test-token", 2*time.Second)

	productSvc := catalogapp.NewProductService(productRepo, cache.NewInMemoryProductListCache(), catalogapp.Config{})
	fulfillmentSvc := fulfillment.NewService(orderRepo, provider)
	checkoutSvc := checkout.NewService(orderRepo, productRepo, cache.NewInMemoryCartStore(time.Hour), fulfillmentSvc)
	orderSvc := orderapp.NewService(orderRepo, productSvc)

	jwtSvc := auth.NewJWTService(config.JWTConfig{
		Secret:                "test-secret-key-that-is-long-enough-for-hs256",
		AccessTokenExpiration: time.Hour,
		Issuer:                "ha-design-test",
	})
	hash, err := auth.HashPassword(adminPassword)
	require.NoError(t, err)
	revoked := auth.NewInMemoryRevocationList()
	authSvc := identity.NewAuthService(
		auth.NewAdminCredentials(adminEmail, hash),
		jwtSvc,
		revoked,
		identity.AuthServiceConfig{Provider: config.AuthProviderLocal},
		zap.NewNop(),
	)

	regions := NewRegionHandler()
	products := NewProductHandler(productSvc)
	carts := NewCartHandler(checkoutSvc)
	orders := NewOrderHandler(checkoutSvc, orderSvc, fulfillmentSvc)
	authH := NewAuthHandler(authSvc)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.GET("/regions", regions.List)
	r.GET("/regions/:code/price", regions.Price)
	r.GET("/products", products.List)
	r.GET("/products/:id", products.GetByID)
	r.GET("/cart", carts.Get)
	r.POST("/cart/items", carts.AddItem)
	r.PUT("/cart/items/:productId", carts.UpdateQuantity)
	r.DELETE("/cart/items/:productId", carts.RemoveItem)
	r.DELETE("/cart", carts.Clear)
	r.GET("/cart/quote", carts.Quote)
	r.POST("/orders", orders.Submit)
	r.POST("/checkout", orders.Checkout)
	r.POST("/auth/login", authH.Login)

	admin := r.Group("/admin", middleware.AdminAuth(auth.NewJWTVerifier(jwtSvc, revoked)))
	admin.POST("/logout", authH.Logout)
	admin.GET("/me", authH.Me)
	admin.GET("/stats", orders.Stats)
	admin.GET("/orders", orders.List)
	admin.GET("/orders/unsynced", orders.ListUnsynced)
	admin.GET("/orders/:id", orders.GetByID)
	admin.PUT("/orders/:id/status", orders.UpdateStatus)
	admin.POST("/orders/:id/resync", orders.Resync)
	admin.DELETE("/orders/:id", orders.Delete)
	admin.POST("/products", products.Create)
	admin.PUT("/products/:id", products.Update)
	admin.DELETE("/products/:id", products.Delete)
	admin.POST("/media/images", products.UploadImage)

	return &testEnv{engine: r, products: productSvc, orders: orderRepo, jwt: jwtSvc}
}

func trackingCarrier(code string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","code_suivi":"` + code + `"}`))
	}
}

func failingCarrier(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusBadGateway)
	_, _ = w.Write([]byte(`{"status":"error","message":"gateway down"}`))
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers map[string]string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, ok := body.(string)
		if !ok {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			raw = string(b)
		}
		reader = bytes.NewReader([]byte(raw))
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var resp apiResponse
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
	}
	return w, resp
}

func (e *testEnv) adminHeaders(t *testing.T) map[string]string {
	t.Helper()
	tok, err := e.jwt.Issue(adminEmail)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + tok.Token}
}

func (e *testEnv) createProduct(t *testing.T, name string, price int64) catalogapp.ProductResponse {
	t.Helper()
	p, err := e.products.Create(context.Background(), catalogapp.CreateProductRequest{
		Name:     name,
		Price:    decimal.NewFromInt(price),
		Category: "Modern",
	})
	require.NoError(t, err)
	return *p
}

func decode[T any](t *testing.T, resp apiResponse) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(resp.Data, &v))
	return v
}

func customerJSON(wilaya string) map[string]string {
	return map[string]string{
		"fullName": "Amina Benali",
		"phone":    "0555123456",
		"wilaya":   wilaya,
		"commune":  "Hydra",
		"address":  "12 rue des Pins",
	}
}
