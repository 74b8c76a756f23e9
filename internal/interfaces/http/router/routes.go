package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hadesigndz/Ha-Design/internal/interfaces/http/dto"
	"github.com/hadesigndz/Ha-Design/internal/interfaces/http/handler"
)

// Handlers bundles the HTTP handlers served under the API prefix
type Handlers struct {
	Region  *handler.RegionHandler
	Product *handler.ProductHandler
	Cart    *handler.CartHandler
	Order   *handler.OrderHandler
	Auth    *handler.AuthHandler
	System  *handler.SystemHandler
}

// RouteOptions toggles optional parts of the route table
type RouteOptions struct {
	// AdminAuth guards /admin and /auth/logout
	AdminAuth gin.HandlerFunc
	// LocalLogin exposes POST /auth/login; with an external identity
	// provider the admin signs in there instead
	LocalLogin bool
}

// StorefrontGroups builds the public storefront and back-office groups
func StorefrontGroups(h Handlers, opts RouteOptions) []*DomainGroup {
	if opts.AdminAuth == nil {
		opts.AdminAuth = denyAll
	}

	regions := NewDomainGroup("regions", "/regions").
		GET("", h.Region.List).
		GET("/:code/price", h.Region.Price)

	products := NewDomainGroup("products", "/products").
		GET("", h.Product.List).
		GET("/:id", h.Product.GetByID)

	carts := NewDomainGroup("cart", "/cart").
		GET("", h.Cart.Get).
		DELETE("", h.Cart.Clear).
		GET("/quote", h.Cart.Quote).
		POST("/items", h.Cart.AddItem).
		PUT("/items/:productId", h.Cart.UpdateQuantity).
		DELETE("/items/:productId", h.Cart.RemoveItem)

	orders := NewDomainGroup("orders", "").
		POST("/orders", h.Order.Submit).
		POST("/checkout", h.Order.Checkout)

	authRoutes := NewDomainGroup("auth", "/auth")
	if opts.LocalLogin {
		authRoutes.POST("/login", h.Auth.Login)
	}
	authRoutes.Group("session", "").
		Use(opts.AdminAuth).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me)

	admin := NewDomainGroup("admin", "/admin").Use(opts.AdminAuth)
	admin.GET("/stats", h.Order.Stats)
	admin.Group("admin-orders", "/orders").
		GET("", h.Order.List).
		GET("/unsynced", h.Order.ListUnsynced).
		GET("/:id", h.Order.GetByID).
		PUT("/:id/status", h.Order.UpdateStatus).
		POST("/:id/resync", h.Order.Resync).
		DELETE("/:id", h.Order.Delete)
	admin.Group("admin-products", "/products").
		POST("", h.Product.Create).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete)
	admin.Group("admin-media", "/media").
		POST("/images", h.Product.UploadImage)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo)

	return []*DomainGroup{regions, products, carts, orders, authRoutes, admin, system}
}

// Setup installs probes at the root and the storefront API under the
// versioned prefix
func Setup(engine *gin.Engine, h Handlers, opts RouteOptions, routerOpts ...RouterOption) *Router {
	engine.GET("/health", h.System.Health)
	engine.GET("/ready", h.System.Ready)

	r := NewRouter(engine, routerOpts...)
	for _, g := range StorefrontGroups(h, opts) {
		r.Register(g)
	}
	r.Setup()
	return r
}

// denyAll closes the admin surface when no verifier is configured
func denyAll(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Admin authentication is not configured"))
}
