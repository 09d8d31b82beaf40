package httpserver

import (
	"vendormarket/internal/domain"
	"vendormarket/internal/metrics"
	authsvc "vendormarket/internal/service/auth"
	cartsvc "vendormarket/internal/service/cart"
	catalogsvc "vendormarket/internal/service/catalog"
	ordersvc "vendormarket/internal/service/order"
	vendorsvc "vendormarket/internal/service/vendor"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Deps carries the wired services into the router.
type Deps struct {
	AuthSvc    *authsvc.Service
	CatalogSvc *catalogsvc.Service
	CartSvc    *cartsvc.Service
	OrderSvc   *ordersvc.Service
	VendorSvc  *vendorsvc.Service
	Metrics    *metrics.Metrics
}

// buildRouter wires routes for the API.
func buildRouter(logger *zap.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Metrics.Registry(), promhttp.HandlerOpts{})))
	}

	router.POST("/auth/signup", signupHandler(deps.AuthSvc))
	router.POST("/auth/login", loginHandler(deps.AuthSvc))

	router.GET("/products", listProductsHandler(deps.CatalogSvc))
	router.GET("/products/:id", getProductHandler(deps.CatalogSvc))

	authed := router.Group("/", authRequired(deps.AuthSvc))

	authed.GET("/cart", getCartHandler(deps.CartSvc))
	authed.POST("/cart/add", addCartItemHandler(deps.CartSvc))
	authed.DELETE("/cart/item/:productId", removeCartItemHandler(deps.CartSvc))
	authed.POST("/cart/clear", clearCartHandler(deps.CartSvc))

	authed.POST("/orders/place", placeOrderHandler(deps.OrderSvc))
	authed.GET("/orders/mine", listMyOrdersHandler(deps.OrderSvc))
	authed.GET("/orders/:id", getOrderHandler(deps.OrderSvc))
	authed.POST("/orders/:id/cancel", cancelOrderHandler(deps.OrderSvc))
	authed.PATCH("/orders/:id/status", roleRequired(domain.RoleVendor, domain.RoleAdmin), updateOrderStatusHandler(deps.OrderSvc))
	authed.PATCH("/orders/:id/payment", roleRequired(domain.RoleAdmin), setPaymentStatusHandler(deps.OrderSvc))

	vendorGroup := authed.Group("/vendor", roleRequired(domain.RoleVendor, domain.RoleAdmin))
	vendorGroup.GET("/orders", vendorOrdersHandler(deps.VendorSvc))
	vendorGroup.GET("/revenue", vendorRevenueHandler(deps.VendorSvc))
	vendorGroup.GET("/products", vendorProductsHandler(deps.CatalogSvc))
	vendorGroup.POST("/products", createProductHandler(deps.CatalogSvc))
	vendorGroup.PATCH("/products/:id", updateProductHandler(deps.CatalogSvc))

	return router, nil
}
