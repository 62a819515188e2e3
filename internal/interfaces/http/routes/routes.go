// internal/interfaces/http/routes/routes.go
package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/cart"
	"github.com/your-org/storefront-backend/internal/domain/catalog"
	"github.com/your-org/storefront-backend/internal/domain/order"
	"github.com/your-org/storefront-backend/internal/domain/user"
	"github.com/your-org/storefront-backend/internal/infrastructure/database/postgres"
	"github.com/your-org/storefront-backend/internal/interfaces/http/handlers"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/email"
	"github.com/your-org/storefront-backend/internal/pkg/keymutex"
	"github.com/your-org/storefront-backend/internal/pkg/pdf"
)

// catalogAdapter narrows the catalog service to the product view the cart
// snapshots from
type catalogAdapter struct {
	catalog *catalog.Service
}

func (a *catalogAdapter) GetProduct(ctx context.Context, id uint) (*cart.CatalogProduct, error) {
	product, err := a.catalog.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	return &cart.CatalogProduct{
		ID:              product.ID,
		Name:            product.Name,
		SpecialPrice:    product.SpecialPrice,
		DiscountPercent: product.DiscountPercent,
		StockQuantity:   product.StockQuantity,
	}, nil
}

// Setup builds the service graph and registers all routes
func Setup(router *gin.Engine, db *postgres.DB, redisClient *goredis.Client, cfg *config.Config, log *logrus.Logger) {
	jwtManager := auth.NewJWTManager(cfg)

	// Shared services
	catalogSvc := catalog.NewService(db.GetDB(), log)
	cartLocks := keymutex.New()
	cartSvc := cart.NewService(
		cart.NewGormStore(db.GetDB()),
		&catalogAdapter{catalog: catalogSvc},
		redisClient,
		cartLocks,
		log,
	)
	catalogSvc.SetPriceReconciler(cartSvc)

	userSvc := user.NewService(db.GetDB(), cfg, jwtManager, log)
	addressSvc := user.NewAddressService(db.GetDB(), log)
	mailer := email.NewService(cfg, log)
	orderSvc := order.NewService(
		order.NewGormStore(db.GetDB()),
		cartSvc,
		catalogSvc,
		addressSvc,
		mailer,
		log,
	)
	pdfSvc := pdf.NewService(cfg)

	// Handlers
	authHandler := handlers.NewAuthHandler(userSvc)
	productHandler := handlers.NewProductHandler(catalogSvc)
	cartHandler := handlers.NewCartHandler(cartSvc)
	orderHandler := handlers.NewOrderHandler(orderSvc, addressSvc, pdfSvc)
	addressHandler := handlers.NewAddressHandler(addressSvc)

	// Global middleware
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.RateLimit(redisClient, cfg.Security.RateLimitPerMinute, log))

	router.GET("/health", func(c *gin.Context) {
		status := gin.H{
			"status":  "ok",
			"version": cfg.App.Version,
			"time":    time.Now().UTC(),
		}
		if err := db.Health(); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
		}
		c.JSON(http.StatusOK, status)
	})

	v1 := router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh", authHandler.Refresh)
			authRoutes.GET("/me", middleware.AuthRequired(jwtManager), authHandler.Profile)
		}

		products := v1.Group("/products")
		{
			products.GET("", productHandler.List)
			products.GET("/:id", productHandler.Get)
		}

		protected := v1.Group("")
		protected.Use(middleware.AuthRequired(jwtManager))
		{
			cartRoutes := protected.Group("/cart")
			{
				cartRoutes.GET("", cartHandler.GetCart)
				cartRoutes.POST("/items", cartHandler.AddItem)
				cartRoutes.PATCH("/items/:productId", cartHandler.ChangeQuantity)
				cartRoutes.DELETE("/:cartId/items/:productId", cartHandler.RemoveItem)
				cartRoutes.DELETE("", cartHandler.Clear)
			}

			orderRoutes := protected.Group("/orders")
			{
				orderRoutes.POST("", orderHandler.Checkout)
				orderRoutes.GET("", orderHandler.History)
				orderRoutes.GET("/:id", orderHandler.Get)
				orderRoutes.GET("/:id/invoice", orderHandler.Invoice)
				orderRoutes.GET("/number/:number", orderHandler.GetByNumber)
			}

			addressRoutes := protected.Group("/addresses")
			{
				addressRoutes.GET("", addressHandler.List)
				addressRoutes.POST("", addressHandler.Create)
				addressRoutes.PUT("/:id", addressHandler.Update)
				addressRoutes.DELETE("/:id", addressHandler.Delete)
			}
		}

		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(jwtManager), middleware.AdminRequired())
		{
			admin.POST("/products", productHandler.Create)
			admin.PUT("/products/:id/price", productHandler.UpdatePrice)
			admin.POST("/products/:id/restock", productHandler.Restock)
			admin.GET("/carts", cartHandler.ListCarts)
		}
	}
}
