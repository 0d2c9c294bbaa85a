package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/config"
	"storefront_back_end/internal/handlers/admin"
	"storefront_back_end/internal/handlers/payement"
	"storefront_back_end/internal/handlers/product"
	"storefront_back_end/internal/middleware"
)

// Deps regroupe les handlers construits dans main.
type Deps struct {
	Config   config.Config
	Payement *payement.Handler
	Products *product.Handler
	Mailer   admin.TestMailer
	Limiter  middleware.Limiter
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.RequestID())
	r.Use(cors.New(corsConfig(d.Config)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")

	// Catalogue
	api.GET("/products", d.Products.GetProducts)
	api.GET("/products/search", d.Products.SearchProducts)

	// Paiement
	api.POST("/checkout", middleware.RateLimit(d.Limiter, "checkout"), d.Payement.CreateCheckoutSession)
	api.GET("/checkout/success", d.Payement.GetCheckoutSuccess)
	api.POST("/order", middleware.RateLimit(d.Limiter, "order"), d.Payement.CreateOrder)
	api.GET("/shipping", d.Payement.GetShippingOptions)
	api.POST("/stripe/webhook", d.Payement.HandleStripeWebhook)

	// Admin : monté seulement si ADMIN_JWT_SECRET est défini
	if d.Config.AdminJWTSecret != "" {
		adm := api.Group("/admin", middleware.AdminRequired([]byte(d.Config.AdminJWTSecret)))
		adm.GET("/test-email", admin.SendTestEmail(d.Mailer))
		adm.POST("/catalog/refresh", d.Products.RefreshCatalog)
	}
}

func corsConfig(cfg config.Config) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}

	origins := cfg.CORSOrigins
	if len(origins) == 0 && cfg.SiteURL != "" {
		origins = []string{cfg.SiteURL}
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = origins
	}
	return cc
}
