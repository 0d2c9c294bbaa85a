package main

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/database"
	"storefront_back_end/internal/handlers/payement"
	"storefront_back_end/internal/handlers/product"
	"storefront_back_end/internal/middleware"
	"storefront_back_end/internal/routes"
	"storefront_back_end/internal/services"
	"storefront_back_end/internal/utils"
)

func main() {
	config.Load()
	cfg := config.FromEnv()

	if err := cfg.ValidateServer(); err != nil {
		log.Fatalf("❌ Configuration invalide : %v", err)
	}

	stripe.Key = cfg.Stripe.SecretKey
	testMode := strings.HasPrefix(cfg.Stripe.SecretKey, "sk_test_")
	log.Printf("✅ Stripe initialisé (mode test : %v)", testMode)

	clients, err := database.Connect(context.Background(), cfg)
	if err != nil {
		log.Fatalf("❌ Connexion aux services impossible : %v", err)
	}
	defer clients.Close()

	sender, err := utils.NewSender(cfg.Email)
	if err != nil {
		log.Fatalf("❌ Envoi d'e-mails impossible : %v", err)
	}
	log.Printf("✅ E-mails via %s", cfg.Email.Provider)
	notifier := utils.NewOrderNotifier(sender, cfg.Email.StoreEmail, testMode)

	var dedup payement.Deduper = cache.NewMemoryDeduper()
	var limiter middleware.Limiter = middleware.NewMemoryLimiter(cfg.RateLimitPerMinute, time.Minute)
	var catalogCache product.CatalogCache
	var index product.SearchIndex
	if clients.Redis != nil {
		store := cache.NewStore(clients.Redis)
		dedup = store
		limiter = middleware.NewRedisLimiter(store, cfg.RateLimitPerMinute, time.Minute)
		catalogCache = store
	}
	if clients.Elastic != nil {
		index = services.NewProductIndex(clients.Elastic, cfg.Elastic.Index)
	}

	var source catalog.Source = catalog.DirSource{Root: cfg.Catalog.ImagesDir}
	if clients.MinIO != nil {
		source = catalog.BucketSource{Client: clients.MinIO, Bucket: cfg.MinIO.Bucket, Prefix: cfg.MinIO.Prefix}
		log.Printf("🪣 Catalogue lu depuis le bucket %s/%s", cfg.MinIO.Bucket, cfg.MinIO.Prefix)
	}

	r := gin.Default()
	routes.RegisterRoutes(r, routes.Deps{
		Config:   cfg,
		Payement: payement.NewHandler(cfg, services.StripeSessions{}, notifier, dedup),
		Products: product.NewHandler(cfg.Catalog, source, catalogCache, index),
		Mailer:   notifier,
		Limiter:  limiter,
	})

	if cfg.AdminJWTSecret == "" {
		log.Println("⚠️ ADMIN_JWT_SECRET absent : routes admin désactivées")
	}

	log.Println("🚀 Serveur storefront lancé sur le port", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Arrêt du serveur : %v", err)
	}
}
