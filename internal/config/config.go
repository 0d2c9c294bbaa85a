package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

func Load() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("⚠️  Aucun fichier .env trouvé, on continue avec les variables d'environnement du système")
	} else {
		log.Println("✅ Fichier .env chargé avec succès")
	}
}

type StripeConfig struct {
	SecretKey        string
	WebhookSecret    string
	Currency         string
	AllowedCountries []string
}

type EmailConfig struct {
	Provider       string
	From           string
	StoreEmail     string
	ResendAPIKey   string
	SendGridAPIKey string
	PostmarkToken  string
	SMTPHost       string
	SMTPPort       int
	SMTPUser       string
	SMTPPass       string
}

type CatalogConfig struct {
	PublicDir     string
	ImagesDir     string
	OutputFile    string
	OverridesFile string
	Mode          string // "live" ou "static"
	CacheTTL      time.Duration
}

type RedisConfig struct {
	Host     string
	Password string
}

type ElasticConfig struct {
	URL      string
	User     string
	Password string
	Index    string
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// ShopConfig porte la politique de livraison, calculée uniquement côté serveur.
type ShopConfig struct {
	MinOrder         float64
	FreeShippingFrom float64
	ShippingFlat     float64
}

type Config struct {
	Port               string
	SiteURL            string
	CORSOrigins        []string
	AdminJWTSecret     string
	RateLimitPerMinute int

	Stripe  StripeConfig
	Email   EmailConfig
	Catalog CatalogConfig
	Redis   RedisConfig
	Elastic ElasticConfig
	MinIO   MinIOConfig
	Shop    ShopConfig
}

// FromEnv lit la configuration depuis l'environnement. Aucune validation :
// voir ValidateServer.
func FromEnv() Config {
	publicDir := getenv("PUBLIC_DIR", "public")

	cfg := Config{
		Port:               getenv("PORT", "8080"),
		SiteURL:            strings.TrimRight(getenv("SITE_URL", os.Getenv("NEXT_PUBLIC_SITE_URL")), "/"),
		CORSOrigins:        splitList(os.Getenv("CORS_ORIGINS")),
		AdminJWTSecret:     os.Getenv("ADMIN_JWT_SECRET"),
		RateLimitPerMinute: getenvInt("RATE_LIMIT_PER_MINUTE", 20),

		Stripe: StripeConfig{
			SecretKey:        strings.TrimSpace(os.Getenv("STRIPE_SECRET_KEY")),
			WebhookSecret:    strings.TrimSpace(os.Getenv("STRIPE_WEBHOOK_SECRET")),
			Currency:         strings.ToLower(getenv("STRIPE_CURRENCY", "chf")),
			AllowedCountries: []string{"CH", "DE", "AT", "FR", "IT", "LI"},
		},
		Email: EmailConfig{
			Provider:       strings.ToLower(os.Getenv("EMAIL_PROVIDER")),
			From:           getenv("FROM_EMAIL", os.Getenv("SMTP_FROM")),
			StoreEmail:     os.Getenv("STORE_EMAIL"),
			ResendAPIKey:   os.Getenv("RESEND_API_KEY"),
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			PostmarkToken:  os.Getenv("POSTMARK_SERVER_TOKEN"),
			SMTPHost:       os.Getenv("SMTP_HOST"),
			SMTPPort:       getenvInt("SMTP_PORT", 587),
			SMTPUser:       os.Getenv("SMTP_USER"),
			SMTPPass:       os.Getenv("SMTP_PASS"),
		},
		Catalog: CatalogConfig{
			PublicDir:     publicDir,
			ImagesDir:     getenv("IMAGES_DIR", publicDir+"/images"),
			OutputFile:    getenv("CATALOG_FILE", publicDir+"/products.json"),
			OverridesFile: getenv("OVERRIDES_FILE", publicDir+"/price-overrides.v2.json"),
			Mode:          strings.ToLower(getenv("CATALOG_MODE", "live")),
			CacheTTL:      getenvDuration("CATALOG_CACHE_TTL", 5*time.Minute),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Elastic: ElasticConfig{
			URL:      os.Getenv("ELASTIC_URL"),
			User:     os.Getenv("ELASTIC_USER"),
			Password: os.Getenv("ELASTIC_PASSWORD"),
			Index:    getenv("ELASTIC_INDEX", "products"),
		},
		MinIO: MinIOConfig{
			Endpoint:  os.Getenv("MINIO_ENDPOINT"),
			AccessKey: os.Getenv("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			Bucket:    os.Getenv("MINIO_BUCKET"),
			Prefix:    getenv("MINIO_PREFIX", "images/"),
			UseSSL:    os.Getenv("MINIO_USE_SSL") == "true",
		},
		Shop: ShopConfig{
			MinOrder:         getenvFloat("MIN_ORDER", 75),
			FreeShippingFrom: getenvFloat("FREE_SHIPPING_FROM", 200),
			ShippingFlat:     getenvFloat("SHIPPING_FLAT", 7),
		},
	}

	if cfg.Email.From == "" {
		cfg.Email.From = cfg.Email.SMTPUser
	}
	if cfg.Email.StoreEmail == "" {
		cfg.Email.StoreEmail = cfg.Email.From
	}
	if cfg.Email.Provider == "" {
		cfg.Email.Provider = guessEmailProvider(cfg.Email)
	}

	return cfg
}

var (
	ErrMissingStripeKey     = errors.New("STRIPE_SECRET_KEY n'est pas défini")
	ErrPublishableStripeKey = errors.New("STRIPE_SECRET_KEY contient une clé publique (pk_*), il faut la clé secrète (sk_*)")
	ErrMissingWebhookSecret = errors.New("STRIPE_WEBHOOK_SECRET n'est pas défini")
	ErrMissingEmailConfig   = errors.New("configuration e-mail incomplète")
)

// ValidateServer vérifie les secrets nécessaires au serveur HTTP.
// Toute erreur est fatale au démarrage.
func (c Config) ValidateServer() error {
	switch {
	case c.Stripe.SecretKey == "":
		return ErrMissingStripeKey
	case strings.HasPrefix(c.Stripe.SecretKey, "pk_"):
		return ErrPublishableStripeKey
	case c.Stripe.WebhookSecret == "":
		return ErrMissingWebhookSecret
	}
	return c.Email.Validate()
}

func (e EmailConfig) Validate() error {
	if e.From == "" {
		return fmt.Errorf("%w: FROM_EMAIL manquant", ErrMissingEmailConfig)
	}
	switch e.Provider {
	case "resend":
		if e.ResendAPIKey == "" {
			return fmt.Errorf("%w: RESEND_API_KEY manquant", ErrMissingEmailConfig)
		}
	case "sendgrid":
		if e.SendGridAPIKey == "" {
			return fmt.Errorf("%w: SENDGRID_API_KEY manquant", ErrMissingEmailConfig)
		}
	case "postmark":
		if e.PostmarkToken == "" {
			return fmt.Errorf("%w: POSTMARK_SERVER_TOKEN manquant", ErrMissingEmailConfig)
		}
	case "smtp":
		if e.SMTPHost == "" || e.SMTPUser == "" || e.SMTPPass == "" {
			return fmt.Errorf("%w: SMTP_HOST / SMTP_USER / SMTP_PASS manquants", ErrMissingEmailConfig)
		}
	case "log":
	default:
		return fmt.Errorf("%w: EMAIL_PROVIDER inconnu %q", ErrMissingEmailConfig, e.Provider)
	}
	return nil
}

func guessEmailProvider(e EmailConfig) string {
	switch {
	case e.ResendAPIKey != "":
		return "resend"
	case e.SMTPHost != "":
		return "smtp"
	case e.SendGridAPIKey != "":
		return "sendgrid"
	case e.PostmarkToken != "":
		return "postmark"
	}
	return ""
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %d", key, v, fallback)
		return fallback
	}
	return n
}

func getenvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %.2f", key, v, fallback)
		return fallback
	}
	return f
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("⚠️ %s invalide (%q), valeur par défaut %s", key, v, fallback)
		return fallback
	}
	return d
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
