package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront_back_end/internal/models"
)

const (
	CatalogKey        = "catalog:live"
	processedPrefix   = "stripe_session:"
	rateLimitPrefix   = "rate:"
	DefaultCatalogTTL = 5 * time.Minute
)

// Store regroupe les usages Redis du storefront : cache du catalogue,
// dédoublonnage des webhooks et compteurs de rate limit.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// --- Catalogue ---

// GetCatalog retourne le catalogue en cache. ok=false si absent.
func (s *Store) GetCatalog(ctx context.Context) (models.Catalog, bool, error) {
	data, err := s.rdb.Get(ctx, CatalogKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Catalog{}, false, nil
	}
	if err != nil {
		return models.Catalog{}, false, err
	}

	var c models.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return models.Catalog{}, false, fmt.Errorf("cache catalogue corrompu: %w", err)
	}
	if c.Items == nil {
		c.Items = []models.Product{}
	}
	return c, true, nil
}

func (s *Store) SetCatalog(ctx context.Context, c models.Catalog, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultCatalogTTL
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, CatalogKey, data, ttl).Err()
}

func (s *Store) InvalidateCatalog(ctx context.Context) error {
	return s.rdb.Del(ctx, CatalogKey).Err()
}

// --- Webhooks ---

// MarkProcessed enregistre une session Stripe comme traitée (SETNX).
// Retourne false si elle l'était déjà.
func (s *Store) MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error) {
	return s.rdb.SetNX(ctx, processedPrefix+id, time.Now().Unix(), ttl).Result()
}

// Forget annule MarkProcessed, pour laisser Stripe relivrer un événement
// qu'on n'a pas pu traiter.
func (s *Store) Forget(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, processedPrefix+id).Err()
}

// --- Rate Limiting ---

// IncrementRateLimit incrémente le compteur de la fenêtre courante. Le TTL
// n'est posé qu'à la création du compteur : la fenêtre ne glisse pas.
func (s *Store) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	k := rateLimitPrefix + key
	n, err := s.rdb.Incr(ctx, k).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		if err := s.rdb.Expire(ctx, k, window).Err(); err != nil {
			return n, err
		}
		return n, nil
	}
	// Compteur sans TTL (EXPIRE perdu) : on le rattache à une fenêtre.
	if ttl, err := s.rdb.TTL(ctx, k).Result(); err == nil && ttl == -1 {
		s.rdb.Expire(ctx, k, window)
	}
	return n, nil
}

// RateLimitTTL retourne le temps restant avant la remise à zéro du compteur.
func (s *Store) RateLimitTTL(ctx context.Context, key string) time.Duration {
	ttl, err := s.rdb.TTL(ctx, rateLimitPrefix+key).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}
