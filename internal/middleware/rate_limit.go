package middleware

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"storefront_back_end/internal/cache"
)

// Limiter décide si une requête identifiée par key passe.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

// RedisLimiter : fenêtre fixe, compteur INCR + EXPIRE partagé entre instances.
type RedisLimiter struct {
	store  *cache.Store
	limit  int
	window time.Duration
}

func NewRedisLimiter(store *cache.Store, limit int, window time.Duration) *RedisLimiter {
	if limit < 1 {
		limit = 1
	}
	return &RedisLimiter{store: store, limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	n, err := l.store.IncrementRateLimit(ctx, key, l.window)
	if err != nil {
		return true, 0, err
	}
	if n > int64(l.limit) {
		retry := l.store.RateLimitTTL(ctx, key)
		if retry == 0 {
			retry = l.window
		}
		return false, retry, nil
	}
	return true, 0, nil
}

// MemoryLimiter : token bucket par clé, utilisé quand Redis n'est pas configuré.
type MemoryLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	every    rate.Limit
	burst    int
	ttl      time.Duration
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewMemoryLimiter autorise limit requêtes par window (en rafale), puis
// recharge au même rythme.
func NewMemoryLimiter(limit int, window time.Duration) *MemoryLimiter {
	if limit < 1 {
		limit = 1
	}
	return &MemoryLimiter{
		visitors: make(map[string]*visitor),
		every:    rate.Every(window / time.Duration(limit)),
		burst:    limit,
		ttl:      3 * window,
	}
}

func (l *MemoryLimiter) getVisitor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	for k, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, k)
		}
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.every, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	return v.limiter
}

func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	lim := l.getVisitor(key)
	r := lim.Reserve()
	if d := r.Delay(); d > 0 {
		r.Cancel()
		return false, d, nil
	}
	return true, 0, nil
}

// RateLimit limite les requêtes par IP sur un groupe de routes.
// Une erreur du limiteur laisse passer la requête.
func RateLimit(l Limiter, scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		ok, retry, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			log.Printf("⚠️ Rate limit indisponible (%s): %v", key, err)
			c.Next()
			return
		}
		if !ok {
			seconds := int(retry.Round(time.Second).Seconds())
			if seconds < 1 {
				seconds = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", seconds))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Trop de requêtes. Réessayez plus tard",
				"retry_after": seconds,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
