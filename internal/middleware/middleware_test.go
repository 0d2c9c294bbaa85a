package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func limitedRouter(l Limiter) *gin.Engine {
	r := gin.New()
	r.POST("/api/checkout", RateLimit(l, "checkout"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func hit(r http.Handler, ip string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", nil)
	req.RemoteAddr = ip + ":1234"
	r.ServeHTTP(w, req)
	return w
}

func TestRateLimitWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	r := limitedRouter(NewRedisLimiter(cache.NewStore(rdb), 2, time.Minute))

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)
	w := hit(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.2").Code, "autre IP, autre compteur")

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)
}

func TestRedisLimiterSpacedRequestsStayAllowed(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	r := limitedRouter(NewRedisLimiter(cache.NewStore(rdb), 3, time.Minute))

	// 1,5 requête par minute pour une limite de 3
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code, "requête %d", i+1)
		mr.FastForward(40 * time.Second)
	}
}

func TestRedisLimiterClampsLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	r := limitedRouter(NewRedisLimiter(cache.NewStore(rdb), 0, time.Minute))
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(r, "10.0.0.1").Code)
}

func TestRateLimitRedisDownLetsThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer rdb.Close()
	mr.Close()

	r := limitedRouter(NewRedisLimiter(cache.NewStore(rdb), 1, time.Minute))
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)
}

func TestRateLimitInMemory(t *testing.T) {
	r := limitedRouter(NewMemoryLimiter(3, time.Minute))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(r, "10.0.0.1").Code)
	}
	w := hit(r, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusOK, hit(r, "10.0.0.9").Code)
}

func adminRouter(secret string) *gin.Engine {
	r := gin.New()
	r.GET("/api/admin/ping", AdminRequired([]byte(secret)), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"admin": c.GetString("admin")})
	})
	return r
}

func callAdmin(r http.Handler, auth string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAdminRequired(t *testing.T) {
	r := adminRouter("s3cret")

	tok, err := utils.GenerateAdminJWT("s3cret", "ops", time.Hour)
	require.NoError(t, err)
	w := callAdmin(r, "Bearer "+tok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"admin":"ops"}`, w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, callAdmin(r, "").Code)
	assert.Equal(t, http.StatusUnauthorized, callAdmin(r, "Token "+tok).Code)

	other, _ := utils.GenerateAdminJWT("other", "ops", time.Hour)
	assert.Equal(t, http.StatusUnauthorized, callAdmin(r, "Bearer "+other).Code)

	expired, _ := utils.GenerateAdminJWT("s3cret", "ops", -time.Minute)
	assert.Equal(t, http.StatusUnauthorized, callAdmin(r, "Bearer "+expired).Code)

	user := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "lea", "role": "customer", "exp": time.Now().Add(time.Hour).Unix(),
	})
	userTok, err := user.SignedString([]byte("s3cret"))
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, callAdmin(r, "Bearer "+userTok).Code)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"role": "admin"})
	noExpTok, _ := noExp.SignedString([]byte("s3cret"))
	assert.Equal(t, http.StatusUnauthorized, callAdmin(r, "Bearer "+noExpTok).Code)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	assert.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	id := uuid.NewString()
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, id)
	r.ServeHTTP(w, req)
	assert.Equal(t, id, w.Body.String())
}
