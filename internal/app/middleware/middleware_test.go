package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"org-directory-service/internal/domain/services"
	"org-directory-service/internal/infrastructure/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"subject": c.GetString(SubjectContextKey)})
	})
	return r
}

func do(r http.Handler, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthenticate(t *testing.T) {
	jwtService := services.NewJWTService(&config.Config{APIKey: "secret-key", JWTSecretKey: "jwt", JWTTTL: time.Hour})
	r := newEngine(Authenticate(jwtService))

	assert.Equal(t, http.StatusOK, do(r, map[string]string{APIKeyHeader: "secret-key"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, map[string]string{APIKeyHeader: "wrong"}).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, map[string]string{"Authorization": "Bearer garbage"}).Code)

	token, err := jwtService.ExchangeAPIKey("secret-key")
	require.NoError(t, err)
	w := do(r, map[string]string{"Authorization": "Bearer " + token.Token})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "api-client")
}

func TestAuthenticate_OpenWhenNoKeyConfigured(t *testing.T) {
	r := newEngine(Authenticate(services.NewJWTService(&config.Config{JWTSecretKey: "jwt"})))

	w := do(r, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "anonymous")
}

func TestRequestID(t *testing.T) {
	r := newEngine(RequestID())

	w := do(r, nil)
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 32)

	w = do(r, map[string]string{RequestIDHeader: "abc-123"})
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := newEngine(RequestID(), AccessLog(zap.New(core)))

	do(r, map[string]string{RequestIDHeader: "req-1"})
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "http_access", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "/ping", fields["path"])
	assert.Equal(t, int64(http.StatusOK), fields["status"])
	assert.Equal(t, "req-1", fields["request_id"])
}

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(1, 2)
	now := tb.lastRefill

	assert.True(t, tb.allowAt(now))
	assert.True(t, tb.allowAt(now))
	assert.False(t, tb.allowAt(now))
	assert.True(t, tb.allowAt(now.Add(time.Second)))
	assert.False(t, tb.allowAt(now.Add(time.Second)))
}

func TestRateLimiter_LocalBurst(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{Rate: 0.001, Burst: 2})
	r := newEngine(limiter.Middleware())

	assert.Equal(t, http.StatusOK, do(r, nil).Code)
	assert.Equal(t, http.StatusOK, do(r, nil).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, nil).Code)
}

func TestRateLimiter_Cleanup(t *testing.T) {
	limiter := NewRateLimiter(RateLimiterConfig{Rate: 1, Burst: 1, ExpiryTime: time.Minute})
	ctx := context.Background()
	limiter.Allow(ctx, "a")
	limiter.Allow(ctx, "b")

	assert.Equal(t, 0, limiter.Cleanup(time.Now()))
	assert.Equal(t, 2, limiter.Cleanup(time.Now().Add(2*time.Minute)))
}

type fakeRedis struct {
	allowed bool
	err     error
	calls   int
}

func (f *fakeRedis) Ping(context.Context) error { return f.err }
func (f *fakeRedis) Allow(context.Context, string, int, time.Duration) (bool, int64, error) {
	f.calls++
	return f.allowed, int64(f.calls), f.err
}
func (f *fakeRedis) Close() error { return nil }

func TestRateLimiter_RedisBackend(t *testing.T) {
	ctx := context.Background()

	denying := &fakeRedis{allowed: false}
	limiter := NewRateLimiter(RateLimiterConfig{Rate: 100, Burst: 100, Redis: denying})
	assert.False(t, limiter.Allow(ctx, "k"))
	assert.Equal(t, 1, denying.calls)

	broken := &fakeRedis{err: errors.New("connection refused")}
	limiter = NewRateLimiter(RateLimiterConfig{Rate: 100, Burst: 100, Redis: broken})
	assert.True(t, limiter.Allow(ctx, "k"), "falls back to local bucket")
}
