package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"org-directory-service/internal/domain/services"
	"org-directory-service/internal/error/response"
)

// 简单的令牌桶限流器
type TokenBucket struct {
	rate       float64    // 每秒填充的令牌数
	capacity   int        // 桶的容量
	tokens     float64    // 当前令牌数
	lastRefill time.Time  // 上次填充时间
	mu         sync.Mutex // 互斥锁
}

// 创建新的令牌桶限流器
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:       rate,
		capacity:   capacity,
		tokens:     float64(capacity),
		lastRefill: time.Now(),
	}
}

// 尝试获取令牌
func (tb *TokenBucket) Allow() bool {
	return tb.allowAt(time.Now())
}

func (tb *TokenBucket) allowAt(now time.Time) bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	elapsed := now.Sub(tb.lastRefill).Seconds()
	if elapsed > 0 {
		tb.lastRefill = now
		tb.tokens += elapsed * tb.rate
		if tb.tokens > float64(tb.capacity) {
			tb.tokens = float64(tb.capacity)
		}
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

func (tb *TokenBucket) idleSince(now time.Time) time.Duration {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return now.Sub(tb.lastRefill)
}

// RateLimiterConfig 限流器配置
type RateLimiterConfig struct {
	Rate       float64                   // 每秒允许的请求数
	Burst      int                       // 允许的突发请求数
	ExpiryTime time.Duration             // 空闲多久后回收本地限流器
	KeyFunc    func(*gin.Context) string // 限流键，默认按客户端IP
	// Redis 非空时多实例共享计数；Redis 出错时退回本地令牌桶
	Redis  services.InterfaceRedisService
	Logger *zap.Logger
}

// DefaultRateLimiterConfig 默认限流器配置
var DefaultRateLimiterConfig = RateLimiterConfig{
	Rate:       20,
	Burst:      40,
	ExpiryTime: 10 * time.Minute,
}

// RateLimiter 限流器实例，持有按键划分的本地令牌桶
type RateLimiter struct {
	cfg      RateLimiterConfig
	window   time.Duration
	mu       sync.Mutex
	limiters map[string]*TokenBucket
}

// NewRateLimiter 创建限流器，非法配置项使用默认值
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRateLimiterConfig.Rate
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultRateLimiterConfig.Burst
	}
	if cfg.ExpiryTime <= 0 {
		cfg.ExpiryTime = DefaultRateLimiterConfig.ExpiryTime
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	// Redis 固定窗口：窗口内最多 Burst 次，窗口长度为令牌桶从空到满的时间
	window := time.Duration(float64(cfg.Burst) / cfg.Rate * float64(time.Second))
	if window < time.Second {
		window = time.Second
	}

	return &RateLimiter{
		cfg:      cfg,
		window:   window,
		limiters: make(map[string]*TokenBucket),
	}
}

func (l *RateLimiter) local(key string) *TokenBucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, exists := l.limiters[key]
	if !exists {
		limiter = NewTokenBucket(l.cfg.Rate, l.cfg.Burst)
		l.limiters[key] = limiter
	}
	return limiter
}

// Allow 判断 key 的本次请求是否放行
func (l *RateLimiter) Allow(ctx context.Context, key string) bool {
	if l.cfg.Redis != nil {
		allowed, _, err := l.cfg.Redis.Allow(ctx, key, l.cfg.Burst, l.window)
		if err == nil {
			return allowed
		}
		l.cfg.Logger.Warn("redis rate limit failed, using local bucket", zap.Error(err))
	}
	return l.local(key).Allow()
}

// Cleanup 回收空闲超过 ExpiryTime 的本地限流器，返回回收数量
func (l *RateLimiter) Cleanup(now time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, limiter := range l.limiters {
		if limiter.idleSince(now) > l.cfg.ExpiryTime {
			delete(l.limiters, key)
			removed++
		}
	}
	return removed
}

// Run 定期清理，直到 ctx 结束
func (l *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.ExpiryTime)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.Cleanup(now)
		}
	}
}

// Middleware 返回 gin 中间件
func (l *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.Allow(c.Request.Context(), l.cfg.KeyFunc(c)) {
			response.TooManyRequests(c)
			c.Abort()
			return
		}
		c.Next()
	}
}
