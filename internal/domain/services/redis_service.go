package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"org-directory-service/internal/infrastructure/config"
)

// InterfaceRedisService defines the Redis service interface
type InterfaceRedisService interface {
	Ping(ctx context.Context) error
	// Allow 固定窗口计数，返回本次请求是否放行以及窗口内已用次数
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error)
	Close() error
}

// RedisService handles Redis operations
type RedisService struct {
	Client *redis.Client
	prefix string
}

// NewRedisService creates a new Redis service
func NewRedisService(cfg *config.Config) InterfaceRedisService {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.RedisPassword,
		DB:           cfg.RedisDB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	return NewRedisServiceWithClient(client)
}

// NewRedisServiceWithClient 使用已有客户端
func NewRedisServiceWithClient(client *redis.Client) *RedisService {
	return &RedisService{Client: client, prefix: "org-directory:ratelimit:"}
}

// 1 Ping 检查 Redis 是否可达
func (s *RedisService) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx).Err()
}

// 2 Allow 对 key 做固定窗口限流
func (s *RedisService) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, int64, error) {
	bucket := time.Now().UnixNano() / int64(window)
	fullKey := fmt.Sprintf("%s%s:%d", s.prefix, key, bucket)

	var incr *redis.IntCmd
	_, err := s.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, fullKey)
		pipe.Expire(ctx, fullKey, window)
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	count := incr.Val()
	return count <= int64(limit), count, nil
}

// 3 Close 关闭连接
func (s *RedisService) Close() error {
	return s.Client.Close()
}
