package services

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

func TestRedisService_UnreachableReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	svc := NewRedisServiceWithClient(client)
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.Error(t, svc.Ping(ctx))
	allowed, count, err := svc.Allow(ctx, "127.0.0.1", 10, time.Second)
	assert.Error(t, err)
	assert.False(t, allowed)
	assert.Zero(t, count)
}
