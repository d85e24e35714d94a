// Package lock serializes mutating operations per receipt. QC disposition,
// identifier issuance and debit-note generation share idempotency guards
// that must not race, so every such sequence runs under its receipt's lock.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	appconfig "github.com/sakmfg/backoffice/internal/infrastructure/config"
)

// RedisReceiptLock implements a distributed per-receipt lock on Redis.
// Suitable for multi-instance deployments that share one Redis.
type RedisReceiptLock struct {
	client        *redis.Client
	keyPrefix     string
	ttl           time.Duration
	retryInterval time.Duration
	waitTimeout   time.Duration
}

// NewRedisReceiptLock creates a Redis-backed per-receipt lock
func NewRedisReceiptLock(redisCfg appconfig.RedisConfig, lockCfg appconfig.LockConfig) (*RedisReceiptLock, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     redisCfg.Addr(),
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisReceiptLockWithClient(client, lockCfg), nil
}

// NewRedisReceiptLockWithClient creates a lock with an existing Redis client.
// Useful for testing or when sharing a client across components.
func NewRedisReceiptLockWithClient(client *redis.Client, lockCfg appconfig.LockConfig) *RedisReceiptLock {
	return &RedisReceiptLock{
		client:        client,
		keyPrefix:     "receipt:lock:",
		ttl:           lockCfg.TTL,
		retryInterval: lockCfg.RetryInterval,
		waitTimeout:   lockCfg.WaitTimeout,
	}
}

// Acquire blocks until the receipt's lock is held or the wait timeout passes.
// SETNX with a TTL makes the claim atomic; the token guards against releasing
// a lock that expired and was reacquired by someone else.
func (l *RedisReceiptLock) Acquire(ctx context.Context, tenantID, receiptID uuid.UUID) (func(), error) {
	key := fmt.Sprintf("%s%s:%s", l.keyPrefix, tenantID, receiptID)
	token := uuid.NewString()

	deadline := time.Now().Add(l.waitTimeout)
	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire receipt lock: %w", err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("timed out waiting for receipt lock %s", receiptID)
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retryInterval):
		}
	}

	release := func() {
		// release only if we still own the lock
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		l.client.Eval(releaseCtx, `
			if redis.call("get", KEYS[1]) == ARGV[1] then
				return redis.call("del", KEYS[1])
			end
			return 0
		`, []string{key}, token)
	}
	return release, nil
}

// Close closes the Redis client
func (l *RedisReceiptLock) Close() error {
	return l.client.Close()
}
