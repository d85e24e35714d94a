package lock

import (
	"time"

	"github.com/sakmfg/backoffice/internal/infrastructure/config"
)

func redisUnreachableConfig() config.RedisConfig {
	return config.RedisConfig{
		Host: "127.0.0.1",
		Port: 1, // nothing listens here
	}
}

func lockTestConfig() config.LockConfig {
	return config.LockConfig{
		TTL:           time.Second,
		RetryInterval: 10 * time.Millisecond,
		WaitTimeout:   200 * time.Millisecond,
	}
}
