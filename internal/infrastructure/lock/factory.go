package lock

import (
	appreceiving "github.com/sakmfg/backoffice/internal/application/receiving"
	"github.com/sakmfg/backoffice/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Factory creates receipt lockers based on configuration
type Factory struct {
	redisConfig   config.RedisConfig
	lockConfig    config.LockConfig
	logger        *zap.Logger
	allowFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to the in-process lock
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *Factory) {
		f.allowFallback = allow
	}
}

// NewFactory creates a new lock factory
func NewFactory(redisCfg config.RedisConfig, lockCfg config.LockConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:   redisCfg,
		lockConfig:    lockCfg,
		logger:        zap.NewNop(),
		allowFallback: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// CreateLocker tries Redis first and falls back to the in-process lock when
// Redis is unavailable and fallback is allowed
func (f *Factory) CreateLocker() (appreceiving.ReceiptLocker, error) {
	locker, err := NewRedisReceiptLock(f.redisConfig, f.lockConfig)
	if err == nil {
		f.logger.Info("using Redis receipt lock")
		return locker, nil
	}

	if !f.allowFallback {
		return nil, err
	}

	f.logger.Warn("Redis unavailable, falling back to in-process receipt lock. "+
		"Concurrent dispositions from other instances are not serialized.",
		zap.Error(err))
	return NewInMemoryReceiptLock(), nil
}
